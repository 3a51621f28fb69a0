package crop

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
)

func TestImageCropRect_Scales(t *testing.T) {
	got := ImageCropRect(Rect{X: 50, Y: 50, W: 300, H: 300}, Size{W: 1200, H: 1600}, Size{W: 400, H: 800})
	want := image.Rect(150, 100, 1050, 700)
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestImageCropRect_Clamped(t *testing.T) {
	img := Size{W: 640, H: 480}
	view := Size{W: 320, H: 240}
	got := ImageCropRect(Rect{X: -20, Y: 200, W: 300, H: 300}, img, view)
	want := image.Rect(0, 400, 560, 480)
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestImageCropRect_AlwaysInside(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 3000; i++ {
		img := Size{W: float64(1 + r.Intn(4000)), H: float64(1 + r.Intn(4000))}
		view := Size{W: float64(1 + r.Intn(1000)), H: float64(1 + r.Intn(1000))}
		ui := Rect{X: r.Float64()*2000 - 1000, Y: r.Float64()*2000 - 1000, W: r.Float64() * 1500, H: r.Float64() * 1500}
		got := ImageCropRect(ui, img, view)
		if got.Empty() {
			continue
		}
		bounds := image.Rect(0, 0, int(img.W), int(img.H))
		if !got.In(bounds) {
			t.Fatalf("rect %v escapes %v (ui=%v view=%v)", got, bounds, ui, view)
		}
	}
}

func TestImageCropRect_OutsideIsEmpty(t *testing.T) {
	if got := ImageCropRect(Rect{X: 500, Y: 10, W: 120, H: 120}, Size{W: 100, H: 100}, Size{W: 100, H: 100}); !got.Empty() {
		t.Fatalf("expected empty, got %v", got)
	}
	if got := ImageCropRect(DefaultRect, Size{W: 100, H: 100}, Size{}); !got.Empty() {
		t.Fatalf("zero view should give empty, got %v", got)
	}
}

func TestMirrorX(t *testing.T) {
	got := MirrorX(Rect{X: 10, Y: 5, W: 100, H: 120}, Size{W: 400, H: 300})
	if got != (Rect{X: 290, Y: 5, W: 100, H: 120}) {
		t.Fatalf("mirror got %v", got)
	}
}

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestCrop_Dimensions(t *testing.T) {
	src := testJPEG(t, 200, 100)
	out, err := Crop(src, image.Rect(10, 20, 110, 70), Options{})
	if err != nil {
		t.Fatalf("crop: %v", err)
	}
	img, err := Decode(out)
	if err != nil {
		t.Fatalf("decode cropped: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("cropped size %dx%d", b.Dx(), b.Dy())
	}
}

func TestCrop_Degenerate(t *testing.T) {
	src := testJPEG(t, 64, 64)
	if _, err := Crop(src, image.Rect(100, 100, 120, 120), Options{}); !errors.Is(err, ErrEmptyCrop) {
		t.Fatalf("expected ErrEmptyCrop, got %v", err)
	}
	if _, err := Crop(src, image.Rectangle{}, Options{}); !errors.Is(err, ErrEmptyCrop) {
		t.Fatalf("expected ErrEmptyCrop for zero rect, got %v", err)
	}
}

func TestCrop_UndecodableInput(t *testing.T) {
	if _, err := Crop([]byte("not an image"), image.Rect(0, 0, 10, 10), Options{}); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestCropToView_MapsAndMirrors(t *testing.T) {
	src := testJPEG(t, 400, 400)
	view := Size{W: 200, H: 200}
	res, err := CropToView(src, Rect{X: 0, Y: 0, W: 100, H: 50}, view, Options{})
	if err != nil {
		t.Fatalf("crop: %v", err)
	}
	if res.Pixels != image.Rect(0, 0, 200, 100) {
		t.Fatalf("pixels %v", res.Pixels)
	}
	res, err = CropToView(src, Rect{X: 0, Y: 0, W: 100, H: 50}, view, Options{Mirrored: true})
	if err != nil {
		t.Fatalf("mirrored crop: %v", err)
	}
	if res.Pixels != image.Rect(200, 0, 400, 100) {
		t.Fatalf("mirrored pixels %v", res.Pixels)
	}
}

func TestCropToView_WebP(t *testing.T) {
	src := testJPEG(t, 120, 120)
	res, err := CropToView(src, Rect{X: 10, Y: 10, W: 100, H: 100}, Size{W: 120, H: 120}, Options{Format: FormatWebP, Quality: 80})
	if err != nil {
		t.Fatalf("crop: %v", err)
	}
	img, err := Decode(res.Data)
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("webp size %v", b)
	}
}

func TestCrop_WebPInput(t *testing.T) {
	src, err := Encode(imaging.New(80, 60, color.NRGBA{0, 128, 255, 255}), Options{Format: FormatWebP})
	if err != nil {
		t.Fatalf("encode webp: %v", err)
	}
	out, err := Crop(src, image.Rect(10, 10, 50, 40), Options{})
	if err != nil {
		t.Fatalf("crop webp input: %v", err)
	}
	img, err := Decode(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("size %v", b)
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("WebP") != FormatWebP || ParseFormat("jpg") != FormatJPEG || ParseFormat("") != FormatJPEG {
		t.Fatalf("unexpected format parse")
	}
}
