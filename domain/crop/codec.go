package crop

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// DefaultQuality is the re-encode quality for cropped stills.
const DefaultQuality = 90

var (
	ErrDecode    = errors.New("crop: cannot decode image")
	ErrEmptyCrop = errors.New("crop: empty crop rectangle")
	ErrEncode    = errors.New("crop: cannot encode image")
)

// Format selects the output encoding of a crop.
type Format int

const (
	FormatJPEG Format = iota
	FormatWebP
)

// ParseFormat maps "jpeg"/"jpg"/"webp" to a Format; anything else is JPEG.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "webp":
		return FormatWebP
	default:
		return FormatJPEG
	}
}

func (f Format) String() string {
	if f == FormatWebP {
		return "webp"
	}
	return "jpeg"
}

// Options controls how a crop is encoded and whether the UI rect is mirrored.
type Options struct {
	Format   Format
	Quality  int
	Mirrored bool
}

func (o Options) quality() int {
	if o.Quality <= 0 || o.Quality > 100 {
		return DefaultQuality
	}
	return o.Quality
}

// Result is a finished crop.
type Result struct {
	Data   []byte
	Pixels image.Rectangle
	Format Format
}

// Decode reads JPEG, PNG or WebP bytes. EXIF orientation is applied to the
// pixels so that later crops match what the user saw. WebP input is decoded by
// golang.org/x/image/webp through the image format registry; chai2010/webp is
// only used to encode.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}

// Crop decodes data, crops it to r clamped to the image, and re-encodes it.
func Crop(data []byte, r image.Rectangle, opts Options) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return cropImage(img, r, opts)
}

// CropToView crops data to the region under ui, a rectangle drawn over a
// preview of size view.
func CropToView(data []byte, ui Rect, view Size, opts Options) (Result, error) {
	img, err := Decode(data)
	if err != nil {
		return Result{}, err
	}
	if opts.Mirrored {
		ui = MirrorX(ui, view)
	}
	r := ImageCropRect(ui, SizeOf(img.Bounds()), view).Add(img.Bounds().Min)
	out, err := cropImage(img, r, opts)
	if err != nil {
		return Result{}, err
	}
	return Result{Data: out, Pixels: r, Format: opts.Format}, nil
}

func cropImage(img image.Image, r image.Rectangle, opts Options) ([]byte, error) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, ErrEmptyCrop
	}
	return Encode(imaging.Crop(img, r), opts)
}

// Encode writes img in the requested format.
func Encode(img image.Image, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch opts.Format {
	case FormatWebP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: float32(opts.quality())})
	default:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(opts.quality()))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}
