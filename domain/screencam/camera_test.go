package screencam

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/soocke/snapcrop-go/domain/capture"
	"github.com/soocke/snapcrop-go/domain/crop"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// gradient returns a grab func whose left column is red and the rest blue.
func gradient() GrabFunc {
	return func(r image.Rectangle) (*image.RGBA, error) {
		img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				c := color.RGBA{0, 0, 255, 255}
				if x == 0 {
					c = color.RGBA{255, 0, 0, 255}
				}
				img.SetRGBA(x, y, c)
			}
		}
		return img, nil
	}
}

// halves returns a grab func whose left half is red and right half blue.
func halves() GrabFunc {
	return func(r image.Rectangle) (*image.RGBA, error) {
		img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				c := color.RGBA{0, 0, 255, 255}
				if x < r.Dx()/2 {
					c = color.RGBA{255, 0, 0, 255}
				}
				img.SetRGBA(x, y, c)
			}
		}
		return img, nil
	}
}

func testCamera() *Camera {
	return New(Options{
		FrameRate: 100,
		Grab:      gradient(),
		Screen:    func() (image.Rectangle, error) { return image.Rect(0, 0, 64, 48), nil },
	}, discardLogger)
}

func startController(t *testing.T, cam *Camera) *capture.Controller {
	t.Helper()
	c := capture.NewController(cam.Hardware(), capture.Options{Facing: capture.FacingBack}, discardLogger)
	t.Cleanup(c.Close)
	_ = c.Sync()
	if c.Status() != capture.StatusConfigured {
		t.Fatalf("status %v err %v", c.Status(), c.State().Err)
	}
	return c
}

func waitFor(t *testing.T, what string, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
}

func TestCamera_StreamsFrames(t *testing.T) {
	cam := testCamera()
	c := startController(t, cam)
	var mu sync.Mutex
	var got []capture.Frame
	c.Frames().Attach(func(f capture.Frame) {
		mu.Lock()
		got = append(got, f)
		mu.Unlock()
	}, nil)
	waitFor(t, "frames", time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 3
	})
	mu.Lock()
	f := got[0]
	mu.Unlock()
	if b := f.Image.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("frame size %v", b)
	}
	c.ToggleStreaming()
	if cam.Session.Running() {
		t.Fatalf("session still running after pause")
	}
}

func TestCamera_PhotoIsJPEG(t *testing.T) {
	cam := testCamera()
	c := startController(t, cam)
	co := capture.NewCoordinator(c, capture.CoordinatorOptions{RecordingsDir: t.TempDir()}, discardLogger)
	data, err := co.CapturePhoto().Await(context.Background(), capture.DefaultBoundedWait)
	if err != nil {
		t.Fatalf("photo: %v", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("photo size %v", b)
	}
}

func TestCamera_RecordingWritesFile(t *testing.T) {
	cam := testCamera()
	c := startController(t, cam)
	dir := t.TempDir()
	co := capture.NewCoordinator(c, capture.CoordinatorOptions{RecordingsDir: dir}, discardLogger)
	req := co.StartRecording()
	time.Sleep(100 * time.Millisecond)
	co.StopRecording()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	path, err := req.Await(ctx)
	if err != nil {
		t.Fatalf("recording: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("path %q outside %q", path, dir)
	}
	fi, err := os.Stat(path)
	if err != nil || fi.Size() == 0 {
		t.Fatalf("recording file size err=%v", err)
	}
}

func TestCamera_FrontFacingMirrored(t *testing.T) {
	cam := testCamera()
	c := capture.NewController(cam.Hardware(), capture.Options{Facing: capture.FacingFront, MirrorVideo: true}, discardLogger)
	t.Cleanup(c.Close)
	frames := make(chan capture.Frame, 1)
	c.Frames().Attach(func(f capture.Frame) {
		select {
		case frames <- f:
		default:
		}
	}, nil)
	select {
	case f := <-frames:
		if f.Facing != capture.FacingFront {
			t.Fatalf("facing %v", f.Facing)
		}
		r, _, _, _ := f.Image.At(63, 0).RGBA()
		if r>>8 != 255 {
			t.Fatalf("right column not red after mirroring")
		}
	case <-time.After(time.Second):
		t.Fatalf("no frame")
	}
}

func TestOrient(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	if b := orient(img, 90, false).Bounds(); b.Dx() != 2 || b.Dy() != 4 {
		t.Fatalf("rotate 90 bounds %v", b)
	}
	if b := orient(img, 180, true).Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("rotate 180 bounds %v", b)
	}
}

func TestFinder_NoScreen(t *testing.T) {
	f := NewFinder(func() (image.Rectangle, error) { return image.Rectangle{}, nil })
	if _, ok := f.DefaultDevice(capture.FacingBack); ok {
		t.Fatalf("device found on empty screen")
	}
}

func TestNodeAuthorizer(t *testing.T) {
	a := &NodeAuthorizer{}
	if a.Status() != capture.AuthGranted {
		t.Fatalf("empty path not granted")
	}
	dir := t.TempDir()
	node := filepath.Join(dir, "video0")
	if err := os.WriteFile(node, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if (&NodeAuthorizer{Path: node}).Status() != capture.AuthGranted {
		t.Fatalf("readable node not granted")
	}
	missing := filepath.Join(dir, "video9")
	if got := (&NodeAuthorizer{Path: missing}).Status(); got != capture.AuthUnknown && got != capture.AuthGranted {
		t.Fatalf("missing node status %v", got)
	}
	asked := &NodeAuthorizer{Path: missing, Prompt: func(context.Context) (bool, error) { return true, nil }}
	if got := asked.Status(); got != capture.AuthNotDetermined && got != capture.AuthGranted {
		t.Fatalf("prompted status %v", got)
	}
	if ok, err := asked.RequestAccess(context.Background()); !ok || err != nil {
		t.Fatalf("request ok=%v err=%v", ok, err)
	}
	if asked.Status() != capture.AuthGranted {
		t.Fatalf("answer not remembered")
	}
}

func TestCamera_RotatedPhotoCropsWhatPreviewShows(t *testing.T) {
	cam := New(Options{
		FrameRate: 100,
		Grab:      halves(),
		Screen:    func() (image.Rectangle, error) { return image.Rect(0, 0, 64, 48), nil },
	}, discardLogger)
	c := capture.NewController(cam.Hardware(), capture.Options{Facing: capture.FacingBack, Rotation: 90}, discardLogger)
	t.Cleanup(c.Close)
	_ = c.Sync()
	if c.Status() != capture.StatusConfigured {
		t.Fatalf("status %v err %v", c.Status(), c.State().Err)
	}

	frames := make(chan capture.Frame, 1)
	c.Frames().Attach(func(f capture.Frame) {
		select {
		case frames <- f:
		default:
		}
	}, nil)
	select {
	case f := <-frames:
		if b := f.Image.Bounds(); b.Dx() != 48 || b.Dy() != 64 {
			t.Fatalf("preview size %v", b)
		}
		r, _, b, _ := f.Image.At(24, 10).RGBA()
		if r>>8 != 255 || b>>8 != 0 {
			t.Fatalf("preview top half not red")
		}
	case <-time.After(time.Second):
		t.Fatalf("no frame")
	}

	co := capture.NewCoordinator(c, capture.CoordinatorOptions{RecordingsDir: t.TempDir()}, discardLogger)
	data, err := co.CapturePhoto().Await(context.Background(), capture.DefaultBoundedWait)
	if err != nil {
		t.Fatalf("photo: %v", err)
	}
	view := crop.Size{W: 48, H: 64}
	res, err := crop.CropToView(data, crop.Rect{X: 0, Y: 0, W: 48, H: 32}, view, crop.Options{})
	if err != nil {
		t.Fatalf("crop: %v", err)
	}
	if res.Pixels != image.Rect(0, 0, 48, 32) {
		t.Fatalf("crop pixels %v", res.Pixels)
	}
	img, err := crop.Decode(res.Data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for y := 0; y < 28; y += 4 {
		for x := 0; x < 48; x += 4 {
			r, _, b, _ := img.At(x, y).RGBA()
			if r>>8 < 200 || b>>8 > 60 {
				t.Fatalf("pixel %d,%d r=%d b=%d, want red", x, y, r>>8, b>>8)
			}
		}
	}
}
