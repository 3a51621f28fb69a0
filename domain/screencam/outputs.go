package screencam

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"

	"github.com/soocke/snapcrop-go/domain/capture"
)

var (
	errNoInput          = errors.New("screencam: no display attached")
	errAlreadyRecording = errors.New("screencam: already recording")
)

// frameSink is implemented by outputs fed from the session loop.
type frameSink interface{ consume(f capture.Frame) }

// VideoOutput hands live frames to the registered handler, rotated and, for
// the front facing, mirrored.
type VideoOutput struct {
	mu       sync.Mutex
	handler  capture.FrameHandler
	rotation int
	mirrored bool
}

func (v *VideoOutput) OutputName() string { return "video" }

func (v *VideoOutput) SetFrameHandler(h capture.FrameHandler) {
	v.mu.Lock()
	v.handler = h
	v.mu.Unlock()
}

func (v *VideoOutput) SetOrientation(rotation int, mirrored bool) {
	v.mu.Lock()
	v.rotation, v.mirrored = rotation, mirrored
	v.mu.Unlock()
}

// Orientation returns the rotation and front mirroring applied to live frames.
func (v *VideoOutput) Orientation() (rotation int, mirrored bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rotation, v.mirrored
}

func (v *VideoOutput) consume(f capture.Frame) {
	v.mu.Lock()
	h, rotation, mirrored := v.handler, v.rotation, v.mirrored
	v.mu.Unlock()
	if h == nil {
		return
	}
	f.Image = orient(f.Image, rotation, mirrored && f.Facing == capture.FacingFront)
	h(f)
}

// orient rotates img clockwise by rotation degrees (multiples of 90) and
// optionally flips it horizontally.
func orient(img image.Image, rotation int, mirror bool) image.Image {
	switch ((rotation % 360) + 360) % 360 {
	case 90:
		img = imaging.Rotate270(img)
	case 180:
		img = imaging.Rotate180(img)
	case 270:
		img = imaging.Rotate90(img)
	}
	if mirror {
		img = imaging.FlipH(img)
	}
	return img
}

// PhotoOutput encodes a single grab as JPEG. Stills get the live frames'
// rotation so a crop box drawn over the preview lands on the same pixels.
// Mirroring is left to the crop, which flips the box instead.
type PhotoOutput struct {
	session *Session
	video   *VideoOutput
	quality int
}

func (p *PhotoOutput) OutputName() string { return "photo" }

// CapturePhoto grabs and encodes on its own goroutine and calls done once.
// PrioritizeSpeed trades quality for encode time.
func (p *PhotoOutput) CapturePhoto(settings capture.PhotoSettings, done capture.PhotoCallback) {
	quality := p.quality
	if settings.PrioritizeSpeed && quality > 80 {
		quality = 80
	}
	go func() {
		f, err := p.session.Snapshot()
		if err != nil {
			done(nil, err)
			return
		}
		if p.video != nil {
			rotation, _ := p.video.Orientation()
			f.Image = orient(f.Image, rotation, false)
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, f.Image, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			done(nil, err)
			return
		}
		done(buf.Bytes(), nil)
	}()
}

// MovieOutput writes frames to a file as a Motion-JPEG stream.
type MovieOutput struct {
	quality int
	logger  *slog.Logger

	mu      sync.Mutex
	file    *os.File
	path    string
	done    capture.RecordingCallback
	err     error
	frames  int
	written uint64
}

func (m *MovieOutput) OutputName() string { return "movie" }

func (m *MovieOutput) StartRecording(path string, done capture.RecordingCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file != nil {
		go done(path, errAlreadyRecording)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		go done(path, err)
		return
	}
	m.file, m.path, m.done = f, path, done
	m.err, m.frames, m.written = nil, 0, 0
}

func (m *MovieOutput) StopRecording() {
	m.mu.Lock()
	f, path, done, err := m.file, m.path, m.done, m.err
	frames, written := m.frames, m.written
	m.file, m.done = nil, nil
	m.mu.Unlock()
	if f == nil {
		return
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if m.logger != nil {
		m.logger.Debug("screencam.movie.closed", "path", path, "frames", frames, "size", humanize.Bytes(written))
	}
	go done(path, err)
}

func (m *MovieOutput) Recording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.file != nil
}

func (m *MovieOutput) consume(f capture.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil || m.err != nil {
		return
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, f.Image, imaging.JPEG, imaging.JPEGQuality(m.quality)); err != nil {
		m.err = err
		return
	}
	n, err := m.file.Write(buf.Bytes())
	m.written += uint64(n)
	if err != nil {
		m.err = err
		return
	}
	m.frames++
}
