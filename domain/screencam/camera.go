// Package screencam is a capture backend that treats the desktop display as
// a camera: frames are screen grabs, photos are JPEG stills and recordings
// are Motion-JPEG streams.
package screencam

import (
	"log/slog"

	"github.com/soocke/snapcrop-go/domain/capture"
)

// Options configures a Camera.
type Options struct {
	FrameRate int
	Quality   int
	AuthNode  string
	Grab      GrabFunc
	Screen    ScreenRectFunc
}

// Camera bundles the display-backed session and its outputs.
type Camera struct {
	Auth    capture.Authorizer
	Finder  *Finder
	Session *Session
	Photo   *PhotoOutput
	Movie   *MovieOutput
	Video   *VideoOutput
}

// New builds a Camera. Nothing runs until the session is started.
func New(opts Options, logger *slog.Logger) *Camera {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 90
	}
	s := newSession(opts.Grab, opts.FrameRate, logger)
	video := &VideoOutput{}
	return &Camera{
		Auth:    &NodeAuthorizer{Path: opts.AuthNode},
		Finder:  NewFinder(opts.Screen),
		Session: s,
		Photo:   &PhotoOutput{session: s, video: video, quality: opts.Quality},
		Movie:   &MovieOutput{quality: opts.Quality, logger: logger},
		Video:   video,
	}
}

// Hardware exposes the camera through the capture hardware boundary.
func (c *Camera) Hardware() capture.Hardware {
	return capture.Hardware{
		Auth:    c.Auth,
		Devices: c.Finder,
		Session: c.Session,
		Photo:   c.Photo,
		Movie:   c.Movie,
		Video:   c.Video,
	}
}
