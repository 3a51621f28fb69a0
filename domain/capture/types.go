package capture

import (
	"image"
	"strings"
	"time"
)

// Status is the lifecycle state of a capture session.
type Status int32

const (
	StatusUnconfigured Status = iota
	StatusConfigured
	StatusUnauthorized
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUnconfigured:
		return "unconfigured"
	case StatusConfigured:
		return "configured"
	case StatusUnauthorized:
		return "unauthorized"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Facing selects the physical camera.
type Facing int

const (
	FacingBack Facing = iota
	FacingFront
)

func (f Facing) String() string {
	if f == FacingFront {
		return "front"
	}
	return "back"
}

// Opposite returns the other camera.
func (f Facing) Opposite() Facing {
	if f == FacingFront {
		return FacingBack
	}
	return FacingFront
}

// ParseFacing maps "front" to FacingFront and anything else to FacingBack.
func ParseFacing(s string) Facing {
	if strings.EqualFold(strings.TrimSpace(s), "front") {
		return FacingFront
	}
	return FacingBack
}

// Frame is one live video frame.
type Frame struct {
	Image      image.Image
	CapturedAt time.Time
	Sequence   uint64
	Facing     Facing
}

// State is a snapshot of everything the session publishes to the UI.
type State struct {
	Status          Status
	Err             error
	Facing          Facing
	StreamingPaused bool
	Recording       bool
	Photo           []byte
	MovieURL        string
}
