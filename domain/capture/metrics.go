package capture

import (
	"sync/atomic"
	"time"
)

// Stats summarises frame delivery and capture outcomes for instrumentation.
type Stats struct {
	FramesDelivered uint64
	FramesDropped   uint64
	Photos          uint64
	PhotoFailures   uint64
	Recordings      uint64
	AvgPhotoLatency time.Duration
	LastFrame       time.Time
	LatestFrameAge  time.Duration
	Sequence        uint64
}

type counters struct {
	delivered     atomic.Uint64
	dropped       atomic.Uint64
	photos        atomic.Uint64
	photoFailures atomic.Uint64
	photoNanos    atomic.Uint64
	recordings    atomic.Uint64
	lastFrame     atomic.Int64
	sequence      atomic.Uint64
}

func (c *counters) frame(f Frame) {
	c.delivered.Add(1)
	c.sequence.Store(f.Sequence)
	c.lastFrame.Store(f.CapturedAt.UnixNano())
}

func (c *counters) photo(latency time.Duration, err error) {
	if err != nil {
		c.photoFailures.Add(1)
		return
	}
	c.photos.Add(1)
	c.photoNanos.Add(uint64(latency.Nanoseconds()))
}

func (c *counters) snapshot() Stats {
	s := Stats{
		FramesDelivered: c.delivered.Load(),
		FramesDropped:   c.dropped.Load(),
		Photos:          c.photos.Load(),
		PhotoFailures:   c.photoFailures.Load(),
		Recordings:      c.recordings.Load(),
		Sequence:        c.sequence.Load(),
	}
	if s.Photos > 0 {
		s.AvgPhotoLatency = time.Duration(c.photoNanos.Load() / s.Photos)
	}
	if ns := c.lastFrame.Load(); ns != 0 {
		s.LastFrame = time.Unix(0, ns)
		s.LatestFrameAge = time.Since(s.LastFrame)
	}
	return s
}
