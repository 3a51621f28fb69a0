package screencam

import (
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vova616/screenshot"

	"github.com/soocke/snapcrop-go/domain/capture"
)

// GrabFunc captures a rectangle of the screen.
type GrabFunc func(r image.Rectangle) (*image.RGBA, error)

// Session grabs the attached display at a fixed rate while running and fans
// frames out to the video and movie outputs.
type Session struct {
	grab     GrabFunc
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	inputs  []capture.Input
	outputs []capture.Output
	stop    chan struct{}
	done    chan struct{}

	running  atomic.Bool
	sequence atomic.Uint64
	grabs    atomic.Uint64
	skipped  atomic.Uint64
}

func newSession(grab GrabFunc, fps int, logger *slog.Logger) *Session {
	if grab == nil {
		grab = screenshot.CaptureRect
	}
	if fps <= 0 {
		fps = 15
	}
	return &Session{grab: grab, interval: time.Second / time.Duration(fps), logger: logger}
}

func (s *Session) BeginConfiguration()  { s.mu.Lock() }
func (s *Session) CommitConfiguration() { s.mu.Unlock() }

// The mutators below run between Begin and CommitConfiguration, so they do
// not take the lock themselves.

func (s *Session) CanAddInput(in capture.Input) bool {
	_, ok := in.(*displayInput)
	return ok && len(s.inputs) == 0
}

func (s *Session) AddInput(in capture.Input) { s.inputs = append(s.inputs, in) }

func (s *Session) RemoveInput(in capture.Input) {
	for i, v := range s.inputs {
		if v == in {
			s.inputs = append(s.inputs[:i], s.inputs[i+1:]...)
			return
		}
	}
}

func (s *Session) Inputs() []capture.Input { return append([]capture.Input(nil), s.inputs...) }

func (s *Session) CanAddOutput(out capture.Output) bool {
	for _, o := range s.outputs {
		if o == out {
			return false
		}
	}
	switch out.(type) {
	case *PhotoOutput, *MovieOutput, *VideoOutput:
		return true
	}
	return false
}

func (s *Session) AddOutput(out capture.Output) { s.outputs = append(s.outputs, out) }

func (s *Session) Running() bool { return s.running.Load() }

func (s *Session) StartRunning() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()
	go s.loop(stop, done)
}

// StopRunning returns after the grab loop has exited.
func (s *Session) StopRunning() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.mu.Unlock()
	close(stop)
	<-done
}

// current returns the attached display and the outputs, or nil when no input
// is attached.
func (s *Session) current() (*Display, []capture.Output) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.inputs) == 0 {
		return nil, nil
	}
	in, ok := s.inputs[0].(*displayInput)
	if !ok {
		return nil, nil
	}
	return in.d, append([]capture.Output(nil), s.outputs...)
}

// Snapshot grabs one unmirrored frame from the attached display. It works
// whether or not the session is running.
func (s *Session) Snapshot() (capture.Frame, error) {
	disp, _ := s.current()
	if disp == nil {
		return capture.Frame{}, errNoInput
	}
	return s.grabFrame(disp)
}

func (s *Session) grabFrame(disp *Display) (capture.Frame, error) {
	img, err := s.grab(disp.rect)
	if err != nil {
		s.skipped.Add(1)
		return capture.Frame{}, err
	}
	s.grabs.Add(1)
	return capture.Frame{
		Image:      img,
		CapturedAt: time.Now(),
		Sequence:   s.sequence.Add(1),
		Facing:     disp.facing,
	}, nil
}

func (s *Session) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	logTicker := time.NewTicker(statsLogInterval)
	defer logTicker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-logTicker.C:
			s.logStats()
		case <-ticker.C:
			disp, outputs := s.current()
			if disp == nil {
				continue
			}
			f, err := s.grabFrame(disp)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("screencam.grab", "error", err)
				}
				continue
			}
			for _, o := range outputs {
				if sink, ok := o.(frameSink); ok {
					sink.consume(f)
				}
			}
		}
	}
}

func (s *Session) logStats() {
	if s.logger == nil {
		return
	}
	s.logger.Debug("screencam.stats",
		"grabs", s.grabs.Load(),
		"skipped", s.skipped.Load(),
		"sequence", s.sequence.Load(),
	)
}

const statsLogInterval = 5 * time.Second
