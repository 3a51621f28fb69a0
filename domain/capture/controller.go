package capture

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Options configures a Controller.
type Options struct {
	Facing      Facing
	Rotation    int
	MirrorVideo bool
}

// DefaultOptions matches a portrait phone preview: back camera, rotated 90 and mirrored.
func DefaultOptions() Options {
	return Options{Facing: FacingBack, Rotation: 90, MirrorVideo: true}
}

// Controller owns the hardware session. All session mutations run on its
// configuration queue; the fields below marked queue-owned are only touched there.
type Controller struct {
	hw     Hardware
	opts   Options
	logger *slog.Logger
	q      *Queue
	pub    *Published
	frames *Dispatcher
	stats  counters
	ctx    context.Context
	cancel context.CancelFunc

	toggleMu sync.Mutex

	// queue-owned
	status   Status
	facing   Facing
	attached map[Output]bool
}

// NewController builds the controller and queues the one automatic
// configuration attempt.
func NewController(hw Hardware, opts Options, logger *slog.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		hw:       hw,
		opts:     opts,
		logger:   logger,
		q:        NewQueue(logger),
		pub:      newPublished(State{Status: StatusUnconfigured, Facing: opts.Facing}),
		status:   StatusUnconfigured,
		facing:   opts.Facing,
		attached: map[Output]bool{},
		ctx:      ctx,
		cancel:   cancel,
	}
	c.frames = newDispatcher(c.q, hw.Session, &c.stats, func() bool { return c.status == StatusConfigured }, logger)
	_ = c.q.Async(c.configure)
	return c
}

// Status returns the published session status.
func (c *Controller) Status() Status { return c.pub.Snapshot().Status }

// Facing returns the published camera facing.
func (c *Controller) Facing() Facing { return c.pub.Snapshot().Facing }

// State returns a snapshot of all published state.
func (c *Controller) State() State { return c.pub.Snapshot() }

// Subscribe registers a listener for published state changes.
func (c *Controller) Subscribe(l Listener) (unsubscribe func()) { return c.pub.Subscribe(l) }

// Frames returns the live frame dispatcher.
func (c *Controller) Frames() *Dispatcher { return c.frames }

// Stats returns delivery and capture counters.
func (c *Controller) Stats() Stats { return c.stats.snapshot() }

// Sync waits until every operation queued before it has run.
func (c *Controller) Sync() error { return c.q.Sync(func() {}) }

// Close cancels a pending authorization prompt, stops the session and the queue.
func (c *Controller) Close() {
	c.cancel()
	_ = c.q.Async(func() {
		if c.hw.Session != nil && c.hw.Session.Running() {
			c.hw.Session.StopRunning()
		}
	})
	c.q.Close()
}

func (c *Controller) configure() {
	if !c.authorize() {
		return
	}
	c.configureSession()
	if c.status == StatusConfigured && !c.frames.Paused() {
		c.hw.Session.StartRunning()
		c.info("capture.session.started", "facing", c.facing.String())
	}
}

// authorize runs on the queue. A pending prompt blocks the queue, holding
// back all later configuration work until the user answers.
func (c *Controller) authorize() bool {
	if c.hw.Auth == nil {
		return true
	}
	status := c.hw.Auth.Status()
	switch status {
	case AuthGranted:
		return true
	case AuthNotDetermined:
		c.info("capture.auth.prompt")
		granted, err := c.hw.Auth.RequestAccess(c.ctx)
		if err != nil || !granted {
			c.fail(StatusUnauthorized, wrap(ErrAuthorizationDenied, err))
			return false
		}
		return true
	case AuthDenied:
		c.fail(StatusUnauthorized, ErrAuthorizationDenied)
	case AuthRestricted:
		c.fail(StatusUnauthorized, ErrAuthorizationRestricted)
	default:
		c.fail(StatusUnauthorized, ErrAuthorizationUnknown)
	}
	return false
}

func (c *Controller) configureSession() {
	if c.status != StatusUnconfigured {
		return
	}
	s := c.hw.Session
	s.BeginConfiguration()
	defer s.CommitConfiguration()

	if err := c.attachInput(c.facing); err != nil {
		c.fail(StatusFailed, err)
		return
	}
	if err := c.attachOutputs(); err != nil {
		c.fail(StatusFailed, err)
		return
	}
	c.hw.Video.SetFrameHandler(c.frames.deliver)
	c.hw.Video.SetOrientation(c.opts.Rotation, c.opts.MirrorVideo)
	c.setStatus(StatusConfigured)
}

func (c *Controller) attachInput(f Facing) error {
	dev, ok := c.hw.Devices.DefaultDevice(f)
	if !ok || dev == nil {
		return ErrDeviceUnavailable
	}
	in, err := c.hw.Devices.NewInput(dev)
	if err != nil {
		return wrap(ErrInputConstruction, err)
	}
	if !c.hw.Session.CanAddInput(in) {
		return ErrCannotAttachInput
	}
	c.hw.Session.AddInput(in)
	c.debug("capture.input.attached", "device", dev.ID(), "facing", f.String())
	return nil
}

// attachOutputs adds photo, movie and video outputs in that order, skipping
// any already attached.
func (c *Controller) attachOutputs() error {
	outputs := []Output{c.hw.Photo, c.hw.Movie, c.hw.Video}
	for _, out := range outputs {
		if out == nil {
			return ErrCannotAttachOutput
		}
		if c.attached[out] {
			continue
		}
		if !c.hw.Session.CanAddOutput(out) {
			return wrap(ErrCannotAttachOutput, errors.New(out.OutputName()))
		}
		c.hw.Session.AddOutput(out)
		c.attached[out] = true
	}
	return nil
}

// SwitchCamera queues a switch to the opposite camera. It is ignored unless
// the session is Configured or Failed. If the new camera cannot be attached
// the status becomes Failed and the facing stays toggled; calling
// SwitchCamera again is the way back.
func (c *Controller) SwitchCamera() {
	_ = c.q.Async(c.switchCamera)
}

func (c *Controller) switchCamera() {
	if c.status != StatusConfigured && c.status != StatusFailed {
		c.debug("capture.switch.ignored", "status", c.status.String())
		return
	}
	if !c.rewire() {
		return
	}
	c.info("capture.switch", "facing", c.facing.String())
	if s := c.hw.Session; !c.frames.Paused() && !s.Running() {
		s.StartRunning()
	}
}

// rewire swaps the input for the opposite facing inside one configuration
// transaction and reports whether the session ended up Configured.
func (c *Controller) rewire() bool {
	s := c.hw.Session
	s.BeginConfiguration()
	defer s.CommitConfiguration()

	for _, in := range s.Inputs() {
		s.RemoveInput(in)
	}
	c.facing = c.facing.Opposite()
	next := c.facing
	c.pub.update(func(st *State) { st.Facing = next })

	if err := c.attachInput(next); err != nil {
		c.fail(StatusFailed, err)
		return false
	}
	if err := c.attachOutputs(); err != nil {
		c.fail(StatusFailed, err)
		return false
	}
	c.hw.Video.SetFrameHandler(c.frames.deliver)
	c.hw.Video.SetOrientation(c.opts.Rotation, c.opts.MirrorVideo)
	c.setStatus(StatusConfigured)
	c.pub.update(func(st *State) { st.Err = nil })
	return true
}

// SetOrientation queues a change of the live video rotation and front
// mirroring. It is re-applied on every camera switch.
func (c *Controller) SetOrientation(rotation int, mirrored bool) {
	_ = c.q.Async(func() {
		c.opts.Rotation, c.opts.MirrorVideo = rotation, mirrored
		if c.hw.Video != nil && c.status == StatusConfigured {
			c.hw.Video.SetOrientation(rotation, mirrored)
		}
		c.debug("capture.orientation", "rotation", rotation, "mirrored", mirrored)
	})
}

// ToggleStreaming flips the published paused flag right away and returns the
// new value. Pausing returns after the hardware has stopped; resuming only
// queues the restart.
func (c *Controller) ToggleStreaming() bool {
	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()
	return c.setStreaming(!c.pub.Snapshot().StreamingPaused)
}

// PauseStreaming pauses if streaming. It reports whether it changed anything.
func (c *Controller) PauseStreaming() bool {
	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()
	if c.pub.Snapshot().StreamingPaused {
		return false
	}
	c.setStreaming(true)
	return true
}

// ResumeStreaming resumes if paused. It reports whether it changed anything.
func (c *Controller) ResumeStreaming() bool {
	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()
	if !c.pub.Snapshot().StreamingPaused {
		return false
	}
	c.setStreaming(false)
	return true
}

// setStreaming holds toggleMu.
func (c *Controller) setStreaming(paused bool) bool {
	c.pub.update(func(st *State) { st.StreamingPaused = paused })
	var err error
	if paused {
		err = c.frames.Pause()
	} else {
		err = c.frames.Resume()
	}
	if err != nil {
		c.warn("capture.streaming.toggle", "paused", paused, "error", err)
	}
	c.debug("capture.streaming", "paused", paused)
	return paused
}

// setStatus runs on the queue.
func (c *Controller) setStatus(next Status) {
	prev := c.status
	c.status = next
	c.pub.update(func(st *State) { st.Status = next })
	if prev != next {
		c.info("capture.status", "from", prev.String(), "to", next.String())
	}
}

// fail runs on the queue.
func (c *Controller) fail(next Status, err error) {
	c.pub.update(func(st *State) { st.Err = err })
	c.setStatus(next)
	c.warn("capture.configure.failed", "status", next.String(), "error", err)
}

func (c *Controller) info(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Info(msg, args...)
	}
}

func (c *Controller) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Controller) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
