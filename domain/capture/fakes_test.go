package capture

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type fakeAuth struct {
	status  Authorization
	grant   bool
	release chan struct{} // RequestAccess blocks until closed when non-nil
	mu      sync.Mutex
	asked   int
}

func (a *fakeAuth) Status() Authorization { return a.status }

func (a *fakeAuth) RequestAccess(ctx context.Context) (bool, error) {
	a.mu.Lock()
	a.asked++
	a.mu.Unlock()
	if a.release != nil {
		select {
		case <-a.release:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return a.grant, nil
}

type fakeDevice struct {
	id     string
	facing Facing
}

func (d fakeDevice) ID() string     { return d.id }
func (d fakeDevice) Facing() Facing { return d.facing }

type fakeInput struct{ dev Device }

func (in *fakeInput) Device() Device { return in.dev }

type fakeFinder struct {
	mu       sync.Mutex
	missing  map[Facing]bool
	inputErr error
}

func (f *fakeFinder) DefaultDevice(facing Facing) (Device, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[facing] {
		return nil, false
	}
	return fakeDevice{id: "cam-" + facing.String(), facing: facing}, true
}

func (f *fakeFinder) NewInput(d Device) (Input, error) {
	if f.inputErr != nil {
		return nil, f.inputErr
	}
	return &fakeInput{dev: d}, nil
}

func (f *fakeFinder) setMissing(facing Facing, missing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing == nil {
		f.missing = map[Facing]bool{}
	}
	f.missing[facing] = missing
}

type fakeSession struct {
	mu           sync.Mutex
	inputs       []Input
	outputs      []Output
	rejectInput  bool
	rejectOutput string
	begins       int
	commits      int
	starts       int
	stops        int
	running      bool
}

func (s *fakeSession) BeginConfiguration() { s.mu.Lock(); s.begins++; s.mu.Unlock() }
func (s *fakeSession) CommitConfiguration() { s.mu.Lock(); s.commits++; s.mu.Unlock() }
func (s *fakeSession) CanAddInput(Input) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.rejectInput
}
func (s *fakeSession) AddInput(in Input) { s.mu.Lock(); s.inputs = append(s.inputs, in); s.mu.Unlock() }
func (s *fakeSession) RemoveInput(in Input) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.inputs {
		if v == in {
			s.inputs = append(s.inputs[:i], s.inputs[i+1:]...)
			return
		}
	}
}
func (s *fakeSession) Inputs() []Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Input(nil), s.inputs...)
}
func (s *fakeSession) CanAddOutput(out Output) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return out.OutputName() != s.rejectOutput
}
func (s *fakeSession) AddOutput(out Output) {
	s.mu.Lock()
	s.outputs = append(s.outputs, out)
	s.mu.Unlock()
}
func (s *fakeSession) StartRunning() { s.mu.Lock(); s.starts++; s.running = true; s.mu.Unlock() }
func (s *fakeSession) StopRunning()  { s.mu.Lock(); s.stops++; s.running = false; s.mu.Unlock() }
func (s *fakeSession) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *fakeSession) counts() (starts, stops, outputs, inputs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts, s.stops, len(s.outputs), len(s.inputs)
}

type fakePhoto struct {
	delay time.Duration
	data  []byte
	err   error
	mu    sync.Mutex
	shots int
}

func (p *fakePhoto) OutputName() string { return "photo" }
func (p *fakePhoto) CapturePhoto(_ PhotoSettings, done PhotoCallback) {
	p.mu.Lock()
	p.shots++
	p.mu.Unlock()
	go func() {
		time.Sleep(p.delay)
		done(p.data, p.err)
	}()
}

type fakeMovie struct {
	mu       sync.Mutex
	path     string
	done     RecordingCallback
	failStop error
	holdStop chan struct{} // when set, a stop finishes only once closed
}

func (m *fakeMovie) OutputName() string { return "movie" }
func (m *fakeMovie) StartRecording(path string, done RecordingCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path, m.done = path, done
	_ = os.WriteFile(path, []byte("mjpeg"), 0o644)
}
func (m *fakeMovie) StopRecording() {
	m.mu.Lock()
	path, done, err, hold := m.path, m.done, m.failStop, m.holdStop
	m.done = nil
	m.mu.Unlock()
	if done == nil {
		return
	}
	go func() {
		if hold != nil {
			<-hold
		}
		done(path, err)
	}()
}
func (m *fakeMovie) Recording() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done != nil
}

type fakeVideo struct {
	mu       sync.Mutex
	handler  FrameHandler
	rotation int
	mirrored bool
}

func (v *fakeVideo) OutputName() string { return "video" }
func (v *fakeVideo) SetFrameHandler(h FrameHandler) {
	v.mu.Lock()
	v.handler = h
	v.mu.Unlock()
}
func (v *fakeVideo) SetOrientation(rotation int, mirrored bool) {
	v.mu.Lock()
	v.rotation, v.mirrored = rotation, mirrored
	v.mu.Unlock()
}
func (v *fakeVideo) emit(seq uint64) {
	v.mu.Lock()
	h := v.handler
	v.mu.Unlock()
	if h != nil {
		h(Frame{Sequence: seq, CapturedAt: time.Now()})
	}
}

type rig struct {
	auth    *fakeAuth
	finder  *fakeFinder
	session *fakeSession
	photo   *fakePhoto
	movie   *fakeMovie
	video   *fakeVideo
}

func newRig() *rig {
	return &rig{
		auth:    &fakeAuth{status: AuthGranted},
		finder:  &fakeFinder{},
		session: &fakeSession{},
		photo:   &fakePhoto{data: []byte("jpeg-bytes")},
		movie:   &fakeMovie{},
		video:   &fakeVideo{},
	}
}

func (r *rig) hardware() Hardware {
	return Hardware{Auth: r.auth, Devices: r.finder, Session: r.session, Photo: r.photo, Movie: r.movie, Video: r.video}
}

// start builds a controller and waits for the automatic configuration.
func (r *rig) start(t *testing.T) *Controller {
	t.Helper()
	c := NewController(r.hardware(), DefaultOptions(), discardLogger)
	t.Cleanup(c.Close)
	if err := c.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	return c
}

// waitFor polls cond until it holds or timeout passes.
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

var errBoom = errors.New("boom")
