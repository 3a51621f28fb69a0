package capture

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// RecordingLayout is the file name pattern for recordings.
const RecordingLayout = "video_2006-01-02_15-04-05.mov"

// BoundedWait is how long a caller waits for a photo: Attempts checks,
// Interval apart.
type BoundedWait struct {
	Interval time.Duration
	Attempts int
}

// DefaultBoundedWait gives up after one second.
var DefaultBoundedWait = BoundedWait{Interval: 100 * time.Millisecond, Attempts: 10}

// Ceiling is the longest a wait can take.
func (w BoundedWait) Ceiling() time.Duration {
	if w.Interval <= 0 || w.Attempts <= 0 {
		return DefaultBoundedWait.Ceiling()
	}
	return w.Interval * time.Duration(w.Attempts)
}

// PhotoRequest is one in-flight still capture. Its result is written once.
type PhotoRequest struct {
	ID      uuid.UUID
	Started time.Time

	once sync.Once
	done chan struct{}
	data []byte
	err  error
}

func newPhotoRequest() *PhotoRequest {
	return &PhotoRequest{ID: uuid.New(), Started: time.Now(), done: make(chan struct{})}
}

func (r *PhotoRequest) resolve(data []byte, err error) {
	r.once.Do(func() {
		r.data, r.err = data, err
		close(r.done)
	})
}

// ResolvedPhoto returns a request that already holds its result.
func ResolvedPhoto(data []byte, err error) *PhotoRequest {
	r := newPhotoRequest()
	r.resolve(data, err)
	return r
}

// Done is closed once the result is available.
func (r *PhotoRequest) Done() <-chan struct{} { return r.done }

// Result returns the result without blocking; ok is false while pending.
func (r *PhotoRequest) Result() (data []byte, err error, ok bool) {
	select {
	case <-r.done:
		return r.data, r.err, true
	default:
		return nil, nil, false
	}
}

// Await blocks until the photo arrives, the wait's ceiling passes
// (ErrPhotoTimeout) or ctx ends.
func (r *PhotoRequest) Await(ctx context.Context, w BoundedWait) ([]byte, error) {
	t := time.NewTimer(w.Ceiling())
	defer t.Stop()
	select {
	case <-r.done:
		return r.data, r.err
	case <-t.C:
		return nil, ErrPhotoTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Poll checks the result Attempts times, sleeping Interval between checks,
// and returns ErrPhotoTimeout if it never arrived.
func (r *PhotoRequest) Poll(w BoundedWait) ([]byte, error) {
	if w.Interval <= 0 || w.Attempts <= 0 {
		w = DefaultBoundedWait
	}
	for i := 0; i < w.Attempts; i++ {
		if data, err, ok := r.Result(); ok {
			return data, err
		}
		time.Sleep(w.Interval)
	}
	if data, err, ok := r.Result(); ok {
		return data, err
	}
	return nil, ErrPhotoTimeout
}

// RecordingRequest is one recording. Its result is the finished file path.
type RecordingRequest struct {
	ID   uuid.UUID
	Path string

	once sync.Once
	done chan struct{}
	path string
	err  error
}

func newRecordingRequest(path string) *RecordingRequest {
	return &RecordingRequest{ID: uuid.New(), Path: path, done: make(chan struct{})}
}

func (r *RecordingRequest) resolve(path string, err error) {
	r.once.Do(func() {
		r.path, r.err = path, err
		close(r.done)
	})
}

// ResolvedRecording returns a request that already holds its result.
func ResolvedRecording(path string, err error) *RecordingRequest {
	r := newRecordingRequest(path)
	r.resolve(path, err)
	return r
}

func (r *RecordingRequest) Done() <-chan struct{} { return r.done }

// Await blocks until the recording has finished or ctx ends.
func (r *RecordingRequest) Await(ctx context.Context) (string, error) {
	select {
	case <-r.done:
		return r.path, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// CoordinatorOptions configures a Coordinator.
type CoordinatorOptions struct {
	RecordingsDir string
	Photo         PhotoSettings
	Now           func() time.Time
}

// Coordinator runs photo and recording captures through a Controller's queue.
type Coordinator struct {
	c      *Controller
	opts   CoordinatorOptions
	logger *slog.Logger

	// queue-owned
	active    *RecordingRequest
	stopping  bool
	followers []*RecordingRequest // resolve with the active recording
	next      *RecordingRequest   // started once the active one finishes
	nextStops []*RecordingRequest // resolve with next, which stops right after starting
}

// NewCoordinator returns a coordinator bound to c.
func NewCoordinator(c *Controller, opts CoordinatorOptions, logger *slog.Logger) *Coordinator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RecordingsDir == "" {
		opts.RecordingsDir = os.TempDir()
	}
	return &Coordinator{c: c, opts: opts, logger: logger}
}

// CapturePhoto queues a still capture. The bytes are published as
// State.Photo and delivered to the returned request.
func (co *Coordinator) CapturePhoto() *PhotoRequest {
	req := newPhotoRequest()
	err := co.c.q.Async(func() {
		if co.c.status != StatusConfigured {
			req.resolve(nil, ErrNotConfigured)
			return
		}
		co.log(slog.LevelDebug, "capture.photo.requested", "request", req.ID.String())
		co.c.hw.Photo.CapturePhoto(co.opts.Photo, func(data []byte, err error) {
			if qerr := co.c.q.Async(func() { co.finishPhoto(req, data, err) }); qerr != nil {
				req.resolve(nil, qerr)
			}
		})
	})
	if err != nil {
		req.resolve(nil, err)
	}
	return req
}

// finishPhoto runs on the queue.
func (co *Coordinator) finishPhoto(req *PhotoRequest, data []byte, err error) {
	if err == nil && len(data) == 0 {
		err = errors.New("empty photo")
	}
	latency := time.Since(req.Started)
	co.c.stats.photo(latency, err)
	if err != nil {
		err = wrap(ErrPhotoCaptureFailed, err)
		co.c.pub.update(func(st *State) { st.Err = err })
		co.log(slog.LevelWarn, "capture.photo.failed", "request", req.ID.String(), "error", err)
		req.resolve(nil, err)
		return
	}
	co.c.pub.update(func(st *State) { st.Photo = data })
	co.log(slog.LevelInfo, "capture.photo",
		"request", req.ID.String(),
		"size", humanize.Bytes(uint64(len(data))),
		"latency", latency,
	)
	req.resolve(data, nil)
}

// RecordingPath returns the file a recording started at t is written to.
func (co *Coordinator) RecordingPath(t time.Time) string {
	return filepath.Join(co.opts.RecordingsDir, t.Format(RecordingLayout))
}

// StartRecording starts a recording. If one is already running, it is
// stopped instead and the returned request resolves with its file. Calls made
// while that stop is still finishing keep toggling: the first queues a fresh
// recording and the next one stops it again.
func (co *Coordinator) StartRecording() *RecordingRequest {
	req := newRecordingRequest(co.RecordingPath(co.opts.Now()))
	err := co.c.q.Async(func() {
		switch {
		case co.active == nil:
			co.startRecording(req)
		case !co.stopping:
			co.followers = append(co.followers, req)
			co.stopping = true
			co.c.hw.Movie.StopRecording()
		case co.next == nil:
			co.next = req
		default:
			co.nextStops = append(co.nextStops, req)
		}
	})
	if err != nil {
		req.resolve("", err)
	}
	return req
}

// ToggleRecording starts a recording when idle and stops the current one otherwise.
func (co *Coordinator) ToggleRecording() *RecordingRequest { return co.StartRecording() }

// StopRecording asks the current recording to finish. It is a no-op when
// idle or when a stop is already pending; a start queued behind that stop
// still runs.
func (co *Coordinator) StopRecording() {
	_ = co.c.q.Async(func() {
		if co.active == nil || co.stopping {
			return
		}
		co.stopping = true
		co.c.hw.Movie.StopRecording()
	})
}

// startRecording runs on the queue.
func (co *Coordinator) startRecording(req *RecordingRequest) {
	if co.c.status != StatusConfigured {
		req.resolve("", ErrNotConfigured)
		return
	}
	if err := os.MkdirAll(filepath.Dir(req.Path), 0o755); err != nil {
		co.failRecording(req, err)
		return
	}
	if err := os.Remove(req.Path); err != nil && !os.IsNotExist(err) {
		co.failRecording(req, err)
		return
	}
	co.active = req
	co.c.hw.Movie.StartRecording(req.Path, func(path string, err error) {
		if qerr := co.c.q.Async(func() { co.finishRecording(req, path, err) }); qerr != nil {
			req.resolve("", qerr)
		}
	})
	co.c.pub.update(func(st *State) { st.Recording = true })
	co.log(slog.LevelInfo, "capture.recording.started", "request", req.ID.String(), "path", req.Path)
}

// finishRecording runs on the queue.
func (co *Coordinator) finishRecording(req *RecordingRequest, path string, err error) {
	defer co.startNext()
	if co.active == req {
		co.active = nil
		co.stopping = false
	}
	followers := co.followers
	co.followers = nil
	co.c.pub.update(func(st *State) { st.Recording = false })
	if err != nil {
		co.failRecording(req, err)
		for _, f := range followers {
			f.resolve("", req.err)
		}
		return
	}
	co.c.stats.recordings.Add(1)
	co.c.pub.update(func(st *State) { st.MovieURL = path })
	size := "unknown"
	if fi, statErr := os.Stat(path); statErr == nil {
		size = humanize.Bytes(uint64(fi.Size()))
	}
	co.log(slog.LevelInfo, "capture.recording.finished", "request", req.ID.String(), "path", path, "size", size)
	req.resolve(path, nil)
	for _, f := range followers {
		f.resolve(path, nil)
	}
}

// startNext starts a recording queued while the previous one was stopping.
func (co *Coordinator) startNext() {
	next, stops := co.next, co.nextStops
	co.next, co.nextStops = nil, nil
	if next == nil || co.active != nil {
		return
	}
	co.startRecording(next)
	if len(stops) == 0 {
		return
	}
	if co.active != next {
		for _, f := range stops {
			f.resolve("", next.err)
		}
		return
	}
	co.followers = stops
	co.stopping = true
	co.c.hw.Movie.StopRecording()
}

func (co *Coordinator) failRecording(req *RecordingRequest, cause error) {
	err := wrap(ErrRecordingFailed, cause)
	co.c.pub.update(func(st *State) { st.Err = err })
	co.log(slog.LevelWarn, "capture.recording.failed", "request", req.ID.String(), "error", err)
	req.resolve("", err)
}

// ClearResults drops the published photo and movie once the UI is done with them.
func (co *Coordinator) ClearResults() {
	_ = co.c.q.Async(func() {
		co.c.pub.update(func(st *State) {
			st.Photo = nil
			st.MovieURL = ""
		})
	})
}

func (co *Coordinator) log(level slog.Level, msg string, args ...any) {
	if co.logger != nil {
		co.logger.Log(context.Background(), level, msg, args...)
	}
}
