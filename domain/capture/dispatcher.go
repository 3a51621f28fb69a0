package capture

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const statsLogInterval = 5 * time.Second

// FrameConsumer receives live frames.
type FrameConsumer func(Frame)

// Executor runs a frame delivery on some execution context.
type Executor interface{ Execute(func()) }

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(func())

func (f ExecutorFunc) Execute(fn func()) { f(fn) }

// InlineExecutor runs deliveries on the hardware frame goroutine.
var InlineExecutor Executor = ExecutorFunc(func(fn func()) { fn() })

// SerialExecutor runs deliveries one at a time on its own goroutine. When the
// consumer falls behind, the oldest pending delivery is dropped.
type SerialExecutor struct {
	work    chan func()
	once    sync.Once
	dropped atomic.Uint64
}

// NewSerialExecutor starts an executor holding at most buffer pending deliveries.
func NewSerialExecutor(buffer int) *SerialExecutor {
	if buffer < 1 {
		buffer = 1
	}
	e := &SerialExecutor{work: make(chan func(), buffer)}
	go func() {
		for fn := range e.work {
			fn()
		}
	}()
	return e
}

func (e *SerialExecutor) Execute(fn func()) {
	for {
		select {
		case e.work <- fn:
			return
		default:
		}
		select {
		case <-e.work:
			e.dropped.Add(1)
		default:
		}
	}
}

// Dropped reports how many deliveries were discarded.
func (e *SerialExecutor) Dropped() uint64 { return e.dropped.Load() }

// Close stops the executor goroutine. Execute must not be called afterwards.
func (e *SerialExecutor) Close() { e.once.Do(func() { close(e.work) }) }

type registration struct {
	consumer FrameConsumer
	exec     Executor
}

// Dispatcher routes frames from the video output to one registered consumer.
type Dispatcher struct {
	q       *Queue
	session Session
	logger  *slog.Logger
	stats   *counters

	target     atomic.Pointer[registration]
	paused     atomic.Bool
	canStart   func() bool
	lastLogged atomic.Int64
}

func newDispatcher(q *Queue, session Session, stats *counters, canStart func() bool, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{q: q, session: session, stats: stats, canStart: canStart, logger: logger}
}

// Attach registers consumer, replacing any previous one, starting with the
// next frame. A nil exec means InlineExecutor; a nil consumer detaches.
func (d *Dispatcher) Attach(consumer FrameConsumer, exec Executor) {
	if consumer == nil {
		d.target.Store(nil)
		return
	}
	if exec == nil {
		exec = InlineExecutor
	}
	d.target.Store(&registration{consumer: consumer, exec: exec})
}

// Paused reports whether hardware delivery is stopped.
func (d *Dispatcher) Paused() bool { return d.paused.Load() }

// Pause stops the hardware session and returns once it has stopped.
func (d *Dispatcher) Pause() error {
	d.paused.Store(true)
	return d.q.Sync(func() {
		if d.session.Running() {
			d.session.StopRunning()
		}
	})
}

// Resume queues a restart of the hardware session and returns immediately.
func (d *Dispatcher) Resume() error {
	d.paused.Store(false)
	return d.q.Async(d.startIfStreaming)
}

// startIfStreaming runs on the queue.
func (d *Dispatcher) startIfStreaming() {
	if d.paused.Load() || d.session.Running() {
		return
	}
	if d.canStart != nil && !d.canStart() {
		return
	}
	d.session.StartRunning()
}

// deliver is installed as the video output's frame handler.
func (d *Dispatcher) deliver(f Frame) {
	if d.paused.Load() {
		d.stats.dropped.Add(1)
		return
	}
	reg := d.target.Load()
	if reg == nil {
		d.stats.dropped.Add(1)
		return
	}
	d.stats.frame(f)
	reg.exec.Execute(func() { reg.consumer(f) })
	d.maybeLogStats()
}

func (d *Dispatcher) maybeLogStats() {
	if d.logger == nil {
		return
	}
	now := time.Now().UnixNano()
	last := d.lastLogged.Load()
	if now-last < int64(statsLogInterval) || !d.lastLogged.CompareAndSwap(last, now) {
		return
	}
	s := d.stats.snapshot()
	d.logger.Debug("capture.stats",
		"delivered", s.FramesDelivered,
		"dropped", s.FramesDropped,
		"sequence", s.Sequence,
		"photos", s.Photos,
	)
}
