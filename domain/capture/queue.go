package capture

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// Queue runs submitted tasks one at a time, in submission order, on a single
// goroutine. Every hardware mutation and hardware callback goes through it.
// Async never blocks, so tasks may enqueue more work.
type Queue struct {
	logger *slog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool
	done   chan struct{}
}

// NewQueue starts the queue goroutine.
func NewQueue(logger *slog.Logger) *Queue {
	q := &Queue{logger: logger, done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.loop()
	return q
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		q.run(task)
	}
}

func (q *Queue) run(task func()) {
	defer func() {
		if r := recover(); r != nil && q.logger != nil {
			q.logger.Error("queue task panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	task()
}

// Async enqueues task. It returns ErrQueueClosed after Close.
func (q *Queue) Async(task func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	q.tasks = append(q.tasks, task)
	q.cond.Signal()
	return nil
}

// Sync enqueues task and waits for it to finish. It must not be called from
// a task already running on q.
func (q *Queue) Sync(task func()) error {
	finished := make(chan struct{})
	if err := q.Async(func() {
		defer close(finished)
		task()
	}); err != nil {
		return err
	}
	<-finished
	return nil
}

// Close stops accepting work, lets queued tasks finish and waits for the
// goroutine to exit. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
	<-q.done
}
