package presenter

import (
	"log/slog"
	"runtime/debug"
	"time"
)

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick/ProcessResults on the sub-presenters and invokes a
// scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Status    *StatusPresenter
	Recording *RecordingPresenter
	Preview   *PreviewPresenter
	Capture   *CapturePresenter
	Schedule  func()
}

func NewLoop(status *StatusPresenter, rec *RecordingPresenter, preview *PreviewPresenter, capture *CapturePresenter, schedule func()) *Loop {
	return &Loop{Status: status, Recording: rec, Preview: preview, Capture: capture, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Status != nil {
		l.Status.Tick(now)
	}
	if l.Recording != nil {
		l.Recording.Tick(now)
	}
	if l.Capture != nil {
		l.Capture.ProcessResults()
	}
	if l.Preview != nil {
		l.Preview.Tick()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}

// recoverLog logs a recovered panic with its stack. Use as a deferred call.
func recoverLog(logger *slog.Logger, where string) {
	if r := recover(); r != nil && logger != nil {
		logger.Error("panic recovered", "where", where, "panic", r, "stack", string(debug.Stack()))
	}
}
