package model

import (
	"time"
)

// RecordingModel tracks the running clip length and the total recorded time.
// Presenters drive it from the published recording flag; the zero value is ready to use.
type RecordingModel struct {
	active      bool
	clipStart   time.Time
	lastClip    time.Duration
	accumulated time.Duration
	clips       int
}

// NewRecordingModel returns a pointer to a ready-to-use RecordingModel.
func NewRecordingModel() *RecordingModel { return &RecordingModel{} }

// OnTick updates the model using the current recording flag and timestamp.
func (m *RecordingModel) OnTick(recording bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case recording && !m.active: // idle -> recording
		m.active = true
		m.clipStart = now
		m.lastClip = 0
		m.clips++
	case recording:
		m.lastClip = now.Sub(m.clipStart)
	case m.active: // recording -> idle
		m.lastClip = now.Sub(m.clipStart)
		m.accumulated += m.lastClip
		m.active = false
	}
}

// Values returns the current (or last) clip length and the total recorded time,
// including the clip in progress.
func (m *RecordingModel) Values() (clip, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	clip = m.lastClip
	total = m.accumulated
	if m.active {
		total += clip
	}
	return
}

// Clips returns how many recordings were started.
func (m *RecordingModel) Clips() int {
	if m == nil {
		return 0
	}
	return m.clips
}

// Recording reports whether a clip is in progress.
func (m *RecordingModel) Recording() bool { return m != nil && m.active }
