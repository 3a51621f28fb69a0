package model

import (
	"sync/atomic"
)

// CaptureModel tracks whether a captured result is on screen. The zero value
// means nothing is captured and is usable. While captured, a tap on the crop
// box clears the result instead of taking another photo.
// Concurrency-safe via atomic Bool because the capture worker and Tk callbacks may race.
type CaptureModel struct{ captured atomic.Bool }

// Captured reports whether a photo or movie result is being shown.
func (m *CaptureModel) Captured() bool {
	if m == nil {
		return false
	}
	return m.captured.Load()
}

// SetCaptured stores the flag and reports whether it changed.
func (m *CaptureModel) SetCaptured(b bool) bool {
	if m == nil {
		return false
	}
	return m.captured.Swap(b) != b
}
