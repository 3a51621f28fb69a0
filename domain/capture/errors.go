package capture

import (
	"errors"
	"fmt"
)

// Every failure the session can publish has its own value so the UI can tell
// them apart with errors.Is.
var (
	ErrAuthorizationDenied     = errors.New("camera access denied")
	ErrAuthorizationRestricted = errors.New("camera access restricted")
	ErrAuthorizationUnknown    = errors.New("camera authorization unknown")
	ErrDeviceUnavailable       = errors.New("camera device unavailable")
	ErrInputConstruction       = errors.New("cannot create camera input")
	ErrCannotAttachInput       = errors.New("cannot attach camera input")
	ErrCannotAttachOutput      = errors.New("cannot attach capture output")
	ErrPhotoCaptureFailed      = errors.New("photo capture failed")
	ErrRecordingFailed         = errors.New("recording failed")

	ErrNotConfigured = errors.New("capture session not configured")
	ErrPhotoTimeout  = errors.New("photo not delivered in time")
	ErrQueueClosed   = errors.New("configuration queue closed")
)

func wrap(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}
