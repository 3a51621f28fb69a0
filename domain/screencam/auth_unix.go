//go:build unix

package screencam

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/soocke/snapcrop-go/domain/capture"
)

// NodeAuthorizer derives camera authorization from read access to a device
// node such as /dev/video0. An empty Path is always granted. With a Prompt
// set, a missing node is reported as not determined and Prompt decides.
type NodeAuthorizer struct {
	Path   string
	Prompt func(ctx context.Context) (bool, error)

	mu       sync.Mutex
	answered bool
	granted  bool
}

func (a *NodeAuthorizer) Status() capture.Authorization {
	a.mu.Lock()
	answered, granted := a.answered, a.granted
	a.mu.Unlock()
	if answered {
		if granted {
			return capture.AuthGranted
		}
		return capture.AuthDenied
	}
	if a.Path == "" {
		return capture.AuthGranted
	}
	err := unix.Access(a.Path, unix.R_OK)
	switch {
	case err == nil:
		return capture.AuthGranted
	case errors.Is(err, unix.EACCES):
		return capture.AuthDenied
	case errors.Is(err, unix.EPERM), errors.Is(err, unix.EROFS):
		return capture.AuthRestricted
	case errors.Is(err, unix.ENOENT) && a.Prompt != nil:
		return capture.AuthNotDetermined
	default:
		return capture.AuthUnknown
	}
}

func (a *NodeAuthorizer) RequestAccess(ctx context.Context) (bool, error) {
	if a.Prompt == nil {
		return false, nil
	}
	granted, err := a.Prompt(ctx)
	if err != nil {
		return false, err
	}
	a.mu.Lock()
	a.answered, a.granted = true, granted
	a.mu.Unlock()
	return granted, nil
}
