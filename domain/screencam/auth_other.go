//go:build !unix

package screencam

import (
	"context"

	"github.com/soocke/snapcrop-go/domain/capture"
)

// NodeAuthorizer always grants access on platforms without device nodes.
type NodeAuthorizer struct {
	Path   string
	Prompt func(ctx context.Context) (bool, error)
}

func (a *NodeAuthorizer) Status() capture.Authorization { return capture.AuthGranted }

func (a *NodeAuthorizer) RequestAccess(context.Context) (bool, error) { return true, nil }
