// Package inference sends cropped images to a visual-understanding model.
package inference

import (
	"context"
	"errors"
)

// DefaultPrompt is sent with every image unless configured otherwise.
const DefaultPrompt = "Describe what is in this image."

// ErrNoImage is returned when Describe is called without image bytes.
var ErrNoImage = errors.New("inference: no image")

// Describer turns an encoded image into text.
type Describer interface {
	Describe(ctx context.Context, image []byte, prompt string) (string, error)
}

// NopDescriber is used when no model is configured.
type NopDescriber struct{}

func (NopDescriber) Describe(_ context.Context, image []byte, _ string) (string, error) {
	if len(image) == 0 {
		return "", ErrNoImage
	}
	return "", nil
}
