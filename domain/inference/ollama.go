package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// Chatter is the part of the Ollama API client the describer uses.
type Chatter interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// OllamaDescriber asks an Ollama vision model about an image.
type OllamaDescriber struct {
	client  Chatter
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewOllamaDescriber connects to the server at rawURL. Any path on the URL is ignored.
func NewOllamaDescriber(rawURL, model string, timeout time.Duration, logger *slog.Logger) (*OllamaDescriber, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid ollama url %q", rawURL)
	}
	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	return newOllamaDescriber(api.NewClient(base, http.DefaultClient), model, timeout, logger), nil
}

func newOllamaDescriber(client Chatter, model string, timeout time.Duration, logger *slog.Logger) *OllamaDescriber {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &OllamaDescriber{client: client, model: model, timeout: timeout, logger: logger}
}

func (d *OllamaDescriber) Describe(ctx context.Context, image []byte, prompt string) (string, error) {
	if len(image) == 0 {
		return "", ErrNoImage
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	stream := false
	req := &api.ChatRequest{
		Model: d.model,
		Messages: []api.Message{{
			Role:    "user",
			Content: prompt,
			Images:  []api.ImageData{api.ImageData(image)},
		}},
		Stream: &stream,
	}
	start := time.Now()
	var out strings.Builder
	err := d.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", errors.New("ollama returned an empty response")
	}
	if d.logger != nil {
		d.logger.Info("inference.describe", "model", d.model, "took", time.Since(start), "chars", len(text))
	}
	return text, nil
}
