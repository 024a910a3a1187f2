package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxResponseBytes caps how much of an upstream response body is read.
const MaxResponseBytes = 1 << 20

// ErrResponseTooLarge is returned when a response body exceeds MaxResponseBytes.
var ErrResponseTooLarge = errors.New("llm response too large")

// ReadBody reads at most MaxResponseBytes from r.
func ReadBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > MaxResponseBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, MaxResponseBytes)
	}
	return body, nil
}

// Client abstracts generative text providers. Implementations make exactly
// one upstream call per Complete and never retry.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Request is a single-turn completion: a system instruction plus one user prompt.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	// JSON asks providers that support it to constrain output to a JSON object.
	JSON bool
}

// ContentBlock is one unit of provider output.
type ContentBlock struct {
	Type string
	Text string
}

// Usage reports token counts when the provider returns them.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response carries the provider output blocks in order.
type Response struct {
	Model   string
	Content []ContentBlock
	Usage   *Usage
}

// ContentTypeText marks a plain text block.
const ContentTypeText = "text"

// FirstText returns the first non-blank text block.
func (r Response) FirstText() (string, bool) {
	for _, block := range r.Content {
		if block.Type != ContentTypeText {
			continue
		}
		if text := strings.TrimSpace(block.Text); text != "" {
			return text, true
		}
	}
	return "", false
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient stands in when no provider credential is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, req Request) (Response, error) {
	_ = ctx
	_ = req
	return Response{}, ErrNotConfigured
}
