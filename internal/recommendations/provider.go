package recommendations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brew-backend/internal/catalog"
	"brew-backend/internal/llm"
	"brew-backend/internal/shared/telemetry"
)

// Request parameters sent with every generation call.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.3
)

var (
	errNoContent     = errors.New("no usable text content")
	errInvalidOutput = errors.New("model output failed validation")
)

// Generator produces AI recommendations. Generate must return an error
// wrapping ErrGenerationFailed for every failure.
type Generator interface {
	IsAvailable() bool
	Generate(ctx context.Context, bean catalog.CoffeeBean, machine catalog.BrewingMachine) (BrewingRecommendation, error)
}

// AIProvider generates recommendations with a single LLM call.
type AIProvider struct {
	client      llm.Client
	configured  bool
	maxTokens   int
	temperature float64
}

// NewAIProvider builds a provider. configured reports whether a credential
// exists; without one the provider is unavailable and never calls client.
func NewAIProvider(client llm.Client, configured bool) *AIProvider {
	return &AIProvider{
		client:      client,
		configured:  configured,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
}

// IsAvailable reports whether generation may be attempted. It performs no I/O.
func (p *AIProvider) IsAvailable() bool {
	return p != nil && p.configured && p.client != nil
}

// Generate asks the model for a recommendation and validates the answer.
func (p *AIProvider) Generate(ctx context.Context, bean catalog.CoffeeBean, machine catalog.BrewingMachine) (BrewingRecommendation, error) {
	if !p.IsAvailable() {
		return BrewingRecommendation{}, generationFailed(llm.ErrNotConfigured)
	}

	prompt, err := BuildPrompt(bean, machine)
	if err != nil {
		return BrewingRecommendation{}, generationFailed(fmt.Errorf("build prompt: %w", err))
	}
	system := SystemPrompt()

	start := time.Now()
	resp, err := p.client.Complete(ctx, llm.Request{
		System:      system,
		Prompt:      prompt,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		JSON:        true,
	})
	telemetry.Info("recommendation.ai_call", map[string]any{
		"bean_id":     bean.ID,
		"machine_id":  machine.ID,
		"prompt_hash": promptHash(system, prompt),
		"duration_ms": time.Since(start).Milliseconds(),
		"ok":          err == nil,
	})
	if err != nil {
		return BrewingRecommendation{}, generationFailed(err)
	}

	text, ok := resp.FirstText()
	if !ok {
		return BrewingRecommendation{}, generationFailed(errNoContent)
	}

	result := Validate([]byte(stripCodeFence(text)))
	if !result.Valid {
		return BrewingRecommendation{}, generationFailed(fmt.Errorf("%w: %s", errInvalidOutput, result.Reason))
	}
	return result.Recommendation, nil
}

func generationFailed(cause error) error {
	return fmt.Errorf("%w: %w", ErrGenerationFailed, cause)
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// FailureReason classifies a generation error for metrics and logs.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errBreakerOpen):
		return "breaker_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, llm.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, errNoContent):
		return "empty_content"
	case errors.Is(err, errInvalidOutput):
		return "invalid_output"
	default:
		return "upstream"
	}
}
