package recommendations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brew-backend/internal/catalog"
	"brew-backend/internal/shared/metrics"
	"brew-backend/internal/shared/telemetry"
)

// DefaultAITimeout bounds one generation attempt.
const DefaultAITimeout = 8 * time.Second

const reasonUnavailable = "ai_unavailable"

// Service resolves a bean and machine into a recommendation, preferring the
// AI generator and falling back to the rule table.
type Service struct {
	Catalog   catalog.Repo
	Generator Generator
	Timeout   time.Duration
}

// NewService constructs a Service. A nil generator means AI is never tried.
func NewService(repo catalog.Repo, gen Generator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	return &Service{Catalog: repo, Generator: gen, Timeout: timeout}
}

// Outcome describes how a recommendation was produced.
type Outcome struct {
	Response      RecommendationResponse
	FallbackUsed  bool
	FallbackKey   string
	FailureReason string
}

// Recommend returns a success envelope for any known pair. Unknown ids give
// ErrInvalidSelection; other failures give ErrInternal.
func (s *Service) Recommend(ctx context.Context, beanID, machineID string) (RecommendationResponse, error) {
	out, err := s.Resolve(ctx, beanID, machineID)
	if err != nil {
		return failureResponse(MessageFor(err)), err
	}
	return out.Response, nil
}

// Resolve is Recommend with diagnostic detail.
func (s *Service) Resolve(ctx context.Context, beanID, machineID string) (Outcome, error) {
	if s == nil || s.Catalog == nil {
		return Outcome{}, fmt.Errorf("%w: catalog not configured", ErrInternal)
	}

	bean, err := s.Catalog.FindBean(ctx, beanID)
	if err != nil {
		return Outcome{}, lookupError("bean", beanID, err)
	}
	machine, err := s.Catalog.FindMachine(ctx, machineID)
	if err != nil {
		return Outcome{}, lookupError("machine", machineID, err)
	}

	if s.Generator != nil && s.Generator.IsAvailable() {
		rec, err := s.generate(ctx, bean, machine)
		if err == nil {
			metrics.IncRecommendation(metrics.SourceAI)
			return Outcome{Response: successResponse(rec, false)}, nil
		}
		reason := FailureReason(err)
		metrics.IncAIFailure(reason)
		telemetry.Warn("recommendation.ai_failed", map[string]any{
			"bean_id":    bean.ID,
			"machine_id": machine.ID,
			"reason":     reason,
			"error":      err,
		})
		return s.fallback(bean, machine, reason), nil
	}

	return s.fallback(bean, machine, reasonUnavailable), nil
}

func (s *Service) generate(ctx context.Context, bean catalog.CoffeeBean, machine catalog.BrewingMachine) (BrewingRecommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	start := time.Now()
	rec, err := s.Generator.Generate(ctx, bean, machine)
	metrics.ObserveAIDurationSeconds(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, ErrGenerationFailed) {
		err = generationFailed(err)
	}
	return rec, err
}

func (s *Service) fallback(bean catalog.CoffeeBean, machine catalog.BrewingMachine, reason string) Outcome {
	key := Key(bean.RoastLevel, machine.Type)
	rec := Resolve(bean.RoastLevel, machine.Type)
	metrics.IncRecommendation(metrics.SourceFallback)
	telemetry.Info("recommendation.fallback", map[string]any{
		"bean_id":      bean.ID,
		"machine_id":   machine.ID,
		"fallback_key": key,
		"reason":       reason,
	})
	return Outcome{
		Response:      successResponse(rec, true),
		FallbackUsed:  true,
		FallbackKey:   key,
		FailureReason: reason,
	}
}

func lookupError(kind, id string, err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("%w: %s %q", ErrInvalidSelection, kind, id)
	}
	return fmt.Errorf("%w: find %s: %w", ErrInternal, kind, err)
}
