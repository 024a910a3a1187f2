package recommendations

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"brew-backend/internal/catalog"
	"brew-backend/internal/shared/metrics"
	"brew-backend/internal/shared/telemetry"
)

var errBreakerOpen = errors.New("ai circuit breaker open")

// BreakerConfig controls when AI generation is skipped after repeated failures.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Cooldown         time.Duration
}

// GuardedGenerator fails fast while the upstream model keeps failing.
type GuardedGenerator struct {
	next Generator
	cb   *gobreaker.CircuitBreaker[BrewingRecommendation]
}

// NewGuardedGenerator wraps next with a circuit breaker.
func NewGuardedGenerator(next Generator, cfg BreakerConfig) *GuardedGenerator {
	if cfg.Name == "" {
		cfg.Name = "ai-recommendations"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A caller hanging up says nothing about the upstream model either way.
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(int(to))
			telemetry.Warn("ai.breaker_state", map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}
	return &GuardedGenerator{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[BrewingRecommendation](settings),
	}
}

// IsAvailable delegates to the wrapped generator. An open breaker still
// counts as available so the skip is visible as a generation failure.
func (g *GuardedGenerator) IsAvailable() bool {
	return g != nil && g.next != nil && g.next.IsAvailable()
}

// Generate runs the wrapped generator through the breaker.
func (g *GuardedGenerator) Generate(ctx context.Context, bean catalog.CoffeeBean, machine catalog.BrewingMachine) (BrewingRecommendation, error) {
	rec, err := g.cb.Execute(func() (BrewingRecommendation, error) {
		return g.next.Generate(ctx, bean, machine)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return BrewingRecommendation{}, generationFailed(errBreakerOpen)
	}
	return rec, err
}

// State reports the breaker state name.
func (g *GuardedGenerator) State() string {
	return g.cb.State().String()
}
