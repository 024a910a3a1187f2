package recommendations

import (
	"context"
	"sync"

	"brew-backend/internal/catalog"
	"brew-backend/internal/llm"
)

const validRecommendationJSON = `{
  "temperature": {"fahrenheit": 201, "celsius": 94},
  "grindSize": "medium-fine",
  "brewTime": {"minutes": 3, "seconds": 15},
  "waterRatio": {"coffee": 1, "water": 16, "description": "1:16 ratio"},
  "explanation": "Balanced extraction for a medium roast."
}`

// stubLLM returns a canned response and counts calls.
type stubLLM struct {
	mu       sync.Mutex
	calls    int
	requests []llm.Request
	resp     llm.Response
	err      error
	wait     bool
}

func textResponse(text string) llm.Response {
	return llm.Response{Content: []llm.ContentBlock{{Type: llm.ContentTypeText, Text: text}}}
}

func (s *stubLLM) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	s.mu.Lock()
	s.calls++
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.wait {
		<-ctx.Done()
		return llm.Response{}, ctx.Err()
	}
	return s.resp, s.err
}

func (s *stubLLM) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubGenerator is a Generator double.
type stubGenerator struct {
	mu        sync.Mutex
	available bool
	rec       BrewingRecommendation
	err       error
	calls     int
}

func (g *stubGenerator) IsAvailable() bool { return g.available }

func (g *stubGenerator) Generate(ctx context.Context, bean catalog.CoffeeBean, machine catalog.BrewingMachine) (BrewingRecommendation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.rec, g.err
}

func (g *stubGenerator) setErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// failingRepo fails every lookup with a non-NotFound error.
type failingRepo struct {
	err error
}

func (r failingRepo) FindBean(ctx context.Context, id string) (catalog.CoffeeBean, error) {
	return catalog.CoffeeBean{}, r.err
}

func (r failingRepo) FindMachine(ctx context.Context, id string) (catalog.BrewingMachine, error) {
	return catalog.BrewingMachine{}, r.err
}

func (r failingRepo) ListBeans(ctx context.Context) ([]catalog.CoffeeBean, error) {
	return nil, r.err
}

func (r failingRepo) ListMachines(ctx context.Context) ([]catalog.BrewingMachine, error) {
	return nil, r.err
}
