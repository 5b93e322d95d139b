package search

import (
	"context"
	"fmt"

	"github.com/kreddys/ghostwriter-sub000/internal/domain"
)

// Request carries all parameters required to execute one engine search.
type Request struct {
	Query       string
	MaxResults  int
	RecencyDays int
}

// Engine captures a single search-provider implementation (Tavily, Google, etc.).
// Zero results is a valid outcome and must not surface as an error.
type Engine interface {
	Name() string
	Search(ctx context.Context, req Request) ([]domain.SearchResult, error)
}

// Registry keeps a mapping from engine names to their implementations.
// New engines are added by registration, never by string dispatch.
type Registry struct {
	engines map[string]Engine
	order   []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: map[string]Engine{}}
}

// Register adds or replaces an engine implementation, preserving
// registration order for deterministic fan-out.
func (r *Registry) Register(engine Engine) {
	if r.engines == nil {
		r.engines = map[string]Engine{}
	}
	if _, ok := r.engines[engine.Name()]; !ok {
		r.order = append(r.order, engine.Name())
	}
	r.engines[engine.Name()] = engine
}

// Resolve returns an engine by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Engine, error) {
	if engine, ok := r.engines[name]; ok {
		return engine, nil
	}
	return nil, fmt.Errorf("search engine %s is not registered", name)
}

// Names lists registered engines in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}
