package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"videogen-gateway/internal/models"
)

// ErrDuplicateModel indicates an attempt to register the same configuration name twice.
var ErrDuplicateModel = errors.New("model already registered")

// Result is the raw, provider-specific output of a run. Known shapes are a
// URL string, a value exposing URL() string, or a non-empty slice whose first
// element is the URL.
type Result = any

// Provider runs a single upstream configuration.
type Provider interface {
	Name() string
	Run(ctx context.Context, identifier string, input map[string]any) (Result, error)
}

// Candidate pairs a provider configuration with the provider that runs it.
type Candidate struct {
	Config   models.ProviderConfig
	Provider Provider
}

// Registry keeps the ordered list of configurations to attempt.
type Registry struct {
	mu         sync.RWMutex
	candidates []Candidate
	byName     map[string]Provider
	names      map[string]struct{}
}

// NewRegistry constructs an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Provider),
		names:  make(map[string]struct{}),
	}
}

// RegisterProvider appends the provider's configurations, in order, after any already registered.
func (r *Registry) RegisterProvider(p Provider, configs []models.ProviderConfig) error {
	if p == nil {
		return errors.New("provider must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[p.Name()]; exists {
		return fmt.Errorf("provider %q already registered", p.Name())
	}

	incoming := make(map[string]struct{}, len(configs))
	for _, cfg := range configs {
		_, registered := r.names[cfg.Name]
		_, repeated := incoming[cfg.Name]
		if registered || repeated {
			return fmt.Errorf("%w: %s", ErrDuplicateModel, cfg.Name)
		}
		incoming[cfg.Name] = struct{}{}
	}

	r.byName[p.Name()] = p
	for _, cfg := range configs {
		r.names[cfg.Name] = struct{}{}
		r.candidates = append(r.candidates, Candidate{Config: cfg, Provider: p})
	}
	return nil
}

// Candidates returns a copy of the registered configurations in attempt order.
func (r *Registry) Candidates() []Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Candidate, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// Len reports how many configurations are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.candidates)
}
