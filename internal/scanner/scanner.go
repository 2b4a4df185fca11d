package scanner

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"SearchRerank/internal/domain"
)

// ErrUnknownProvider is returned when an engine name has no registered provider.
var ErrUnknownProvider = errors.New("provider is not registered")

// MaxCount is the largest number of results a single provider request may ask for.
const MaxCount = 50

// Request carries all parameters required to query one provider.
type Request struct {
	Query string
	Count int
}

// Provider captures a single search engine implementation (Bing, Baidu, etc.).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.RawResult, error)
}

// Registry keeps a mapping from provider names to their implementations.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: map[string]Provider{}}
}

// Register adds or replaces a provider implementation.
func (r *Registry) Register(provider Provider) {
	if r.providers == nil {
		r.providers = map[string]Provider{}
	}
	r.providers[provider.Name()] = provider
}

// Resolve returns a provider by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Provider, error) {
	if provider, ok := r.providers[name]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
}

// Names lists registered providers in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
