package strategy

import (
	"sort"
	"sync"

	"github.com/quantfold/backlight/internal/core"
)

// Registry maps strategy names to builders. Each run gets its own strategy
// instance, so concurrent runs over different symbols never share state.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry creates an empty strategy registry
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]Builder),
	}
}

// Register adds a named strategy builder to the registry
func (r *Registry) Register(name string, b Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = b
}

// Build constructs a fresh instance of the named strategy
func (r *Registry) Build(name string) (Strategy, error) {
	r.mu.RLock()
	b, ok := r.builders[name]
	r.mu.RUnlock()

	if !ok {
		return nil, core.ErrStrategyNotFound
	}
	return b()
}

// Names returns the registered strategy names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
