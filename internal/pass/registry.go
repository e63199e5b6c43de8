package pass

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a pass instance from textual options parsed out of a
// pipeline description ("canonicalize{max-iterations=4}" yields
// opts["max-iterations"] == "4"). A factory must reject option keys it does
// not understand; the error surfaces as a pipeline syntax error.
type Factory func(opts map[string]string) (Pass, error)

// Registry resolves pass names to factories. The pipeline grammar consults a
// Registry while parsing; unregistered names are a grammar-level error, not
// a crash.
//
// Thread-safety: all methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the given name.
// Registering a duplicate name is an error.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("register pass: empty name")
	}
	if f == nil {
		return fmt.Errorf("register pass %q: nil factory", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("register pass %q: already registered", name)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is Register that panics on error. Used for built-in
// registration where a failure is a programming bug.
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Known reports whether a pass name is registered.
func (r *Registry) Known(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Create instantiates the named pass with the given options.
func (r *Registry) Create(name string, opts map[string]string) (Pass, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown pass %q", name)
	}
	p, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("pass %q: %w", name, err)
	}
	return p, nil
}

// Names returns all registered pass names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
