package builder

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/replicate/envspec/pkg/util/console"
)

var (
	ErrBackendNotFound = errors.New("builder not found")
	ErrNoBackends      = errors.New("no builders registered")
)

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry backends add themselves
// to from their init() functions.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register adds a backend to the default registry.
// This should be called from init() functions in backend packages.
func Register(name string, backend Backend, priority int) {
	DefaultRegistry().Register(name, backend, priority)
}

// Registration is a backend known to a registry under a name.
type Registration struct {
	Name     string
	Backend  Backend
	Priority int
}

// Registry maps backend names to backends.
type Registry struct {
	registrations map[string]Registration
	mu            sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		registrations: map[string]Registration{},
	}
}

// Register installs backend under name. Registering a name twice replaces the
// earlier backend.
func (r *Registry) Register(name string, backend Backend, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.registrations[name]; ok {
		console.Warnf("Builder %s is already registered, replacing it", name)
	}
	r.registrations[name] = Registration{
		Name:     name,
		Backend:  backend,
		Priority: priority,
	}
	console.Debugf("Registered builder %s with priority %d", name, priority)
}

// Resolve returns the backend registered under name. An empty name selects
// the backend with the highest priority.
func (r *Registry) Resolve(name string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name != "" {
		reg, ok := r.registrations[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBackendNotFound, name)
		}
		return reg.Backend, nil
	}

	if len(r.registrations) == 0 {
		return nil, ErrNoBackends
	}
	return r.sorted()[0].Backend, nil
}

// List returns every registration, highest priority first.
func (r *Registry) List() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted()
}

// sorted orders by priority, ties broken by name. Callers hold the lock.
func (r *Registry) sorted() []Registration {
	list := make([]Registration, 0, len(r.registrations))
	for _, reg := range r.registrations {
		list = append(list, reg)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority > list[j].Priority
		}
		return list[i].Name < list[j].Name
	})
	return list
}
