package filterstructure

import (
	"fmt"
	"sync"
)

// Registry manages the filter catalog. Names keep their registration order.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
	order       []string
}

// NewRegistry creates a new filter registry
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]*Descriptor),
	}
}

// Register adds a filter descriptor to the registry
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("filter name cannot be empty")
	}
	for i, preset := range d.Presets {
		if preset == nil {
			return fmt.Errorf("filter %s is missing preset for level %d", d.Name, i+1)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.descriptors[d.Name]; exists {
		return fmt.Errorf("filter %s is already registered", d.Name)
	}
	r.descriptors[d.Name] = &d
	r.order = append(r.order, d.Name)
	return nil
}

// Lookup returns the descriptor registered under name
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, exists := r.descriptors[name]
	if !exists {
		return nil, fmt.Errorf("unknown filter: %s", name)
	}
	return d, nil
}

// IsRegistered checks if a filter with the given name is registered
func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.descriptors[name]
	return exists
}

// Names returns the registered filter names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Descriptors returns all descriptors in registration order
func (r *Registry) Descriptors() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.descriptors[name])
	}
	return out
}

// DefaultRegistry is the global catalog, populated by the filters package
var DefaultRegistry = NewRegistry()
