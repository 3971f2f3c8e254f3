package utils

import (
	"fmt"
	"sort"
	"sync"
)

// RegistryValidator checks an item before it is added to a registry
type RegistryValidator[V any] func(key string, value V) error

// Registry is a named, thread-safe map from string keys to values.
// Keys can only be registered once.
type Registry[V any] struct {
	name      string
	mu        sync.RWMutex
	items     map[string]V
	validator RegistryValidator[V]
}

// NewRegistry creates a registry; name appears in error messages
func NewRegistry[V any](name string) *Registry[V] {
	return &Registry[V]{
		name:  name,
		items: make(map[string]V),
	}
}

// SetValidator installs a validator run on every Register call
func (r *Registry[V]) SetValidator(validator RegistryValidator[V]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validator = validator
}

// Register adds value under key
func (r *Registry[V]) Register(key string, value V) error {
	if key == "" {
		return fmt.Errorf("%s: key cannot be empty", r.name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[key]; exists {
		return fmt.Errorf("%s: %q already registered", r.name, key)
	}
	if r.validator != nil {
		if err := r.validator(key, value); err != nil {
			return fmt.Errorf("%s: %q: %w", r.name, key, err)
		}
	}

	r.items[key] = value
	return nil
}

// Get retrieves the value stored under key
func (r *Registry[V]) Get(key string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.items[key]
	return value, exists
}

// MustGet retrieves the value stored under key or returns an error naming the registry
func (r *Registry[V]) MustGet(key string) (V, error) {
	value, exists := r.Get(key)
	if !exists {
		var zero V
		return zero, fmt.Errorf("%s: %q not registered", r.name, key)
	}
	return value, nil
}

// Keys returns the registered keys in sorted order
func (r *Registry[V]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.items))
	for key := range r.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered items
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
