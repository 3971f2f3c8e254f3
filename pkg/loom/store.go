package loom

import (
	"sort"
	"sync"
)

// Store keeps cached controller instances keyed by fully qualified type name.
// Individual operations are safe for concurrent use; a lookup followed by an
// insert is not atomic.
type Store struct {
	mu          sync.RWMutex
	controllers map[string]any
}

// NewStore creates an empty controller store
func NewStore() *Store {
	return &Store{
		controllers: make(map[string]any),
	}
}

// GetControllerFromStore returns the controller stored for typeName
func (s *Store) GetControllerFromStore(typeName string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	controller, exists := s.controllers[typeName]
	return controller, exists
}

// StoreController stores controller under typeName, replacing any previous instance
func (s *Store) StoreController(typeName string, controller any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.controllers[typeName] = controller
}

// Remove drops the controller stored for typeName
func (s *Store) Remove(typeName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.controllers, typeName)
}

// Clear removes every stored controller
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.controllers = make(map[string]any)
}

// TypeNames returns the stored type names in sorted order
func (s *Store) TypeNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.controllers))
	for name := range s.controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
