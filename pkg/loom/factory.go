package loom

import (
	"fmt"
	"sort"
	"sync"
)

// ControllerFactory creates controllers through their registered creators
type ControllerFactory interface {
	// Register adds a creator for the fully qualified controller type name
	Register(typeName string, creator Creator) error

	// Creator retrieves the creator registered for typeName
	Creator(typeName string) (Creator, bool)

	// CreateController runs Create and, for fresh instances, OnFinishCreating
	CreateController(typeName string, params ...string) (*ControllerInstance, error)

	// TypeNames returns the registered type names in sorted order
	TypeNames() []string
}

type inMemoryControllerFactory struct {
	mu       sync.RWMutex
	creators map[string]Creator
}

// NewControllerFactory creates an empty controller factory
func NewControllerFactory() ControllerFactory {
	return &inMemoryControllerFactory{
		creators: make(map[string]Creator),
	}
}

func (f *inMemoryControllerFactory) Register(typeName string, creator Creator) error {
	if creator == nil {
		return fmt.Errorf("creator for %s is nil", typeName)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.creators[typeName]; exists {
		return fmt.Errorf("creator for %s already registered", typeName)
	}
	f.creators[typeName] = creator
	return nil
}

func (f *inMemoryControllerFactory) Creator(typeName string) (Creator, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	creator, exists := f.creators[typeName]
	return creator, exists
}

func (f *inMemoryControllerFactory) CreateController(typeName string, params ...string) (*ControllerInstance, error) {
	creator, exists := f.Creator(typeName)
	if !exists {
		return nil, fmt.Errorf("no creator registered for %s", typeName)
	}

	instance, err := creator.Create()
	if err != nil {
		return nil, err
	}

	// cached controllers were fully wired when they were first created
	if instance.Cached {
		return instance, nil
	}

	if err := creator.OnFinishCreating(instance.Controller, params...); err != nil {
		return nil, err
	}
	return instance, nil
}

func (f *inMemoryControllerFactory) TypeNames() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
