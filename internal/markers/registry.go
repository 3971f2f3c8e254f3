package markers

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages marker schemas
type Registry interface {
	// Register adds a schema for a marker kind
	Register(kind Kind, schema Schema) error

	// Schema retrieves the schema for a marker kind
	Schema(kind Kind) (Schema, error)

	// Kinds returns all registered marker kinds in ascending order
	Kinds() []Kind

	// IsRegistered checks if a marker kind is registered
	IsRegistered(kind Kind) bool
}

type registry struct {
	mu      sync.RWMutex
	schemas map[Kind]Schema
}

// NewRegistry creates an empty marker registry
func NewRegistry() Registry {
	return &registry{
		schemas: make(map[Kind]Schema),
	}
}

var (
	defaultRegistry     Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry preloaded with the builtin schemas
func DefaultRegistry() Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltinSchemas(defaultRegistry); err != nil {
			panic(fmt.Sprintf("builtin marker schemas: %v", err))
		}
	})
	return defaultRegistry
}

// Register adds a schema for a marker kind
func (r *registry) Register(kind Kind, schema Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Kind != kind {
		return fmt.Errorf("schema kind %s does not match marker kind %s", schema.Kind, kind)
	}

	if _, exists := r.schemas[kind]; exists {
		return fmt.Errorf("marker kind %s is already registered", kind)
	}

	if err := validateSchema(schema); err != nil {
		return fmt.Errorf("invalid schema for %s: %w", kind, err)
	}

	r.schemas[kind] = schema
	return nil
}

// Schema retrieves the schema for a marker kind
func (r *registry) Schema(kind Kind) (Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[kind]
	if !exists {
		return Schema{}, fmt.Errorf("marker kind %s is not registered", kind)
	}
	return schema, nil
}

// Kinds returns all registered marker kinds in ascending order
func (r *registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.schemas))
	for kind := range r.schemas {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// IsRegistered checks if a marker kind is registered
func (r *registry) IsRegistered(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[kind]
	return exists
}

func validateSchema(schema Schema) error {
	for name, spec := range schema.Parameters {
		if name == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}
		if spec.Type < StringType || spec.Type > IntType {
			return fmt.Errorf("invalid parameter type for %s: %d", name, spec.Type)
		}
		if spec.DefaultValue != nil {
			if err := checkValueType(name, spec.Type, spec.DefaultValue); err != nil {
				return err
			}
		}
	}

	entries := schema.Entries
	if entries.Min < 0 {
		return fmt.Errorf("entry minimum cannot be negative")
	}
	if entries.Max >= 0 && entries.Max < entries.Min {
		return fmt.Errorf("entry maximum %d is below minimum %d", entries.Max, entries.Min)
	}
	if entries.RequireValue && entries.ForbidValue {
		return fmt.Errorf("entries cannot both require and forbid values")
	}
	return nil
}

func checkValueType(name string, paramType ParameterType, value interface{}) error {
	switch paramType {
	case StringType:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("default value for string parameter %s must be string, got %T", name, value)
		}
	case BoolType:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("default value for bool parameter %s must be bool, got %T", name, value)
		}
	case IntType:
		if _, ok := value.(int); !ok {
			return fmt.Errorf("default value for int parameter %s must be int, got %T", name, value)
		}
	}
	return nil
}
