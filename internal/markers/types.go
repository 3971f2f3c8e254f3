package markers

import (
	"fmt"

	"github.com/toyz/loom/internal/errors"
)

// Prefix introduces every loom marker inside a line comment
const Prefix = "loom::"

// Kind represents the kind of a marker
type Kind int

const (
	ApplicationMarker Kind = iota
	ShellsMarker
	ControllerMarker
	CompositeMarker
	ComponentMarker
	ParameterMarker
)

// String returns the marker name as written after loom::
func (k Kind) String() string {
	switch k {
	case ApplicationMarker:
		return "application"
	case ShellsMarker:
		return "shells"
	case ControllerMarker:
		return "controller"
	case CompositeMarker:
		return "composite"
	case ComponentMarker:
		return "component"
	case ParameterMarker:
		return "parameter"
	default:
		return "unknown"
	}
}

// ParseKind converts a marker name to a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "application":
		return ApplicationMarker, nil
	case "shells":
		return ShellsMarker, nil
	case "controller":
		return ControllerMarker, nil
	case "composite":
		return CompositeMarker, nil
	case "component":
		return ComponentMarker, nil
	case "parameter":
		return ParameterMarker, nil
	default:
		return 0, fmt.Errorf("unknown marker kind: %s", s)
	}
}

// Entry is a positional name[=value] argument, kept in declaration order
type Entry struct {
	Name     string
	Value    string
	HasValue bool
}

// Marker is a parsed, schema-checked marker comment
type Marker struct {
	Kind       Kind
	Target     string                 // type or method the marker is attached to
	Parameters map[string]interface{} // -Key=Value options, typed by schema
	Entries    []Entry                // positional entries in declaration order
	Location   errors.SourceLocation
	Raw        string
}

// Has reports whether an option was written explicitly
func (m *Marker) Has(name string) bool {
	_, ok := m.Parameters[name]
	return ok
}

// GetString returns a string parameter value with optional default
func (m *Marker) GetString(name string, defaultValue ...string) string {
	if value, exists := m.Parameters[name]; exists {
		if s, ok := value.(string); ok {
			return s
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetBool returns a boolean parameter value with optional default
func (m *Marker) GetBool(name string, defaultValue ...bool) bool {
	if value, exists := m.Parameters[name]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// GetInt returns an integer parameter value with optional default
func (m *Marker) GetInt(name string, defaultValue ...int) int {
	if value, exists := m.Parameters[name]; exists {
		if i, ok := value.(int); ok {
			return i
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}
