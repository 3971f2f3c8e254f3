package discovery

import (
	"strings"

	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/markers"
	"github.com/toyz/loom/internal/model"
)

// TypeKind classifies a declared type
type TypeKind int

const (
	OtherKind TypeKind = iota
	StructKind
	InterfaceKind
)

// String returns the string representation of the kind
func (k TypeKind) String() string {
	switch k {
	case StructKind:
		return "struct"
	case InterfaceKind:
		return "interface"
	default:
		return "non-struct type"
	}
}

// Package is one scanned Go package
type Package struct {
	Name       string
	ImportPath string
	Dir        string
	Files      []string
	Types      []*Type
	Functions  map[string]*Function

	typeIndex map[string]*Type
}

// Type returns the type declared under name
func (p *Package) Type(name string) (*Type, bool) {
	t, ok := p.typeIndex[name]
	return t, ok
}

// Type is a declared type and the markers attached to it
type Type struct {
	Name     string
	Kind     TypeKind
	Package  *Package
	File     string
	Imports  map[string]string // alias -> import path for the declaring file
	Markers  []*markers.Marker
	Methods  []*Method
	Embeds   []Embed
	Location errors.SourceLocation
}

// Scope returns the name scope of the file declaring the type
func (t *Type) Scope() Scope {
	return Scope{PackagePath: t.Package.ImportPath, Imports: t.Imports}
}

// ClassName returns the fully qualified reference to the type
func (t *Type) ClassName() model.ClassName {
	return model.NewClassName(t.Package.ImportPath, t.Name)
}

// QualifiedName returns the fully qualified name as a string
func (t *Type) QualifiedName() string {
	return t.ClassName().String()
}

// MarkersOf returns the markers of kind in declaration order
func (t *Type) MarkersOf(kind markers.Kind) []*markers.Marker {
	var result []*markers.Marker
	for _, m := range t.Markers {
		if m.Kind == kind {
			result = append(result, m)
		}
	}
	return result
}

// HasMarker reports whether a marker of kind is attached
func (t *Type) HasMarker(kind markers.Kind) bool {
	return len(t.MarkersOf(kind)) > 0
}

// Method returns the method declared under name
func (t *Type) Method(name string) (*Method, bool) {
	for _, m := range t.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// EmbedsType reports whether the struct embeds packagePath.name, with or without type arguments
func (t *Type) EmbedsType(packagePath, name string) bool {
	for _, e := range t.Embeds {
		if e.PackagePath == packagePath && e.Name == name {
			return true
		}
	}
	return false
}

// Embed is an embedded field of a struct
type Embed struct {
	PackagePath string
	Name        string
	Pointer     bool
	TypeArgs    []string
}

// Method is a method declared on a type
type Method struct {
	Name            string
	Params          []string
	Results         []string
	ReturnsError    bool
	PointerReceiver bool
	Markers         []*markers.Marker
	Scope           Scope
	Location        errors.SourceLocation
}

// Scope resolves type names as written in one source file
type Scope struct {
	PackagePath string
	Imports     map[string]string // alias -> import path
}

// Resolve turns Name or alias.Name into a ClassName. It reports false when
// alias is not imported by the file.
func (s Scope) Resolve(expr string) (model.ClassName, bool) {
	i := strings.LastIndex(expr, ".")
	if i < 0 {
		return model.NewClassName(s.PackagePath, expr), true
	}
	importPath, ok := s.Imports[expr[:i]]
	if !ok {
		return model.ClassName{}, false
	}
	return model.NewClassName(importPath, expr[i+1:]), true
}

// MarkersOf returns the markers of kind attached to the method
func (m *Method) MarkersOf(kind markers.Kind) []*markers.Marker {
	var result []*markers.Marker
	for _, marker := range m.Markers {
		if marker.Kind == kind {
			result = append(result, marker)
		}
	}
	return result
}

// Function is a package level function
type Function struct {
	Name         string
	Params       []string
	Results      []string
	ReturnsError bool
	Location     errors.SourceLocation
}
