package model

import (
	"strings"

	"github.com/toyz/loom/internal/errors"
)

// ApplicationMetaModel is the root aggregate built by one scan pass.
// Sequences keep declaration order. After Freeze the model is read-only.
type ApplicationMetaModel struct {
	Application *ApplicationModel
	Shells      []*ShellModel
	Controllers []*ControllerModel
	Composites  []*CompositeModel

	frozen bool
}

// New creates an empty metamodel
func New() *ApplicationMetaModel {
	return &ApplicationMetaModel{}
}

// ApplicationModel describes the application descriptor type
type ApplicationModel struct {
	ClassName   ClassName
	PackageName string
	Context     ClassName
	StartRoute  string
	Location    errors.SourceLocation
}

// ShellModel is one named top-level container. Immutable once appended.
type ShellModel struct {
	Name      string
	ClassName ClassName
	Location  errors.SourceLocation
}

// ControllerModel describes a controller type and everything attached to it
type ControllerModel struct {
	ClassName   ClassName
	PackageName string
	Route       string
	Shell       string
	Cache       bool
	Constructor *Constructor
	Composites  []*CompositeAttachment
	Parameters  []*ParameterModel
	Location    errors.SourceLocation
}

// RouteParameters returns the :name segments of the route in order
func (c *ControllerModel) RouteParameters() []string {
	return RouteParameters(c.Route)
}

// CompositeAttachment is one composite declared on a controller
type CompositeAttachment struct {
	Name               string
	Component          ClassName
	Setter             string
	SetterReturnsError bool
	Selector           string
	Location           errors.SourceLocation
}

// CompositeModel describes a composite component type
type CompositeModel struct {
	ClassName          ClassName
	Constructor        *Constructor
	RenderReturnsError bool
	BindReturnsError   bool
	Location           errors.SourceLocation
}

// ParameterModel binds one route parameter to a controller setter
type ParameterModel struct {
	Name         string
	Setter       string
	ReturnsError bool
	Location     errors.SourceLocation
}

// Constructor is a package function creating an instance
type Constructor struct {
	Name         string
	ReturnsError bool
}

// Freeze marks the handoff from the build phase to the generation phase
func (m *ApplicationMetaModel) Freeze() {
	m.frozen = true
}

// Frozen reports whether the model is read-only
func (m *ApplicationMetaModel) Frozen() bool {
	return m.frozen
}

func (m *ApplicationMetaModel) mustBeMutable() {
	if m.frozen {
		panic("loom: application metamodel modified after freeze")
	}
}

// SetApplication records the application descriptor
func (m *ApplicationMetaModel) SetApplication(app *ApplicationModel) {
	m.mustBeMutable()
	m.Application = app
}

// AddShells appends shells in the given order
func (m *ApplicationMetaModel) AddShells(shells ...*ShellModel) {
	m.mustBeMutable()
	m.Shells = append(m.Shells, shells...)
}

// AddController appends a controller
func (m *ApplicationMetaModel) AddController(controller *ControllerModel) {
	m.mustBeMutable()
	m.Controllers = append(m.Controllers, controller)
}

// AddComposite appends a composite component type
func (m *ApplicationMetaModel) AddComposite(composite *CompositeModel) {
	m.mustBeMutable()
	m.Composites = append(m.Composites, composite)
}

// Shell returns the shell declared under name
func (m *ApplicationMetaModel) Shell(name string) (*ShellModel, bool) {
	for _, shell := range m.Shells {
		if shell.Name == name {
			return shell, true
		}
	}
	return nil, false
}

// ShellNames returns the shell names in declaration order
func (m *ApplicationMetaModel) ShellNames() []string {
	names := make([]string, len(m.Shells))
	for i, shell := range m.Shells {
		names[i] = shell.Name
	}
	return names
}

// Controller returns the controller with the given class name
func (m *ApplicationMetaModel) Controller(className ClassName) (*ControllerModel, bool) {
	for _, controller := range m.Controllers {
		if controller.ClassName == className {
			return controller, true
		}
	}
	return nil, false
}

// ControllerForRoute returns the controller handling route
func (m *ApplicationMetaModel) ControllerForRoute(route string) (*ControllerModel, bool) {
	for _, controller := range m.Controllers {
		if controller.Route == route {
			return controller, true
		}
	}
	return nil, false
}

// Composite returns the composite component with the given class name
func (m *ApplicationMetaModel) Composite(className ClassName) (*CompositeModel, bool) {
	for _, composite := range m.Composites {
		if composite.ClassName == className {
			return composite, true
		}
	}
	return nil, false
}

// RouteParameters returns the :name segments of route in order
func RouteParameters(route string) []string {
	var params []string
	for _, segment := range strings.Split(strings.Trim(route, "/"), "/") {
		if strings.HasPrefix(segment, ":") {
			params = append(params, segment[1:])
		}
	}
	return params
}

// RouteShell returns the first segment of route
func RouteShell(route string) string {
	trimmed := strings.TrimPrefix(route, "/")
	if i := strings.Index(trimmed, "/"); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

// RouteMatches reports whether route is an instance of pattern, where pattern
// segments starting with ':' match any single segment
func RouteMatches(pattern, route string) bool {
	patternSegments := strings.Split(strings.Trim(pattern, "/"), "/")
	routeSegments := strings.Split(strings.Trim(route, "/"), "/")
	if len(patternSegments) != len(routeSegments) {
		return false
	}
	for i, segment := range patternSegments {
		if strings.HasPrefix(segment, ":") {
			if routeSegments[i] == "" {
				return false
			}
			continue
		}
		if segment != routeSegments[i] {
			return false
		}
	}
	return true
}
