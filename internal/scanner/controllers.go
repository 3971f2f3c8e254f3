package scanner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/loom/internal/discovery"
	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/markers"
	"github.com/toyz/loom/internal/model"
	"github.com/toyz/loom/internal/validation"
)

// ControllerScanner records controllers with their composites and route parameters
type ControllerScanner struct {
	validator *validation.TypeValidator
}

// NewControllerScanner creates a ControllerScanner
func NewControllerScanner() *ControllerScanner {
	return &ControllerScanner{validator: validation.NewControllerValidator()}
}

// Name implements Scanner
func (s *ControllerScanner) Name() string { return "controller" }

// Scan implements Scanner
func (s *ControllerScanner) Scan(universe *discovery.Universe, meta *model.ApplicationMetaModel) error {
	for _, t := range universe.TypesWithMarker(markers.ControllerMarker) {
		controller, err := s.scanController(t, universe, meta)
		if err != nil {
			return err
		}
		meta.AddController(controller)
	}

	return checkStartRoute(meta)
}

func (s *ControllerScanner) scanController(t *discovery.Type, universe *discovery.Universe, meta *model.ApplicationMetaModel) (*model.ControllerModel, error) {
	if err := s.validator.Validate(t); err != nil {
		return nil, err
	}

	marker, err := single(t, markers.ControllerMarker)
	if err != nil {
		return nil, err
	}
	if meta.Application != nil {
		if err := validation.CheckContextArgument(t, meta.Application.Context); err != nil {
			return nil, err
		}
	}

	route := marker.GetString("Route")
	if err := checkRouteParameters(t, route, marker.Location); err != nil {
		return nil, err
	}
	shell := model.RouteShell(route)
	if _, ok := meta.Shell(shell); !ok {
		return nil, errors.NewUnresolvedReferenceError(shell, t.QualifiedName(),
			fmt.Sprintf("route %s targets undeclared shell %q", route, shell)).
			At(marker.Location).
			Hint(fmt.Sprintf("declared shells: %s", strings.Join(meta.ShellNames(), ", ")))
	}
	if existing, ok := meta.ControllerForRoute(route); ok {
		return nil, errors.NewDuplicateNameError("route", route, t.QualifiedName()).
			At(marker.Location).
			WithPrevious(existing.Location)
	}

	controller := &model.ControllerModel{
		ClassName:   t.ClassName(),
		PackageName: t.Package.Name,
		Route:       route,
		Shell:       shell,
		Cache:       marker.GetBool("Cache"),
		Location:    marker.Location,
	}

	if marker.Has("Constructor") {
		fn, err := validation.CheckConstructor(t, "controller", marker.GetString("Constructor"))
		if err != nil {
			return nil, err
		}
		controller.Constructor = &model.Constructor{Name: fn.Name, ReturnsError: fn.ReturnsError}
	}

	if controller.Composites, err = scanComposites(t, universe, meta); err != nil {
		return nil, err
	}
	if controller.Parameters, err = scanParameters(t, route); err != nil {
		return nil, err
	}

	return controller, nil
}

func scanComposites(t *discovery.Type, universe *discovery.Universe, meta *model.ApplicationMetaModel) ([]*model.CompositeAttachment, error) {
	var attachments []*model.CompositeAttachment
	seen := make(map[string]errors.SourceLocation)

	for _, m := range t.MarkersOf(markers.CompositeMarker) {
		name := m.GetString("Name")
		if previous, exists := seen[name]; exists {
			return nil, errors.NewDuplicateNameError("composite", name, t.QualifiedName()).
				At(m.Location).
				WithPrevious(previous)
		}
		seen[name] = m.Location

		reference := m.GetString("Component")
		component, err := universe.ResolveReference(t, reference, m.Location)
		if err != nil {
			return nil, err
		}
		if _, ok := meta.Composite(component); !ok {
			return nil, errors.NewUnresolvedReferenceError(reference, t.QualifiedName(),
				fmt.Sprintf("%s is not a loom::component", component)).
				At(m.Location).
				Hint(fmt.Sprintf("mark %s with //loom::component", component.Name))
		}

		setter := m.GetString("Setter")
		method, err := validation.CheckSetter(t, "composite", setter, "composite "+name)
		if err != nil {
			return nil, err
		}
		if !validation.PointerTo(method.Scope, method.Params[0], component) {
			return nil, errors.NewStructuralError(t.QualifiedName(), "composite",
				fmt.Sprintf("setter %s takes %s but composite %s is a *%s", setter, method.Params[0], name, component)).
				At(method.Location)
		}

		attachments = append(attachments, &model.CompositeAttachment{
			Name:               name,
			Component:          component,
			Setter:             setter,
			SetterReturnsError: method.ReturnsError,
			Selector:           m.GetString("Selector"),
			Location:           m.Location,
		})
	}
	return attachments, nil
}

func scanParameters(t *discovery.Type, route string) ([]*model.ParameterModel, error) {
	routeParams := model.RouteParameters(route)
	position := make(map[string]int, len(routeParams))
	for i, p := range routeParams {
		position[p] = i
	}

	var params []*model.ParameterModel
	seen := make(map[string]errors.SourceLocation)

	for _, method := range t.Methods {
		found := method.MarkersOf(markers.ParameterMarker)
		if len(found) == 0 {
			continue
		}
		if len(found) > 1 {
			return nil, errors.NewStructuralError(t.QualifiedName(), "parameter",
				fmt.Sprintf("method %s declares %d parameters, a setter binds exactly one", method.Name, len(found))).
				At(found[1].Location)
		}

		m := found[0]
		name := m.Entries[0].Name
		if _, ok := position[name]; !ok {
			return nil, errors.NewUnresolvedReferenceError(name, t.QualifiedName(),
				fmt.Sprintf("route %s has no :%s segment", route, name)).
				At(m.Location)
		}
		if previous, exists := seen[name]; exists {
			return nil, errors.NewDuplicateNameError("parameter", name, t.QualifiedName()).
				At(m.Location).
				WithPrevious(previous)
		}
		seen[name] = m.Location

		if err := validation.CheckParameterSetter(t, method); err != nil {
			return nil, err
		}

		params = append(params, &model.ParameterModel{
			Name:         name,
			Setter:       method.Name,
			ReturnsError: method.ReturnsError,
			Location:     m.Location,
		})
	}

	sort.SliceStable(params, func(i, j int) bool {
		return position[params[i].Name] < position[params[j].Name]
	})
	return params, nil
}

// checkRouteParameters rejects routes naming the same parameter twice
func checkRouteParameters(t *discovery.Type, route string, at errors.SourceLocation) error {
	seen := make(map[string]bool)
	for _, name := range model.RouteParameters(route) {
		if seen[name] {
			return errors.NewDuplicateNameError("route parameter", name, t.QualifiedName()).
				At(at)
		}
		seen[name] = true
	}
	return nil
}

func checkStartRoute(meta *model.ApplicationMetaModel) error {
	app := meta.Application
	if app == nil || app.StartRoute == "" {
		return nil
	}
	for _, c := range meta.Controllers {
		if model.RouteMatches(c.Route, app.StartRoute) {
			return nil
		}
	}
	return errors.NewUnresolvedReferenceError(app.StartRoute, app.ClassName.String(),
		"no controller handles the start route").
		At(app.Location)
}
