package scanner

import (
	"github.com/toyz/loom/internal/discovery"
	"github.com/toyz/loom/internal/markers"
	"github.com/toyz/loom/internal/model"
	"github.com/toyz/loom/internal/validation"
)

// ComponentScanner records composite component types
type ComponentScanner struct {
	validator *validation.TypeValidator
}

// NewComponentScanner creates a ComponentScanner
func NewComponentScanner() *ComponentScanner {
	return &ComponentScanner{validator: validation.NewComponentValidator()}
}

// Name implements Scanner
func (s *ComponentScanner) Name() string { return "component" }

// Scan implements Scanner
func (s *ComponentScanner) Scan(universe *discovery.Universe, meta *model.ApplicationMetaModel) error {
	for _, t := range universe.TypesWithMarker(markers.ComponentMarker) {
		composite, err := s.scanComponent(t)
		if err != nil {
			return err
		}
		meta.AddComposite(composite)
	}
	return nil
}

func (s *ComponentScanner) scanComponent(t *discovery.Type) (*model.CompositeModel, error) {
	if err := s.validator.Validate(t); err != nil {
		return nil, err
	}

	marker, err := single(t, markers.ComponentMarker)
	if err != nil {
		return nil, err
	}

	composite := &model.CompositeModel{
		ClassName: t.ClassName(),
		Location:  marker.Location,
	}

	if marker.Has("Constructor") {
		fn, err := validation.CheckConstructor(t, "component", marker.GetString("Constructor"))
		if err != nil {
			return nil, err
		}
		composite.Constructor = &model.Constructor{Name: fn.Name, ReturnsError: fn.ReturnsError}
	}

	// the validator guarantees both lifecycle methods exist
	render, _ := t.Method("Render")
	bind, _ := t.Method("Bind")
	composite.RenderReturnsError = render.ReturnsError
	composite.BindReturnsError = bind.ReturnsError

	return composite, nil
}
