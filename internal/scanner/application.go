package scanner

import (
	"fmt"

	"github.com/toyz/loom/internal/discovery"
	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/markers"
	"github.com/toyz/loom/internal/model"
	"github.com/toyz/loom/internal/validation"
)

// ApplicationScanner records the single application descriptor
type ApplicationScanner struct {
	validator *validation.TypeValidator
}

// NewApplicationScanner creates an ApplicationScanner
func NewApplicationScanner() *ApplicationScanner {
	return &ApplicationScanner{validator: validation.NewApplicationValidator()}
}

// Name implements Scanner
func (s *ApplicationScanner) Name() string { return "application" }

// Scan implements Scanner
func (s *ApplicationScanner) Scan(universe *discovery.Universe, meta *model.ApplicationMetaModel) error {
	descriptors := universe.TypesWithMarker(markers.ApplicationMarker)

	switch len(descriptors) {
	case 0:
		for _, kind := range []markers.Kind{markers.ShellsMarker, markers.ControllerMarker} {
			if typed := universe.TypesWithMarker(kind); len(typed) > 0 {
				return errors.NewStructuralError(typed[0].QualifiedName(), kind.String(),
					"no loom::application descriptor found").
					At(typed[0].Location).
					Hint("mark one struct with //loom::application -Context=YourContext")
			}
		}
		return nil
	case 1:
	default:
		return errors.NewStructuralError(descriptors[1].QualifiedName(), "application",
			fmt.Sprintf("application already declared by %s", descriptors[0].QualifiedName())).
			At(descriptors[1].Location)
	}

	descriptor := descriptors[0]
	if err := s.validator.Validate(descriptor); err != nil {
		return err
	}

	marker, err := single(descriptor, markers.ApplicationMarker)
	if err != nil {
		return err
	}

	contextType, err := universe.ResolveReference(descriptor, marker.GetString("Context"), marker.Location)
	if err != nil {
		return err
	}

	meta.SetApplication(&model.ApplicationModel{
		ClassName:   descriptor.ClassName(),
		PackageName: descriptor.Package.Name,
		Context:     contextType,
		StartRoute:  marker.GetString("StartRoute"),
		Location:    marker.Location,
	})
	return nil
}

// descriptorOf returns the discovered type of the recorded application
func descriptorOf(universe *discovery.Universe, meta *model.ApplicationMetaModel) (*discovery.Type, bool) {
	if meta.Application == nil {
		return nil, false
	}
	return universe.LookupType(meta.Application.ClassName)
}
