package scanner

import (
	"github.com/toyz/loom/internal/discovery"
	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/markers"
	"github.com/toyz/loom/internal/model"
	"github.com/toyz/loom/internal/validation"
)

// ShellsScanner records the shells declared on the application descriptor
type ShellsScanner struct {
	validator *validation.TypeValidator
}

// NewShellsScanner creates a ShellsScanner
func NewShellsScanner() *ShellsScanner {
	return &ShellsScanner{validator: validation.NewApplicationValidator()}
}

// Name implements Scanner
func (s *ShellsScanner) Name() string { return "shells" }

// Scan implements Scanner
func (s *ShellsScanner) Scan(universe *discovery.Universe, meta *model.ApplicationMetaModel) error {
	descriptor, ok := descriptorOf(universe, meta)

	for _, t := range universe.TypesWithMarker(markers.ShellsMarker) {
		if !ok || t != descriptor {
			return errors.NewStructuralError(t.QualifiedName(), "shells",
				"shells can only be declared on the loom::application descriptor").
				At(t.MarkersOf(markers.ShellsMarker)[0].Location)
		}
	}
	if !ok {
		return nil
	}

	_, err := s.ScanShells(descriptor, universe, meta)
	return err
}

// ScanShells validates the shells marker of descriptor and appends one
// ShellModel per entry in declaration order. The marker's contribution is
// atomic: every entry is validated before the first one is appended.
func (s *ShellsScanner) ScanShells(descriptor *discovery.Type, universe *discovery.Universe, meta *model.ApplicationMetaModel) (*model.ApplicationMetaModel, error) {
	// descriptor eligibility is shared with the other root markers and is
	// checked even when no shells are declared
	if err := s.validator.Validate(descriptor); err != nil {
		return nil, err
	}

	marker, err := single(descriptor, markers.ShellsMarker)
	if err != nil {
		return nil, err
	}
	if marker == nil {
		return meta, nil
	}

	names := validation.NewShellNameValidator(meta, descriptor.QualifiedName())
	shells := make([]*model.ShellModel, 0, len(marker.Entries))

	for _, entry := range marker.Entries {
		if err := names.Accept(entry.Name, marker.Location); err != nil {
			return nil, err
		}

		className, err := universe.ResolveReference(descriptor, entry.Value, marker.Location)
		if err != nil {
			return nil, err
		}

		shells = append(shells, &model.ShellModel{
			Name:      entry.Name,
			ClassName: className,
			Location:  marker.Location,
		})
	}

	meta.AddShells(shells...)
	return meta, nil
}
