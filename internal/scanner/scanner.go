// Package scanner turns markers found by discovery into a validated
// application metamodel. Each scanner validates before it appends and any
// failure aborts the whole pass.
package scanner

import (
	"fmt"

	"github.com/toyz/loom/internal/discovery"
	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/markers"
	"github.com/toyz/loom/internal/model"
	"github.com/toyz/loom/internal/utils"
)

// Scanner reads one marker kind off the universe and appends to the model
type Scanner interface {
	Name() string
	Scan(universe *discovery.Universe, meta *model.ApplicationMetaModel) error
}

// Config assembles a Processor. Zero values select the defaults.
type Config struct {
	// Model receives the scanned entries; a new model is created when nil
	Model *model.ApplicationMetaModel

	// Scanners run in order; defaults to DefaultScanners()
	Scanners []Scanner

	// Diagnostics receives verbose progress output
	Diagnostics *utils.DiagnosticSystem
}

// Processor runs the scanners of one compilation pass
type Processor struct {
	model       *model.ApplicationMetaModel
	scanners    []Scanner
	diagnostics *utils.DiagnosticSystem
}

// DefaultScanners returns the scanners in dependency order: the application
// descriptor first, shells before the controllers routing into them and
// components before the controllers attaching them
func DefaultScanners() []Scanner {
	return []Scanner{
		NewApplicationScanner(),
		NewShellsScanner(),
		NewComponentScanner(),
		NewControllerScanner(),
	}
}

// New validates cfg and creates a Processor
func New(cfg Config) (*Processor, error) {
	if cfg.Model == nil {
		cfg.Model = model.New()
	}
	if cfg.Model.Frozen() {
		return nil, errors.New(errors.ConfigurationErrorCode, "scanner model is already frozen")
	}
	if cfg.Scanners == nil {
		cfg.Scanners = DefaultScanners()
	}
	if len(cfg.Scanners) == 0 {
		return nil, errors.New(errors.ConfigurationErrorCode, "at least one scanner is required")
	}

	seen := make(map[string]bool, len(cfg.Scanners))
	for i, s := range cfg.Scanners {
		if s == nil {
			return nil, errors.Newf(errors.ConfigurationErrorCode, "scanner %d is nil", i)
		}
		if seen[s.Name()] {
			return nil, errors.Newf(errors.ConfigurationErrorCode, "scanner %q configured twice", s.Name())
		}
		seen[s.Name()] = true
	}

	if cfg.Diagnostics == nil {
		cfg.Diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}

	return &Processor{
		model:       cfg.Model,
		scanners:    cfg.Scanners,
		diagnostics: cfg.Diagnostics,
	}, nil
}

// Process scans universe and returns the frozen model. On error no model is
// returned.
func (p *Processor) Process(universe *discovery.Universe) (*model.ApplicationMetaModel, error) {
	if universe == nil {
		return nil, errors.New(errors.ConfigurationErrorCode, "no universe to scan")
	}

	if err := checkPlacement(universe); err != nil {
		return nil, err
	}

	for _, s := range p.scanners {
		p.diagnostics.Verbose("running %s scanner", s.Name())
		if err := s.Scan(universe, p.model); err != nil {
			return nil, err
		}
	}

	p.model.Freeze()
	p.diagnostics.Verbose("model: %d shells, %d controllers, %d components",
		len(p.model.Shells), len(p.model.Controllers), len(p.model.Composites))
	return p.model, nil
}

// checkPlacement rejects markers that sit on the wrong kind of declaration
func checkPlacement(universe *discovery.Universe) error {
	for _, pkg := range universe.Packages() {
		for _, t := range pkg.Types {
			for _, m := range t.Markers {
				if m.Kind == markers.ParameterMarker {
					return errors.NewStructuralError(t.QualifiedName(), m.Kind.String(),
						"parameter markers belong on setter methods, not on types").At(m.Location)
				}
				if m.Kind == markers.CompositeMarker && !t.HasMarker(markers.ControllerMarker) {
					return errors.NewStructuralError(t.QualifiedName(), m.Kind.String(),
						"composites can only be attached to a loom::controller").At(m.Location)
				}
			}
			if t.HasMarker(markers.ControllerMarker) && t.HasMarker(markers.ComponentMarker) {
				return errors.NewStructuralError(t.QualifiedName(), "component",
					"a type cannot be both a controller and a component").At(t.Location)
			}
			for _, method := range t.Methods {
				for _, m := range method.Markers {
					if m.Kind != markers.ParameterMarker {
						return errors.NewStructuralError(t.QualifiedName(), m.Kind.String(),
							fmt.Sprintf("marker found on method %s, only loom::parameter may be placed on methods", method.Name)).
							At(m.Location)
					}
					if !t.HasMarker(markers.ControllerMarker) {
						return errors.NewStructuralError(t.QualifiedName(), m.Kind.String(),
							fmt.Sprintf("method %s declares a parameter but its type is not a loom::controller", method.Name)).
							At(m.Location)
					}
				}
			}
		}
	}
	return nil
}

// single returns the only marker of kind on t and fails when it is repeated
func single(t *discovery.Type, kind markers.Kind) (*markers.Marker, error) {
	found := t.MarkersOf(kind)
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, errors.NewStructuralError(t.QualifiedName(), kind.String(),
			fmt.Sprintf("declared %d times, at most one is allowed", len(found))).
			At(found[1].Location)
	}
}
