package validation

import (
	"github.com/toyz/loom/internal/discovery"
	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/model"
	"github.com/toyz/loom/internal/utils"
)

// TypeValidator checks the eligibility of a marked type
type TypeValidator struct {
	chain *utils.ValidatorChain[*discovery.Type]
}

// Validate returns every rule violation for t, or nil
func (v *TypeValidator) Validate(t *discovery.Type) error {
	errs := v.chain.ValidateAll(t)
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	multi := errors.NewMultipleErrors()
	for _, err := range errs {
		if loomErr, ok := err.(errors.LoomError); ok {
			multi.Add(loomErr)
		} else {
			multi.Add(errors.Wrap(errors.StructuralErrorCode, "invalid type", err))
		}
	}
	return multi
}

// NewApplicationValidator checks application descriptors
func NewApplicationValidator() *TypeValidator {
	return &TypeValidator{chain: utils.NewValidatorChain(
		IsStruct("application"),
	)}
}

// NewComponentValidator checks composite component types
func NewComponentValidator() *TypeValidator {
	return &TypeValidator{chain: utils.NewValidatorChain(
		IsStruct("component"),
		EmbedsRuntimeBase("component", "BaseComponent", "loom.BaseComponent[*MyController]"),
		HasLifecycleMethod("component", "Render"),
		HasLifecycleMethod("component", "Bind"),
	)}
}

// NewControllerValidator checks controller types
func NewControllerValidator() *TypeValidator {
	return &TypeValidator{chain: utils.NewValidatorChain(
		IsStruct("controller"),
		EmbedsRuntimeBase("controller", "BaseController", "loom.BaseController[*AppContext]"),
	)}
}

// ShellNameValidator checks shell names against the model and against the
// entries already accepted from the marker being processed
type ShellNameValidator struct {
	owner   string
	known   map[string]errors.SourceLocation
	pending map[string]errors.SourceLocation
}

// NewShellNameValidator snapshots the shells already in meta
func NewShellNameValidator(meta *model.ApplicationMetaModel, owner string) *ShellNameValidator {
	known := make(map[string]errors.SourceLocation, len(meta.Shells))
	for _, shell := range meta.Shells {
		known[shell.Name] = shell.Location
	}
	return &ShellNameValidator{
		owner:   owner,
		known:   known,
		pending: make(map[string]errors.SourceLocation),
	}
}

// Accept validates name and remembers it for the following entries
func (v *ShellNameValidator) Accept(name string, loc errors.SourceLocation) error {
	if previous, exists := v.known[name]; exists {
		return errors.NewDuplicateNameError("shell", name, v.owner).At(loc).WithPrevious(previous)
	}
	if previous, exists := v.pending[name]; exists {
		return errors.NewDuplicateNameError("shell", name, v.owner).At(loc).WithPrevious(previous)
	}
	v.pending[name] = loc
	return nil
}
