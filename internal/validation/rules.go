package validation

import (
	"fmt"
	"strings"

	"github.com/toyz/loom/internal/discovery"
	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/model"
	"github.com/toyz/loom/internal/utils"
)

// RuntimePackage is the import path of the runtime library controllers and
// components embed their base types from
const RuntimePackage = "github.com/toyz/loom/pkg/loom"

// TypeRule checks a discovered type carrying a marker
type TypeRule = utils.Validator[*discovery.Type]

// IsStruct requires the type to be a struct
func IsStruct(marker string) TypeRule {
	return func(t *discovery.Type) error {
		if t.Kind == discovery.StructKind {
			return nil
		}
		return errors.NewStructuralError(t.QualifiedName(), marker,
			fmt.Sprintf("only struct types are supported, found %s", t.Kind)).
			At(t.Location).
			Hint(fmt.Sprintf("declare %s as type %s struct{ ... }", t.Name, t.Name))
	}
}

// EmbedsRuntimeBase requires the type to embed loom.<base>
func EmbedsRuntimeBase(marker, base string, example string) TypeRule {
	return func(t *discovery.Type) error {
		for _, e := range t.Embeds {
			if e.PackagePath != RuntimePackage || e.Name != base {
				continue
			}
			if e.Pointer {
				return errors.NewStructuralError(t.QualifiedName(), marker,
					fmt.Sprintf("loom.%s must be embedded by value", base)).
					At(t.Location).
					Hint(fmt.Sprintf("replace the field with %s", example))
			}
			return nil
		}
		return errors.NewStructuralError(t.QualifiedName(), marker,
			fmt.Sprintf("must embed loom.%s", base)).
			At(t.Location).
			Hint(fmt.Sprintf("import %q and add the field %s", RuntimePackage, example))
	}
}

// HasLifecycleMethod requires a method name without parameters
func HasLifecycleMethod(marker, name string) TypeRule {
	return func(t *discovery.Type) error {
		method, ok := t.Method(name)
		if !ok {
			return errors.NewStructuralError(t.QualifiedName(), marker,
				fmt.Sprintf("missing method %s()", name)).
				At(t.Location).
				Hint(fmt.Sprintf("add func (c *%s) %s() error", t.Name, name))
		}
		if len(method.Params) != 0 || !resultsAreErrorOrNothing(method.Results) {
			return errors.NewStructuralError(t.QualifiedName(), marker,
				fmt.Sprintf("method %s must have no parameters and return nothing or error", name)).
				At(method.Location)
		}
		return nil
	}
}

func resultsAreErrorOrNothing(results []string) bool {
	return len(results) == 0 || (len(results) == 1 && results[0] == "error")
}

// CheckSetter verifies that owner declares a one-argument method named setter.
// It returns the method so callers can record whether it returns an error.
func CheckSetter(owner *discovery.Type, marker, setter, purpose string) (*discovery.Method, error) {
	method, ok := owner.Method(setter)
	if !ok {
		return nil, errors.NewStructuralError(owner.QualifiedName(), marker,
			fmt.Sprintf("setter %s for %s is not declared", setter, purpose)).
			At(owner.Location).
			Hint(fmt.Sprintf("add func (c *%s) %s(value ...)", owner.Name, setter))
	}
	if len(method.Params) != 1 || !resultsAreErrorOrNothing(method.Results) {
		return nil, errors.NewStructuralError(owner.QualifiedName(), marker,
			fmt.Sprintf("setter %s for %s must take exactly one argument and return nothing or error", setter, purpose)).
			At(method.Location)
	}
	return method, nil
}

// CheckParameterSetter verifies a //loom::parameter method takes one string
func CheckParameterSetter(owner *discovery.Type, method *discovery.Method) error {
	if len(method.Params) != 1 || method.Params[0] != "string" || !resultsAreErrorOrNothing(method.Results) {
		return errors.NewStructuralError(owner.QualifiedName(), "parameter",
			fmt.Sprintf("method %s must take a single string and return nothing or error", method.Name)).
			At(method.Location).
			Hint(fmt.Sprintf("declare func (c *%s) %s(value string)", owner.Name, method.Name))
	}
	return nil
}

// CheckContextArgument verifies that a controller instantiates
// loom.BaseController with a pointer to the application context
func CheckContextArgument(owner *discovery.Type, context model.ClassName) error {
	for _, e := range owner.Embeds {
		if e.PackagePath != RuntimePackage || e.Name != "BaseController" {
			continue
		}
		if len(e.TypeArgs) == 1 && PointerTo(owner.Scope(), e.TypeArgs[0], context) {
			return nil
		}
		return errors.NewStructuralError(owner.QualifiedName(), "controller",
			fmt.Sprintf("loom.BaseController[%s] does not match the application context %s",
				strings.Join(e.TypeArgs, ", "), context)).
			At(owner.Location).
			Hint(fmt.Sprintf("embed loom.BaseController[*%s]", context.Name))
	}
	return nil
}

// PointerTo reports whether a type expression written as *T or *alias.T in
// scope names className
func PointerTo(scope discovery.Scope, expr string, className model.ClassName) bool {
	if !strings.HasPrefix(expr, "*") {
		return false
	}
	resolved, ok := scope.Resolve(expr[1:])
	return ok && resolved == className
}

// CheckConstructor verifies that the package of owner declares a function
// name taking no arguments and returning *owner, optionally with an error
func CheckConstructor(owner *discovery.Type, marker, name string) (*discovery.Function, error) {
	fn, ok := owner.Package.Functions[name]
	if !ok {
		return nil, errors.NewUnresolvedReferenceError(name, owner.QualifiedName(),
			fmt.Sprintf("no function %s declared in package %s", name, owner.Package.ImportPath)).
			At(owner.Location)
	}

	want := "*" + owner.Name
	valid := len(fn.Params) == 0 &&
		len(fn.Results) >= 1 && fn.Results[0] == want &&
		(len(fn.Results) == 1 || (len(fn.Results) == 2 && fn.ReturnsError))
	if !valid {
		return nil, errors.NewStructuralError(owner.QualifiedName(), marker,
			fmt.Sprintf("constructor %s must have signature func() %s or func() (%s, error), found func(%s) (%s)",
				name, want, want, strings.Join(fn.Params, ", "), strings.Join(fn.Results, ", "))).
			At(fn.Location)
	}
	return fn, nil
}
