package creator

import (
	"fmt"

	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/model"
	"github.com/toyz/loom/internal/templates"
	"github.com/toyz/loom/internal/utils"
	"github.com/toyz/loom/internal/validation"
)

// identifiers used by the creator template that imports must not shadow
var creatorLocals = []string{
	"c", "controller", "err", "found", "instance", "logger", "ok", "params", "result", "session", "stored",
}

// ControllerCreationSpec is everything the creator template needs to emit
// the creator of one controller. Type expressions are already qualified for
// the controller's package.
type ControllerCreationSpec struct {
	PackagePath string
	PackageName string
	FileName    string
	Imports     string
	Loom        string

	ControllerName string
	TypeName       string
	TypeNameConst  string
	CreatorName    string
	ContextType    string
	Route          string
	Cache          bool
	Constructor    *ConstructorSpec

	Composites []CompositeSpec
	Parameters []ParameterSpec
}

// ConstructorSpec is a constructor call expression
type ConstructorSpec struct {
	Name         string
	ReturnsError bool
}

// CompositeSpec is one composite attachment resolved against its component type
type CompositeSpec struct {
	Name               string
	Var                string
	TypeName           string
	TypeExpr           string
	Constructor        *ConstructorSpec
	Setter             string
	SetterReturnsError bool
	RenderReturnsError bool
	BindReturnsError   bool
}

// ParameterSpec binds the route parameter at Index to a setter
type ParameterSpec struct {
	Name         string
	Setter       string
	ReturnsError bool
	Index        int
}

// Position is the minimum number of supplied parameters for this setter to run
func (p ParameterSpec) Position() int {
	return p.Index + 1
}

// ApplicationSpec is the data of the application file
type ApplicationSpec struct {
	PackagePath string
	PackageName string
	FileName    string
	Imports     string
	Loom        string

	Name       string
	Prefix     string
	StartRoute string
	Shells     []ShellSpec
	Routes     []RouteSpec
}

// ShellSpec is one entry of the shell table
type ShellSpec struct {
	Name     string
	TypeName string
}

// RouteSpec is one entry of the route table
type RouteSpec struct {
	Route          string
	Shell          string
	ControllerType string
	Parameters     []string
	Cache          bool
}

// BuildSpec resolves a controller of meta into a ControllerCreationSpec
func BuildSpec(meta *model.ApplicationMetaModel, controller *model.ControllerModel) (*ControllerCreationSpec, error) {
	if meta.Application == nil {
		return nil, errors.New(errors.GenerationErrorCode, "cannot generate creators without an application descriptor")
	}

	name := controller.ClassName.Name
	im := templates.NewImportManager(controller.ClassName.PackagePath)
	im.Reserve(creatorLocals...)

	spec := &ControllerCreationSpec{
		PackagePath:    controller.ClassName.PackagePath,
		PackageName:    controller.PackageName,
		FileName:       utils.CreatorFileName(name),
		Loom:           im.Add(validation.RuntimePackage),
		ControllerName: name,
		TypeName:       controller.ClassName.String(),
		TypeNameConst:  name + "TypeName",
		CreatorName:    name + "Creator",
		ContextType:    "*" + im.Qualify(meta.Application.Context.PackagePath, meta.Application.Context.Name),
		Route:          controller.Route,
		Cache:          controller.Cache,
	}
	if spec.PackageName == "" {
		spec.PackageName = controller.ClassName.PackageName()
	}
	if controller.Constructor != nil {
		spec.Constructor = &ConstructorSpec{
			Name:         controller.Constructor.Name,
			ReturnsError: controller.Constructor.ReturnsError,
		}
	}

	tu := templates.NewTemplateUtils()
	vars := make(map[string]bool)
	for _, attachment := range controller.Composites {
		component, ok := meta.Composite(attachment.Component)
		if !ok {
			return nil, errors.Newf(errors.GenerationErrorCode,
				"composite %s of %s references unknown component %s", attachment.Name, spec.TypeName, attachment.Component)
		}

		composite := CompositeSpec{
			Name:               attachment.Name,
			Var:                uniqueVar(tu.ToCamelCase(attachment.Name)+"Component", vars),
			TypeName:           component.ClassName.String(),
			TypeExpr:           im.Qualify(component.ClassName.PackagePath, component.ClassName.Name),
			Setter:             attachment.Setter,
			SetterReturnsError: attachment.SetterReturnsError,
			RenderReturnsError: component.RenderReturnsError,
			BindReturnsError:   component.BindReturnsError,
		}
		if component.Constructor != nil {
			composite.Constructor = &ConstructorSpec{
				Name:         im.Qualify(component.ClassName.PackagePath, component.Constructor.Name),
				ReturnsError: component.Constructor.ReturnsError,
			}
		}
		spec.Composites = append(spec.Composites, composite)
	}

	routeParams := controller.RouteParameters()
	for _, param := range controller.Parameters {
		index := indexOf(routeParams, param.Name)
		if index < 0 {
			return nil, errors.Newf(errors.GenerationErrorCode,
				"parameter %s of %s is not part of route %s", param.Name, spec.TypeName, controller.Route)
		}
		spec.Parameters = append(spec.Parameters, ParameterSpec{
			Name:         param.Name,
			Setter:       param.Setter,
			ReturnsError: param.ReturnsError,
			Index:        index,
		})
	}

	spec.Imports = im.Block()
	return spec, nil
}

// BuildApplicationSpec collects the shell and route tables of meta
func BuildApplicationSpec(meta *model.ApplicationMetaModel) (*ApplicationSpec, error) {
	app := meta.Application
	if app == nil {
		return nil, errors.New(errors.GenerationErrorCode, "no application descriptor to generate")
	}

	im := templates.NewImportManager(app.ClassName.PackagePath)
	spec := &ApplicationSpec{
		PackagePath: app.ClassName.PackagePath,
		PackageName: app.PackageName,
		FileName:    utils.ApplicationFileName,
		Loom:        im.Add(validation.RuntimePackage),
		Name:        app.ClassName.Name,
		Prefix:      app.ClassName.Name,
		StartRoute:  app.StartRoute,
	}
	if spec.PackageName == "" {
		spec.PackageName = app.ClassName.PackageName()
	}

	for _, shell := range meta.Shells {
		spec.Shells = append(spec.Shells, ShellSpec{Name: shell.Name, TypeName: shell.ClassName.String()})
	}
	for _, controller := range meta.Controllers {
		spec.Routes = append(spec.Routes, RouteSpec{
			Route:          controller.Route,
			Shell:          controller.Shell,
			ControllerType: controller.ClassName.String(),
			Parameters:     controller.RouteParameters(),
			Cache:          controller.Cache,
		})
	}

	spec.Imports = im.Block()
	return spec, nil
}

func uniqueVar(base string, taken map[string]bool) string {
	name := base
	for i := 2; taken[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	taken[name] = true
	return name
}

func indexOf(items []string, item string) int {
	for i, candidate := range items {
		if candidate == item {
			return i
		}
	}
	return -1
}
