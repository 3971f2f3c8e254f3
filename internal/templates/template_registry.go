package templates

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/utils"
)

// Template names
const (
	CreatorTemplate     = "creator"
	ApplicationTemplate = "application"
)

// TemplateRegistry holds the parsed templates used to emit generated files
type TemplateRegistry struct {
	templates *utils.Registry[*template.Template]
	funcs     template.FuncMap
}

// NewTemplateRegistry creates a registry with the creator and application templates
func NewTemplateRegistry() (*TemplateRegistry, error) {
	registry := &TemplateRegistry{
		templates: utils.NewRegistry[*template.Template]("templates"),
		funcs:     NewTemplateUtils().FuncMap(),
	}

	if err := registry.Register(CreatorTemplate, creatorTemplate); err != nil {
		return nil, err
	}
	if err := registry.Register(ApplicationTemplate, applicationTemplate); err != nil {
		return nil, err
	}
	return registry, nil
}

// Register parses text and stores it under name
func (tr *TemplateRegistry) Register(name, text string) error {
	parsed, err := template.New(name).Funcs(tr.funcs).Parse(text)
	if err != nil {
		return errors.WrapTemplateError(name, "parse", err)
	}
	if err := tr.templates.Register(name, parsed); err != nil {
		return errors.WrapTemplateError(name, "register", err)
	}
	return nil
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (*template.Template, bool) {
	return tr.templates.Get(name)
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) *template.Template {
	tmpl, err := tr.templates.MustGet(name)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Names returns the registered template names, sorted
func (tr *TemplateRegistry) Names() []string {
	return tr.templates.Keys()
}

// Execute renders the named template with data
func (tr *TemplateRegistry) Execute(name string, data any) ([]byte, error) {
	tmpl, ok := tr.templates.Get(name)
	if !ok {
		return nil, errors.WrapTemplateError(name, "find", fmt.Errorf("template %q not registered", name))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.WrapTemplateError(name, "execute", err)
	}
	return buf.Bytes(), nil
}

// creatorTemplate emits one controller creator. Data is a creator.ControllerCreationSpec.
const creatorTemplate = `
{{- $componentFailure := printf "%s.WrapInjectionError(%s, %s.StepComponent, err)" .Loom .TypeNameConst .Loom -}}
{{- $parameterFailure := printf "%s.WrapInjectionError(%s, %s.StepParameter, err)" .Loom .TypeNameConst .Loom -}}
// Code generated by loom. DO NOT EDIT.

package {{.PackageName}}

{{.Imports}}
// {{.TypeNameConst}} is the store key of {{.ControllerName}}
const {{.TypeNameConst}} = {{quote .TypeName}}

// {{.CreatorName}} creates {{.ControllerName}} for route {{.Route}}
type {{.CreatorName}} struct {
	session *{{.Loom}}.Session[{{.ContextType}}]
}

// New{{.CreatorName}} creates a {{.CreatorName}} working against session
func New{{.CreatorName}}(session *{{.Loom}}.Session[{{.ContextType}}]) *{{.CreatorName}} {
	return &{{.CreatorName}}{session: session}
}

// Create returns the cached {{.ControllerName}} or a new one with the session data injected
func (c *{{.CreatorName}}) Create() (*{{.Loom}}.ControllerInstance, error) {
	logger := c.session.Logger()
	result := &{{.Loom}}.ControllerInstance{TypeName: {{.TypeNameConst}}}

	if stored, found := c.session.GetControllerFromStore({{.TypeNameConst}}); found {
		if controller, ok := stored.(*{{.ControllerName}}); ok {
			logger.LogDetailed({{logf "controller >>%s<< --> found in cache -> REUSE!" .TypeName}}, 4)
			result.Controller = controller
			result.Cached = true
			controller.SetCached(true)
			return result, nil
		}
	}

	logger.LogSimple({{logf "controller >>%s<< --> will be created" .TypeName}}, 3)
{{- with .Constructor}}{{if .ReturnsError}}
	controller, err := {{.Name}}()
	if err != nil {
		return nil, {{$.Loom}}.NewRuntimeInjectionError({{$.TypeNameConst}}, {{$.Loom}}.StepConstruct, err)
	}
{{- else}}
	controller := {{.Name}}()
{{- end}}{{else}}
	controller := &{{.ControllerName}}{}
{{- end}}
	result.Controller = controller
	result.Cached = false

	controller.SetContext(c.session.Context())
	controller.SetEventBus(c.session.EventBus())
	controller.SetRouter(c.session.Router())
	controller.SetCached(false)
	logger.LogDetailed({{logf "controller >>%s<< --> created and data injected" .TypeName}}, 4)
{{- if .Cache}}

	c.session.StoreController({{.TypeNameConst}}, controller)
{{- end}}
	return result, nil
}

// OnFinishCreating attaches the composites of {{.ControllerName}} and applies the route parameters
func (c *{{.CreatorName}}) OnFinishCreating(instance any, params ...string) error {
{{- if or .Composites .Parameters}}
	controller, ok := instance.(*{{.ControllerName}})
{{- else}}
	_, ok := instance.(*{{.ControllerName}})
{{- end}}
	if !ok {
		return {{.Loom}}.NewUnexpectedInstanceError({{.TypeNameConst}}, instance)
	}
	logger := c.session.Logger()
{{range $composite := .Composites}}
	// composite {{.Name}}
{{- with .Constructor}}{{if .ReturnsError}}
	{{$composite.Var}}, err := {{.Name}}()
	if err != nil {
		return {{$.Loom}}.NewRuntimeInjectionError({{$.TypeNameConst}}, {{$.Loom}}.StepComponent, err)
	}
{{- else}}
	{{$composite.Var}} := {{.Name}}()
{{- end}}{{else}}
	{{.Var}} := &{{.TypeExpr}}{}
{{- end}}
	logger.LogDetailed({{logf "component >>%s<< --> created using new" .TypeName}}, 4)
	{{.Var}}.SetController(controller)
	logger.LogDetailed({{logf "component >>%s<< --> created and controller instance injected" .TypeName}}, 4)
	{{invoke .SetterReturnsError (printf "controller.%s(%s)" .Setter .Var) $componentFailure}}
	logger.LogDetailed({{logf "controller >>%s<< --> instance of >>%s<< injected" $.TypeName .TypeName}}, 4)
	{{invoke .RenderReturnsError (printf "%s.Render()" .Var) $componentFailure}}
	logger.LogDetailed({{logf "component >>%s<< --> rendered" .TypeName}}, 4)
	{{invoke .BindReturnsError (printf "%s.Bind()" .Var) $componentFailure}}
	logger.LogDetailed({{logf "component >>%s<< --> bound" .TypeName}}, 4)
{{end}}
	logger.LogSimple({{logf "controller >>%s<< created for route >>%s<<" .TypeName .Route}}, 3)
{{- range .Parameters}}

	if len(params) >= {{.Position}} {
		logger.LogDetailed({{logf "controller >>%s<< --> using method >>%s<< to set value >>" $.TypeName .Setter}}+params[{{.Index}}]+"<<", 4)
		{{invoke .ReturnsError (printf "controller.%s(params[%d])" .Setter .Index) $parameterFailure}}
	}
{{- end}}
	return nil
}
`

// applicationTemplate emits the shell and route tables of the application
// descriptor. Data is a creator.ApplicationSpec.
const applicationTemplate = `// Code generated by loom. DO NOT EDIT.

package {{.PackageName}}

{{.Imports}}
// {{.Prefix}}StartRoute is the route {{.Name}} shows first
const {{.Prefix}}StartRoute = {{quote .StartRoute}}

// {{.Prefix}}Shells lists the shells of {{.Name}} in declaration order
var {{.Prefix}}Shells = []{{.Loom}}.ShellDefinition{
{{- range .Shells}}
	{Name: {{quote .Name}}, TypeName: {{quote .TypeName}}},
{{- end}}
}

// {{.Prefix}}Routes lists the controller routes of {{.Name}}
var {{.Prefix}}Routes = []{{.Loom}}.RouteDefinition{
{{- range .Routes}}
	{Route: {{quote .Route}}, Shell: {{quote .Shell}}, ControllerType: {{quote .ControllerType}}{{with .Parameters}}, Parameters: []string{ {{- quoteList .}}}{{end}}{{if .Cache}}, Cache: true{{end}}},
{{- end}}
}
`
