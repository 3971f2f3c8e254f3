package creator

import (
	"github.com/toyz/loom/internal/errors"
	"github.com/toyz/loom/internal/model"
	"github.com/toyz/loom/internal/templates"
	"github.com/toyz/loom/internal/utils"
)

// GeneratedFile is one formatted source file ready to be written into the
// directory of PackagePath
type GeneratedFile struct {
	PackagePath string
	FileName    string
	Content     []byte
}

// Generator emits creators and the application file from a frozen metamodel
type Generator struct {
	templates *templates.TemplateRegistry
}

// NewGenerator creates a Generator with the built in templates
func NewGenerator() (*Generator, error) {
	registry, err := templates.NewTemplateRegistry()
	if err != nil {
		return nil, err
	}
	return &Generator{templates: registry}, nil
}

// NewGeneratorWithTemplates creates a Generator rendering through registry
func NewGeneratorWithTemplates(registry *templates.TemplateRegistry) *Generator {
	return &Generator{templates: registry}
}

// Generate emits the application file followed by one creator per controller,
// in model order. The output for a given model is identical on every run.
func (g *Generator) Generate(meta *model.ApplicationMetaModel) ([]*GeneratedFile, error) {
	if meta == nil || !meta.Frozen() {
		return nil, errors.New(errors.GenerationErrorCode, "metamodel must be frozen before generation")
	}
	if meta.Application == nil {
		return nil, nil
	}

	files := make([]*GeneratedFile, 0, len(meta.Controllers)+1)

	app, err := g.GenerateApplication(meta)
	if err != nil {
		return nil, err
	}
	files = append(files, app)

	for _, controller := range meta.Controllers {
		file, err := g.GenerateController(meta, controller)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// GenerateController emits the creator of controller
func (g *Generator) GenerateController(meta *model.ApplicationMetaModel, controller *model.ControllerModel) (*GeneratedFile, error) {
	spec, err := BuildSpec(meta, controller)
	if err != nil {
		return nil, err
	}

	content, err := g.render(templates.CreatorTemplate, spec.TypeName, spec)
	if err != nil {
		return nil, err
	}
	return &GeneratedFile{PackagePath: spec.PackagePath, FileName: spec.FileName, Content: content}, nil
}

// GenerateApplication emits the shell and route tables of the application
func (g *Generator) GenerateApplication(meta *model.ApplicationMetaModel) (*GeneratedFile, error) {
	spec, err := BuildApplicationSpec(meta)
	if err != nil {
		return nil, err
	}

	content, err := g.render(templates.ApplicationTemplate, meta.Application.ClassName.String(), spec)
	if err != nil {
		return nil, err
	}
	return &GeneratedFile{PackagePath: spec.PackagePath, FileName: spec.FileName, Content: content}, nil
}

func (g *Generator) render(templateName, target string, data any) ([]byte, error) {
	raw, err := g.templates.Execute(templateName, data)
	if err != nil {
		return nil, errors.WrapGenerateError(target, err)
	}
	formatted, err := utils.FormatGoSource(raw)
	if err != nil {
		return nil, errors.WrapGenerateError(target, err)
	}
	return formatted, nil
}
