package markers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/loom/internal/errors"
)

// markerAST is the participle grammar root for one marker comment
type markerAST struct {
	Kind string    `parser:"Comment 'loom' Separator @Ident"`
	Args []*argAST `parser:"@@*"`
}

type argAST struct {
	Option *optionAST `parser:"  @@"`
	Entry  *entryAST  `parser:"| @@"`
}

// optionAST is -Key or -Key=Value
type optionAST struct {
	Name  string    `parser:"Dash @Ident"`
	Value *valueAST `parser:"( Equals @@ )?"`
}

// entryAST is name or name=Value
type entryAST struct {
	Name  string    `parser:"@Ident"`
	Value *valueAST `parser:"( Equals @@ )?"`
}

type valueAST struct {
	String *string `parser:"  @String"`
	Path   *string `parser:"| @Path"`
	Ident  *string `parser:"| @Ident"`
	Number *string `parser:"| @Number"`
}

func (v *valueAST) raw() string {
	switch {
	case v.String != nil:
		if unquoted, err := strconv.Unquote(*v.String); err == nil {
			return unquoted
		}
		return strings.Trim(*v.String, `"`)
	case v.Path != nil:
		return *v.Path
	case v.Ident != nil:
		return *v.Ident
	case v.Number != nil:
		return *v.Number
	}
	return ""
}

var markerLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Separator", Pattern: `::`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Path", Pattern: `/[^\s]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)*`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Parser turns marker comments into schema-checked Markers
type Parser struct {
	parser   *participle.Parser[markerAST]
	registry Registry
}

// NewParser creates a parser validating against registry, or the default registry when nil
func NewParser(registry Registry) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}

	return &Parser{
		parser: participle.MustBuild[markerAST](
			participle.Lexer(markerLexer),
			participle.Elide("Whitespace"),
			participle.UseLookahead(2),
		),
		registry: registry,
	}
}

// IsMarker reports whether a comment line is a loom marker
func IsMarker(comment string) bool {
	content := strings.TrimSpace(comment)
	if !strings.HasPrefix(content, "//") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(content, "//")), Prefix)
}

// Parse parses a single marker comment attached to target
func (p *Parser) Parse(comment, target string, loc errors.SourceLocation) (*Marker, error) {
	raw := strings.TrimSpace(comment)

	ast, err := p.parser.ParseString(loc.File, raw)
	if err != nil {
		return nil, errors.NewSyntaxError(raw, loc, err)
	}

	kind, err := ParseKind(ast.Kind)
	if err != nil {
		return nil, errors.NewSyntaxError(raw, loc, err)
	}

	schema, err := p.registry.Schema(kind)
	if err != nil {
		return nil, errors.NewSyntaxError(raw, loc, err)
	}

	marker := &Marker{
		Kind:       kind,
		Target:     target,
		Parameters: make(map[string]interface{}),
		Location:   loc,
		Raw:        raw,
	}

	for _, arg := range ast.Args {
		switch {
		case arg.Option != nil:
			if err := p.applyOption(marker, schema, arg.Option); err != nil {
				return nil, err
			}
		case arg.Entry != nil:
			entry := Entry{Name: arg.Entry.Name}
			if arg.Entry.Value != nil {
				entry.Value = arg.Entry.Value.raw()
				entry.HasValue = true
			}
			marker.Entries = append(marker.Entries, entry)
		}
	}

	if err := checkRequired(marker, schema); err != nil {
		return nil, err
	}
	if err := checkEntries(marker, schema); err != nil {
		return nil, err
	}

	return marker, nil
}

func (p *Parser) applyOption(marker *Marker, schema Schema, opt *optionAST) error {
	kind := marker.Kind.String()

	spec, exists := schema.Parameters[opt.Name]
	if !exists {
		return errors.NewValidationError(kind, opt.Name, "unknown parameter", marker.Location)
	}
	if marker.Has(opt.Name) {
		return errors.NewValidationError(kind, opt.Name, "declared more than once", marker.Location)
	}

	var value interface{}
	if opt.Value == nil {
		// -Flag form
		switch {
		case spec.Type == BoolType:
			value = true
		case spec.DefaultValue != nil:
			value = spec.DefaultValue
		default:
			return errors.NewValidationError(kind, opt.Name,
				fmt.Sprintf("requires a %s value, use -%s=...", spec.Type, opt.Name), marker.Location)
		}
	} else {
		converted, err := convertValue(spec.Type, opt.Value.raw())
		if err != nil {
			return errors.NewValidationError(kind, opt.Name, err.Error(), marker.Location)
		}
		value = converted
	}

	if spec.Validator != nil {
		if err := spec.Validator(value); err != nil {
			return errors.NewValidationError(kind, opt.Name, err.Error(), marker.Location)
		}
	}

	marker.Parameters[opt.Name] = value
	return nil
}

func convertValue(paramType ParameterType, raw string) (interface{}, error) {
	switch paramType {
	case BoolType:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected bool, got '%s'", raw)
		}
		return b, nil
	case IntType:
		i, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("expected int, got '%s'", raw)
		}
		return i, nil
	default:
		return raw, nil
	}
}

func checkRequired(marker *Marker, schema Schema) error {
	// sorted for a stable first error
	names := make([]string, 0, len(schema.Parameters))
	for name := range schema.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if schema.Parameters[name].Required && !marker.Has(name) {
			return errors.NewValidationError(marker.Kind.String(), name, "is required", marker.Location)
		}
	}
	return nil
}

func checkEntries(marker *Marker, schema Schema) error {
	spec := schema.Entries
	kind := marker.Kind.String()
	count := len(marker.Entries)

	if count < spec.Min {
		return errors.NewValidationError(kind, "entries",
			fmt.Sprintf("expected at least %d, got %d", spec.Min, count), marker.Location)
	}
	if spec.Max >= 0 && count > spec.Max {
		if spec.Max == 0 {
			return errors.NewValidationError(kind, marker.Entries[0].Name,
				"positional arguments are not accepted, use -Key=Value", marker.Location)
		}
		return errors.NewValidationError(kind, "entries",
			fmt.Sprintf("expected at most %d, got %d", spec.Max, count), marker.Location)
	}

	for _, entry := range marker.Entries {
		if spec.RequireValue && !entry.HasValue {
			return errors.NewValidationError(kind, entry.Name, "requires a value, use name=Value", marker.Location)
		}
		if spec.ForbidValue && entry.HasValue {
			return errors.NewValidationError(kind, entry.Name, "does not take a value", marker.Location)
		}
		if spec.NameValidator != nil {
			if err := spec.NameValidator(entry.Name); err != nil {
				return errors.NewValidationError(kind, entry.Name, err.Error(), marker.Location)
			}
		}
		if spec.ValueValidator != nil && entry.HasValue {
			if err := spec.ValueValidator(entry.Value); err != nil {
				return errors.NewValidationError(kind, entry.Name, err.Error(), marker.Location)
			}
		}
	}
	return nil
}
