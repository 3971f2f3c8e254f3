package markers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/toyz/loom/internal/utils"
)

// ParameterType represents the type of a marker option
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
	IntType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	default:
		return "unknown"
	}
}

// ParameterSpec defines a -Key option of a marker
type ParameterSpec struct {
	Type         ParameterType
	Required     bool
	DefaultValue interface{}
	Description  string
	Validator    func(interface{}) error
}

// EntrySpec defines the positional entries a marker accepts
type EntrySpec struct {
	Min            int // minimum number of entries
	Max            int // maximum number of entries, -1 for unbounded
	RequireValue   bool
	ForbidValue    bool
	NameValidator  func(string) error
	ValueValidator func(string) error
	Description    string
}

// Schema defines the accepted shape of one marker kind
type Schema struct {
	Kind        Kind
	Description string
	Parameters  map[string]ParameterSpec
	Entries     EntrySpec
	Examples    []string
}

var (
	identifierRules = utils.NewValidatorChain(
		utils.NotEmpty("identifier"),
		utils.IsValidGoIdentifier("identifier"),
	)

	// parameterSegment checks the name of :param route segments
	parameterSegment = utils.Conditional(
		func(segment string) bool { return strings.HasPrefix(segment, ":") },
		func(segment string) error { return identifierRules.Validate(segment[1:]) },
	)

	typeRefPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*\.)?[A-Za-z_][A-Za-z0-9_]*$`)
	shellPattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

// ValidateIdentifier checks that v is a Go identifier
func ValidateIdentifier(v interface{}) error {
	s, _ := v.(string)
	if identifierRules.Validate(s) != nil {
		return fmt.Errorf("must be a Go identifier, got '%s'", s)
	}
	return nil
}

// ValidateTypeReference checks that v is Name or pkg.Name
func ValidateTypeReference(v interface{}) error {
	s, _ := v.(string)
	if !typeRefPattern.MatchString(s) {
		return fmt.Errorf("must be a type reference like Name or pkg.Name, got '%s'", s)
	}
	return nil
}

// ValidateRoute checks that v is an absolute route such as /shell/page/:param
func ValidateRoute(v interface{}) error {
	s, _ := v.(string)
	if utils.HasPrefix("route", "/")(s) != nil {
		return fmt.Errorf("route must start with '/', got '%s'", s)
	}
	for _, segment := range strings.Split(strings.Trim(s, "/"), "/") {
		if segment == "" {
			return fmt.Errorf("route '%s' contains an empty segment", s)
		}
		if parameterSegment(segment) != nil {
			return fmt.Errorf("route parameter '%s' must be ':' followed by an identifier", segment)
		}
	}
	return nil
}

// ValidateShellName checks a shell key used in routes
func ValidateShellName(s string) error {
	if !shellPattern.MatchString(s) {
		return fmt.Errorf("shell name must start with a letter and contain only letters, digits and underscores, got '%s'", s)
	}
	return nil
}

// RouteSpec returns a route option specification
func RouteSpec(required bool, description string) ParameterSpec {
	return ParameterSpec{
		Type:        StringType,
		Required:    required,
		Description: description,
		Validator:   ValidateRoute,
	}
}

// ConstructorSpec returns the optional -Constructor option
func ConstructorSpec() ParameterSpec {
	return ParameterSpec{
		Type:        StringType,
		Description: "Package function with no parameters returning the instance, optionally with an error",
		Validator:   ValidateIdentifier,
	}
}

// TypeReferenceSpec returns a required type reference option
func TypeReferenceSpec(description string) ParameterSpec {
	return ParameterSpec{
		Type:        StringType,
		Required:    true,
		Description: description,
		Validator:   ValidateTypeReference,
	}
}
