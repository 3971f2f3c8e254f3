package errors

import "fmt"

// StructuralError reports a type that does not meet a marker's eligibility rules
type StructuralError struct {
	*BaseError
	TypeName string // offending type
	Marker   string // marker kind being applied
}

// NewStructuralError creates a structural error for typeName carrying marker
func NewStructuralError(typeName, marker, reason string) *StructuralError {
	message := fmt.Sprintf("type %s cannot carry loom::%s: %s", typeName, marker, reason)
	return &StructuralError{
		BaseError: New(StructuralErrorCode, message).
			WithContext("type", typeName).
			WithContext("marker", marker),
		TypeName: typeName,
		Marker:   marker,
	}
}

// At sets the location of the offending declaration
func (e *StructuralError) At(loc SourceLocation) *StructuralError {
	e.BaseError.WithLocation(loc)
	return e
}

// Hint adds a suggestion
func (e *StructuralError) Hint(suggestion string) *StructuralError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// DuplicateNameError reports two named entries colliding on their unique key
type DuplicateNameError struct {
	*BaseError
	Kind        string         // "shell", "route", "composite", ...
	Name        string         // colliding key
	Owner       string         // type declaring the offending entry
	PreviousLoc SourceLocation // where the first entry was declared, if known
}

// NewDuplicateNameError creates a duplicate name error
func NewDuplicateNameError(kind, name, owner string) *DuplicateNameError {
	message := fmt.Sprintf("duplicate %s name %q declared on %s", kind, name, owner)
	return &DuplicateNameError{
		BaseError: New(DuplicateNameErrorCode, message).
			WithContext("kind", kind).
			WithContext("name", name).
			WithContext("owner", owner).
			WithSuggestion(fmt.Sprintf("each %s name must be unique across the application", kind)),
		Kind:  kind,
		Name:  name,
		Owner: owner,
	}
}

// At sets the location of the offending declaration
func (e *DuplicateNameError) At(loc SourceLocation) *DuplicateNameError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithPrevious records the location of the entry that was declared first
func (e *DuplicateNameError) WithPrevious(loc SourceLocation) *DuplicateNameError {
	e.PreviousLoc = loc
	if !loc.IsEmpty() {
		e.BaseError.WithContext("previous", loc.String())
	}
	return e
}

// UnresolvedReferenceError reports a marker value that names an unknown type or member
type UnresolvedReferenceError struct {
	*BaseError
	Reference string // reference as written
	Owner     string // type declaring the reference
}

// NewUnresolvedReferenceError creates an unresolved reference error
func NewUnresolvedReferenceError(reference, owner, reason string) *UnresolvedReferenceError {
	message := fmt.Sprintf("cannot resolve %q referenced by %s: %s", reference, owner, reason)
	return &UnresolvedReferenceError{
		BaseError: New(UnresolvedReferenceErrorCode, message).
			WithContext("reference", reference).
			WithContext("owner", owner),
		Reference: reference,
		Owner:     owner,
	}
}

// At sets the location of the offending declaration
func (e *UnresolvedReferenceError) At(loc SourceLocation) *UnresolvedReferenceError {
	e.BaseError.WithLocation(loc)
	return e
}

// Hint adds a suggestion
func (e *UnresolvedReferenceError) Hint(suggestion string) *UnresolvedReferenceError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// SyntaxError reports a marker comment that does not parse
type SyntaxError struct {
	*BaseError
	Raw string // marker text as written
}

// NewSyntaxError creates a syntax error for a raw marker
func NewSyntaxError(raw string, loc SourceLocation, cause error) *SyntaxError {
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, fmt.Sprintf("malformed marker %q", raw), cause).
			WithLocation(loc).
			WithSuggestion("markers look like //loom::kind -Key=Value -Flag or //loom::kind name=Value"),
		Raw: raw,
	}
}

// ValidationError reports a marker parameter that violates its schema
type ValidationError struct {
	*BaseError
	Marker    string
	Parameter string
}

// NewValidationError creates a parameter validation error
func NewValidationError(marker, parameter, reason string, loc SourceLocation) *ValidationError {
	message := fmt.Sprintf("loom::%s parameter %q: %s", marker, parameter, reason)
	return &ValidationError{
		BaseError: New(ValidationErrorCode, message).
			WithLocation(loc).
			WithContext("marker", marker).
			WithContext("parameter", parameter),
		Marker:    marker,
		Parameter: parameter,
	}
}
