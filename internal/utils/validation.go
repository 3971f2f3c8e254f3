package utils

import (
	"fmt"
	"go/token"
	"strings"
)

// FieldError is a validation failure on one named field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Validator checks a single value
type Validator[T any] func(T) error

// ValidatorChain runs validators in order
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a chain from validators
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add appends a validator to the chain
func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
}

// Validate stops at the first failing validator
func (vc *ValidatorChain[T]) Validate(value T) error {
	for _, validator := range vc.validators {
		if err := validator(value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll runs every validator and returns all failures in order
func (vc *ValidatorChain[T]) ValidateAll(value T) []error {
	var errs []error
	for _, validator := range vc.validators {
		if err := validator(value); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Len returns the number of validators in the chain
func (vc *ValidatorChain[T]) Len() int {
	return len(vc.validators)
}

// NotEmpty validates that a string is not empty
func NotEmpty(field string) Validator[string] {
	return func(value string) error {
		if value == "" {
			return FieldError{Field: field, Message: "cannot be empty"}
		}
		return nil
	}
}

// HasPrefix validates that a string starts with prefix
func HasPrefix(field, prefix string) Validator[string] {
	return func(value string) error {
		if !strings.HasPrefix(value, prefix) {
			return FieldError{Field: field, Message: fmt.Sprintf("must start with '%s'", prefix)}
		}
		return nil
	}
}

// IsValidGoIdentifier validates that a string is a Go identifier
func IsValidGoIdentifier(field string) Validator[string] {
	return func(value string) error {
		if !token.IsIdentifier(value) {
			return FieldError{Field: field, Message: "must be a valid Go identifier"}
		}
		return nil
	}
}

// Conditional runs validator only when condition holds
func Conditional[T any](condition func(T) bool, validator Validator[T]) Validator[T] {
	return func(value T) error {
		if condition(value) {
			return validator(value)
		}
		return nil
	}
}
