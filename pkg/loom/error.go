package loom

import (
	"errors"
	"fmt"
)

// Injection steps reported by RuntimeInjectionError
const (
	StepConstruct = "construct"
	StepComponent = "attach components to"
	StepParameter = "apply parameters to"
)

// RuntimeInjectionError reports a failure while a creator builds a controller
type RuntimeInjectionError struct {
	ControllerTypeName string
	Step               string
	Cause              error
}

// NewRuntimeInjectionError creates a RuntimeInjectionError
func NewRuntimeInjectionError(controllerTypeName, step string, cause error) *RuntimeInjectionError {
	return &RuntimeInjectionError{
		ControllerTypeName: controllerTypeName,
		Step:               step,
		Cause:              cause,
	}
}

// Error implements the error interface
func (e *RuntimeInjectionError) Error() string {
	return fmt.Sprintf("failed to %s controller %s: %v", e.Step, e.ControllerTypeName, e.Cause)
}

// Unwrap returns the underlying cause
func (e *RuntimeInjectionError) Unwrap() error {
	return e.Cause
}

// WrapInjectionError names the controller on err. Routing interceptions
// are returned unchanged so navigation can follow them.
func WrapInjectionError(controllerTypeName, step string, err error) error {
	if err == nil {
		return nil
	}
	var interception *RoutingInterceptionError
	if errors.As(err, &interception) {
		return err
	}
	return NewRuntimeInjectionError(controllerTypeName, step, err)
}

// UnexpectedInstanceError reports a creator receiving an instance of the wrong type
type UnexpectedInstanceError struct {
	ControllerTypeName string
	Instance           any
}

// NewUnexpectedInstanceError creates an UnexpectedInstanceError
func NewUnexpectedInstanceError(controllerTypeName string, instance any) *UnexpectedInstanceError {
	return &UnexpectedInstanceError{ControllerTypeName: controllerTypeName, Instance: instance}
}

// Error implements the error interface
func (e *UnexpectedInstanceError) Error() string {
	return fmt.Sprintf("creator for %s received %T", e.ControllerTypeName, e.Instance)
}
