package loom

import (
	"fmt"
	"strings"
)

// Router navigates between routes. Route matching is left to the implementation.
type Router interface {
	Route(route string, params ...string) error
}

// RouterFunc adapts a function to the Router interface
type RouterFunc func(route string, params ...string) error

// Route calls f
func (f RouterFunc) Route(route string, params ...string) error {
	return f(route, params...)
}

// RoutingInterceptionError redirects navigation to another route.
// Creators return it to their caller unchanged.
type RoutingInterceptionError struct {
	ControllerTypeName string
	Route              string
	Params             []string
}

// NewRoutingInterception creates an interception redirecting to route
func NewRoutingInterception(controllerTypeName, route string, params ...string) *RoutingInterceptionError {
	return &RoutingInterceptionError{
		ControllerTypeName: controllerTypeName,
		Route:              route,
		Params:             params,
	}
}

// Error implements the error interface
func (e *RoutingInterceptionError) Error() string {
	if len(e.Params) == 0 {
		return fmt.Sprintf("routing intercepted by %s: redirect to %s", e.ControllerTypeName, e.Route)
	}
	return fmt.Sprintf("routing intercepted by %s: redirect to %s [%s]",
		e.ControllerTypeName, e.Route, strings.Join(e.Params, ", "))
}
