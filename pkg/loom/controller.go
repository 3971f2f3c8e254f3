package loom

// BaseController is embedded by every controller. Generated creators inject
// the session collaborators through its setters.
type BaseController[C any] struct {
	context  C
	eventBus *EventBus
	router   Router
	cached   bool
}

// SetContext sets the application context
func (c *BaseController[C]) SetContext(context C) { c.context = context }

// Context returns the application context
func (c *BaseController[C]) Context() C { return c.context }

// SetEventBus sets the event bus
func (c *BaseController[C]) SetEventBus(bus *EventBus) { c.eventBus = bus }

// EventBus returns the event bus
func (c *BaseController[C]) EventBus() *EventBus { return c.eventBus }

// SetRouter sets the router
func (c *BaseController[C]) SetRouter(router Router) { c.router = router }

// Router returns the router
func (c *BaseController[C]) Router() Router { return c.router }

// SetCached records whether the instance came from the store
func (c *BaseController[C]) SetCached(cached bool) { c.cached = cached }

// Cached reports whether the instance was reused from the store
func (c *BaseController[C]) Cached() bool { return c.cached }

// BaseComponent is embedded by every component and holds its owning controller
type BaseComponent[T any] struct {
	controller T
}

// SetController sets the owning controller
func (c *BaseComponent[T]) SetController(controller T) { c.controller = controller }

// Controller returns the owning controller
func (c *BaseComponent[T]) Controller() T { return c.controller }

// ControllerInstance is the result of a creator's Create step
type ControllerInstance struct {
	TypeName   string
	Controller any
	Cached     bool
}

// Creator builds one controller type. Generated code implements it.
type Creator interface {
	// Create returns a new or cached controller with session data injected
	Create() (*ControllerInstance, error)
	// OnFinishCreating attaches composites and applies route parameters
	OnFinishCreating(controller any, params ...string) error
}

// ShellDefinition binds a shell name to its implementation type
type ShellDefinition struct {
	Name     string
	TypeName string
}

// RouteDefinition binds a route to a controller type
type RouteDefinition struct {
	Route          string
	Shell          string
	ControllerType string
	Parameters     []string
	Cache          bool
}
