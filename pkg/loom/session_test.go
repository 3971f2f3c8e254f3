package loom

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testContext struct {
	User string
}

type testController struct {
	BaseController[*testContext]
	finished int
}

type testCreator struct {
	session  *Session[*testContext]
	typeName string
	cache    bool
	finish   func(c *testController, params []string) error
}

func (c *testCreator) Create() (*ControllerInstance, error) {
	result := &ControllerInstance{TypeName: c.typeName}
	if stored, ok := c.session.GetControllerFromStore(c.typeName); ok {
		controller := stored.(*testController)
		controller.SetCached(true)
		result.Controller = controller
		result.Cached = true
		return result, nil
	}

	controller := &testController{}
	controller.SetContext(c.session.Context())
	controller.SetEventBus(c.session.EventBus())
	controller.SetRouter(c.session.Router())
	controller.SetCached(false)
	result.Controller = controller
	if c.cache {
		c.session.StoreController(c.typeName, controller)
	}
	return result, nil
}

func (c *testCreator) OnFinishCreating(controller any, params ...string) error {
	tc := controller.(*testController)
	tc.finished++
	if c.finish != nil {
		return c.finish(tc, params)
	}
	return nil
}

func TestSession(t *testing.T) {
	ctx := &testContext{User: "ada"}
	router := RouterFunc(func(string, ...string) error { return nil })
	logger := NewMemoryLogger()

	session := NewSession(ctx, WithRouter[*testContext](router), WithLogger[*testContext](logger))

	assert.NotEmpty(t, session.ID())
	assert.NotEqual(t, session.ID(), NewSession(ctx).ID())
	assert.Same(t, ctx, session.Context())
	assert.Same(t, logger, session.Logger())
	assert.NotNil(t, session.EventBus())
	assert.NotNil(t, session.Router())

	session.StoreController("example.com/app.Home", "controller")
	var closedID any
	session.EventBus().Subscribe(SessionClosedEvent, func(e Event) { closedID = e.Payload })

	session.Close()
	session.Close()

	assert.Equal(t, session.ID(), closedID)
	assert.Empty(t, session.Store().TypeNames())
}

func TestSession_DefaultsAreUsable(t *testing.T) {
	session := NewSession(&testContext{})

	assert.NoError(t, session.Router().Route("/main/home"))
	assert.IsType(t, NopLogger{}, session.Logger())
}

func TestControllerFactory_FreshAndCached(t *testing.T) {
	session := NewSession(&testContext{User: "ada"})
	factory := NewControllerFactory()
	creator := &testCreator{session: session, typeName: "example.com/app.Home", cache: true}
	require.NoError(t, factory.Register(creator.typeName, creator))

	first, err := factory.CreateController(creator.typeName)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	controller := first.Controller.(*testController)
	assert.Equal(t, "ada", controller.Context().User)
	assert.Same(t, session.EventBus(), controller.EventBus())
	assert.False(t, controller.Cached())
	assert.Equal(t, 1, controller.finished)

	second, err := factory.CreateController(creator.typeName)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Same(t, controller, second.Controller)
	assert.True(t, controller.Cached())
	assert.Equal(t, 1, controller.finished, "cached instances are not finished again")
}

func TestControllerFactory_Errors(t *testing.T) {
	session := NewSession(&testContext{})
	factory := NewControllerFactory()

	_, err := factory.CreateController("example.com/app.Missing")
	assert.Error(t, err)

	assert.Error(t, factory.Register("example.com/app.Nil", nil))

	intercept := NewRoutingInterception("example.com/app.Guarded", "/main/login")
	creator := &testCreator{
		session:  session,
		typeName: "example.com/app.Guarded",
		finish: func(*testController, []string) error {
			return intercept
		},
	}
	require.NoError(t, factory.Register(creator.typeName, creator))
	assert.Error(t, factory.Register(creator.typeName, creator), "duplicate registration")

	_, err = factory.CreateController(creator.typeName, "1")
	var target *RoutingInterceptionError
	require.True(t, errors.As(err, &target))
	assert.Same(t, intercept, target)

	assert.Equal(t, []string{"example.com/app.Guarded"}, factory.TypeNames())
}

func TestBaseComponent(t *testing.T) {
	controller := &testController{}
	component := &BaseComponent[*testController]{}
	component.SetController(controller)
	assert.Same(t, controller, component.Controller())
}

func TestLoggers(t *testing.T) {
	memory := NewMemoryLogger()
	memory.LogSimple("simple", 3)
	memory.LogDetailed("detailed", 4)

	assert.Equal(t, []LogEntry{
		{Message: "simple", Depth: 3},
		{Message: "detailed", Depth: 4, Detailed: true},
	}, memory.Entries())
	assert.Equal(t, []string{"simple", "detailed"}, memory.Messages())
	memory.Reset()
	assert.Empty(t, memory.Entries())

	var buf bytes.Buffer
	quiet := NewCharmLogger(&buf, false)
	quiet.LogSimple("controller >>Home<< --> will be created", 3)
	quiet.LogDetailed("hidden detail", 4)
	assert.Contains(t, buf.String(), "controller >>Home<< --> will be created")
	assert.NotContains(t, buf.String(), "hidden detail")

	buf.Reset()
	verbose := NewCharmLogger(&buf, true)
	verbose.LogDetailed("shown detail", 4)
	assert.Contains(t, buf.String(), "shown detail")

	NopLogger{}.LogSimple("ignored", 1)
}
