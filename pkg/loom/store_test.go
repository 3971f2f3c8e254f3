package loom

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	store := NewStore()

	_, ok := store.GetControllerFromStore("example.com/app.Home")
	assert.False(t, ok)

	first := &struct{ n int }{1}
	store.StoreController("example.com/app.Home", first)

	got, ok := store.GetControllerFromStore("example.com/app.Home")
	require.True(t, ok)
	assert.Same(t, first, got)

	second := &struct{ n int }{2}
	store.StoreController("example.com/app.Home", second)
	got, _ = store.GetControllerFromStore("example.com/app.Home")
	assert.Same(t, second, got, "later store replaces earlier instance")

	store.StoreController("example.com/app.About", first)
	assert.Equal(t, []string{"example.com/app.About", "example.com/app.Home"}, store.TypeNames())

	store.Remove("example.com/app.About")
	assert.Equal(t, []string{"example.com/app.Home"}, store.TypeNames())

	store.Clear()
	assert.Empty(t, store.TypeNames())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("example.com/app.C%d", i%5)
			store.StoreController(name, i)
			store.GetControllerFromStore(name)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.TypeNames(), 5)
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received []string
	first := bus.Subscribe("saved", func(e Event) { received = append(received, "first:"+e.Payload.(string)) })
	bus.Subscribe("saved", func(e Event) { received = append(received, "second:"+e.Payload.(string)) })
	bus.Subscribe("other", func(e Event) { received = append(received, "other") })

	bus.Publish("saved", "a")
	assert.Equal(t, []string{"first:a", "second:a"}, received)

	first.Cancel()
	received = nil
	bus.Publish("saved", "b")
	assert.Equal(t, []string{"second:b"}, received)

	assert.True(t, bus.HasSubscribers("other"))
	assert.False(t, bus.HasSubscribers("missing"))
}

func TestEventBus_HandlerMayPublish(t *testing.T) {
	bus := NewEventBus()

	var chain []string
	bus.Subscribe("outer", func(Event) {
		chain = append(chain, "outer")
		bus.Publish("inner", nil)
	})
	bus.Subscribe("inner", func(Event) { chain = append(chain, "inner") })

	bus.Publish("outer", nil)
	assert.Equal(t, []string{"outer", "inner"}, chain)
}

func TestRoutingInterceptionError(t *testing.T) {
	err := NewRoutingInterception("example.com/app.Detail", "/main/login")
	assert.Equal(t, "routing intercepted by example.com/app.Detail: redirect to /main/login", err.Error())

	withParams := NewRoutingInterception("example.com/app.Detail", "/main/item", "7", "info")
	assert.Contains(t, withParams.Error(), "[7, info]")
}

func TestRuntimeInjectionError(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := NewRuntimeInjectionError("example.com/app.Home", StepConstruct, cause)

	assert.Equal(t, "failed to construct controller example.com/app.Home: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWrapInjectionError(t *testing.T) {
	cause := fmt.Errorf("boom")
	interception := NewRoutingInterception("example.com/app.Home", "/main/login")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: cause, want: "failed to attach components to controller example.com/app.Home: boom"},
		{name: "interception", err: interception, want: interception.Error()},
		{name: "wrapped interception", err: fmt.Errorf("render: %w", interception), want: "render: " + interception.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapInjectionError("example.com/app.Home", StepComponent, tt.err)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	var injection *RuntimeInjectionError
	assert.False(t, errors.As(WrapInjectionError("example.com/app.Home", StepParameter, interception), &injection))
	assert.Same(t, interception, WrapInjectionError("example.com/app.Home", StepParameter, interception))
}

func TestUnexpectedInstanceError(t *testing.T) {
	err := NewUnexpectedInstanceError("example.com/app.Home", 42)
	assert.Equal(t, "creator for example.com/app.Home received int", err.Error())
}
