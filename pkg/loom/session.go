package loom

import (
	"sync"

	"github.com/google/uuid"
)

// SessionClosedEvent is published on the session's event bus when it closes
const SessionClosedEvent = "loom.session.closed"

// Session is the per-user scope a generated creator works against. It owns the
// application context, the event bus, the router and the controller store.
type Session[C any] struct {
	id       string
	context  C
	eventBus *EventBus
	router   Router
	logger   Logger
	store    *Store

	closeOnce sync.Once
}

// SessionOption configures a Session
type SessionOption[C any] func(*Session[C])

// WithRouter sets the router handed to controllers
func WithRouter[C any](router Router) SessionOption[C] {
	return func(s *Session[C]) {
		s.router = router
	}
}

// WithLogger sets the logger used by creators
func WithLogger[C any](logger Logger) SessionOption[C] {
	return func(s *Session[C]) {
		s.logger = logger
	}
}

// WithEventBus replaces the session's event bus
func WithEventBus[C any](bus *EventBus) SessionOption[C] {
	return func(s *Session[C]) {
		s.eventBus = bus
	}
}

// NewSession creates a session around context
func NewSession[C any](context C, opts ...SessionOption[C]) *Session[C] {
	s := &Session[C]{
		id:       uuid.NewString(),
		context:  context,
		eventBus: NewEventBus(),
		logger:   NopLogger{},
		store:    NewStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.router == nil {
		s.router = RouterFunc(func(string, ...string) error { return nil })
	}
	return s
}

// ID returns the unique session id
func (s *Session[C]) ID() string { return s.id }

// Context returns the application context
func (s *Session[C]) Context() C { return s.context }

// EventBus returns the session event bus
func (s *Session[C]) EventBus() *EventBus { return s.eventBus }

// Router returns the session router
func (s *Session[C]) Router() Router { return s.router }

// Logger returns the session logger
func (s *Session[C]) Logger() Logger { return s.logger }

// Store returns the controller store
func (s *Session[C]) Store() *Store { return s.store }

// GetControllerFromStore looks up a cached controller by fully qualified type name
func (s *Session[C]) GetControllerFromStore(typeName string) (any, bool) {
	return s.store.GetControllerFromStore(typeName)
}

// StoreController caches controller under its fully qualified type name
func (s *Session[C]) StoreController(typeName string, controller any) {
	s.store.StoreController(typeName, controller)
}

// Close clears cached controllers and publishes SessionClosedEvent once
func (s *Session[C]) Close() {
	s.closeOnce.Do(func() {
		s.store.Clear()
		s.eventBus.Publish(SessionClosedEvent, s.id)
	})
}
