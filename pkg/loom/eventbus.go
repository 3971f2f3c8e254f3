package loom

import (
	"sync"
	"sync/atomic"
)

// Event is a named message published on the event bus
type Event struct {
	Name    string
	Payload any
}

// Handler receives events
type Handler func(Event)

// Subscription removes a handler when cancelled
type Subscription struct {
	bus  *EventBus
	name string
	id   uint64
}

// Cancel stops delivery to the subscribed handler
func (s Subscription) Cancel() {
	if s.bus != nil {
		s.bus.unsubscribe(s.name, s.id)
	}
}

type subscriber struct {
	id      uint64
	handler Handler
}

// EventBus delivers events synchronously to handlers in subscription order
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]subscriber
	nextID   atomic.Uint64
}

// NewEventBus creates an empty event bus
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]subscriber),
	}
}

// Subscribe registers handler for events named name
func (b *EventBus) Subscribe(name string, handler Handler) Subscription {
	id := b.nextID.Add(1)

	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], subscriber{id: id, handler: handler})
	b.mu.Unlock()

	return Subscription{bus: b, name: name, id: id}
}

// Publish delivers an event to the current handlers of name.
// Handlers run outside the lock so they may publish or subscribe themselves.
func (b *EventBus) Publish(name string, payload any) {
	b.mu.RLock()
	subscribers := append([]subscriber(nil), b.handlers[name]...)
	b.mu.RUnlock()

	event := Event{Name: name, Payload: payload}
	for _, s := range subscribers {
		s.handler(event)
	}
}

// HasSubscribers reports whether any handler listens to name
func (b *EventBus) HasSubscribers(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.handlers[name]) > 0
}

func (b *EventBus) unsubscribe(name string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers := b.handlers[name]
	for i, s := range subscribers {
		if s.id == id {
			b.handlers[name] = append(subscribers[:i:i], subscribers[i+1:]...)
			break
		}
	}
	if len(b.handlers[name]) == 0 {
		delete(b.handlers, name)
	}
}
