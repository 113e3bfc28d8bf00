// Package events is the in-process publish/subscribe layer the CRM modules
// use to react to lead lifecycle changes without importing each other.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event. The name is the routing key
// handlers subscribe on.
type Event interface {
	EventName() string
}

// BaseEvent carries the publication timestamp shared by all events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler processes events of a specific type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events to subscribed handlers. Publishing is
// fire-and-forget; services never block on notification side effects.
type Bus interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventName string, handler Handler)
}
