package plugin

import (
	"context"
	"time"
)

// Event is a message published on the event bus.
type Event struct {
	ID        string
	Topic     string
	Source    string
	Timestamp time.Time
	Payload   any
}

// EventHandler receives events from the bus.
type EventHandler func(ctx context.Context, event Event)

// EventBus delivers events to subscribers by topic.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	PublishAsync(ctx context.Context, event Event)
	Subscribe(topic string, handler EventHandler) (unsubscribe func())
	SubscribeAll(handler EventHandler) (unsubscribe func())
}
