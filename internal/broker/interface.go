package broker

import (
	"context"
	"time"
)

// ContentChannel is the Redis channel content events are published on.
const ContentChannel = "portfolio:content"

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event announces a change to a blog or project so caches and
// static-site builders can react.
type Event struct {
	Resource   string    `json:"resource"`
	Action     Action    `json:"action"`
	ID         string    `json:"id"`
	Slug       string    `json:"slug,omitempty"`
	ActorID    string    `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher fans content events out to subscribers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when Redis is not configured and in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
