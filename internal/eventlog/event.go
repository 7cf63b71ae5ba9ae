// Package eventlog records an append-only activity log of what happened to
// expenses and settlements. Events are written asynchronously by a Worker.
package eventlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TypeExpenseCreated     = "expense.created"
	TypeExpenseUpdated     = "expense.updated"
	TypeExpenseDeleted     = "expense.deleted"
	TypeSettlementCreated  = "settlement.created"
	TypeSettlementPaid     = "settlement.paid"
	TypeSettlementResolved = "settlement.resolved"
)

type Event struct {
	ID        uuid.UUID         `json:"id"`
	Type      string            `json:"event_type"`
	Data      any               `json:"event_data,omitempty"`
	Metadata  map[string]string `json:"event_metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type EventOption func(*Event)

func WithType(eventType string) EventOption {
	return func(e *Event) {
		e.Type = eventType
	}
}

func WithData(data any) EventOption {
	return func(e *Event) {
		e.Data = data
	}
}

// WithMetadata merges key/value pairs into the event's metadata
func WithMetadata(metadata map[string]string) EventOption {
	return func(e *Event) {
		for k, v := range metadata {
			e.Metadata[k] = v
		}
	}
}

func NewEvent(opts ...EventOption) Event {
	e := Event{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Metadata:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Store persists events
type Store interface {
	Save(ctx context.Context, e Event) error
	ListByType(ctx context.Context, eventType string, limit int) ([]Event, error)
}
