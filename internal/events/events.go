package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Entity string

const (
	EntityProduct     Entity = "product"
	EntityTransaction Entity = "transaction"
	EntityAlert       Entity = "alert"
	EntityReport      Entity = "report"
)

type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionResolved Action = "resolved"
)

// ChangeEvent tells subscribers that an entity changed. Payload is the entity
// as it looks after the change.
type ChangeEvent struct {
	EventID   string          `json:"event_id"`
	Entity    Entity          `json:"entity"`
	Action    Action          `json:"action"`
	EntityID  string          `json:"entity_id"`
	Source    string          `json:"source"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Type is the event name used for SSE and Kafka headers, e.g. "product.updated".
func (e ChangeEvent) Type() string {
	return fmt.Sprintf("%s.%s", e.Entity, e.Action)
}

func NewChangeEvent(id, source string, entity Entity, action Action, entityID string, payload any, at time.Time) (ChangeEvent, error) {
	ev := ChangeEvent{
		EventID:   id,
		Entity:    entity,
		Action:    action,
		EntityID:  entityID,
		Source:    source,
		Timestamp: at,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return ChangeEvent{}, fmt.Errorf("failed to marshal %s payload: %w", entity, err)
		}
		ev.Payload = raw
	}
	return ev, nil
}

// Publisher delivers change notifications. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ChangeEvent) error { return nil }

// MultiPublisher fans an event out to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event ChangeEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
