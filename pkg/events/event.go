package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// RecordStored is emitted after a submission has been persisted.
	RecordStored = "RECORD_STORED"
	// StoreSwept is emitted after a maintenance sweep that actually deleted.
	StoreSwept = "STORE_SWEPT"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RECORD_STORED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// envelope is the wire form shared by the NATS and in-process buses.
type envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func Marshal(e Event) ([]byte, error) {
	data, err := json.Marshal(envelope{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", e.EventType(), err)
	}
	return data, nil
}

// Unmarshal rebuilds an event from its wire form. fallbackType is used when the
// envelope carries no type, e.g. for messages published by older producers.
func Unmarshal(data []byte, fallbackType string) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return BaseEvent{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if env.Type == "" {
		env.Type = fallbackType
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = time.Now()
	}
	if env.Data == nil {
		env.Data = map[string]interface{}{}
	}
	return BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
