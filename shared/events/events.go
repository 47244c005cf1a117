package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/models"
)

var (
	ErrInvalidTopic    = errors.New("invalid topic")
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrInvalidReceiver = errors.New("receiver should be a pointer")
)

// Topic identifies the destination or type of a message on the bus
type Topic string

func NewTopic(topic string) (Topic, error) {
	if topic == "" {
		return "", ErrInvalidTopic
	}
	return Topic(topic), nil
}

func (t Topic) String() string {
	return string(t)
}

// Metadata represents event metadata
type Metadata map[string]string

func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m Metadata) Set(key string, value string) {
	m[key] = value
}

func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

func (m Metadata) Clone() Metadata {
	clone := Metadata{}
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// Event is the envelope for every message crossing the bus. CorrelationID
// links all events and commands belonging to one purchase.
type Event struct {
	ID            models.ID   `json:"id"`
	CorrelationID models.ID   `json:"correlation_id"`
	Topic         Topic       `json:"topic"`
	Version       string      `json:"version"`
	Data          interface{} `json:"data"`
	Metadata      Metadata    `json:"metadata"`
	Timestamp     time.Time   `json:"timestamp"`
}

// Publisher publishes events
type Publisher interface {
	Publish(ctx context.Context, events ...*Event) error
}

// Subscriber subscribes to events
type Subscriber interface {
	Subscribe(ctx context.Context, handler EventHandler) error
}

// EventHandler handles domain events
type EventHandler interface {
	HandlerID() string
	Handle(ctx context.Context, event *Event) error
}

// EventHandlerFunc adapts a function to the EventHandler interface
type EventHandlerFunc struct {
	id string
	fn func(ctx context.Context, event *Event) error
}

func NewEventHandlerFunc(id string, fn func(ctx context.Context, event *Event) error) *EventHandlerFunc {
	return &EventHandlerFunc{id: id, fn: fn}
}

func (h *EventHandlerFunc) HandlerID() string {
	return h.id
}

func (h *EventHandlerFunc) Handle(ctx context.Context, event *Event) error {
	return h.fn(ctx, event)
}

// NewEvent creates a new event correlated to a purchase
func NewEvent(correlationID models.ID, topic Topic, data interface{}) *Event {
	return &Event{
		ID:            models.GenerateUUID(),
		CorrelationID: correlationID,
		Topic:         topic,
		Version:       "1.0",
		Data:          data,
		Metadata:      make(Metadata),
		Timestamp:     time.Now().UTC(),
	}
}

// WithMetadata adds metadata
func (e *Event) WithMetadata(key string, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(Metadata)
	}
	e.Metadata.Set(key, value)
	return e
}

// MarshalPayload marshals the event payload
func (e *Event) MarshalPayload() (json.RawMessage, error) {
	if b, ok := e.Data.([]byte); ok {
		return b, nil
	}

	if b, ok := e.Data.(json.RawMessage); ok {
		return b, nil
	}

	return json.Marshal(e.Data)
}

// UnmarshalPayload unmarshals the event payload into the given pointer. The
// payload may still be raw JSON when the event came off the wire, or an
// in-memory struct when it was dispatched locally.
func (e *Event) UnmarshalPayload(v interface{}) error {
	switch data := e.Data.(type) {
	case []byte:
		return json.Unmarshal(data, v)
	case json.RawMessage:
		return json.Unmarshal(data, v)
	default:
		raw, err := json.Marshal(e.Data)
		if err != nil {
			return errors.Wrap(err, "failed to marshal payload")
		}
		return json.Unmarshal(raw, v)
	}
}
