package bus

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformed marks a message that can never be handled: bad JSON, unknown type, missing key.
var ErrMalformed = errors.New("malformed event")

// Envelope is an immutable event plus the moment it was emitted.
// The bus assigns no message id; use DedupKey when duplicates matter.
type Envelope struct {
	Type      string
	Event     Event
	EmittedAt time.Time
}

func NewEnvelope(evt Event, at time.Time) Envelope {
	return Envelope{Type: evt.Type(), Event: evt, EmittedAt: at.UTC()}
}

// DedupKey derives a stable identity for the message from its content.
func (e Envelope) DedupKey() string {
	return e.Type + ":" + e.Event.Key()
}

// Encode renders the flat wire form {type, ...fields, timestamp}.
func (e Envelope) Encode() ([]byte, error) {
	body, err := json.Marshal(e.Event)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Type, err)
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("flatten %s: %w", e.Type, err)
	}
	fields["type"], _ = json.Marshal(e.Type)
	fields["timestamp"], _ = json.Marshal(e.EmittedAt.UTC().Format(time.RFC3339Nano))
	return json.Marshal(fields)
}

// Decode parses the wire form back into its tagged case.
func Decode(data []byte) (Envelope, error) {
	var head struct {
		Type      string `json:"type"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var (
		evt Event
		err error
	)
	switch head.Type {
	case TypeOrderPlaced:
		evt, err = decodeAs[OrderPlaced](data)
	case TypeOrderStatusChanged:
		evt, err = decodeAs[OrderStatusChanged](data)
	case TypeOrderDelivered:
		evt, err = decodeAs[OrderDelivered](data)
	case TypeItemCreated:
		evt, err = decodeAs[ItemCreated](data)
	case TypeUserRegistered:
		evt, err = decodeAs[UserRegistered](data)
	case TypeMessageSent:
		evt, err = decodeAs[MessageSent](data)
	default:
		return Envelope{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, head.Type)
	}
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %s: %v", ErrMalformed, head.Type, err)
	}
	if evt.Key() == "" {
		return Envelope{}, fmt.Errorf("%w: %s without id", ErrMalformed, head.Type)
	}

	env := Envelope{Type: head.Type, Event: evt}
	if head.Timestamp != "" {
		at, err := time.Parse(time.RFC3339Nano, head.Timestamp)
		if err != nil {
			return Envelope{}, fmt.Errorf("%w: timestamp: %v", ErrMalformed, err)
		}
		env.EmittedAt = at.UTC()
	}
	return env, nil
}

func decodeAs[T Event](data []byte) (Event, error) {
	var evt T
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}
	return evt, nil
}
