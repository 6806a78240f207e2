package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by change messages.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// RecordChangeMessage announces that a record in a collection changed.
// It carries only the identifier; consumers fetch the current document
// themselves, so a stale message is harmless.
type RecordChangeMessage struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewRecordChangeMessage creates a change message stamped with the
// current time.
func NewRecordChangeMessage(collection, id, action string) *RecordChangeMessage {
	return &RecordChangeMessage{
		Collection: collection,
		ID:         id,
		Action:     action,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangeMessageFromJSON creates a message from JSON bytes.
func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
