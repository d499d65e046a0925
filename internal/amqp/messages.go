package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// TransactionEvent notifies the archive worker that a transaction changed.
// It carries only the operation and the id; the worker re-reads the
// authoritative document to get the current record.
type TransactionEvent struct {
	Op        string    `json:"op"` // created | updated | deleted
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event stamped with the current time.
func NewTransactionEvent(op string, id int64) *TransactionEvent {
	return &TransactionEvent{
		Op:        op,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON parses an event from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal transaction event: %w", err)
	}
	return &e, nil
}
