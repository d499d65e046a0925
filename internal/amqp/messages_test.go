package amqp

import (
	"testing"
	"time"
)

func TestTransactionEventRoundTrip(t *testing.T) {
	event := NewTransactionEvent("created", 1700000000000)
	if event.Timestamp.IsZero() {
		t.Error("timestamp should be stamped")
	}

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}

	got, err := TransactionEventFromJSON(data)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if got.Op != "created" || got.ID != 1700000000000 {
		t.Errorf("round trip = %+v", got)
	}
	if !got.Timestamp.Equal(event.Timestamp.Truncate(time.Nanosecond)) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, event.Timestamp)
	}
}

func TestTransactionEventFromJSON_Malformed(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte("{bad")); err == nil {
		t.Error("malformed payload should error")
	}
}
