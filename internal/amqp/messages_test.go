package amqp

import (
	"testing"
)

func TestNewExpenseEventMessage(t *testing.T) {
	msg := NewExpenseEventMessage(EventExpenseUpdated, 7, "paid")

	if msg.Event != EventExpenseUpdated {
		t.Fatalf("event = %q, want %q", msg.Event, EventExpenseUpdated)
	}
	if msg.ExpenseID != 7 {
		t.Fatalf("expense_id = %d, want 7", msg.ExpenseID)
	}
	if msg.Status != "paid" {
		t.Fatalf("status = %q, want paid", msg.Status)
	}
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestExpenseEventMessageWireFormat(t *testing.T) {
	// Consumers match on these exact JSON keys
	msg := NewExpenseEventMessage(EventExpenseDeleted, 3, "")
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := ExpenseEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Event != EventExpenseDeleted || decoded.ExpenseID != 3 {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	if _, err := ExpenseEventMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
