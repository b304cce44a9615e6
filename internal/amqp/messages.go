package amqp

import (
	"encoding/json"
	"time"
)

// Event names carried in expense mutation messages. The payment-processing
// side keys its routing off these.
const (
	EventExpenseCreated = "expense_created"
	EventExpenseUpdated = "expense_updated"
	EventExpenseDeleted = "expense_deleted"
)

// ExpenseEventMessage is a lightweight mutation notification. It carries the
// id and current status; consumers needing the full record fetch it back
// through the tool surface.
type ExpenseEventMessage struct {
	Event     string    `json:"event"`
	ExpenseID int64     `json:"expense_id"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(event string, expenseID int64, status string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Event:     event,
		ExpenseID: expenseID,
		Status:    status,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
