package amqp

import (
	"encoding/json"
	"time"
)

const (
	EventExpenseCreated = "expense.created"
	EventExpenseDeleted = "expense.deleted"
)

// ExpenseEventMessage is a lightweight notification that an expense row
// changed. Consumers fetch the full row themselves; the message carries
// only the identifiers and the list revision that included the change.
type ExpenseEventMessage struct {
	Event     string    `json:"event"`
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(event string, id, userID, revision int64) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Event:     event,
		ID:        id,
		UserID:    userID,
		Revision:  revision,
		Timestamp: time.Now().UTC(),
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
