package events

import (
	"encoding/json"
	"time"

	"github.com/zombor/expense-tracker/internal/expense"
)

// ExpensesCreatedType is the message type carried in every created event
const ExpensesCreatedType = "expenses.created"

// ExpensesCreatedMessage announces expenses saved by a single request
type ExpensesCreatedMessage struct {
	Type      string             `json:"type"`
	Expenses  []*expense.Expense `json:"expenses"`
	Timestamp time.Time          `json:"timestamp"`
}

func NewExpensesCreatedMessage(expenses []*expense.Expense, now time.Time) *ExpensesCreatedMessage {
	return &ExpensesCreatedMessage{
		Type:      ExpensesCreatedType,
		Expenses:  expenses,
		Timestamp: now,
	}
}

func (m *ExpensesCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpensesCreatedMessageFromJSON(data []byte) (*ExpensesCreatedMessage, error) {
	var msg ExpensesCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
