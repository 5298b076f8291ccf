package expense

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an expense ID does not exist.
var ErrNotFound = errors.New("expense not found")

// Store defines the persistence operations the service relies on. Each call
// is atomic on its own; there are no transactions across calls.
type Store interface {
	// InsertMany saves all expenses or none of them
	InsertMany(ctx context.Context, expenses []*Expense) error

	// ListExpenses returns all expenses, newest first
	ListExpenses(ctx context.Context) ([]*Expense, error)

	// DeleteExpense removes one expense, returning ErrNotFound if it is missing
	DeleteExpense(ctx context.Context, id string) error

	// DeleteAll removes every expense
	DeleteAll(ctx context.Context) error

	// Close closes the underlying database
	Close() error
}

// sortNewestFirst orders by CreatedAt descending, then by ID for ties.
func sortNewestFirst(a, b *Expense) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}
