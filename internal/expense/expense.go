package expense

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Expense is a validated, persisted purchase
type Expense struct {
	ID        string    `json:"id"`
	Item      string    `json:"item"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryTotal is the summed amount for one canonical category
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// UnmarshalJSON tolerates legacy records whose amount was stored as a string
// or garbage. Unusable amounts decode as 0 and are skipped by Summarize.
func (e *Expense) UnmarshalJSON(data []byte) error {
	type alias Expense
	aux := struct {
		*alias
		Amount any `json:"amount"`
	}{alias: (*alias)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch v := aux.Amount.(type) {
	case float64:
		e.Amount = v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			f = 0
		}
		e.Amount = f
	default:
		e.Amount = 0
	}
	return nil
}
