package extraction

import (
	"context"
	"time"
)

// Candidate is one unvalidated object produced by an extractor. Fields may be
// missing, mistyped, or placeholders.
type Candidate map[string]any

// Extracted is a candidate that passed validation.
type Extracted struct {
	Item     string
	Amount   float64
	Category string
	// Date is zero when the candidate carried no usable date.
	Date time.Time
}

// Extractor turns free text into a raw response body for ParseResponse.
type Extractor interface {
	// Extract makes at most one call to its backend and does not retry.
	Extract(ctx context.Context, text string) (string, error)
	// Close releases the backend client
	Close() error
}
