package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/zombor/expense-tracker/internal/category"
)

// candidateSchema is the minimum shape a candidate needs to become an expense.
const candidateSchema = `{
	"type": "object",
	"required": ["item", "amount"],
	"properties": {
		"item": {"type": "string", "minLength": 1},
		"amount": {"type": "number", "exclusiveMinimum": 0}
	}
}`

// DefaultSentinels are item values that mean "no item found".
var DefaultSentinels = []string{"---", "-", "N/A", "null"}

// Validator filters candidates down to valid expenses.
type Validator struct {
	schema     *jsonschema.Schema
	sentinels  map[string]struct{}
	normalizer *category.Normalizer
}

// NewValidator compiles the candidate schema. Sentinels are compared after
// trimming, case-insensitively.
func NewValidator(normalizer *category.Normalizer, sentinels []string) (*Validator, error) {
	schema, err := jsonschema.CompileString("candidate.json", candidateSchema)
	if err != nil {
		return nil, fmt.Errorf("compiling candidate schema: %w", err)
	}

	set := make(map[string]struct{}, len(sentinels))
	for _, s := range sentinels {
		set[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	return &Validator{schema: schema, sentinels: set, normalizer: normalizer}, nil
}

// Validate keeps the candidates with a real item name and a positive amount,
// in order. A missing category is repaired rather than rejected. It returns
// ErrNoValidExpense when nothing survives.
func (v *Validator) Validate(candidates []Candidate) ([]Extracted, error) {
	valid := make([]Extracted, 0, len(candidates))
	for _, c := range candidates {
		if err := v.schema.Validate(map[string]any(c)); err != nil {
			continue
		}

		item, _ := c["item"].(string)
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := v.sentinels[strings.ToLower(item)]; ok {
			continue
		}

		amount, ok := toFloat(c["amount"])
		if !ok || amount <= 0 {
			continue
		}

		label, _ := c["category"].(string)
		valid = append(valid, Extracted{
			Item:     item,
			Amount:   amount,
			Category: v.normalizer.Normalize(label),
			Date:     candidateDate(c),
		})
	}

	if len(valid) == 0 {
		return nil, ErrNoValidExpense
	}
	return valid, nil
}

// candidateDate reads an optional "date" field, returning zero if it is
// absent or unparseable.
func candidateDate(c Candidate) time.Time {
	s, ok := c["date"].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return time.Time{}
	}
	s = strings.TrimSpace(s)

	formats := []string{
		time.RFC3339,
		"2006-01-02",
		"2006/01/02",
	}
	for _, format := range formats {
		if d, err := time.Parse(format, s); err == nil {
			return d
		}
	}
	return time.Time{}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
