package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/zombor/expense-tracker/internal/category"
	"golang.org/x/text/cases"
)

var firstNumberRe = regexp.MustCompile(`[0-9]+`)

// RulesConfig configures the deterministic extractor.
type RulesConfig struct {
	// Fillers are dropped from the item name, compared case-insensitively.
	Fillers []string
	// Placeholder is the item name used when nothing is left after stripping.
	Placeholder string
}

// DefaultRulesConfig returns filler words for English and Hebrew input.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		Fillers: []string{
			"i", "for", "on", "at", "of", "a", "an", "the", "spent", "paid", "bought", "cost",
			"shekel", "shekels", "nis", "ils", "dollar", "dollars", "usd", "bucks", "euro", "euros",
			"ב", "על", "של", "קניתי", "שילמתי", "הוצאתי", "שקל", "שקלים", "שח", `ש"ח`, "ש״ח",
		},
		Placeholder: "Expense",
	}
}

// Rules is a local, pattern-based Extractor. It never fails and makes no
// network calls.
type Rules struct {
	fillers     map[string]struct{}
	placeholder string
	normalizer  *category.Normalizer
}

// NewRules creates a deterministic extractor that classifies with normalizer.
func NewRules(cfg RulesConfig, normalizer *category.Normalizer) *Rules {
	fillers := make(map[string]struct{}, len(cfg.Fillers))
	for _, f := range cfg.Fillers {
		fillers[cases.Fold().String(f)] = struct{}{}
	}
	placeholder := strings.TrimSpace(cfg.Placeholder)
	if placeholder == "" {
		placeholder = "Expense"
	}
	return &Rules{fillers: fillers, placeholder: placeholder, normalizer: normalizer}
}

// Candidate derives exactly one candidate from text.
func (r *Rules) Candidate(text string) Candidate {
	return Candidate{
		"item":     r.itemName(text),
		"amount":   firstAmount(text),
		"category": r.normalizer.Classify(text),
	}
}

// Extract returns the candidate as a one-element JSON array.
func (r *Rules) Extract(_ context.Context, text string) (string, error) {
	out, err := json.Marshal([]Candidate{r.Candidate(text)})
	if err != nil {
		return "", fmt.Errorf("marshaling candidate: %w", err)
	}
	return string(out), nil
}

// Close is a no-op
func (r *Rules) Close() error {
	return nil
}

// firstAmount returns the first run of digits, or 0 when there is none.
func firstAmount(text string) float64 {
	m := firstNumberRe.FindString(text)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func (r *Rules) itemName(text string) string {
	var kept []string
	for _, tok := range strings.Fields(text) {
		tok = strings.Map(func(c rune) rune {
			if unicode.IsDigit(c) || unicode.Is(unicode.Sc, c) {
				return -1
			}
			return c
		}, tok)
		tok = strings.TrimFunc(tok, func(c rune) bool {
			return unicode.IsPunct(c) || unicode.IsSymbol(c)
		})
		if tok == "" {
			continue
		}
		if _, ok := r.fillers[cases.Fold().String(tok)]; ok {
			continue
		}
		kept = append(kept, tok)
	}

	if len(kept) == 0 {
		return r.placeholder
	}
	return strings.Join(kept, " ")
}
