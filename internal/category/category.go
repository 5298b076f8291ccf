package category

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Canonical category names used for aggregation.
const (
	Food      = "Food"
	Leisure   = "Leisure"
	Transport = "Transport"
	General   = "General"
)

// KeywordSet ties a canonical category to the words that suggest it in free text.
type KeywordSet struct {
	Category string
	Words    []string
}

// Config holds the category vocabulary. Keywords are single words, checked
// in slice order.
type Config struct {
	Canonical []string
	Default   string
	Synonyms  map[string]string
	Keywords  []KeywordSet
}

// DefaultConfig returns the built-in vocabulary (English and Hebrew).
func DefaultConfig() Config {
	return Config{
		Canonical: []string{Food, Leisure, Transport, General},
		Default:   General,
		Synonyms: map[string]string{
			"אוכל":           Food,
			"מזון":           Food,
			"מסעדה":          Food,
			"groceries":      Food,
			"Groceries":      Food,
			"restaurant":     Food,
			"Restaurant":     Food,
			"Dining":         Food,
			"פנאי":           Leisure,
			"בילוי":          Leisure,
			"entertainment":  Leisure,
			"Entertainment":  Leisure,
			"Fun":            Leisure,
			"תחבורה":         Transport,
			"נסיעות":         Transport,
			"Transportation": Transport,
			"transportation": Transport,
			"Travel":         Transport,
			"כללי":           General,
			"אחר":            General,
			"Other":          General,
			"Misc":           General,
		},
		Keywords: []KeywordSet{
			{Category: Food, Words: []string{
				"food", "sushi", "pizza", "burger", "coffee", "lunch", "dinner", "breakfast",
				"restaurant", "grocery", "groceries", "bread", "milk",
				"אוכל", "סושי", "פיצה", "קפה", "ארוחה", "מסעדה", "לחם", "חלב", "סופר",
			}},
			{Category: Leisure, Words: []string{
				"movie", "cinema", "netflix", "concert", "game", "bar", "party", "show",
				"סרט", "קולנוע", "הופעה", "מסיבה", "בילוי",
			}},
			{Category: Transport, Words: []string{
				"bus", "taxi", "uber", "train", "fuel", "gas", "parking", "metro",
				"אוטובוס", "מונית", "רכבת", "דלק", "חניה",
			}},
		},
	}
}

// Normalizer maps free-text labels onto the canonical set.
type Normalizer struct {
	canonical map[string]string // folded -> canonical spelling
	order     []string
	synonyms  map[string]string
	keywords  []KeywordSet
	fallback  string
}

// New validates cfg and builds a Normalizer from a copy of it.
func New(cfg Config) (*Normalizer, error) {
	if len(cfg.Canonical) == 0 {
		return nil, fmt.Errorf("at least one canonical category is required")
	}

	n := &Normalizer{
		canonical: make(map[string]string, len(cfg.Canonical)),
		order:     slices.Clone(cfg.Canonical),
		synonyms:  make(map[string]string, len(cfg.Synonyms)),
	}
	for _, c := range cfg.Canonical {
		n.canonical[fold(c)] = c
	}

	if !slices.Contains(cfg.Canonical, cfg.Default) {
		return nil, fmt.Errorf("default category %q is not canonical", cfg.Default)
	}
	n.fallback = cfg.Default

	for label, target := range cfg.Synonyms {
		if !slices.Contains(cfg.Canonical, target) {
			return nil, fmt.Errorf("synonym %q maps to non-canonical category %q", label, target)
		}
		label = strings.TrimSpace(label)
		if c, ok := n.canonical[fold(label)]; ok && c != target {
			return nil, fmt.Errorf("synonym %q shadows canonical category %q with %q", label, c, target)
		}
		n.synonyms[label] = target
	}

	for _, set := range cfg.Keywords {
		if !slices.Contains(cfg.Canonical, set.Category) {
			return nil, fmt.Errorf("keyword set for non-canonical category %q", set.Category)
		}
		words := make([]string, 0, len(set.Words))
		for _, w := range set.Words {
			if w = fold(strings.TrimSpace(w)); w != "" {
				words = append(words, w)
			}
		}
		n.keywords = append(n.keywords, KeywordSet{Category: set.Category, Words: words})
	}

	return n, nil
}

// Normalize returns the canonical category for label. It never fails: unknown
// or empty labels resolve to the default category.
func (n *Normalizer) Normalize(label string) string {
	label = strings.TrimSpace(label)
	if target, ok := n.synonyms[label]; ok {
		return target
	}
	if c, ok := n.canonical[fold(label)]; ok {
		return c
	}
	return n.fallback
}

// Default returns the category used when nothing matches.
func (n *Normalizer) Default() string {
	return n.fallback
}

// Canonical returns the canonical categories in configuration order.
func (n *Normalizer) Canonical() []string {
	return slices.Clone(n.order)
}

// hebrewPrefixes are one-letter prepositions and conjunctions written
// attached to the following word.
const hebrewPrefixes = "בלהומש"

// Classify returns the category of the first keyword set containing one of
// the words in text, or the default.
func (n *Normalizer) Classify(text string) string {
	words := make(map[string]struct{})
	for _, tok := range strings.Fields(fold(text)) {
		for _, form := range wordForms(tok) {
			words[form] = struct{}{}
		}
	}

	for _, set := range n.keywords {
		for _, w := range set.Words {
			if _, ok := words[w]; ok {
				return set.Category
			}
		}
	}
	return n.fallback
}

// wordForms returns tok without surrounding punctuation, plus the variants
// with an English plural "s" or one Hebrew prefix letter removed.
func wordForms(tok string) []string {
	tok = strings.TrimFunc(tok, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if tok == "" {
		return nil
	}

	forms := []string{tok}
	if len(tok) > 3 && strings.HasSuffix(tok, "s") {
		forms = append(forms, strings.TrimSuffix(tok, "s"))
	}
	if r, size := utf8.DecodeRuneInString(tok); strings.ContainsRune(hebrewPrefixes, r) && len(tok) > size {
		forms = append(forms, tok[size:])
	}
	return forms
}

// fold case-folds s. A Caser keeps state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
