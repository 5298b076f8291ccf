package extraction

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// codeFenceRe matches opening fences with a language tag and bare closing fences.
var codeFenceRe = regexp.MustCompile("```[A-Za-z0-9_-]*")

// stripCodeFences removes markdown fences anywhere in text and trims it.
func stripCodeFences(text string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(text, ""))
}

// ParseResponse parses a raw extractor response into candidates. A bare object
// is treated as a one-element array and non-object array elements are dropped.
// Anything that is not a JSON object or array yields *MalformedResponseError.
func ParseResponse(raw string) ([]Candidate, error) {
	text := stripCodeFences(raw)
	if text == "" {
		return nil, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("empty response")}
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("unmarshaling json: %w", err)}
	}

	switch v := parsed.(type) {
	case map[string]any:
		return []Candidate{Candidate(v)}, nil
	case []any:
		candidates := make([]Candidate, 0, len(v))
		for _, elem := range v {
			if obj, ok := elem.(map[string]any); ok {
				candidates = append(candidates, Candidate(obj))
			}
		}
		return candidates, nil
	default:
		return nil, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("expected JSON array or object, got %T", parsed)}
	}
}
