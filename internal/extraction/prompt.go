package extraction

import (
	"fmt"
	"strings"
)

// expensePromptTemplate is shared by every model-backed extractor.
const expensePromptTemplate = `You are a financial data extractor.
Task: Convert the user text into a JSON array of objects, one object per purchase.
User text: "%s"
Rules:
1. Each object MUST have: "item" (string), "amount" (number), "category" (one of: %s).
2. "amount" is the price paid as a plain number, without currency symbols.
3. Only if the text says when the purchase happened, add "date" as YYYY-MM-DD.
4. If the text describes no purchase, return an empty array [].
5. Return ONLY the raw JSON array. No markdown, no backticks, no code fences, no extra text.%s
Example: [{"item": "Bread", "amount": 10, "category": "Food"}]`

// Prompt holds what model-backed extractors tell the model besides the user text.
type Prompt struct {
	// Categories lists the allowed category names.
	Categories []string
	// ItemLanguage, when set, asks for item names in that language (e.g. "Hebrew").
	ItemLanguage string
}

func (p Prompt) build(text string) string {
	var extra string
	if lang := strings.TrimSpace(p.ItemLanguage); lang != "" {
		extra = fmt.Sprintf("\n6. Write \"item\" in %s, translating it if needed.", lang)
	}
	return fmt.Sprintf(expensePromptTemplate, text, strings.Join(p.Categories, ", "), extra)
}
