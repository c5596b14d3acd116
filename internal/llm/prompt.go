package llm

import (
	"strings"
	"unicode/utf8"
)

const DefaultMaxPromptChars = 3000

// SystemPrompt frames the model as a verbatim inventory extractor.
const SystemPrompt = "You are an expert at extracting inventory-related information from text. " +
	"Extract only values that appear in the text; never invent or estimate missing data. " +
	"Return ONLY a JSON array of objects, with no prose before or after it."

// ItemFields are the keys requested for every extracted item.
var ItemFields = []string{
	"name", "description", "quantity", "price", "total_price",
	"category", "vendor", "part_number", "unit",
}

// BuildItemsPrompt asks for a JSON array of items found in text. Text longer
// than maxChars runes is cut.
func BuildItemsPrompt(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxPromptChars
	}

	var b strings.Builder
	b.WriteString("Extract inventory items from the text below.\n")
	b.WriteString("For each item return an object with these fields when present: ")
	b.WriteString(strings.Join(ItemFields, ", "))
	b.WriteString(".\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Copy names, part numbers and vendors exactly as written.\n")
	b.WriteString("- quantity, price and total_price are numbers; omit them if not stated.\n")
	b.WriteString("- price is the unit price; total_price is the line total.\n")
	b.WriteString("- Omit fields that are not present. Never output null.\n")
	b.WriteString("- If there are no items, return [].\n\n")
	b.WriteString("Text:\n")
	b.WriteString(Truncate(text, maxChars))
	b.WriteString("\n\nJSON array:")
	return b.String()
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
