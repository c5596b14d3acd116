package llm

// BuildItemsJSONSchema returns a JSON-Schema for the model's item array.
// Numeric fields accept strings since models often echo "$12.50" verbatim.
func BuildItemsJSONSchema() map[string]any {
	text := map[string]any{"type": []string{"string", "null"}}
	amount := map[string]any{"type": []string{"number", "string", "null"}}

	props := map[string]any{
		"name":         text,
		"item_name":    text,
		"description":  text,
		"category":     text,
		"vendor":       text,
		"vendor_name":  text,
		"manufacturer": text,
		"part_number":  text,
		"sku":          text,
		"unit":         text,
		"quantity":     amount,
		"price":        amount,
		"unit_price":   amount,
		"total_price":  amount,
		"confidence":   map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
	}

	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": true,
			"properties":           props,
		},
	}
}
