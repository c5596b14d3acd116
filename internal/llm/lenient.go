package llm

import (
	"encoding/json"
	"fmt"
	"slices"
)

var (
	textKeys   = []string{"name", "item_name", "description", "category", "vendor", "vendor_name", "manufacturer", "part_number", "sku", "unit"}
	amountKeys = []string{"quantity", "price", "unit_price", "total_price"}
)

// SanitizeItems drops elements that are not objects and fields whose type
// does not fit the item schema, so the rest of the array can still be used.
func SanitizeItems(items []any) ([]any, []string) {
	out := make([]any, 0, len(items))
	var dropped []string

	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			dropped = append(dropped, fmt.Sprintf("[%d](not an object)", i))
			continue
		}
		for k, v := range m {
			switch {
			case slices.Contains(textKeys, k):
				switch v.(type) {
				case string, nil:
				default:
					delete(m, k)
					dropped = append(dropped, fmt.Sprintf("[%d].%s(type)", i, k))
				}
			case slices.Contains(amountKeys, k):
				switch v.(type) {
				case json.Number, float64, string, nil:
				default:
					delete(m, k)
					dropped = append(dropped, fmt.Sprintf("[%d].%s(type)", i, k))
				}
			case k == "confidence":
				if f, ok := number(v); !ok || f < 0 || f > 1 {
					delete(m, k)
					dropped = append(dropped, fmt.Sprintf("[%d].confidence(range)", i))
				}
			}
		}
		out = append(out, m)
	}
	return out, dropped
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	}
	return 0, false
}
