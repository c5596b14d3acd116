package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/quotient/internal/entity"
)

var (
	nameKeys   = []string{"name", "item_name", "item", "product"}
	priceKeys  = []string{"price", "unit_price"}
	totalKeys  = []string{"total_price", "total"}
	vendorKeys = []string{"vendor", "vendor_name", "manufacturer", "supplier"}
	partKeys   = []string{"part_number", "part number", "part_no", "sku"}
)

// candidateFromObject maps one model object onto a candidate, keeping the raw
// object as Fields.
func candidateFromObject(m map[string]any) entity.CandidateEntity {
	c := entity.CandidateEntity{
		Name:        firstString(m, nameKeys...),
		Description: firstString(m, "description"),
		Quantity:    firstValue(m, "quantity", "qty"),
		UnitPrice:   firstValue(m, priceKeys...),
		TotalPrice:  firstValue(m, totalKeys...),
		Category:    firstString(m, "category"),
		Vendor:      firstString(m, vendorKeys...),
		PartNumber:  firstString(m, partKeys...),
		SKU:         firstString(m, "sku"),
		Unit:        firstString(m, "unit"),
		Fields:      primitives(m),
	}
	if f, ok := asFloat(m["confidence"]); ok && f >= 0 && f <= 1 {
		c.Confidence = f
	}
	return c
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstValue returns the first non-empty value, with json.Number turned into float64.
func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		switch v := m[k].(type) {
		case nil:
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f
			}
			return v.String()
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		default:
			return v
		}
	}
	return nil
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	}
	return 0, false
}

// primitives flattens an object to string → primitive.
func primitives(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
		case json.Number:
			if f, err := t.Float64(); err == nil {
				out[k] = f
			} else {
				out[k] = t.String()
			}
		case string, bool, float64:
			out[k] = t
		default:
			b, err := json.Marshal(t)
			if err != nil {
				out[k] = fmt.Sprint(t)
				continue
			}
			out[k] = string(b)
		}
	}
	return out
}
