package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNoJSONArray = errors.New("no JSON array in response")

// ParseJSONArray cuts the response from the first '[' to the last ']' and
// decodes it. Numbers are kept as json.Number.
func ParseJSONArray(response string) ([]any, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start < 0 || end <= start {
		return nil, ErrNoJSONArray
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(response[start : end+1])))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json array: %w", err)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, ErrNoJSONArray
	}
	return arr, nil
}

// ParseItems decodes and validates a model response into item objects.
// Items that violate the schema are sanitized once before giving up.
func ParseItems(response string) ([]map[string]any, []string, error) {
	arr, err := ParseJSONArray(response)
	if err != nil {
		return nil, nil, err
	}

	schema := BuildItemsJSONSchema()
	var dropped []string
	if err := ValidateJSONAgainstSchema(schema, arr); err != nil {
		arr, dropped = SanitizeItems(arr)
		if vErr := ValidateJSONAgainstSchema(schema, arr); vErr != nil {
			return nil, dropped, fmt.Errorf("schema validation failed: %w", vErr)
		}
	}

	out := make([]map[string]any, 0, len(arr))
	for _, it := range arr {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, dropped, nil
}
