package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joseph-ayodele/quotient/constants"
)

const UnknownItem = "Unknown Item"

var (
	reSpaces     = regexp.MustCompile(`\s+`)
	reDigits     = regexp.MustCompile(`\d+`)
	rePriceChars = regexp.MustCompile(`[^\d.,]`)
	reBangs      = regexp.MustCompile(`!{2,}`)
	reQuestions  = regexp.MustCompile(`\?{2,}`)

	namePrefixes = []string{"item:", "product:", "part:", "sku:"}
	partPrefixes = []string{"PART #", "PART#", "PART:", "P/N", "SKU:", "SKU#", "ITEM#", "ITEM:"}

	vendorSuffixes = map[string]string{
		"inc":          "Inc.",
		"incorporated": "Inc.",
		"corp":         "Corp.",
		"corporation":  "Corp.",
		"llc":          "LLC",
		"ltd":          "Ltd.",
		"limited":      "Ltd.",
		"co":           "Co.",
		"company":      "Co.",
	}
)

func collapse(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// title is per call: a Caser keeps state and must not be shared.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// Name collapses whitespace, strips label prefixes and title-cases.
func Name(s string) string {
	s = collapse(s)
	for stripped := true; stripped; {
		stripped = false
		for _, p := range namePrefixes {
			if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
				s = strings.TrimSpace(s[len(p):])
				stripped = true
			}
		}
	}
	if s == "" {
		return UnknownItem
	}
	return title(s)
}

// Description collapses whitespace and repeated ! or ?.
func Description(s string) string {
	s = collapse(s)
	s = reBangs.ReplaceAllString(s, "!")
	return reQuestions.ReplaceAllString(s, "?")
}

// Quantity returns a non-negative integer count, 0 when unparseable.
func Quantity(v any) int {
	q, _ := parseQuantity(v)
	return q
}

func parseQuantity(v any) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return max(t, 0), nil
	case int64:
		return int(max(t, 0)), nil
	case int32:
		return int(max(t, 0)), nil
	case float32:
		return floatQuantity(float64(t)), nil
	case float64:
		return floatQuantity(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, nil
		}
		return floatQuantity(f), nil
	case string:
		m := reDigits.FindString(t)
		if m == "" {
			return 0, nil
		}
		q, err := strconv.Atoi(m)
		if err != nil {
			return 0, nil
		}
		return q, nil
	default:
		return 0, fmt.Errorf("quantity has unsupported type %T", v)
	}
}

func floatQuantity(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// Price returns a non-negative amount, 0 when unparseable.
func Price(v any) float64 {
	p, _ := parsePrice(v)
	return p
}

func parsePrice(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return float64(max(t, 0)), nil
	case int64:
		return float64(max(t, 0)), nil
	case float32:
		return floatPrice(float64(t)), nil
	case float64:
		return floatPrice(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, nil
		}
		return floatPrice(f), nil
	case string:
		return priceString(t), nil
	default:
		return 0, fmt.Errorf("price has unsupported type %T", v)
	}
}

func floatPrice(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// priceString keeps digits and separators; whichever of ',' and '.' comes
// last is the decimal point. A lone comma with at most two digits after it
// is decimal too.
func priceString(s string) float64 {
	cleaned := rePriceChars.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0
	}

	comma, dot := strings.LastIndex(cleaned, ","), strings.LastIndex(cleaned, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case comma >= 0:
		if strings.Count(cleaned, ",") == 1 && len(cleaned)-comma-1 <= 2 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	cleaned = strings.TrimRight(cleaned, ".")
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

// Category maps onto the canonical vocabulary; unmatched text is title-cased.
func Category(s string) string {
	s = collapse(s)
	if s == "" {
		return string(constants.Unknown)
	}
	if c, ok := constants.Canonicalize(s); ok {
		return string(c)
	}
	return title(s)
}

// Vendor canonicalizes legal suffixes and title-cases the other words.
func Vendor(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		key := strings.ToLower(strings.TrimRight(w, ".,"))
		if canon, ok := vendorSuffixes[key]; ok {
			words[i] = canon
			continue
		}
		words[i] = title(w)
	}
	return strings.Join(words, " ")
}

// PartNumber upper-cases and strips label prefixes until none remain.
func PartNumber(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	for stripped := true; stripped; {
		stripped = false
		for _, p := range partPrefixes {
			if strings.HasPrefix(s, p) {
				s = strings.TrimLeft(strings.TrimSpace(s[len(p):]), ":# ")
				stripped = true
			}
		}
	}
	return s
}

// Unit maps a unit of measure to its canonical short form.
func Unit(s string) string {
	return constants.CanonicalUnit(s)
}

// ApplyTotals derives the one missing value of quantity, unit price and
// total when the other two are known.
func ApplyTotals(qty int, price, total float64) (int, float64, float64) {
	q := decimal.NewFromInt(int64(qty))
	p := decimal.NewFromFloat(price)
	t := decimal.NewFromFloat(total)

	switch {
	case total <= 0 && qty > 0 && price > 0:
		total = q.Mul(p).InexactFloat64()
	case price <= 0 && qty > 0 && total > 0:
		price = t.Div(q).Round(4).InexactFloat64()
	case qty <= 0 && price > 0 && total > 0:
		qty = int(t.Div(p).Round(0).IntPart())
	}
	return qty, price, total
}
