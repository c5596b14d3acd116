package constants

import "strings"

// DefaultUnit is used when a candidate carries no unit of measure.
const DefaultUnit = "pcs"

var unitSynonyms = map[string]string{
	"pcs":         "pcs",
	"pc":          "pcs",
	"piece":       "pcs",
	"pieces":      "pcs",
	"unit":        "pcs",
	"units":       "pcs",
	"item":        "pcs",
	"items":       "pcs",
	"ea":          "pcs",
	"each":        "pcs",
	"kg":          "kg",
	"kgs":         "kg",
	"kilogram":    "kg",
	"kilograms":   "kg",
	"lb":          "lbs",
	"lbs":         "lbs",
	"pound":       "lbs",
	"pounds":      "lbs",
	"g":           "g",
	"gram":        "g",
	"grams":       "g",
	"m":           "m",
	"meter":       "m",
	"meters":      "m",
	"metre":       "m",
	"metres":      "m",
	"cm":          "cm",
	"centimeter":  "cm",
	"centimeters": "cm",
	"mm":          "mm",
	"millimeter":  "mm",
	"millimeters": "mm",
	"l":           "L",
	"liter":       "L",
	"liters":      "L",
	"litre":       "L",
	"litres":      "L",
	"ml":          "mL",
	"milliliter":  "mL",
	"milliliters": "mL",
	"box":         "box",
	"boxes":       "box",
	"pack":        "pack",
	"packs":       "pack",
	"bottle":      "bottle",
	"bottles":     "bottle",
	"can":         "can",
	"cans":        "can",
	"roll":        "roll",
	"rolls":       "roll",
	"sheet":       "sheet",
	"sheets":      "sheet",
}

// CanonicalUnit maps a unit of measure to its short form.
// Unknown units are returned trimmed but otherwise unchanged.
func CanonicalUnit(unit string) string {
	u := strings.TrimSpace(unit)
	if u == "" {
		return DefaultUnit
	}
	if c, ok := unitSynonyms[strings.ToLower(u)]; ok {
		return c
	}
	return u
}
