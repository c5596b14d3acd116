package constants

import (
	"strings"
)

type Category string

const (
	Electronics    Category = "Electronics"
	Mechanical     Category = "Mechanical"
	Chemical       Category = "Chemical"
	OfficeSupplies Category = "Office Supplies"
	Tools          Category = "Tools"
	Hardware       Category = "Hardware"
	Software       Category = "Software"
	RawMaterials   Category = "Raw Materials"
	FinishedGoods  Category = "Finished Goods"
	Packaging      Category = "Packaging"
	Miscellaneous  Category = "Miscellaneous"
	Unknown        Category = "Unknown"
)

var allCategories = []Category{
	Electronics,
	Mechanical,
	Chemical,
	OfficeSupplies,
	Tools,
	Hardware,
	Software,
	RawMaterials,
	FinishedGoods,
	Packaging,
	Miscellaneous,
	Unknown,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

type synonym struct {
	key string
	cat Category
}

// synonyms is ordered: substring matching returns the first hit.
var synonyms = []synonym{
	{"electronics", Electronics},
	{"electronic", Electronics},
	{"electrical", Electronics},
	{"mechanical", Mechanical},
	{"mech", Mechanical},
	{"chemical", Chemical},
	{"chem", Chemical},
	{"office", OfficeSupplies},
	{"office supplies", OfficeSupplies},
	{"tools", Tools},
	{"tool", Tools},
	{"hardware", Hardware},
	{"software", Software},
	{"raw materials", RawMaterials},
	{"raw material", RawMaterials},
	{"finished goods", FinishedGoods},
	{"finished good", FinishedGoods},
	{"packaging", Packaging},
	{"misc", Miscellaneous},
	{"miscellaneous", Miscellaneous},
	{"other", Miscellaneous},
	{"unknown", Unknown},
}

// Canonicalize maps free-form category text onto the canonical vocabulary.
// Exact synonym hits win, then the first synonym that contains or is contained by the input.
// The bool is false when nothing matched.
func Canonicalize(input string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Unknown, false
	}

	for _, s := range synonyms {
		if normalized == s.key {
			return s.cat, true
		}
	}
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}
	for _, s := range synonyms {
		if strings.Contains(normalized, s.key) || len(normalized) >= 3 && strings.Contains(s.key, normalized) {
			return s.cat, true
		}
	}
	return Unknown, false
}

// CategoryKeywords drives keyword-based category detection on free text lines.
// Order matters: the first category with a matching keyword wins.
var CategoryKeywords = []struct {
	Category string
	Keywords []string
}{
	{"electronics", []string{"circuit", "board", "chip", "resistor", "capacitor", "diode"}},
	{"mechanical", []string{"bolt", "nut", "screw", "bearing", "gear", "pump"}},
	{"chemical", []string{"chemical", "acid", "base", "solvent", "reagent"}},
	{"office", []string{"paper", "pen", "pencil", "folder", "binder"}},
	{"tools", []string{"wrench", "screwdriver", "hammer", "drill", "saw"}},
}
