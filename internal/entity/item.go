package entity

import (
	"github.com/joseph-ayodele/quotient/constants"
)

// CandidateEntity is an unvalidated record proposed by entity extraction.
// Quantity and the price fields hold whatever the source gave: a number or free text.
type CandidateEntity struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Quantity    any            `json:"quantity,omitempty"`
	UnitPrice   any            `json:"unit_price,omitempty"`
	TotalPrice  any            `json:"total_price,omitempty"`
	Category    string         `json:"category,omitempty"`
	Vendor      string         `json:"vendor,omitempty"`
	PartNumber  string         `json:"part_number,omitempty"`
	SKU         string         `json:"sku,omitempty"`
	Unit        string         `json:"unit,omitempty"`
	Confidence  float64        `json:"confidence,omitempty"`
	SourceLine  string         `json:"source_line,omitempty"`
	Fields      map[string]any `json:"fields,omitempty"`
}

// FieldCount counts the populated fields, ignoring provenance.
func (c CandidateEntity) FieldCount() int {
	n := 0
	for _, s := range []string{c.Name, c.Description, c.Category, c.Vendor, c.PartNumber, c.SKU, c.Unit} {
		if s != "" {
			n++
		}
	}
	for _, v := range []any{c.Quantity, c.UnitPrice, c.TotalPrice} {
		if v != nil {
			n++
		}
	}
	return n
}

// InventoryItem is the canonical, normalized line item.
type InventoryItem struct {
	Name           string               `json:"item_name"`
	PartNumber     string               `json:"part_number,omitempty"`
	SKU            string               `json:"sku,omitempty"`
	Quantity       int                  `json:"quantity"`
	Unit           string               `json:"unit,omitempty"`
	UnitPrice      float64              `json:"unit_price"`
	TotalPrice     float64              `json:"total_price"`
	VendorName     string               `json:"vendor_name,omitempty"`
	Description    string               `json:"description,omitempty"`
	Category       string               `json:"category,omitempty"`
	Confidence     float64              `json:"extraction_confidence"`
	Status         constants.ItemStatus `json:"status"`
	SourceDocument string               `json:"source_document,omitempty"`
	RawText        string               `json:"raw_text,omitempty"`
	Fields         map[string]any       `json:"extracted_fields,omitempty"`
}

// IsComplete requires a name and at least two of quantity, unit price and vendor.
func (i InventoryItem) IsComplete() bool {
	if i.Name == "" {
		return false
	}
	important := 0
	if i.Quantity > 0 {
		important++
	}
	if i.UnitPrice > 0 {
		important++
	}
	if i.VendorName != "" {
		important++
	}
	return important >= 2
}
