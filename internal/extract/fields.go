package extract

import (
	"strings"

	"github.com/joseph-ayodele/quotient/internal/entity"
)

const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldQuantity    = "quantity"
	fieldUnitPrice   = "unit_price"
	fieldTotalPrice  = "total_price"
	fieldVendor      = "vendor"
	fieldCategory    = "category"
	fieldPartNumber  = "part_number"
	fieldSKU         = "sku"
	fieldUnit        = "unit"
)

// labelFields maps lowercased labels and column headers to candidate fields.
var labelFields = map[string]string{
	"item":           fieldName,
	"item name":      fieldName,
	"product":        fieldName,
	"product name":   fieldName,
	"name":           fieldName,
	"description":    fieldDescription,
	"desc":           fieldDescription,
	"part #":         fieldPartNumber,
	"part#":          fieldPartNumber,
	"part no":        fieldPartNumber,
	"part no.":       fieldPartNumber,
	"part number":    fieldPartNumber,
	"p/n":            fieldPartNumber,
	"pn":             fieldPartNumber,
	"mpn":            fieldPartNumber,
	"sku":            fieldSKU,
	"qty":            fieldQuantity,
	"quantity":       fieldQuantity,
	"unit price":     fieldUnitPrice,
	"price":          fieldUnitPrice,
	"price each":     fieldUnitPrice,
	"unit cost":      fieldUnitPrice,
	"cost":           fieldUnitPrice,
	"total":          fieldTotalPrice,
	"total price":    fieldTotalPrice,
	"line total":     fieldTotalPrice,
	"amount":         fieldTotalPrice,
	"extended price": fieldTotalPrice,
	"vendor":         fieldVendor,
	"manufacturer":   fieldVendor,
	"mfr":            fieldVendor,
	"supplier":       fieldVendor,
	"brand":          fieldVendor,
	"category":       fieldCategory,
	"unit":           fieldUnit,
	"uom":            fieldUnit,
}

func fieldForLabel(label string) (string, bool) {
	l := strings.Join(strings.Fields(strings.ToLower(label)), " ")
	f, ok := labelFields[strings.TrimSuffix(l, ":")]
	return f, ok
}

func setField(c *entity.CandidateEntity, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	switch field {
	case fieldName:
		c.Name = value
	case fieldDescription:
		c.Description = value
	case fieldQuantity:
		c.Quantity = value
		if c.Unit == "" {
			if m := reQtyUnit.FindStringSubmatch(value); m != nil {
				c.Unit = m[2]
			}
		}
	case fieldUnitPrice:
		c.UnitPrice = value
	case fieldTotalPrice:
		c.TotalPrice = value
	case fieldVendor:
		c.Vendor = value
	case fieldCategory:
		c.Category = value
	case fieldPartNumber:
		c.PartNumber = value
	case fieldSKU:
		c.SKU = value
		if c.PartNumber == "" {
			c.PartNumber = value
		}
	case fieldUnit:
		c.Unit = value
	default:
		return
	}
	if c.Fields == nil {
		c.Fields = map[string]any{}
	}
	c.Fields[field] = value
}

// ruleConfidence grows with the number of structured fields found.
func ruleConfidence(c entity.CandidateEntity) float64 {
	n := c.FieldCount()
	if c.Description != "" {
		n--
	}
	conf := 0.3 + 0.1*float64(n)
	if conf > 0.9 {
		conf = 0.9
	}
	return conf
}
