package normalize_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/common"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/normalize"
)

// -----------------------------------------------------------------------------
// Field rules
// -----------------------------------------------------------------------------

func TestPrice(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{"$1,234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"12,5", 12.5},
		{"1,234", 1234},
		{"1,234,567", 1234567},
		{"1.234.567", 1234567},
		{"EUR 99.90", 99.90},
		{".50", 0.5},
		{"$.99", 0.99},
		{"12.", 12},
		{"garbage", 0},
		{"", 0},
		{nil, 0},
		{-3.5, 0},
		{10, 10},
		{json.Number("12.25"), 12.25},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, normalize.Price(tt.in), 1e-9, "Price(%#v)", tt.in)
	}
}

func TestQuantity(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{"Qty: 12 pcs", 12},
		{nil, 0},
		{"none", 0},
		{7.9, 7},
		{-2, 0},
		{-2.5, 0},
		{json.Number("5"), 5},
		{"5", 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalize.Quantity(tt.in), "Quantity(%#v)", tt.in)
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Laptop Computer", normalize.Name("  laptop   computer "))
	assert.Equal(t, "Widget", normalize.Name("Item: widget"))
	assert.Equal(t, "Hex Bolt", normalize.Name("SKU: product: hex bolt"))
	assert.Equal(t, normalize.UnknownItem, normalize.Name("Item:"))
	assert.Equal(t, normalize.UnknownItem, normalize.Name(""))
}

func TestCategory(t *testing.T) {
	tests := map[string]string{
		"electronic":     "Electronics",
		"MECH":           "Mechanical",
		"office":         "Office Supplies",
		"power tools":    "Tools",
		"":               "Unknown",
		"garden  plants": "Garden Plants",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalize.Category(in), "Category(%q)", in)
	}
}

func TestVendor(t *testing.T) {
	assert.Equal(t, "Acme Corp.", normalize.Vendor("acme  corp"))
	assert.Equal(t, "Globex Inc.", normalize.Vendor("GLOBEX incorporated"))
	assert.Equal(t, "Initech LLC", normalize.Vendor("initech llc"))
	assert.Equal(t, "Wayne Ltd.", normalize.Vendor("wayne Ltd."))
	assert.Equal(t, "Stark Co.", normalize.Vendor("stark company,"))
	assert.Equal(t, "", normalize.Vendor(" "))
}

func TestPartNumber(t *testing.T) {
	tests := map[string]string{
		" abc-123 ":      "ABC-123",
		"PART#: x99":     "X99",
		"part # lap-001": "LAP-001",
		"P/N: 7-AB":      "7-AB",
		"sku: item# Z1":  "Z1",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalize.PartNumber(in), "PartNumber(%q)", in)
	}
}

func TestUnitAndDescription(t *testing.T) {
	assert.Equal(t, "pcs", normalize.Unit(""))
	assert.Equal(t, "pcs", normalize.Unit("Pieces"))
	assert.Equal(t, "kg", normalize.Unit("kilograms"))
	assert.Equal(t, "furlong", normalize.Unit(" furlong "))
	assert.Equal(t, "Great price! Really?", normalize.Description("Great   price!!!  Really???"))
}

func TestApplyTotals(t *testing.T) {
	tests := []struct {
		name                string
		qty                 int
		price, total        float64
		wantQty             int
		wantPrice, wantTotal float64
	}{
		{name: "total from qty and price", qty: 5, price: 1200, wantQty: 5, wantPrice: 1200, wantTotal: 6000},
		{name: "fractional price", qty: 3, price: 0.1, wantQty: 3, wantPrice: 0.1, wantTotal: 0.3},
		{name: "price from total", qty: 4, total: 10, wantQty: 4, wantPrice: 2.5, wantTotal: 10},
		{name: "qty from total", price: 2.5, total: 10, wantQty: 4, wantPrice: 2.5, wantTotal: 10},
		{name: "all known untouched", qty: 2, price: 3, total: 7, wantQty: 2, wantPrice: 3, wantTotal: 7},
		{name: "only one known", qty: 2, wantQty: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, p, tot := normalize.ApplyTotals(tt.qty, tt.price, tt.total)
			assert.Equal(t, tt.wantQty, q)
			assert.InDelta(t, tt.wantPrice, p, 1e-9)
			assert.InDelta(t, tt.wantTotal, tot, 1e-9)
		})
	}
}

// -----------------------------------------------------------------------------
// Normalizer
// -----------------------------------------------------------------------------

func TestNormalizer_Normalize(t *testing.T) {
	cands := []entity.CandidateEntity{
		{
			Name:       "laptop computer",
			PartNumber: "part# lap-001",
			Quantity:   "5",
			UnitPrice:  "$1,200.00",
			Vendor:     "dell inc",
			Category:   "electronic",
			SourceLine: "Item: Laptop Computer",
			Fields:     map[string]any{"quantity": "5"},
		},
		{},
		{Description: "blue widgets!!", Quantity: map[string]any{"n": 1}},
		{Description: "spare   cable", Unit: "units", Confidence: 0.8},
	}

	items, errs := normalize.New(nil).Normalize(cands, "quote.txt")
	require.Len(t, items, 2)
	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.ErrorIs(t, err, common.ErrItem)
	}

	laptop := items[0]
	assert.Equal(t, "Laptop Computer", laptop.Name)
	assert.Equal(t, "LAP-001", laptop.PartNumber)
	assert.Equal(t, "LAP-001", laptop.SKU)
	assert.Equal(t, 5, laptop.Quantity)
	assert.InDelta(t, 1200.0, laptop.UnitPrice, 1e-9)
	assert.InDelta(t, 6000.0, laptop.TotalPrice, 1e-9)
	assert.Equal(t, "Dell Inc.", laptop.VendorName)
	assert.Equal(t, "Electronics", laptop.Category)
	assert.Equal(t, "pcs", laptop.Unit)
	assert.Equal(t, normalize.DefaultConfidence, laptop.Confidence)
	assert.Equal(t, constants.ItemStatusComplete, laptop.Status)
	assert.Equal(t, "quote.txt", laptop.SourceDocument)
	assert.Equal(t, "Item: Laptop Computer", laptop.RawText)
	assert.Equal(t, "5", laptop.Fields["quantity"])

	cable := items[1]
	assert.Equal(t, "Spare Cable", cable.Name)
	assert.Equal(t, "spare cable", cable.Description)
	assert.Equal(t, "pcs", cable.Unit)
	assert.Equal(t, "Unknown", cable.Category)
	assert.InDelta(t, 0.8, cable.Confidence, 1e-9)
	assert.Equal(t, constants.ItemStatusIncomplete, cable.Status)
}

func TestRenormalizeIsIdempotent(t *testing.T) {
	cands := []entity.CandidateEntity{
		{Name: "item: hex  BOLT", Quantity: "Qty: 100 pcs", UnitPrice: "1.234,56", Vendor: "acme corporation", PartNumber: "sku: hb-8", Category: "mech", Unit: "pieces"},
		{Description: "wow!!! cheap??", TotalPrice: "$50", UnitPrice: 12.5, Unit: "Kilograms"},
	}
	items, errs := normalize.New(nil).Normalize(cands, "")
	require.Empty(t, errs)

	for _, it := range items {
		once := normalize.Renormalize(it)
		assert.Equal(t, it, once)
		assert.Equal(t, once, normalize.Renormalize(once))
	}
}
