package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/export"
)

func TestItemsXLSX(t *testing.T) {
	results := []*entity.ProcessingResult{
		{
			SourcePath: "/in/quote.pdf",
			Method:     constants.MethodNativeText,
			Strategy:   constants.StrategyRules,
			Confidence: 0.7,
			Elapsed:    1500 * time.Millisecond,
			Warnings:   []string{"model extraction failed", "page 2 skipped"},
			Items: []entity.InventoryItem{
				{Name: "Laptop Computer", PartNumber: "LAP-001", SKU: "LAP-001", Quantity: 5, Unit: "pcs", UnitPrice: 1200, TotalPrice: 6000, Status: constants.ItemStatusIncomplete, Confidence: 0.7, SourceDocument: "/in/quote.pdf"},
				{Name: "Mouse", Quantity: 2, Description: strings.Repeat("x", 300), SourceDocument: "/in/quote.pdf"},
			},
		},
		nil,
		{SourcePath: "/in/broken.png", Errors: []string{"DOCUMENT_ERROR: empty"}},
	}

	b, err := export.NewService(nil).ItemsXLSX(results)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetItems, export.SheetDocuments}, f.GetSheetList())

	items, err := f.GetRows(export.SheetItems)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Item", items[0][0])
	assert.Equal(t, "Source", items[0][12])
	assert.Equal(t, []string{"Laptop Computer", "LAP-001", "LAP-001", "5", "pcs", "1200", "6000"}, items[1][:7])
	assert.Equal(t, "incomplete", items[1][10])
	assert.Len(t, []rune(items[2][9]), 200)

	docs, err := f.GetRows(export.SheetDocuments)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"/in/quote.pdf", "native-text", "rules", "2", "0.7", "1500"}, docs[1][:6])
	assert.Equal(t, "model extraction failed; page 2 skipped", docs[1][7])
	assert.Equal(t, "/in/broken.png", docs[2][0])
	assert.Equal(t, "DOCUMENT_ERROR: empty", docs[2][6])
}
