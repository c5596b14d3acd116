package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/quotient/internal/entity"
)

const (
	SheetItems     = "Items"
	SheetDocuments = "Documents"
)

var (
	itemHeaders = []string{
		"Item",
		"Part Number",
		"SKU",
		"Quantity",
		"Unit",
		"Unit Price",
		"Total Price",
		"Vendor",
		"Category",
		"Description",
		"Status",
		"Confidence",
		"Source",
	}
	documentHeaders = []string{
		"Source",
		"Method",
		"Strategy",
		"Items",
		"Confidence",
		"Elapsed (ms)",
		"Errors",
		"Warnings",
	}
)

// Service renders processing results as spreadsheets.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ItemsXLSX returns a workbook (as bytes) with one row per item on the Items
// sheet and one row per document on the Documents sheet. Nil results are skipped.
func (s *Service) ItemsXLSX(results []*entity.ProcessingResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// The default sheet becomes Items so the workbook opens on it.
	if err := f.SetSheetName(f.GetSheetName(0), SheetItems); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetDocuments); err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(0)

	if err := writeRow(f, SheetItems, 1, toAny(itemHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, SheetDocuments, 1, toAny(documentHeaders)); err != nil {
		return nil, err
	}

	itemRow, docRow := 2, 2
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, it := range r.Items {
			if err := writeRow(f, SheetItems, itemRow, []any{
				it.Name,
				it.PartNumber,
				it.SKU,
				it.Quantity,
				it.Unit,
				it.UnitPrice,
				it.TotalPrice,
				it.VendorName,
				it.Category,
				truncate(it.Description, 200),
				string(it.Status),
				it.Confidence,
				it.SourceDocument,
			}); err != nil {
				return nil, err
			}
			itemRow++
		}

		if err := writeRow(f, SheetDocuments, docRow, []any{
			r.SourcePath,
			string(r.Method),
			string(r.Strategy),
			len(r.Items),
			r.Confidence,
			r.Elapsed.Milliseconds(),
			strings.Join(r.Errors, "; "),
			strings.Join(r.Warnings, "; "),
		}); err != nil {
			return nil, err
		}
		docRow++
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetItems, "A", "A", 28) // item
	_ = f.SetColWidth(SheetItems, "B", "C", 16) // part, sku
	_ = f.SetColWidth(SheetItems, "H", "I", 20) // vendor, category
	_ = f.SetColWidth(SheetItems, "J", "J", 48) // description
	_ = f.SetColWidth(SheetItems, "M", "M", 60) // source
	_ = f.SetColWidth(SheetDocuments, "A", "A", 60)
	_ = f.SetColWidth(SheetDocuments, "G", "H", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"documents", docRow-2,
		"rows", itemRow-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
