package textextract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/common"
	"github.com/joseph-ayodele/quotient/internal/entity"
)

const cellSep = " | "

func (e *Extractor) extractSpreadsheet(doc entity.RawDocument) (entity.ExtractedText, error) {
	f, err := excelize.OpenReader(bytes.NewReader(doc.Content))
	if err != nil {
		return entity.ExtractedText{}, common.ExtractionError("cannot open spreadsheet", err)
	}
	defer func() { _ = f.Close() }()

	var (
		blocks []string
		warns  []string
	)
	sheets := f.GetSheetList()
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			warns = append(warns, fmt.Sprintf("sheet %q: %v", name, err))
			continue
		}
		table := FlattenRows(rows)
		if table == "" {
			continue
		}
		blocks = append(blocks, "Sheet: "+name+"\n"+strings.Repeat("=", 50)+"\n"+table)
	}

	return entity.ExtractedText{
		Text:       strings.Join(blocks, "\n\n"),
		Method:     constants.MethodTabularFlatten,
		Pages:      len(sheets),
		Confidence: directTextConfidence,
		Warnings:   warns,
	}, nil
}

func (e *Extractor) extractCSV(doc entity.RawDocument) (entity.ExtractedText, error) {
	r := csv.NewReader(strings.NewReader(strings.ToValidUTF8(string(doc.Content), "")))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entity.ExtractedText{}, common.ExtractionError("cannot parse csv", err)
		}
		rows = append(rows, rec)
	}

	return entity.ExtractedText{
		Text:       FlattenRows(rows),
		Method:     constants.MethodTabularFlatten,
		Pages:      1,
		Confidence: directTextConfidence,
	}, nil
}

// FlattenRows renders a header row, a dash separator as wide as the header
// line, and one " | " joined line per record. Short rows are padded to the
// header width. Blank rows are dropped.
func FlattenRows(rows [][]string) string {
	var kept [][]string
	for _, row := range rows {
		if !blankRow(row) {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		return ""
	}

	header := kept[0]
	width := len(header)
	headerLine := strings.Join(trimCells(header), cellSep)

	lines := []string{headerLine, strings.Repeat("-", len(headerLine))}
	for _, row := range kept[1:] {
		cells := trimCells(row)
		for len(cells) < width {
			cells = append(cells, "")
		}
		lines = append(lines, strings.Join(cells, cellSep))
	}
	return strings.Join(lines, "\n")
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
