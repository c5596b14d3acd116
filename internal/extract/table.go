package extract

import (
	"strings"

	"github.com/joseph-ayodele/quotient/internal/entity"
)

// positionalColumns is the column order assumed when a header is not recognized.
var positionalColumns = []string{
	fieldName, fieldDescription, fieldQuantity, fieldUnitPrice, fieldCategory, fieldVendor, fieldPartNumber,
}

// isPipeTable reports a table when a line carries two pipes, or when a
// single-pipe line sits directly above a separator (a two-column header).
func isPipeTable(lines []string) bool {
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if strings.Count(l, "|") >= 2 && !isSeparator(l) {
			return true
		}
		if strings.Contains(l, "|") && !isSeparator(l) &&
			i+1 < len(lines) && isSeparator(strings.TrimSpace(lines[i+1])) {
			return true
		}
	}
	return false
}

// parseTable reads " | " delimited rows. A header is the pipe line just
// above a dash separator; if it names at least two known columns it drives
// the mapping until the next header. Lines without a pipe are prose and go
// through the free-text detectors instead.
func parseTable(lines []string) []entity.CandidateEntity {
	var out []entity.CandidateEntity
	cols := positionalColumns

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "Sheet:") || isSeparator(line) {
			continue
		}
		if !strings.Contains(line, "|") {
			if len(line) < 5 || strings.HasPrefix(line, "#") {
				continue
			}
			if c, ok := fromLine(line); ok {
				out = append(out, c)
			}
			continue
		}
		if i+1 < len(lines) && isSeparator(strings.TrimSpace(lines[i+1])) {
			cols = headerColumns(splitCells(line))
			continue
		}

		c := entity.CandidateEntity{SourceLine: line}
		for j, cell := range splitCells(line) {
			if j >= len(cols) || cols[j] == "" || isNullCell(cell) {
				continue
			}
			setField(&c, cols[j], cell)
		}
		if c.Name == "" && c.Description == "" {
			continue
		}
		c.Confidence = ruleConfidence(c)
		out = append(out, c)
	}
	return out
}

func headerColumns(cells []string) []string {
	mapped := make([]string, len(cells))
	known := 0
	for i, cell := range cells {
		if f, ok := fieldForLabel(cell); ok {
			mapped[i] = f
			known++
		}
	}
	if known < 2 {
		return positionalColumns
	}
	return mapped
}

func splitCells(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func isSeparator(line string) bool {
	if line == "" || !strings.ContainsAny(line, "-=") {
		return false
	}
	for _, r := range line {
		switch r {
		case '-', '=', '+', '|', ':', ' ':
		default:
			return false
		}
	}
	return true
}

func isNullCell(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "nan", "none", "null", "n/a":
		return true
	}
	return false
}
