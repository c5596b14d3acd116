package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/entity"
)

var (
	reQtyUnit  = regexp.MustCompile(`(?i)\b(\d+)\s*(pcs?|pieces?|units?|items?|kg|lbs?|meters?|m|cm|mm)\b`)
	rePrice    = regexp.MustCompile(`\$(\d[\d,]*\.?\d*)`)
	rePartNums = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Z]{2,}\d+[A-Z0-9]*\b`), // ABC123
		regexp.MustCompile(`\b\d+[A-Z]{2,}\d*\b`),       // 123ABC
		regexp.MustCompile(`\b[A-Z]+-\d+\b`),            // ABC-123
		regexp.MustCompile(`\b\d+-[A-Z]+\b`),            // 123-ABC
	}
	reVendors = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:Inc|Corp|LLC|Ltd|Company|Co)\b`),
		regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:Technologies|Systems|Solutions|Group)\b`),
	}
	reSpaces = regexp.MustCompile(`\s+`)
)

// ExtractRules finds candidates with pattern matching only. Pipe-delimited
// tables take priority; otherwise labeled records and single lines are used.
func ExtractRules(text string) []entity.CandidateEntity {
	lines := strings.Split(text, "\n")
	if isPipeTable(lines) {
		return parseTable(lines)
	}

	var (
		out []entity.CandidateEntity
		rec labeledRecord
	)
	flush := func() {
		if rec.empty() {
			return
		}
		if c, ok := rec.candidate(); ok {
			out = append(out, c)
		}
		rec = labeledRecord{}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}
		if field, value, ok := splitLabel(line); ok {
			if value == "" {
				continue
			}
			if rec.has(field) {
				flush()
			}
			rec.add(field, value, line)
			continue
		}
		flush()

		// skip lines that are clearly not product information
		if len(line) < 5 || strings.HasPrefix(line, "#") {
			continue
		}
		if c, ok := fromLine(line); ok {
			out = append(out, c)
		}
	}
	flush()
	return out
}

// fromLine applies each detector to a free-text line.
func fromLine(line string) (entity.CandidateEntity, bool) {
	c := entity.CandidateEntity{SourceLine: line, Fields: map[string]any{}}

	if m := reQtyUnit.FindStringSubmatch(line); m != nil {
		if q, err := strconv.Atoi(m[1]); err == nil {
			c.Quantity = q
			c.Unit = m[2]
			c.Fields[fieldQuantity] = q
			c.Fields[fieldUnit] = m[2]
		}
	}
	if m := rePrice.FindStringSubmatch(line); m != nil {
		c.UnitPrice = m[1]
		c.Fields[fieldUnitPrice] = m[1]
	}
	for _, re := range rePartNums {
		if p := re.FindString(line); p != "" {
			c.PartNumber = p
			c.Fields[fieldPartNumber] = p
			break
		}
	}
	for _, re := range reVendors {
		if v := re.FindString(line); v != "" {
			c.Vendor = v
			c.Fields[fieldVendor] = v
			break
		}
	}
	if cat := keywordCategory(line); cat != "" {
		c.Category = cat
		c.Fields[fieldCategory] = cat
	}
	if d := lineDescription(line); d != "" {
		c.Description = d
		c.Fields[fieldDescription] = d
	}

	if c.FieldCount() < 2 {
		return entity.CandidateEntity{}, false
	}
	c.Confidence = ruleConfidence(c)
	return c, true
}

func keywordCategory(line string) string {
	lower := strings.ToLower(line)
	for _, ck := range constants.CategoryKeywords {
		for _, kw := range ck.Keywords {
			if strings.Contains(lower, kw) {
				return ck.Category
			}
		}
	}
	return ""
}

// lineDescription is what remains after removing every structured match.
func lineDescription(line string) string {
	line = rePrice.ReplaceAllString(line, "")
	line = reQtyUnit.ReplaceAllString(line, "")
	for _, re := range rePartNums {
		line = re.ReplaceAllString(line, "")
	}
	for _, re := range reVendors {
		line = re.ReplaceAllString(line, "")
	}
	d := strings.TrimSpace(reSpaces.ReplaceAllString(line, " "))
	if len(d) <= 3 {
		return ""
	}
	return d
}
