package extract

import (
	"strings"

	"github.com/joseph-ayodele/quotient/internal/entity"
)

// labeledRecord accumulates consecutive "Label: value" lines into one candidate.
type labeledRecord struct {
	c     entity.CandidateEntity
	seen  map[string]bool
	lines []string
}

func (r *labeledRecord) has(field string) bool { return r.seen[field] }

func (r *labeledRecord) add(field, value, line string) {
	if r.seen == nil {
		r.seen = map[string]bool{}
	}
	r.seen[field] = true
	r.lines = append(r.lines, line)
	setField(&r.c, field, value)
}

func (r *labeledRecord) empty() bool { return len(r.lines) == 0 }

// candidate returns the record when it carries at least two fields.
func (r *labeledRecord) candidate() (entity.CandidateEntity, bool) {
	if r.c.FieldCount() < 2 {
		return entity.CandidateEntity{}, false
	}
	c := r.c
	c.SourceLine = strings.Join(r.lines, "\n")
	c.Confidence = ruleConfidence(c)
	return c, true
}

// splitLabel recognizes "Label: value" with a known label.
func splitLabel(line string) (field, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	field, ok = fieldForLabel(line[:idx])
	if !ok {
		return "", "", false
	}
	return field, strings.TrimSpace(line[idx+1:]), true
}
