package entity

import (
	"fmt"
	"time"

	"github.com/joseph-ayodele/quotient/constants"
)

// ProcessingResult is the envelope returned for one document.
type ProcessingResult struct {
	ID          string             `json:"id"`
	SourcePath  string             `json:"source_path"`
	Format      constants.Format   `json:"format"`
	Method      constants.Method   `json:"method,omitempty"`
	Strategy    constants.Strategy `json:"strategy"`
	Items       []InventoryItem    `json:"items"`
	Confidence  float64            `json:"extraction_confidence"`
	Elapsed     time.Duration      `json:"elapsed"`
	Errors      []string           `json:"errors"`
	Warnings    []string           `json:"warnings"`
	RawText     string             `json:"raw_text,omitempty"`
	ProcessedAt time.Time          `json:"processed_at"`
}

func (r *ProcessingResult) AddError(err error) {
	r.Errors = append(r.Errors, err.Error())
}

func (r *ProcessingResult) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ProcessingResult) Failed() bool { return len(r.Errors) > 0 }

// Summary is a compact view of a result for reporting.
type Summary struct {
	TotalItems      int     `json:"total_items"`
	CompleteItems   int     `json:"complete_items"`
	IncompleteItems int     `json:"incomplete_items"`
	CompletionRate  float64 `json:"completion_rate"`
	Confidence      float64 `json:"extraction_confidence"`
	ElapsedMS       int64   `json:"elapsed_ms"`
	ErrorCount      int     `json:"error_count"`
	WarningCount    int     `json:"warning_count"`
}

func (r *ProcessingResult) Summary() Summary {
	s := Summary{
		TotalItems:   len(r.Items),
		Confidence:   r.Confidence,
		ElapsedMS:    r.Elapsed.Milliseconds(),
		ErrorCount:   len(r.Errors),
		WarningCount: len(r.Warnings),
	}
	for _, it := range r.Items {
		if it.IsComplete() {
			s.CompleteItems++
		}
	}
	s.IncompleteItems = s.TotalItems - s.CompleteItems
	if s.TotalItems > 0 {
		s.CompletionRate = float64(s.CompleteItems) / float64(s.TotalItems)
	}
	return s
}
