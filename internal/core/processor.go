package core

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/common"
	"github.com/joseph-ayodele/quotient/internal/dedupe"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/extract"
	"github.com/joseph-ayodele/quotient/internal/normalize"
	"github.com/joseph-ayodele/quotient/internal/textextract"
)

// TextExtractor turns a document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc entity.RawDocument) (entity.ExtractedText, error)
}

// EntityExtractor proposes candidate items from plain text. It never fails.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) ([]entity.CandidateEntity, extract.Outcome)
}

type Config struct {
	MaxFileSizeMB int // default 100
	SkipDedupe    bool
	SkipMerge     bool
}

// Processor runs one document through extraction, normalization and
// deduplication.
type Processor struct {
	cfg        Config
	text       TextExtractor
	entities   EntityExtractor
	normalizer *normalize.Normalizer
	stats      *Stats
	logger     *slog.Logger
}

type Option func(*Processor)

// WithStats records every result into s. Several processors may share one Stats.
func WithStats(s *Stats) Option {
	return func(p *Processor) { p.stats = s }
}

func NewProcessor(cfg Config, text TextExtractor, entities EntityExtractor, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxFileSizeMB <= 0 {
		cfg.MaxFileSizeMB = textextract.DefaultMaxFileSizeMB
	}
	p := &Processor{
		cfg:        cfg,
		text:       text,
		entities:   entities,
		normalizer: normalize.New(logger),
		stats:      &Stats{},
		logger:     logger,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Stats returns the counters this processor records into.
func (p *Processor) Stats() *Stats { return p.stats }

// ProcessPath loads a file and processes it. A file that cannot be read is a
// document error.
func (p *Processor) ProcessPath(ctx context.Context, path string) (*entity.ProcessingResult, error) {
	doc, err := entity.LoadDocument(path)
	if err != nil {
		res := newResult(entity.RawDocument{Path: path, Format: constants.FormatFromExt(filepath.Ext(path))})
		return p.fail(res, time.Now(), common.DocumentError("cannot read document", err))
	}
	return p.Process(ctx, doc)
}

// Process returns a result even on failure. The error is non-nil only for
// document and extraction errors; backend and item problems become warnings.
func (p *Processor) Process(ctx context.Context, doc entity.RawDocument) (*entity.ProcessingResult, error) {
	start := time.Now()
	res := newResult(doc)
	ctx = common.WithDocumentID(ctx, doc.ID)
	log := p.logger.With("source", res.SourcePath, "result_id", res.ID)

	if err := textextract.Validate(doc, p.cfg.MaxFileSizeMB); err != nil {
		log.Warn("processor.validate.failed", "error", err)
		return p.fail(res, start, err)
	}

	txt, err := p.text.Extract(ctx, doc)
	if err != nil {
		log.Error("processor.extract.failed", "error", err)
		return p.fail(res, start, err)
	}
	res.Method = txt.Method
	res.RawText = txt.Text
	res.Warnings = append(res.Warnings, txt.Warnings...)
	log.Info("processor.extract.ok",
		"method", txt.Method,
		"pages", txt.Pages,
		"chars", len(txt.Text),
		"confidence", txt.Confidence,
		"elapsed_ms", txt.Duration.Milliseconds(),
	)

	cands, out := p.entities.Extract(ctx, txt.Text)
	res.Strategy = out.Strategy
	if out.BackendErr != nil {
		res.AddWarning("model extraction failed, used rules: %v", out.BackendErr)
		log.Warn("processor.entities.fallback", "error", out.BackendErr)
	}
	for _, d := range out.Dropped {
		res.AddWarning("model item dropped: %s", d)
	}

	items, itemErrs := p.normalizer.Normalize(cands, res.SourcePath)
	for _, e := range itemErrs {
		res.AddWarning("%v", e)
	}
	if !p.cfg.SkipDedupe {
		items = dedupe.Deduplicate(items)
	}
	if !p.cfg.SkipMerge {
		items = dedupe.MergeSimilar(items)
	}

	res.Items = items
	res.Confidence = meanConfidence(items)
	res.Elapsed = time.Since(start)
	p.stats.Record(res, len(itemErrs), out.BackendErr != nil)

	log.Info("processor.done",
		"strategy", res.Strategy,
		"candidates", len(cands),
		"items", len(items),
		"warnings", len(res.Warnings),
		"confidence", res.Confidence,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res, nil
}

func (p *Processor) fail(res *entity.ProcessingResult, start time.Time, err error) (*entity.ProcessingResult, error) {
	res.AddError(err)
	res.Elapsed = time.Since(start)
	p.stats.Record(res, 0, false)
	return res, err
}

func newResult(doc entity.RawDocument) *entity.ProcessingResult {
	return &entity.ProcessingResult{
		ID:          uuid.NewString(),
		SourcePath:  doc.Source(),
		Format:      doc.Format,
		Strategy:    constants.StrategyNone,
		Items:       []entity.InventoryItem{},
		Errors:      []string{},
		Warnings:    []string{},
		ProcessedAt: time.Now().UTC(),
	}
}

func meanConfidence(items []entity.InventoryItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range items {
		sum += it.Confidence
	}
	return sum / float64(len(items))
}
