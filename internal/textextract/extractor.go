package textextract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/common"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/ocr"
)

// directTextConfidence is reported for text read from a document's own text layer.
const directTextConfidence = 0.95

type Config struct {
	PDFScale       float64 // rasterization scale for scanned PDFs, default 2 (144 DPI)
	OCRConcurrency int     // pages OCR'd in parallel, default 1
	MaxPages       int     // 0 = no limit
	CloseKernel    int     // morphological close size for image preprocessing, default 1
}

// Extractor turns a RawDocument into plain text according to its format.
type Extractor struct {
	cfg     Config
	engine  ocr.Engine
	openPDF PDFOpener
	logger  *slog.Logger
}

type Option func(*Extractor)

// WithPDFOpener replaces the MuPDF-backed PDF reader.
func WithPDFOpener(open PDFOpener) Option {
	return func(e *Extractor) { e.openPDF = open }
}

// New builds an Extractor. engine may be nil, in which case scanned PDFs and
// images fail with an extraction error.
func New(cfg Config, engine ocr.Engine, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PDFScale <= 0 {
		cfg.PDFScale = 2.0
	}
	if cfg.OCRConcurrency <= 0 {
		cfg.OCRConcurrency = 1
	}
	if cfg.CloseKernel <= 0 {
		cfg.CloseKernel = 1
	}
	e := &Extractor{cfg: cfg, engine: engine, openPDF: OpenPDF, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract picks a reader based on the document format.
func (e *Extractor) Extract(ctx context.Context, doc entity.RawDocument) (entity.ExtractedText, error) {
	start := time.Now()
	log := e.logger.With("source", doc.Source(), "format", doc.Format)

	var (
		res entity.ExtractedText
		err error
	)
	switch doc.Format {
	case constants.PDF:
		res, err = e.extractPDF(ctx, doc)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, doc)
	case constants.SPREADSHEET:
		res, err = e.extractSpreadsheet(doc)
	case constants.CSV:
		res, err = e.extractCSV(doc)
	case constants.TEXT:
		res, err = e.extractText(doc)
	case constants.EMAIL:
		res, err = e.extractEmail(doc)
	default:
		err = common.ExtractionError(fmt.Sprintf("no reader for format %q", doc.Format), common.ErrUnsupported)
	}
	res.Duration = time.Since(start)

	if err != nil {
		log.Error("textextract.failed", "error", err, "elapsed_ms", res.Duration.Milliseconds())
		return res, err
	}
	log.Info("textextract.ok",
		"method", res.Method,
		"pages", res.Pages,
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"warnings", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
