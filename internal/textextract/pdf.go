package textextract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/common"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/ocr"
)

// PDFDocument is the page-level view of a PDF. Page numbers are 0-based.
type PDFDocument interface {
	NumPage() int
	PageText(n int) (string, error)
	PageImage(n int, dpi float64) (image.Image, error)
	Close() error
}

// PDFOpener opens PDF bytes.
type PDFOpener func(content []byte) (PDFDocument, error)

type pdfDocument struct {
	mu     *fitz.Document
	native *pdf.Reader // nil when ledongthuc cannot parse the file
}

// OpenPDF reads native text with ledongthuc/pdf and falls back to MuPDF for
// text it cannot decode and for rasterization.
func OpenPDF(content []byte) (PDFDocument, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		r = nil
	}
	return &pdfDocument{mu: doc, native: r}, nil
}

func (d *pdfDocument) NumPage() int { return d.mu.NumPage() }

func (d *pdfDocument) PageText(n int) (string, error) {
	if txt := d.nativeText(n); strings.TrimSpace(txt) != "" {
		return txt, nil
	}
	return d.mu.Text(n)
}

// nativeText swallows decoder panics on malformed font tables.
func (d *pdfDocument) nativeText(n int) (txt string) {
	if d.native == nil || n >= d.native.NumPage() {
		return ""
	}
	defer func() {
		if recover() != nil {
			txt = ""
		}
	}()
	page := d.native.Page(n + 1)
	if page.V.IsNull() {
		return ""
	}
	txt, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return txt
}

func (d *pdfDocument) PageImage(n int, dpi float64) (image.Image, error) {
	return d.mu.ImageDPI(n, dpi)
}

func (d *pdfDocument) Close() error { return d.mu.Close() }

func (e *Extractor) extractPDF(ctx context.Context, doc entity.RawDocument) (entity.ExtractedText, error) {
	d, err := e.openPDF(doc.Content)
	if err != nil {
		return entity.ExtractedText{}, common.ExtractionError("cannot open pdf", err)
	}
	defer func() { _ = d.Close() }()

	pages := d.NumPage()
	var (
		b     strings.Builder
		warns []string
	)
	for i := 0; i < pages; i++ {
		txt, err := d.PageText(i)
		if err != nil {
			warns = append(warns, fmt.Sprintf("page %d text: %v", i+1, err))
			continue
		}
		txt = strings.TrimSpace(txt)
		if txt == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(txt)
	}

	if text := strings.TrimSpace(b.String()); text != "" {
		return entity.ExtractedText{
			Text:       ocr.NormalizeNewlines(text),
			Method:     constants.MethodNativeText,
			Pages:      pages,
			Confidence: directTextConfidence,
			Warnings:   warns,
		}, nil
	}

	e.logger.Info("textextract.pdf.ocr_fallback", "source", doc.Source(), "pages", pages)
	return e.ocrPDF(ctx, d, warns)
}

// ocrPDF rasterizes every page and OCRs them, keeping page order.
func (e *Extractor) ocrPDF(ctx context.Context, d PDFDocument, warns []string) (entity.ExtractedText, error) {
	if e.engine == nil {
		return entity.ExtractedText{Warnings: warns}, common.ExtractionError("pdf has no text layer and no OCR engine is configured", nil)
	}

	pages := d.NumPage()
	if e.cfg.MaxPages > 0 && pages > e.cfg.MaxPages {
		warns = append(warns, fmt.Sprintf("OCR limited to %d of %d pages", e.cfg.MaxPages, pages))
		pages = e.cfg.MaxPages
	}
	dpi := 72 * e.cfg.PDFScale

	texts := make([]string, pages)
	pageErrs := make([]error, pages)

	// MuPDF documents are not safe for concurrent rendering; only the OCR runs in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.OCRConcurrency)
	for i := 0; i < pages; i++ {
		img, err := d.PageImage(i, dpi)
		if err != nil {
			pageErrs[i] = fmt.Errorf("render page %d: %w", i+1, err)
			continue
		}
		g.Go(func() error {
			start := time.Now()
			txt, err := e.engine.ImageToText(gctx, img)
			if err != nil {
				pageErrs[i] = fmt.Errorf("ocr page %d: %w", i+1, err)
				return nil
			}
			texts[i] = strings.TrimSpace(txt)
			e.logger.Debug("textextract.pdf.page_ocr", "page", i+1, "chars", len(texts[i]), "elapsed_ms", time.Since(start).Milliseconds())
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return entity.ExtractedText{Warnings: warns}, common.ExtractionError("pdf ocr cancelled", err)
	}

	var b strings.Builder
	for i, txt := range texts {
		if pageErrs[i] != nil {
			warns = append(warns, pageErrs[i].Error())
		}
		if txt == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(txt)
	}

	text := ocr.Normalize(b.String())
	if text == "" {
		return entity.ExtractedText{Pages: pages, Method: constants.MethodOCR, Warnings: warns},
			common.ExtractionError("ocr produced no text", nil)
	}
	return entity.ExtractedText{
		Text:       text,
		Method:     constants.MethodOCR,
		Pages:      pages,
		Confidence: ocr.HeuristicConfidence(text),
		Warnings:   warns,
	}, nil
}
