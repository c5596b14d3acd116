package textextract

import (
	"bytes"
	"context"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/common"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/ocr"
)

func (e *Extractor) extractImage(ctx context.Context, doc entity.RawDocument) (entity.ExtractedText, error) {
	if e.engine == nil {
		return entity.ExtractedText{}, common.ExtractionError("no OCR engine is configured", nil)
	}

	src, err := imaging.Decode(bytes.NewReader(doc.Content), imaging.AutoOrientation(true))
	if err != nil {
		return entity.ExtractedText{}, common.ExtractionError("cannot decode image", err)
	}
	img := ocr.Preprocess(src, ocr.PreprocessConfig{CloseKernel: e.cfg.CloseKernel})

	txt, err := e.engine.ImageToText(ctx, img)
	if err != nil {
		return entity.ExtractedText{}, common.ExtractionError("image ocr failed", err)
	}
	txt = ocr.Normalize(txt)
	if txt == "" {
		return entity.ExtractedText{Pages: 1, Method: constants.MethodOCR}, common.ExtractionError("ocr produced no text", nil)
	}

	// blend: weight engine confidence higher if present
	var (
		engineConf float32
		warns      []string
	)
	if ce, ok := e.engine.(ocr.ConfidenceEngine); ok {
		if c, err := ce.WordConfidence(ctx, img); err == nil {
			engineConf = c
		} else {
			warns = append(warns, err.Error())
		}
	}

	return entity.ExtractedText{
		Text:       txt,
		Method:     constants.MethodOCR,
		Pages:      1,
		Confidence: ocr.BlendConfidence(engineConf, ocr.HeuristicConfidence(txt)),
		Warnings:   warns,
	}, nil
}
