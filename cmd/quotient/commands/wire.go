package commands

import (
	"log/slog"

	"github.com/joseph-ayodele/quotient/internal/common"
	"github.com/joseph-ayodele/quotient/internal/core"
	"github.com/joseph-ayodele/quotient/internal/extract"
	"github.com/joseph-ayodele/quotient/internal/llm"
	"github.com/joseph-ayodele/quotient/internal/llm/openai"
	"github.com/joseph-ayodele/quotient/internal/ocr"
	"github.com/joseph-ayodele/quotient/internal/textextract"
)

func newEngine(cfg *common.Config, logger *slog.Logger) ocr.Engine {
	if cfg.OCR.Engine == "azure" {
		return ocr.NewAzure(cfg.OCR.AzureEndpoint, cfg.OCR.AzureKey, logger)
	}
	return ocr.NewTesseract(ocr.TesseractConfig{
		Bin:         cfg.OCR.TesseractBin,
		Lang:        cfg.OCR.TesseractLang,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
		OEM:         cfg.OCR.OEM,
		TmpDir:      cfg.OCR.ArtifactTmpDir,
	}, logger)
}

func newTextExtractor(cfg *common.Config, logger *slog.Logger) *textextract.Extractor {
	return textextract.New(textextract.Config{
		PDFScale:       cfg.OCR.PDFScale,
		OCRConcurrency: cfg.OCR.Concurrency,
		MaxPages:       cfg.OCR.MaxPages,
		CloseKernel:    cfg.OCR.CloseKernel,
	}, newEngine(cfg, logger), logger)
}

// newGenerator returns nil when no backend is configured, which leaves the
// rule-based strategy as the only one.
func newGenerator(cfg *common.Config, logger *slog.Logger) llm.Generator {
	if !cfg.ModelEnabled() {
		if cfg.LLM.Backend != "none" {
			logger.Warn("llm.disabled", "reason", "OPENAI_API_KEY not set", "backend", cfg.LLM.Backend)
		}
		return nil
	}
	logger.Info("llm.enabled", "backend", cfg.LLM.Backend, "model", cfg.LLM.Model, "base_url", cfg.LLM.BaseURL)
	return openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
}

func newProcessor(cfg *common.Config, logger *slog.Logger, stats *core.Stats) *core.Processor {
	engine := extract.New(extract.Config{
		ModelTimeout:   cfg.Pipeline.ModelTimeout,
		MaxPromptChars: cfg.Pipeline.MaxPromptChars,
	}, newGenerator(cfg, logger), logger)

	return core.NewProcessor(core.Config{
		MaxFileSizeMB: cfg.Pipeline.MaxFileSizeMB,
		SkipDedupe:    !cfg.Pipeline.Dedupe,
		SkipMerge:     !cfg.Pipeline.MergeSimilar,
	}, newTextExtractor(cfg, logger), engine, logger, core.WithStats(stats))
}
