package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// TesseractConfig configures the tesseract CLI engine.
type TesseractConfig struct {
	Bin         string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	TessdataDir string

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	TmpDir string // parent for per-call temp dirs; empty uses os.TempDir
}

// Tesseract shells out to the tesseract binary.
type Tesseract struct {
	cfg    TesseractConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseract(cfg TesseractConfig, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Bin == "" {
		cfg.Bin = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &Tesseract{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner swaps the command runner.
func (t *Tesseract) WithRunner(r Runner) *Tesseract {
	t.runner = r
	return t
}

func (t *Tesseract) ImageToText(ctx context.Context, img image.Image) (string, error) {
	path, cleanup, err := t.writeTemp(img)
	if err != nil {
		return "", err
	}
	defer cleanup()

	start := time.Now()
	// tesseract <file> stdout -l <lang>
	out, errb, err := t.runner.Run(ctx, t.cfg.Bin, t.logger, t.args(path)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}

	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	t.logger.Debug("ocr.tesseract.ok", "chars", len(txt), "elapsed_ms", time.Since(start).Milliseconds())
	return txt, nil
}

// WordConfidence runs tesseract in TSV mode and returns mean word conf in 0..1.
func (t *Tesseract) WordConfidence(ctx context.Context, img image.Image) (float32, error) {
	path, cleanup, err := t.writeTemp(img)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	args := append(t.args(path), "tsv")
	out, errb, err := t.runner.Run(ctx, t.cfg.Bin, t.logger, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}
	return meanTSVConfidence(string(out)), nil
}

func (t *Tesseract) args(path string) []string {
	args := []string{path, "stdout", "-l", t.cfg.Lang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	return args
}

func (t *Tesseract) writeTemp(img image.Image) (string, func(), error) {
	dir, err := os.MkdirTemp(t.cfg.TmpDir, "quotient-ocr-*")
	if err != nil {
		return "", nil, fmt.Errorf("ocr temp dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	path := filepath.Join(dir, "page.png")
	if err := imaging.Save(img, path); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write ocr input: %w", err)
	}
	return path, cleanup, nil
}

// meanTSVConfidence averages the conf column (last) of tesseract TSV output.
func meanTSVConfidence(tsv string) float32 {
	var sum, n float64
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || len(ln) == 0 {
			continue
		} // skip header
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := strings.TrimSpace(cols[len(cols)-1])
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float32(sum / n / 100.0)
}
