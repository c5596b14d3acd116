package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
	"github.com/disintegration/imaging"
)

// Azure recognizes printed text through the Computer Vision OCR endpoint.
type Azure struct {
	client computervision.BaseClient
	logger *slog.Logger
}

func NewAzure(endpoint, key string, logger *slog.Logger) *Azure {
	if logger == nil {
		logger = slog.Default()
	}
	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(key)
	return &Azure{client: client, logger: logger}
}

func (a *Azure) ImageToText(ctx context.Context, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode ocr input: %w", err)
	}

	start := time.Now()
	res, err := a.client.RecognizePrintedTextInStream(ctx, true, io.NopCloser(&buf), computervision.OcrLanguages(computervision.En))
	if err != nil {
		a.logger.Error("ocr.azure.failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("azure ocr: %w", err)
	}

	txt := resultText(res)
	a.logger.Debug("ocr.azure.ok", "chars", len(txt), "elapsed_ms", time.Since(start).Milliseconds())
	return txt, nil
}

// resultText joins words into lines, lines in region order.
func resultText(res computervision.OcrResult) string {
	if res.Regions == nil {
		return ""
	}
	var out []string
	for _, region := range *res.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			words := make([]string, 0, len(*line.Words))
			for _, w := range *line.Words {
				if w.Text != nil && *w.Text != "" {
					words = append(words, *w.Text)
				}
			}
			if len(words) > 0 {
				out = append(out, strings.Join(words, " "))
			}
		}
	}
	return strings.Join(out, "\n")
}
