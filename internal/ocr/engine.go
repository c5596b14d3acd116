package ocr

import (
	"context"
	"image"
)

// Engine turns a bitmap into text.
type Engine interface {
	ImageToText(ctx context.Context, img image.Image) (string, error)
}

// ConfidenceEngine is implemented by engines that can report a mean word confidence in 0..1.
type ConfidenceEngine interface {
	Engine
	WordConfidence(ctx context.Context, img image.Image) (float32, error)
}

// EngineFunc adapts a plain function to Engine.
type EngineFunc func(ctx context.Context, img image.Image) (string, error)

func (f EngineFunc) ImageToText(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}
