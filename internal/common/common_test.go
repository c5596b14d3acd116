package common_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/quotient/internal/common"
)

// -----------------------------------------------------------------------------
// Config
// -----------------------------------------------------------------------------

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"OCR_ENGINE", "LLM_BACKEND", "OPENAI_API_KEY", "LLM_BASE_URL", "MAX_FILE_SIZE_MB", "DEDUPE", "MODEL_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := common.LoadConfig(filepath.Join(t.TempDir(), "absent.env"))

	assert.Equal(t, 100, cfg.Pipeline.MaxFileSizeMB)
	assert.True(t, cfg.Pipeline.Dedupe)
	assert.True(t, cfg.Pipeline.MergeSimilar)
	assert.Equal(t, 45*time.Second, cfg.Pipeline.ModelTimeout)
	assert.Equal(t, "tesseract", cfg.OCR.Engine)
	assert.Equal(t, 2.0, cfg.OCR.PDFScale)
	assert.Equal(t, "openai", cfg.LLM.Backend)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.ModelEnabled(), "remote endpoint without a key")
}

func TestLoadConfig_EnvAndFile(t *testing.T) {
	t.Setenv("DEDUPE", "false")
	t.Setenv("MODEL_TIMEOUT", "5s")
	t.Setenv("MAX_FILE_SIZE_MB", "not-a-number")
	// Registered with t.Setenv for restoration, then removed so the env file can set them.
	for _, k := range []string{"LLM_BASE_URL", "LLM_BACKEND"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LLM_BASE_URL=http://localhost:11434/v1\nLLM_BACKEND=OpenAI\nDEDUPE=true\n"), 0o600))

	cfg := common.LoadConfig(envFile)
	assert.False(t, cfg.Pipeline.Dedupe, "environment wins over the env file")
	assert.Equal(t, 5*time.Second, cfg.Pipeline.ModelTimeout)
	assert.Equal(t, 100, cfg.Pipeline.MaxFileSizeMB, "bad values keep the default")
	assert.Equal(t, "openai", cfg.LLM.Backend)
	assert.True(t, cfg.ModelEnabled(), "local endpoint needs no key")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*common.Config)
	}{
		{"size", func(c *common.Config) { c.Pipeline.MaxFileSizeMB = 0 }},
		{"engine", func(c *common.Config) { c.OCR.Engine = "paddle" }},
		{"azure without key", func(c *common.Config) { c.OCR.Engine = "azure" }},
		{"backend", func(c *common.Config) { c.LLM.Backend = "llama" }},
		{"scale", func(c *common.Config) { c.OCR.PDFScale = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &common.Config{
				Pipeline: common.PipelineConfig{MaxFileSizeMB: 10},
				OCR:      common.OCRConfig{Engine: "tesseract", PDFScale: 2},
				LLM:      common.LLMConfig{Backend: "none"},
			}
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var appErr *common.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, common.CodeConfig, appErr.Code)
		})
	}
}

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("disk on fire")
	tests := []struct {
		err      *common.AppError
		code     string
		sentinel error
		fatal    bool
	}{
		{common.DocumentError("unreadable", cause), common.CodeDocument, common.ErrDocument, true},
		{common.ExtractionError("no text", cause), common.CodeExtraction, common.ErrExtraction, true},
		{common.BackendError("timeout", cause), common.CodeBackend, common.ErrBackend, false},
		{common.ItemError("bad price", nil), common.CodeItem, common.ErrItem, false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.fatal, common.IsFatal(tt.err))
			assert.Equal(t, tt.fatal, common.IsFatal(common.WrapError(tt.err, "outer")))
			if tt.sentinel != common.ErrItem {
				assert.ErrorIs(t, tt.err, cause)
				assert.Contains(t, tt.err.Error(), "disk on fire")
			}
		})
	}
	assert.NoError(t, common.WrapError(nil, "outer"))
}

func TestContextValues(t *testing.T) {
	ctx := common.WithDocumentID(common.WithRequestID(context.Background(), "req-1"), "doc-1")
	assert.Equal(t, "req-1", common.RequestIDFromContext(ctx))
	assert.Equal(t, "doc-1", common.DocumentIDFromContext(ctx))
	assert.Empty(t, common.DocumentIDFromContext(context.Background()))
}
