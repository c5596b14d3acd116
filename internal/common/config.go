package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Pipeline PipelineConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Batch    BatchConfig
}

// PipelineConfig holds per-document processing options
type PipelineConfig struct {
	MaxFileSizeMB  int
	Dedupe         bool
	MergeSimilar   bool
	ModelTimeout   time.Duration
	MaxPromptChars int
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine         string // "tesseract" | "azure"
	TesseractBin   string
	TesseractLang  string
	TessdataDir    string
	PSM            int
	OEM            int
	PDFScale       float64
	Concurrency    int
	MaxPages       int
	CloseKernel    int
	AzureEndpoint  string
	AzureKey       string
	ArtifactTmpDir string
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Backend     string // "none" | "openai"
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
	MaxTokens   int
}

// BatchConfig holds worker queue configuration for directory runs
type BatchConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables.
// The given env files (or .env in the working directory) are read first when
// present; variables already set in the environment win.
func LoadConfig(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)

	return &Config{
		Pipeline: PipelineConfig{
			MaxFileSizeMB:  getEnvAsInt("MAX_FILE_SIZE_MB", 100),
			Dedupe:         getEnvAsBool("DEDUPE", true),
			MergeSimilar:   getEnvAsBool("MERGE_SIMILAR", true),
			ModelTimeout:   getEnvAsDuration("MODEL_TIMEOUT", 45*time.Second),
			MaxPromptChars: getEnvAsInt("MAX_PROMPT_CHARS", 3000),
		},
		OCR: OCRConfig{
			Engine:         getEnv("OCR_ENGINE", "tesseract"),
			TesseractBin:   getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang:  getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:    getEnv("TESSDATA_PREFIX", ""),
			PSM:            getEnvAsInt("TESSERACT_PSM", 0),
			OEM:            getEnvAsInt("TESSERACT_OEM", 0),
			PDFScale:       getEnvAsFloat64("PDF_SCALE", 2.0),
			Concurrency:    getEnvAsInt("OCR_CONCURRENCY", 1),
			MaxPages:       getEnvAsInt("OCR_MAX_PAGES", 0),
			CloseKernel:    getEnvAsInt("CLOSE_KERNEL", 1),
			AzureEndpoint:  getEnv("AZURE_VISION_ENDPOINT", ""),
			AzureKey:       getEnv("AZURE_VISION_KEY", ""),
			ArtifactTmpDir: getEnv("ARTIFACT_TMP_DIR", ""),
		},
		LLM: LLMConfig{
			Backend:     strings.ToLower(getEnv("LLM_BACKEND", "openai")),
			BaseURL:     getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("LLM_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 2000),
		},
		Batch: BatchConfig{
			Workers:        getEnvAsInt("BATCH_WORKERS", 4),
			QueueSize:      getEnvAsInt("BATCH_QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("BATCH_TIMEOUT", 3*time.Minute),
		},
	}
}

// ModelEnabled reports whether a text-generation backend should be wired.
// A remote OpenAI endpoint needs a key; a local OpenAI-compatible server does not.
func (c *Config) ModelEnabled() bool {
	if c.LLM.Backend != "openai" {
		return false
	}
	if c.LLM.APIKey != "" {
		return true
	}
	return !strings.Contains(c.LLM.BaseURL, "api.openai.com")
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Pipeline.MaxFileSizeMB <= 0 {
		return NewAppError(CodeConfig, "MAX_FILE_SIZE_MB must be positive", ErrInvalidInput)
	}
	switch c.OCR.Engine {
	case "tesseract":
	case "azure":
		if c.OCR.AzureEndpoint == "" || c.OCR.AzureKey == "" {
			return NewAppError(CodeConfig, "AZURE_VISION_ENDPOINT and AZURE_VISION_KEY are required for the azure engine", ErrInvalidInput)
		}
	default:
		return NewAppError(CodeConfig, "OCR_ENGINE must be tesseract or azure", ErrInvalidInput)
	}
	switch c.LLM.Backend {
	case "none", "openai":
	default:
		return NewAppError(CodeConfig, "LLM_BACKEND must be none or openai", ErrInvalidInput)
	}
	if c.OCR.PDFScale <= 0 {
		return NewAppError(CodeConfig, "PDF_SCALE must be positive", ErrInvalidInput)
	}
	return nil
}
