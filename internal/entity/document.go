package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/quotient/constants"
)

// RawDocument is a document handed to the pipeline. It is not modified after creation.
type RawDocument struct {
	ID          string           `json:"id"`
	Path        string           `json:"path,omitempty"`
	Name        string           `json:"name"`
	Content     []byte           `json:"-"`
	Format      constants.Format `json:"format"`
	Size        int64            `json:"size"`
	ContentHash string           `json:"content_hash"`
}

// NewDocument wraps in-memory content. The format is detected from name's extension.
func NewDocument(name string, content []byte) RawDocument {
	sum := sha256.Sum256(content)
	return RawDocument{
		ID:          uuid.New().String(),
		Name:        filepath.Base(name),
		Content:     content,
		Format:      constants.FormatFromExt(filepath.Ext(name)),
		Size:        int64(len(content)),
		ContentHash: hex.EncodeToString(sum[:]),
	}
}

// LoadDocument reads a file from disk into a RawDocument.
func LoadDocument(path string) (RawDocument, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return RawDocument{}, fmt.Errorf("abs path: %w", err)
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return RawDocument{}, fmt.Errorf("read %s: %w", abs, err)
	}
	doc := NewDocument(abs, b)
	doc.Path = abs
	return doc, nil
}

// Source is the identifier used in logs and item provenance.
func (d RawDocument) Source() string {
	if d.Path != "" {
		return d.Path
	}
	return d.Name
}

// ExtractedText is plain text plus the path that produced it.
type ExtractedText struct {
	Text       string           `json:"text"`
	Method     constants.Method `json:"method"`
	Pages      int              `json:"pages,omitempty"`
	Confidence float32          `json:"confidence,omitempty"`
	Warnings   []string         `json:"warnings,omitempty"`
	Duration   time.Duration    `json:"duration"`
}
