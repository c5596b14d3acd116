package textextract

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/common"
	"github.com/joseph-ayodele/quotient/internal/entity"
)

const DefaultMaxFileSizeMB = 100

// Validate rejects documents that cannot be processed: empty, unsupported,
// oversize, or PDFs without a readable page tree.
func Validate(doc entity.RawDocument, maxSizeMB int) error {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxFileSizeMB
	}
	if len(doc.Content) == 0 {
		return common.DocumentError(fmt.Sprintf("%s is empty", doc.Source()), common.ErrInvalidInput)
	}
	if doc.Format == "" {
		return common.DocumentError(fmt.Sprintf("%s has an unsupported extension", doc.Source()), common.ErrUnsupported)
	}
	if limit := int64(maxSizeMB) << 20; doc.Size > limit {
		return common.DocumentError(fmt.Sprintf("%s is %d bytes, limit is %d MB", doc.Source(), doc.Size, maxSizeMB), common.ErrInvalidInput)
	}
	if doc.Format == constants.PDF {
		n, err := PDFPageCount(doc.Content)
		if err != nil {
			return common.DocumentError(fmt.Sprintf("%s is not a readable PDF", doc.Source()), err)
		}
		if n == 0 {
			return common.DocumentError(fmt.Sprintf("%s has no pages", doc.Source()), common.ErrInvalidInput)
		}
	}
	return nil
}

// PDFPageCount parses and validates a PDF in relaxed mode.
func PDFPageCount(content []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(content), conf)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx.PageCount, nil
}
