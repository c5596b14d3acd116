package textextract

import (
	"strings"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/ocr"
)

func (e *Extractor) extractText(doc entity.RawDocument) (entity.ExtractedText, error) {
	return entity.ExtractedText{
		Text:       ocr.NormalizeNewlines(strings.ToValidUTF8(string(doc.Content), "")),
		Method:     constants.MethodPlainText,
		Pages:      1,
		Confidence: directTextConfidence,
	}, nil
}
