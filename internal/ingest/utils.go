package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/quotient/constants"
)

// AllowedExt checks if a file extension is one the pipeline can read.
func AllowedExt(ext string) bool {
	return constants.IsSupportedExt(ext)
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return base != "." && base != ".." && strings.HasPrefix(base, ".")
}
