package constants

import "strings"

// Format is the declared or detected type of a raw document.
type Format string

const (
	PDF         Format = "pdf"
	IMAGE       Format = "image"
	SPREADSHEET Format = "spreadsheet"
	CSV         Format = "csv"
	TEXT        Format = "text"
	EMAIL       Format = "email"
)

// Method records which extraction path produced a document's text.
type Method string

const (
	MethodNativeText     Method = "native-text"
	MethodOCR            Method = "ocr"
	MethodTabularFlatten Method = "tabular-flatten"
	MethodPlainText      Method = "plain-text"
	MethodEmailBody      Method = "email-body"
	MethodEmailHTML      Method = "email-html"
)

// extToFormat maps lowercased extensions (sans '.') to formats.
var extToFormat = map[string]Format{
	"pdf":  PDF,
	"png":  IMAGE,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"tif":  IMAGE,
	"tiff": IMAGE,
	"bmp":  IMAGE,
	"gif":  IMAGE,
	"xlsx": SPREADSHEET,
	"xlsm": SPREADSHEET,
	"csv":  CSV,
	"txt":  TEXT,
	"text": TEXT,
	"md":   TEXT,
	"eml":  EMAIL,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// FormatFromExt returns the format for an extension, or "" when unsupported.
func FormatFromExt(ext string) Format {
	return extToFormat[NormalizeExt(ext)]
}

// IsSupportedExt reports whether files with this extension can be ingested.
func IsSupportedExt(ext string) bool {
	return FormatFromExt(ext) != ""
}

// SupportedExtensions lists every accepted extension.
func SupportedExtensions() []string {
	out := make([]string, 0, len(extToFormat))
	for ext := range extToFormat {
		out = append(out, ext)
	}
	return out
}
