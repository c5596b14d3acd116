package textextract_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/quotient/constants"
	"github.com/joseph-ayodele/quotient/internal/common"
	"github.com/joseph-ayodele/quotient/internal/entity"
	"github.com/joseph-ayodele/quotient/internal/ocr"
	"github.com/joseph-ayodele/quotient/internal/textextract"
)

// fakePDF renders page n as an image n+1 pixels wide so OCR fakes can tell pages apart.
type fakePDF struct {
	texts  []string
	closed bool
}

func (f *fakePDF) NumPage() int                    { return len(f.texts) }
func (f *fakePDF) PageText(n int) (string, error) { return f.texts[n], nil }
func (f *fakePDF) PageImage(n int, _ float64) (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, n+1, 1)), nil
}
func (f *fakePDF) Close() error { f.closed = true; return nil }

func opener(doc *fakePDF) textextract.PDFOpener {
	return func([]byte) (textextract.PDFDocument, error) { return doc, nil }
}

type pageEngine struct {
	mu    sync.Mutex
	calls int
}

func (p *pageEngine) ImageToText(_ context.Context, img image.Image) (string, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return fmt.Sprintf("Widget %d pcs $10.00", img.Bounds().Dx()), nil
}

// -----------------------------------------------------------------------------
// PDF
// -----------------------------------------------------------------------------

func TestExtract_PDFNativeText(t *testing.T) {
	doc := &fakePDF{texts: []string{"Item: Laptop\r\nQuantity: 5", "", "Unit Price: $1,299.99"}}
	eng := &pageEngine{}
	x := textextract.New(textextract.Config{}, eng, nil, textextract.WithPDFOpener(opener(doc)))

	res, err := x.Extract(context.Background(), entity.NewDocument("quote.pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, constants.MethodNativeText, res.Method)
	assert.Equal(t, "Item: Laptop\nQuantity: 5\n\nUnit Price: $1,299.99", res.Text)
	assert.Equal(t, 3, res.Pages)
	assert.Zero(t, eng.calls)
	assert.True(t, doc.closed)
}

func TestExtract_PDFBlankTextLayerUsesOCR(t *testing.T) {
	doc := &fakePDF{texts: []string{"  ", "", "\n"}}
	eng := &pageEngine{}
	x := textextract.New(textextract.Config{OCRConcurrency: 3}, eng, nil, textextract.WithPDFOpener(opener(doc)))

	res, err := x.Extract(context.Background(), entity.NewDocument("scan.pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, constants.MethodOCR, res.Method)
	assert.Equal(t, 3, eng.calls)
	assert.Equal(t, "Widget 1 pcs $10.00\n\nWidget 2 pcs $10.00\n\nWidget 3 pcs $10.00", res.Text)
	assert.Greater(t, res.Confidence, float32(0))
}

func TestExtract_PDFMaxPages(t *testing.T) {
	doc := &fakePDF{texts: []string{"", "", "", ""}}
	eng := &pageEngine{}
	x := textextract.New(textextract.Config{MaxPages: 2}, eng, nil, textextract.WithPDFOpener(opener(doc)))

	res, err := x.Extract(context.Background(), entity.NewDocument("scan.pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, 2, eng.calls)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtract_PDFErrors(t *testing.T) {
	tests := []struct {
		name   string
		engine ocr.Engine
		open   textextract.PDFOpener
	}{
		{
			name: "unreadable pdf",
			open: func([]byte) (textextract.PDFDocument, error) { return nil, errors.New("bad xref") },
		},
		{
			name: "no text layer and no engine",
			open: opener(&fakePDF{texts: []string{""}}),
		},
		{
			name: "ocr yields nothing",
			engine: ocr.EngineFunc(func(context.Context, image.Image) (string, error) {
				return "   ", nil
			}),
			open: opener(&fakePDF{texts: []string{""}}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := textextract.New(textextract.Config{}, tt.engine, nil, textextract.WithPDFOpener(tt.open))
			_, err := x.Extract(context.Background(), entity.NewDocument("a.pdf", []byte("%PDF")))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrExtraction)
		})
	}
}

// -----------------------------------------------------------------------------
// Tabular
// -----------------------------------------------------------------------------

func TestFlattenRows(t *testing.T) {
	rows := [][]string{
		{"Name", "Qty", "Price"},
		{"", "", ""},
		{"Widget", "5"},
	}
	want := "Name | Qty | Price\n" +
		"------------------\n" +
		"Widget | 5 | "
	assert.Equal(t, want, textextract.FlattenRows(rows))
	assert.Empty(t, textextract.FlattenRows(nil))
}

func TestExtract_CSV(t *testing.T) {
	csvData := "Name,Qty,Price\nWidget,5,10.00\n\"Bolt, hex\",100,0.25\n"
	x := textextract.New(textextract.Config{}, nil, nil)

	res, err := x.Extract(context.Background(), entity.NewDocument("parts.csv", []byte(csvData)))
	require.NoError(t, err)
	assert.Equal(t, constants.MethodTabularFlatten, res.Method)
	assert.NotContains(t, res.Text, "Sheet:")
	assert.Contains(t, res.Text, "Widget | 5 | 10.00")
	assert.Contains(t, res.Text, "Bolt, hex | 100 | 0.25")
}

func TestExtract_Spreadsheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Qty"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Widget", 5}))
	_, err := f.NewSheet("Empty")
	require.NoError(t, err)
	_, err = f.NewSheet("Parts")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Parts", "A1", &[]any{"Part", "Vendor"}))
	require.NoError(t, f.SetSheetRow("Parts", "A2", &[]any{"ABC-123", "Acme Corp"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	x := textextract.New(textextract.Config{}, nil, nil)
	res, err := x.Extract(context.Background(), entity.NewDocument("inv.xlsx", buf.Bytes()))
	require.NoError(t, err)

	sep := strings.Repeat("=", 50)
	want := "Sheet: Sheet1\n" + sep + "\nName | Qty\n----------\nWidget | 5\n\n" +
		"Sheet: Parts\n" + sep + "\nPart | Vendor\n-------------\nABC-123 | Acme Corp"
	assert.Equal(t, want, res.Text)
	assert.Equal(t, 3, res.Pages)
}

// -----------------------------------------------------------------------------
// Text and email
// -----------------------------------------------------------------------------

func TestExtract_TextIsLossy(t *testing.T) {
	x := textextract.New(textextract.Config{}, nil, nil)
	res, err := x.Extract(context.Background(), entity.NewDocument("n.txt", []byte("Widget\xff 5 pcs\r\n")))
	require.NoError(t, err)
	assert.Equal(t, "Widget 5 pcs\n", res.Text)
	assert.Equal(t, constants.MethodPlainText, res.Method)
}

func TestExtract_Email(t *testing.T) {
	multipartMsg := "From: sales@acme.example\r\n" +
		"Subject: Quote\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=XX\r\n" +
		"\r\n" +
		"--XX\r\n" +
		"Content-Type: text/plain; charset=iso-8859-1\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"Caf=E9 table: 2 pcs @ $150.00\r\n" +
		"--XX\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>ignored</p>\r\n" +
		"--XX--\r\n"

	htmlOnly := "From: sales@acme.example\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<p><b>Widget</b> 5 pcs</p><script>alert(1)</script>"

	tests := []struct {
		name     string
		raw      string
		method   constants.Method
		contains string
		excludes string
	}{
		{name: "first plain part", raw: multipartMsg, method: constants.MethodEmailBody, contains: "Café table: 2 pcs @ $150.00", excludes: "ignored"},
		{name: "html only body", raw: htmlOnly, method: constants.MethodEmailHTML, contains: "**Widget** 5 pcs", excludes: "alert"},
		{name: "not a message", raw: "Widget 5 pcs $10.00", method: constants.MethodEmailBody, contains: "Widget 5 pcs $10.00"},
	}
	x := textextract.New(textextract.Config{}, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := x.Extract(context.Background(), entity.NewDocument("m.eml", []byte(tt.raw)))
			require.NoError(t, err)
			assert.Equal(t, tt.method, res.Method)
			assert.Contains(t, res.Text, tt.contains)
			if tt.excludes != "" {
				assert.NotContains(t, res.Text, tt.excludes)
			}
		})
	}
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	x := textextract.New(textextract.Config{}, nil, nil)
	_, err := x.Extract(context.Background(), entity.NewDocument("a.docx", []byte("x")))
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.ErrorIs(t, err, common.ErrUnsupported)
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	big := entity.NewDocument("big.txt", bytes.Repeat([]byte("a"), 2<<20))

	tests := []struct {
		name    string
		doc     entity.RawDocument
		maxMB   int
		wantErr bool
	}{
		{name: "ok text", doc: entity.NewDocument("a.txt", []byte("hello")), wantErr: false},
		{name: "empty", doc: entity.NewDocument("a.txt", nil), wantErr: true},
		{name: "unsupported", doc: entity.NewDocument("a.docx", []byte("x")), wantErr: true},
		{name: "oversize", doc: big, maxMB: 1, wantErr: true},
		{name: "under default limit", doc: big, maxMB: 0, wantErr: false},
		{name: "garbage pdf", doc: entity.NewDocument("a.pdf", []byte("not a pdf")), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := textextract.Validate(tt.doc, tt.maxMB)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrDocument)
				return
			}
			assert.NoError(t, err)
		})
	}
}
