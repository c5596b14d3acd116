package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	stdout []byte
	stderr []byte
	err    error

	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.stdout, f.stderr, f.err
}

func solid(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// -----------------------------------------------------------------------------
// Tesseract
// -----------------------------------------------------------------------------

func TestTesseract_ImageToText(t *testing.T) {
	r := &fakeRunner{stdout: []byte("Widget 5 pcs\n-----\n$10.00\n")}
	eng := NewTesseract(TesseractConfig{Lang: "deu", PSM: 6, TmpDir: t.TempDir()}, nil).WithRunner(r)

	txt, err := eng.ImageToText(context.Background(), solid(4, 4, 255))
	require.NoError(t, err)
	assert.NotContains(t, txt, "-----")
	assert.Contains(t, txt, "Widget 5 pcs")

	require.Len(t, r.calls, 1)
	call := r.calls[0]
	assert.Equal(t, "tesseract", call[0])
	assert.True(t, strings.HasSuffix(call[1], "page.png"))
	assert.Equal(t, []string{"stdout", "-l", "deu", "--psm", "6"}, call[2:])
}

func TestTesseract_ImageToTextError(t *testing.T) {
	r := &fakeRunner{stderr: []byte("Error opening data file"), err: errors.New("exit status 1")}
	eng := NewTesseract(TesseractConfig{TmpDir: t.TempDir()}, nil).WithRunner(r)

	_, err := eng.ImageToText(context.Background(), solid(2, 2, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error opening data file")
}

func TestTesseract_WordConfidence(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t90\tWidget\n" +
		"5\t1\t1\t1\t1\t2\t0\t0\t10\t10\t70\t5\n" +
		"4\t1\t1\t1\t1\t0\t0\t0\t10\t10\t-1\n"
	r := &fakeRunner{stdout: []byte(tsv)}
	eng := NewTesseract(TesseractConfig{TmpDir: t.TempDir()}, nil).WithRunner(r)

	conf, err := eng.WordConfidence(context.Background(), solid(2, 2, 0))
	require.NoError(t, err)
	assert.InDelta(t, 0.8, conf, 1e-6)
	assert.Equal(t, "tsv", r.calls[0][len(r.calls[0])-1])
}

// -----------------------------------------------------------------------------
// Azure result walking
// -----------------------------------------------------------------------------

func TestResultText(t *testing.T) {
	s := func(v string) *string { return &v }
	words := []computervision.OcrWord{{Text: s("Widget")}, {Text: s("5")}, {Text: s("pcs")}}
	lines := []computervision.OcrLine{{Words: &words}, {Words: nil}}
	regions := []computervision.OcrRegion{{Lines: &lines}, {Lines: nil}}

	assert.Equal(t, "Widget 5 pcs", resultText(computervision.OcrResult{Regions: &regions}))
	assert.Empty(t, resultText(computervision.OcrResult{}))
}

// -----------------------------------------------------------------------------
// Preprocessing
// -----------------------------------------------------------------------------

func TestOtsuThreshold(t *testing.T) {
	tests := []struct {
		name string
		hist func() [256]int
		min  uint8
		max  uint8
	}{
		{
			name: "bimodal splits between modes",
			hist: func() [256]int {
				var h [256]int
				h[30] = 100
				h[220] = 100
				return h
			},
			min: 30,
			max: 219,
		},
		{
			name: "empty histogram",
			hist: func() [256]int { return [256]int{} },
			min:  0,
			max:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OtsuThreshold(tt.hist())
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}

func TestPreprocess_Binarizes(t *testing.T) {
	img := solid(10, 10, 230)
	for y := 3; y < 7; y++ {
		for x := 3; x < 7; x++ {
			img.Set(x, y, color.NRGBA{R: 20, G: 20, B: 20, A: 255})
		}
	}
	// isolated speck removed by the median
	img.Set(0, 9, color.NRGBA{R: 0, G: 0, B: 0, A: 255})

	out := Preprocess(img, PreprocessConfig{})
	require.Equal(t, image.Rect(0, 0, 10, 10), out.Bounds())

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			v := out.NRGBAAt(x, y).R
			assert.True(t, v == 0 || v == 255, "pixel (%d,%d) not binary: %d", x, y, v)
		}
	}
	assert.Equal(t, uint8(0), out.NRGBAAt(5, 5).R)
	assert.Equal(t, uint8(255), out.NRGBAAt(0, 9).R)
	assert.Equal(t, uint8(255), out.NRGBAAt(1, 1).R)
}

func TestCloseFilter_FillsGap(t *testing.T) {
	img := solid(7, 3, 255)
	// dark pixel between two white runs stays dark with k=1, closes with k=3
	img.Set(3, 1, color.NRGBA{A: 255})

	assert.Equal(t, uint8(0), closeFilter(img, 1).NRGBAAt(3, 1).R)
	assert.Equal(t, uint8(255), closeFilter(img, 3).NRGBAAt(3, 1).R)
}

// -----------------------------------------------------------------------------
// Text helpers
// -----------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	in := "Widget\t\t5  pcs\r\n\r\n\r\n\r\n$10.00  "
	assert.Equal(t, "Widget 5 pcs\n\n$10.00", Normalize(in))
	assert.Equal(t, "a\nb\nc", NormalizeNewlines("a\r\nb\rc"))
}

func TestHeuristicConfidence(t *testing.T) {
	assert.InDelta(t, 0.2, HeuristicConfidence("hello"), 1e-6)

	rich := "Item: Laptop Computer\nPart #: LAP-001\nQuantity: 5 units\nUnit Price: $1,299.99\n" +
		strings.Repeat("filler ", 20)
	assert.InDelta(t, 1.0, HeuristicConfidence(rich), 1e-6)
}

func TestBlendConfidence(t *testing.T) {
	assert.InDelta(t, 0.4, BlendConfidence(0, 0.4), 1e-6)
	assert.InDelta(t, 0.7*0.9+0.3*0.4, BlendConfidence(0.9, 0.4), 1e-6)
}
