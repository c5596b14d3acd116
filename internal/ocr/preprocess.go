package ocr

import (
	"image"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"
)

// PreprocessConfig tunes the denoise and binarize steps applied before OCR.
type PreprocessConfig struct {
	MedianSize  int // odd window; default 3
	CloseKernel int // square structuring element; 1 or less disables the close
}

// Preprocess converts an image to a clean black-on-white bitmap:
// grayscale, median denoise, Otsu threshold, morphological close.
func Preprocess(src image.Image, cfg PreprocessConfig) *image.NRGBA {
	if cfg.MedianSize <= 0 {
		cfg.MedianSize = 3
	}
	if cfg.MedianSize%2 == 0 {
		cfg.MedianSize++
	}

	img := imaging.Grayscale(src)
	img = medianFilter(img, cfg.MedianSize/2)

	t := OtsuThreshold(histogram(img))
	img = imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		if c.R > t {
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.NRGBA{A: 255}
	})

	return closeFilter(img, cfg.CloseKernel)
}

// OtsuThreshold returns the level maximizing between-class variance of an
// 8-bit histogram. Pixels strictly above the level belong to the bright class.
func OtsuThreshold(hist [256]int) uint8 {
	var total, sumAll float64
	for i, n := range hist {
		total += float64(n)
		sumAll += float64(i) * float64(n)
	}
	if total == 0 {
		return 0
	}

	var (
		wB, sumB float64
		best     float64 = -1
		level    int
	)
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			level = t
		}
	}
	return uint8(level)
}

func histogram(img *image.NRGBA) [256]int {
	var h [256]int
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			h[row[x]]++
		}
	}
	return h
}

// medianFilter works on the R channel of a grayscale image, replicating borders.
func medianFilter(img *image.NRGBA, radius int) *image.NRGBA {
	if radius <= 0 {
		return img
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	window := make([]uint8, 0, (2*radius+1)*(2*radius+1))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			window = window[:0]
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					window = append(window, grayAt(img, clamp(x+dx, w), clamp(y+dy, h)))
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			setGray(out, x, y, window[len(window)/2])
		}
	}
	return out
}

// closeFilter is dilation followed by erosion with a k×k square.
func closeFilter(img *image.NRGBA, k int) *image.NRGBA {
	if k <= 1 {
		return img
	}
	return morph(morph(img, k, true), k, false)
}

func morph(img *image.NRGBA, k int, dilate bool) *image.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	lo, hi := -(k / 2), (k-1)/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := grayAt(img, x, y)
			for dy := lo; dy <= hi; dy++ {
				for dx := lo; dx <= hi; dx++ {
					n := grayAt(img, clamp(x+dx, w), clamp(y+dy, h))
					if dilate && n > v || !dilate && n < v {
						v = n
					}
				}
			}
			setGray(out, x, y, v)
		}
	}
	return out
}

func grayAt(img *image.NRGBA, x, y int) uint8 {
	return img.Pix[y*img.Stride+x*4]
}

func setGray(img *image.NRGBA, x, y int, v uint8) {
	i := y*img.Stride + x*4
	img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
