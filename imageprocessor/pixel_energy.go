package imageprocessor

import (
	"image"

	"github.com/disintegration/imaging"
)

// PixelLoopAnalyzer computes energy with plain pixel differences on a grayscale copy
type PixelLoopAnalyzer struct{}

// NewPixelLoopAnalyzer creates the pure-Go analyzer
func NewPixelLoopAnalyzer() *PixelLoopAnalyzer {
	return &PixelLoopAnalyzer{}
}

// Name identifies the backend
func (p *PixelLoopAnalyzer) Name() string { return "pixel" }

// Energy sums, per line, the absolute gray difference between each pixel and
// the pixel one step back along the axis. The first line is always zero.
func (p *PixelLoopAnalyzer) Energy(img image.Image, axis Axis) (Signal, error) {
	if img == nil || img.Bounds().Empty() {
		return Signal{}, ErrEmptyImage
	}

	gray := imaging.Grayscale(img)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	stride := gray.Stride
	pix := gray.Pix

	// Grayscale output has R=G=B, so the red channel is the luminance
	at := func(x, y int) int {
		return int(pix[y*stride+x*4])
	}

	energy := make([]float64, axis.Length(gray.Bounds()))
	if axis == AxisRows {
		for y := 1; y < h; y++ {
			var sum int
			for x := 0; x < w; x++ {
				sum += absInt(at(x, y) - at(x, y-1))
			}
			energy[y] = float64(sum)
		}
	} else {
		for x := 1; x < w; x++ {
			var sum int
			for y := 0; y < h; y++ {
				sum += absInt(at(x, y) - at(x-1, y))
			}
			energy[x] = float64(sum)
		}
	}

	return Signal{Energy: energy}, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
