package imageprocessor

import (
	"image"
	"image/color"
)

// DefaultQuantizeColors is the palette size requested from a ColorQuantizer
const DefaultQuantizeColors = 12

// ColorQuantizer reduces an image to k representative colors
type ColorQuantizer interface {
	Quantize(img image.Image, k int) ([]color.NRGBA, error)
}
