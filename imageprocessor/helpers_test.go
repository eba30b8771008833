package imageprocessor

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// band is a run of lines filled with one color
type band struct {
	size int
	c    color.NRGBA
}

var (
	white    = color.NRGBA{255, 255, 255, 255}
	black    = color.NRGBA{0, 0, 0, 255}
	navy     = color.NRGBA{30, 60, 150, 255}
	lightGry = color.NRGBA{200, 200, 200, 255}
	red      = color.NRGBA{220, 30, 30, 255}
)

// stripes builds an image whose bands run along the axis: horizontal bands for
// AxisRows, vertical columns for AxisColumns
func stripes(axis Axis, span int, bands ...band) *image.NRGBA {
	var total int
	for _, b := range bands {
		total += b.size
	}

	w, h := span, total
	if axis == AxisColumns {
		w, h = total, span
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	pos := 0
	for _, b := range bands {
		for i := pos; i < pos+b.size; i++ {
			for j := 0; j < span; j++ {
				if axis == AxisRows {
					img.SetNRGBA(j, i, b.c)
				} else {
					img.SetNRGBA(i, j, b.c)
				}
			}
		}
		pos += b.size
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func pixelSegmenter() *Segmenter {
	return NewSegmenter(NewPixelLoopAnalyzer())
}
