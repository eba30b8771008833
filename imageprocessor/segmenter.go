package imageprocessor

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"

	"layoutdna/logging"

	"github.com/disintegration/imaging"
)

// Default minimum band height and column width, in pixels
const (
	DefaultMinHeight = 180
	DefaultMinWidth  = 160
)

const (
	// Absolute floor below which a band or column is never emitted
	minRowExtent    = 100
	minColumnExtent = 120

	rowSuffix    = "_seg_"
	columnSuffix = "_col_"
)

// CropWriter persists one cropped region of an image
type CropWriter interface {
	WriteCrop(img image.Image, rect image.Rectangle, outPath string) error
}

// PNGCropWriter crops with imaging and encodes by output extension
type PNGCropWriter struct{}

// WriteCrop writes img restricted to rect at outPath, overwriting any previous file
func (PNGCropWriter) WriteCrop(img image.Image, rect image.Rectangle, outPath string) error {
	cropped := imaging.Crop(img, rect)
	if err := imaging.Save(cropped, outPath); err != nil {
		return fmt.Errorf("cannot write crop %s: %w", outPath, err)
	}
	return nil
}

// Segmenter cuts design images into bands and columns
type Segmenter struct {
	Analyzer EnergyAnalyzer
	Loader   *ImageLoaderRegistry
	Writer   CropWriter
}

// NewSegmenter creates a segmenter around the given analyzer; nil selects DefaultAnalyzer
func NewSegmenter(analyzer EnergyAnalyzer) *Segmenter {
	if analyzer == nil {
		analyzer = DefaultAnalyzer()
	}
	return &Segmenter{
		Analyzer: analyzer,
		Loader:   NewImageLoaderRegistry(),
		Writer:   PNGCropWriter{},
	}
}

var (
	defaultSegmenter     *Segmenter
	defaultSegmenterOnce sync.Once
)

func getDefaultSegmenter() *Segmenter {
	defaultSegmenterOnce.Do(func() {
		defaultSegmenter = NewSegmenter(nil)
	})
	return defaultSegmenter
}

// SegmentRows splits the image into horizontal bands using the default segmenter
func SegmentRows(path, outDir string, minHeight int, precise bool) []string {
	return getDefaultSegmenter().SegmentRows(path, outDir, minHeight, precise)
}

// SegmentColumns splits the image into vertical columns using the default segmenter
func SegmentColumns(path, outDir string, minWidth int, precise bool) []string {
	return getDefaultSegmenter().SegmentColumns(path, outDir, minWidth, precise)
}

// SegmentRows writes every band at least max(100, minHeight/2) tall as
// {base}_seg_{i}.png in outDir and returns the written paths top to bottom
func (s *Segmenter) SegmentRows(path, outDir string, minHeight int, precise bool) []string {
	if minHeight <= 0 {
		minHeight = DefaultMinHeight
	}
	return s.segment(path, outDir, AxisRows, minHeight, maxInt(minRowExtent, minHeight/2), precise)
}

// SegmentColumns writes every column at least max(120, minWidth/2) wide as
// {base}_col_{i}.png in outDir and returns the written paths left to right
func (s *Segmenter) SegmentColumns(path, outDir string, minWidth int, precise bool) []string {
	if minWidth <= 0 {
		minWidth = DefaultMinWidth
	}
	return s.segment(path, outDir, AxisColumns, minWidth, maxInt(minColumnExtent, minWidth/2), precise)
}

func (s *Segmenter) segment(path, outDir string, axis Axis, minGap, minExtent int, precise bool) (outputs []string) {
	outputs = []string{}

	// Analyzer backends may call into C; nothing escapes this boundary
	defer func() {
		if r := recover(); r != nil {
			logging.LogError("Panic while segmenting %s: %v\n%s", path, r, string(debug.Stack()))
			outputs = []string{}
		}
	}()

	img, err := s.Loader.LoadImage(path)
	if err != nil {
		logging.LogImageSegmented(path, 0, err)
		return outputs
	}

	sig, err := s.Analyzer.Energy(img, axis)
	if err != nil {
		logging.LogImageSegmented(path, 0, err)
		return outputs
	}

	bounds := img.Bounds()
	cuts := FindCuts(sig, minGap, precise)
	spans := Spans(cuts, axis.Length(bounds), minExtent)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		logging.LogImageSegmented(path, 0, fmt.Errorf("cannot create output directory %s: %w", outDir, err))
		return outputs
	}

	suffix := rowSuffix
	if axis == AxisColumns {
		suffix = columnSuffix
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	for _, span := range spans {
		rect := image.Rect(bounds.Min.X, bounds.Min.Y+span.Start, bounds.Max.X, bounds.Min.Y+span.End)
		if axis == AxisColumns {
			rect = image.Rect(bounds.Min.X+span.Start, bounds.Min.Y, bounds.Min.X+span.End, bounds.Max.Y)
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("%s%s%d.png", base, suffix, span.Index))
		if err := s.Writer.WriteCrop(img, rect, outPath); err != nil {
			logging.LogWarning("Skipping crop %d of %s: %v", span.Index, path, err)
			continue
		}
		outputs = append(outputs, outPath)
	}

	logging.LogImageSegmented(path, len(outputs), nil)
	return outputs
}

// Span is one kept interval between consecutive boundaries
type Span struct {
	Index int
	Start int
	End   int
}

// Spans builds boundaries [0] + cuts + [length] and keeps each consecutive
// pair at least minExtent long. Index is the position of the pair among all
// pairs, so dropped spans leave gaps in the numbering.
func Spans(cuts []int, length, minExtent int) []Span {
	boundaries := make([]int, 0, len(cuts)+2)
	boundaries = append(boundaries, 0)
	for _, c := range cuts {
		if c > boundaries[len(boundaries)-1] && c < length {
			boundaries = append(boundaries, c)
		}
	}
	boundaries = append(boundaries, length)

	spans := []Span{}
	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]
		if end-start < minExtent {
			continue
		}
		spans = append(spans, Span{Index: i, Start: start, End: end})
	}
	return spans
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
