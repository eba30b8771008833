// Package palette derives the compact semantic color palette of a design
// from one representative image.
package palette

import (
	"image"
	"image/color"
	"runtime/debug"
	"sort"
	"sync"

	"layoutdna/imageprocessor"
	"layoutdna/logging"
	"layoutdna/types"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette slugs
const (
	SlugBackground = "background"
	SlugText       = "text"
	SlugPrimary    = "primary"
	SlugSecondary  = "secondary"
)

// Defaults used when nothing can be extracted
const (
	DefaultBackground = "#ffffff"
	DefaultText       = "#111827"
	DefaultPrimary    = "#3b82f6"
	DefaultSecondary  = "#6b7280"
	DefaultFontFamily = "Inter, system-ui, sans-serif"
)

const (
	// Channel spread below which a color counts as gray
	grayTolerance = 19

	// Side of the thumbnail whose pixels are sampled when no quantizer is available
	sampleSide = 96
)

// DefaultDNA returns the fixed palette used for empty input and total failure
func DefaultDNA() types.DesignDNA {
	return types.DesignDNA{
		Palette: []types.PaletteEntry{
			{Slug: SlugBackground, Color: DefaultBackground},
			{Slug: SlugText, Color: DefaultText},
			{Slug: SlugPrimary, Color: DefaultPrimary},
			{Slug: SlugSecondary, Color: DefaultSecondary},
		},
		Typography: types.Typography{FontFamily: DefaultFontFamily},
	}
}

// IsGrayscale reports whether the spread between the largest and smallest
// 8-bit channel of c is at most tolerance
func IsGrayscale(c color.Color, tolerance int) bool {
	return spread(c) <= tolerance
}

func spread(c color.Color) int {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	hi := max(n.R, n.G, n.B)
	lo := min(n.R, n.G, n.B)
	return int(hi) - int(lo)
}

// Extractor builds DesignDNA from images
type Extractor struct {
	Loader *imageprocessor.ImageLoaderRegistry
	// Quantizer is optional; without it every pixel of a thumbnail is a sample
	Quantizer imageprocessor.ColorQuantizer
}

// NewExtractor creates an extractor that uses the accelerated quantizer when
// it was compiled in
func NewExtractor() *Extractor {
	e := &Extractor{Loader: imageprocessor.NewImageLoaderRegistry()}
	if q, err := imageprocessor.NewAcceleratedQuantizer(); err == nil {
		e.Quantizer = q
	}
	return e
}

var (
	defaultExtractor     *Extractor
	defaultExtractorOnce sync.Once
)

// Extract runs the default extractor
func Extract(paths []string) types.DesignDNA {
	defaultExtractorOnce.Do(func() {
		defaultExtractor = NewExtractor()
	})
	return defaultExtractor.Extract(paths)
}

// Extract derives the palette from paths[0]. It never fails: every error
// degrades to a cheaper method and finally to DefaultDNA.
func (e *Extractor) Extract(paths []string) (dna types.DesignDNA) {
	if len(paths) == 0 {
		return DefaultDNA()
	}

	defer func() {
		if r := recover(); r != nil {
			logging.LogError("Panic while extracting palette from %s: %v\n%s", paths[0], r, string(debug.Stack()))
			dna = DefaultDNA()
		}
	}()

	img, err := e.Loader.LoadImage(paths[0])
	if err != nil {
		logging.LogWarning("Using default palette: %v", err)
		return DefaultDNA()
	}

	samples := e.samples(img)
	if len(samples) == 0 {
		return DefaultDNA()
	}
	return fromSamples(samples)
}

func (e *Extractor) samples(img image.Image) []color.NRGBA {
	if e.Quantizer != nil {
		colors, err := e.Quantizer.Quantize(img, imageprocessor.DefaultQuantizeColors)
		if err == nil && len(colors) > 0 {
			return colors
		}
		logging.LogWarning("Color quantization failed, sampling thumbnail: %v", err)
	}

	thumb := imaging.Resize(img, sampleSide, sampleSide, imaging.Box)
	out := make([]color.NRGBA, 0, len(thumb.Pix)/4)
	for i := 0; i+3 < len(thumb.Pix); i += 4 {
		out = append(out, color.NRGBA{R: thumb.Pix[i], G: thumb.Pix[i+1], B: thumb.Pix[i+2], A: 255})
	}
	return out
}

type sample struct {
	c         colorful.Color
	luminance float64
	spread    int
}

func fromSamples(raw []color.NRGBA) types.DesignDNA {
	samples := make([]sample, 0, len(raw))
	for _, c := range raw {
		cf, _ := colorful.MakeColor(c)
		samples = append(samples, sample{
			c:         cf,
			luminance: 0.2126*cf.R + 0.7152*cf.G + 0.0722*cf.B,
			spread:    spread(c),
		})
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].luminance < samples[j].luminance
	})

	text := samples[0].c
	background := samples[len(samples)-1].c
	secondary := text
	if len(samples) > 1 {
		secondary = samples[1].c
	}

	primary := DefaultPrimary
	best := -1
	for _, s := range samples {
		if IsGrayscale(s.c, grayTolerance) {
			continue
		}
		if s.spread > best {
			best = s.spread
			primary = s.c.Hex()
		}
	}

	return types.DesignDNA{
		Palette: []types.PaletteEntry{
			{Slug: SlugBackground, Color: background.Hex()},
			{Slug: SlugText, Color: text.Hex()},
			{Slug: SlugPrimary, Color: primary},
			{Slug: SlugSecondary, Color: secondary.Hex()},
		},
		Typography: types.Typography{FontFamily: DefaultFontFamily},
	}
}
