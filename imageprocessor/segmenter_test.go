package imageprocessor

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestSegmentRows(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "01-hero.png",
		stripes(AxisRows, 400, band{200, white}, band{200, navy}, band{200, lightGry}))
	out := filepath.Join(dir, "out")

	crops := pixelSegmenter().SegmentRows(src, out, DefaultMinHeight, false)
	require.Equal(t, []string{
		filepath.Join(out, "01-hero_seg_0.png"),
		filepath.Join(out, "01-hero_seg_1.png"),
		filepath.Join(out, "01-hero_seg_2.png"),
	}, crops)

	var total int
	for _, c := range crops {
		w, h := decodeSize(t, c)
		assert.Equal(t, 400, w)
		assert.GreaterOrEqual(t, h, 100)
		total += h
	}
	assert.Equal(t, 600, total)
}

func TestSegmentRowsDropsThinBands(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "footer.png",
		stripes(AxisRows, 400, band{450, white}, band{50, black}))

	crops := pixelSegmenter().SegmentRows(src, dir, DefaultMinHeight, false)
	require.Len(t, crops, 1)
	assert.Equal(t, filepath.Join(dir, "footer_seg_0.png"), crops[0])

	_, h := decodeSize(t, crops[0])
	assert.Equal(t, 450, h)
}

func TestSegmentRowsUniformImage(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "blank.png", stripes(AxisRows, 300, band{400, white}))

	crops := pixelSegmenter().SegmentRows(src, dir, 0, false)
	require.Len(t, crops, 1)

	w, h := decodeSize(t, crops[0])
	assert.Equal(t, 300, w)
	assert.Equal(t, 400, h)
}

func TestSegmentRowsIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "page.png",
		stripes(AxisRows, 400, band{200, white}, band{200, navy}, band{200, lightGry}))

	s := pixelSegmenter()
	first := s.SegmentRows(src, dir, DefaultMinHeight, true)
	second := s.SegmentRows(src, dir, DefaultMinHeight, true)
	assert.Equal(t, first, second)
}

func TestSegmentColumns(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "02-split_seg_0.png",
		stripes(AxisColumns, 300, band{300, red}, band{300, white}))

	crops := pixelSegmenter().SegmentColumns(src, dir, DefaultMinWidth, false)
	require.Equal(t, []string{
		filepath.Join(dir, "02-split_seg_0_col_0.png"),
		filepath.Join(dir, "02-split_seg_0_col_1.png"),
	}, crops)

	for _, c := range crops {
		w, h := decodeSize(t, c)
		assert.Equal(t, 300, w)
		assert.Equal(t, 300, h)
		assert.True(t, IsGeneratedCrop(c))
	}
}

func TestSegmentNarrowImageHasNoColumns(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "narrow.png", stripes(AxisColumns, 200, band{100, white}))

	crops := pixelSegmenter().SegmentColumns(src, dir, DefaultMinWidth, false)
	assert.Empty(t, crops)
}

func TestSegmentUnreadableImage(t *testing.T) {
	dir := t.TempDir()

	crops := pixelSegmenter().SegmentRows(filepath.Join(dir, "missing.png"), dir, 180, false)
	assert.NotNil(t, crops)
	assert.Empty(t, crops)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0644))
	assert.Empty(t, pixelSegmenter().SegmentColumns(garbage, dir, 160, false))
}

type failingWriter struct{ calls int }

func (w *failingWriter) WriteCrop(image.Image, image.Rectangle, string) error {
	w.calls++
	return errors.New("disk full")
}

func TestSegmentSkipsFailedWrites(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "page.png",
		stripes(AxisRows, 400, band{200, white}, band{200, navy}))

	writer := &failingWriter{}
	s := pixelSegmenter()
	s.Writer = writer

	crops := s.SegmentRows(src, dir, DefaultMinHeight, false)
	assert.Empty(t, crops)
	assert.Equal(t, 2, writer.calls)
}

type panickingAnalyzer struct{}

func (panickingAnalyzer) Name() string { return "panic" }

func (panickingAnalyzer) Energy(image.Image, Axis) (Signal, error) {
	panic("native crash")
}

func TestSegmentRecoversFromPanics(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "page.png", stripes(AxisRows, 200, band{300, white}))

	s := NewSegmenter(panickingAnalyzer{})
	assert.NotPanics(t, func() {
		assert.Empty(t, s.SegmentRows(src, dir, 180, false))
	})
}

func TestIsGeneratedCrop(t *testing.T) {
	assert.True(t, IsGeneratedCrop("/tmp/01-hero_seg_3.png"))
	assert.True(t, IsGeneratedCrop("hero_seg_0_col_12.png"))
	assert.False(t, IsGeneratedCrop("01-hero.png"))
	assert.False(t, IsGeneratedCrop("my_seg_final.png"))
	assert.False(t, IsGeneratedCrop("hero_col_.png"))
}

func TestContentHash(t *testing.T) {
	dir := t.TempDir()
	img := stripes(AxisRows, 20, band{20, red})
	a := writePNG(t, dir, "a.png", img)
	b := writePNG(t, dir, "b.png", img)
	c := writePNG(t, dir, "c.png", stripes(AxisRows, 20, band{20, navy}))

	ha, err := ContentHash(a)
	require.NoError(t, err)
	hb, err := ContentHash(b)
	require.NoError(t, err)
	hc, err := ContentHash(c)
	require.NoError(t, err)

	assert.Len(t, ha, 64)
	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)

	_, err = ContentHash(filepath.Join(dir, "nope.png"))
	assert.Error(t, err)
}

func TestRegistryLoadsWebPAndStandard(t *testing.T) {
	r := NewImageLoaderRegistry()
	assert.True(t, r.Supports("x.WEBP"))
	assert.True(t, r.Supports("x.png"))
	assert.False(t, r.Supports("x.psd"))
	assert.IsType(t, WebPImageLoader{}, r.Loader("a.webp"))
	assert.IsType(t, StandardImageLoader{}, r.Loader("a.jpeg"))
	assert.IsType(t, StandardImageLoader{}, r.Loader("a.psd"))

	dir := t.TempDir()
	src := writePNG(t, dir, "ok.png", stripes(AxisRows, 5, band{7, red}))
	img, err := r.LoadImage(src)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 5, 7), img.Bounds())

	assert.Equal(t, FormatTIFF, GetFileFormat("scan.TIF"))
	assert.Equal(t, FormatUnknown, GetFileFormat("notes.txt"))
	assert.True(t, IsImageFile("a.bmp"))
}

func TestRegistryPixelLimit(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, "big.png", stripes(AxisRows, 20, band{20, red}))

	r := NewImageLoaderRegistry()
	r.MaxPixels = 399
	_, err := r.LoadImage(src)
	assert.ErrorContains(t, err, "pixel limit")

	r.MaxPixels = 400
	_, err = r.LoadImage(src)
	assert.NoError(t, err)
}

type fixedLoader struct{ img image.Image }

func (f fixedLoader) LoadImage(string) (image.Image, error) { return f.img, nil }

func TestRegistryRegister(t *testing.T) {
	r := NewImageLoaderRegistry()
	r.MaxPixels = 0
	r.Register(FormatGIF, fixedLoader{image.NewNRGBA(image.Rect(0, 0, 3, 4))})

	img, err := r.LoadImage("anything.gif")
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	r.Register(FormatGIF, fixedLoader{image.NewNRGBA(image.Rectangle{})})
	_, err = r.LoadImage("anything.gif")
	assert.ErrorIs(t, err, ErrEmptyImage)
}
