package imageprocessor

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelLoopEnergyRows(t *testing.T) {
	img := stripes(AxisRows, 10, band{15, black}, band{15, white})

	sig, err := NewPixelLoopAnalyzer().Energy(img, AxisRows)
	require.NoError(t, err)

	require.Len(t, sig.Energy, 30)
	assert.False(t, sig.Accelerated)
	assert.Empty(t, sig.Strong)
	assert.Empty(t, sig.Weak)

	for i, v := range sig.Energy {
		if i == 15 {
			assert.Equal(t, float64(10*255), v)
		} else {
			assert.Zero(t, v, "line %d", i)
		}
	}
}

func TestPixelLoopEnergyColumns(t *testing.T) {
	img := stripes(AxisColumns, 8, band{5, white}, band{7, black})

	sig, err := NewPixelLoopAnalyzer().Energy(img, AxisColumns)
	require.NoError(t, err)

	require.Len(t, sig.Energy, 12)
	assert.Zero(t, sig.Energy[0])
	assert.Equal(t, float64(8*255), sig.Energy[5])
	assert.Zero(t, sig.Energy[6])
}

func TestPixelLoopEnergyEmptyImage(t *testing.T) {
	_, err := NewPixelLoopAnalyzer().Energy(image.NewNRGBA(image.Rect(0, 0, 0, 0)), AxisRows)
	assert.Error(t, err)
}

type failingAnalyzer struct{}

func (failingAnalyzer) Name() string { return "failing" }

func (failingAnalyzer) Energy(image.Image, Axis) (Signal, error) {
	return Signal{}, errors.New("boom")
}

func TestFallbackAnalyzer(t *testing.T) {
	img := stripes(AxisRows, 10, band{15, black}, band{15, white})

	t.Run("secondary used when primary fails", func(t *testing.T) {
		fa := &FallbackAnalyzer{Primary: failingAnalyzer{}, Secondary: NewPixelLoopAnalyzer()}
		sig, err := fa.Energy(img, AxisRows)
		require.NoError(t, err)
		assert.Len(t, sig.Energy, 30)
		assert.Equal(t, "failing+pixel", fa.Name())
	})

	t.Run("both failing reports an error", func(t *testing.T) {
		fa := &FallbackAnalyzer{Primary: failingAnalyzer{}, Secondary: failingAnalyzer{}}
		_, err := fa.Energy(img, AxisRows)
		assert.Error(t, err)
	})
}

func TestSelectAnalyzer(t *testing.T) {
	a, err := SelectAnalyzer(BackendPixel)
	require.NoError(t, err)
	assert.Equal(t, "pixel", a.Name())

	a, err = SelectAnalyzer("")
	require.NoError(t, err)
	assert.NotNil(t, a)

	_, err = SelectAnalyzer("cuda")
	assert.Error(t, err)
}

func TestMovingAverage(t *testing.T) {
	got := movingAverage([]float64{0, 0, 9, 0, 0}, 3)
	assert.InDeltaSlice(t, []float64{0, 3, 3, 3, 0}, got, 1e-9)

	// Edges average over the shrunken window
	got = movingAverage([]float64{6, 0, 0}, 3)
	assert.InDeltaSlice(t, []float64{3, 2, 0}, got, 1e-9)

	assert.Equal(t, []float64{1, 2}, movingAverage([]float64{1, 2}, 1))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, normalize([]float64{0, 2, 4}))
	assert.Equal(t, []float64{0, 0}, normalize([]float64{0, 0}))
}
