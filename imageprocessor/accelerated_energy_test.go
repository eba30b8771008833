//go:build gocv

package imageprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceleratedEnergyFindsBands(t *testing.T) {
	img := stripes(AxisRows, 400, band{200, white}, band{200, navy}, band{200, lightGry})

	a, err := NewAcceleratedAnalyzer()
	require.NoError(t, err)

	sig, err := a.Energy(img, AxisRows)
	require.NoError(t, err)
	assert.True(t, sig.Accelerated)
	require.Len(t, sig.Energy, 600)
	assert.Equal(t, []int{200, 400}, sig.Weak)

	cuts := FindCuts(sig, 180, false)
	require.Len(t, cuts, 2)
	assert.InDelta(t, 200, cuts[0], 15)
	assert.InDelta(t, 400, cuts[1], 15)
}

func TestAcceleratedEnergyColumns(t *testing.T) {
	img := stripes(AxisColumns, 300, band{300, red}, band{300, white})

	a, err := NewAcceleratedAnalyzer()
	require.NoError(t, err)

	sig, err := a.Energy(img, AxisColumns)
	require.NoError(t, err)
	require.Len(t, sig.Energy, 600)

	cuts := FindCuts(sig, 160, false)
	require.Len(t, cuts, 1)
	assert.InDelta(t, 300, cuts[0], 15)
}

func TestAcceleratedQuantizer(t *testing.T) {
	img := stripes(AxisRows, 120, band{40, white}, band{40, black}, band{40, red})

	q, err := NewAcceleratedQuantizer()
	require.NoError(t, err)

	colors, err := q.Quantize(img, 3)
	require.NoError(t, err)
	assert.Len(t, colors, 3)
}
