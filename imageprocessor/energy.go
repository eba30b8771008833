// Package imageprocessor decodes design images and decomposes them into
// horizontal bands and vertical columns.
//
// Segmentation is driven by a 1-D energy signal measuring visual change along
// one axis. Two EnergyAnalyzer backends exist: an OpenCV one (built with the
// "gocv" tag) and a pure-Go pixel loop that is always available.
package imageprocessor

import (
	"errors"
	"fmt"
	"image"

	"layoutdna/logging"
)

// Axis selects which lines an energy signal is computed for
type Axis int

const (
	// AxisRows yields one value per pixel row, locating horizontal seams
	AxisRows Axis = iota
	// AxisColumns yields one value per pixel column, locating vertical seams
	AxisColumns
)

func (a Axis) String() string {
	if a == AxisColumns {
		return "columns"
	}
	return "rows"
}

// Length returns the image dimension along the axis
func (a Axis) Length(b image.Rectangle) int {
	if a == AxisColumns {
		return b.Dx()
	}
	return b.Dy()
}

// Signal is the output of an EnergyAnalyzer
type Signal struct {
	// Energy has one value per line along the axis
	Energy []float64
	// Strong holds positions of long straight lines across the image
	Strong []int
	// Weak holds positions where the dominant line color changes cluster
	Weak []int
	// Accelerated marks signals produced by the OpenCV backend; FindCuts
	// thresholds them statistically
	Accelerated bool
}

// EnergyAnalyzer computes the visual change signal of an image along an axis
type EnergyAnalyzer interface {
	Name() string
	Energy(img image.Image, axis Axis) (Signal, error)
}

// ErrAcceleratedUnavailable is returned when OpenCV support was not compiled in
var ErrAcceleratedUnavailable = errors.New("accelerated backend not available; rebuild with -tags gocv")

// FallbackAnalyzer runs Primary and, for any call where it fails, Secondary
type FallbackAnalyzer struct {
	Primary   EnergyAnalyzer
	Secondary EnergyAnalyzer
}

// Name reports both backends
func (f *FallbackAnalyzer) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

// Energy computes the signal with Primary, falling back to Secondary on error
func (f *FallbackAnalyzer) Energy(img image.Image, axis Axis) (Signal, error) {
	sig, err := f.Primary.Energy(img, axis)
	if err == nil {
		return sig, nil
	}
	logging.LogWarning("%s backend failed on %s axis, using %s: %v", f.Primary.Name(), axis, f.Secondary.Name(), err)

	sig, err2 := f.Secondary.Energy(img, axis)
	if err2 != nil {
		return Signal{}, fmt.Errorf("both energy backends failed: %v; %w", err, err2)
	}
	return sig, nil
}

// movingAverage smooths values with a centered window, shrinking it at the edges
func movingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	prefix := make([]float64, len(values)+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}

	half := window / 2
	out := make([]float64, len(values))
	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(values) {
			hi = len(values)
		}
		out[i] = (prefix[hi] - prefix[lo]) / float64(hi-lo)
	}
	return out
}

// normalize scales values into [0,1] by their maximum; an all-zero signal stays zero
func normalize(values []float64) []float64 {
	var peak float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	out := make([]float64, len(values))
	if peak == 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / peak
	}
	return out
}
