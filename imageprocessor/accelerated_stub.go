//go:build !gocv

package imageprocessor

// NewAcceleratedAnalyzer reports that OpenCV support is not compiled in
func NewAcceleratedAnalyzer() (EnergyAnalyzer, error) {
	return nil, ErrAcceleratedUnavailable
}

// NewAcceleratedQuantizer reports that OpenCV support is not compiled in
func NewAcceleratedQuantizer() (ColorQuantizer, error) {
	return nil, ErrAcceleratedUnavailable
}
