package imageprocessor

import (
	"fmt"
	"strings"
	"sync"

	"layoutdna/logging"
)

// Backend names accepted by SelectAnalyzer
const (
	BackendAuto        = "auto"
	BackendPixel       = "pixel"
	BackendAccelerated = "accelerated"
)

var (
	defaultAnalyzer     EnergyAnalyzer
	defaultAnalyzerOnce sync.Once
)

// DefaultAnalyzer probes for the accelerated backend once and returns the
// best available analyzer for the life of the process
func DefaultAnalyzer() EnergyAnalyzer {
	defaultAnalyzerOnce.Do(func() {
		defaultAnalyzer, _ = SelectAnalyzer(BackendAuto)
		logging.DebugLog("Energy backend selected: %s", defaultAnalyzer.Name())
	})
	return defaultAnalyzer
}

// SelectAnalyzer builds an analyzer for the named backend. "auto" prefers
// OpenCV and silently uses the pixel loop when it is missing; "accelerated"
// fails instead.
func SelectAnalyzer(backend string) (EnergyAnalyzer, error) {
	pixel := NewPixelLoopAnalyzer()

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendAuto:
		accelerated, err := NewAcceleratedAnalyzer()
		if err != nil {
			return pixel, nil
		}
		return &FallbackAnalyzer{Primary: accelerated, Secondary: pixel}, nil
	case BackendPixel:
		return pixel, nil
	case BackendAccelerated:
		accelerated, err := NewAcceleratedAnalyzer()
		if err != nil {
			return nil, err
		}
		return &FallbackAnalyzer{Primary: accelerated, Secondary: pixel}, nil
	default:
		return nil, fmt.Errorf("unknown energy backend %q", backend)
	}
}
