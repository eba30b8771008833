package imageprocessor

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	// edgeMargin drops cut candidates hugging the image border
	edgeMargin = 10

	// Standard deviations above the mean an accelerated signal must reach
	strictSigma  = 1.5
	preciseSigma = 1.2

	// Multiple of the mean a pixel-loop signal must reach
	pixelMeanFactor = 1.5

	// Precise mode accepts cuts this fraction of minGap apart
	preciseGapFactor = 0.8
)

// FindCuts turns an energy signal into strictly increasing cut positions.
//
// Accelerated signals use mean + k*std (k = 1.2 when precise, else 1.5) and
// merge in the strong and weak candidates with no precedence between them.
// Pixel-loop signals use 1.5 * mean. Candidates closer than edgeMargin to
// either end are dropped, then candidates closer than minGap (0.8*minGap when
// precise) to the previously accepted cut are skipped. An empty result means
// the whole image is one segment.
func FindCuts(sig Signal, minGap int, precise bool) []int {
	n := len(sig.Energy)
	if n == 0 {
		return []int{}
	}

	var threshold float64
	if sig.Accelerated {
		mean, std := stat.PopMeanStdDev(sig.Energy, nil)
		k := strictSigma
		if precise {
			k = preciseSigma
		}
		threshold = mean + k*std
	} else {
		threshold = stat.Mean(sig.Energy, nil) * pixelMeanFactor
	}

	seen := make(map[int]struct{})
	var candidates []int
	add := func(idx int) {
		if idx < edgeMargin || idx > n-edgeMargin {
			return
		}
		if _, dup := seen[idx]; dup {
			return
		}
		seen[idx] = struct{}{}
		candidates = append(candidates, idx)
	}

	for i, v := range sig.Energy {
		if v > threshold {
			add(i)
		}
	}
	if sig.Accelerated {
		for _, idx := range sig.Strong {
			add(idx)
		}
		for _, idx := range sig.Weak {
			add(idx)
		}
	}
	sort.Ints(candidates)

	gap := float64(minGap)
	if precise {
		gap *= preciseGapFactor
	}

	cuts := []int{}
	for _, c := range candidates {
		if len(cuts) == 0 || float64(c-cuts[len(cuts)-1]) >= gap {
			cuts = append(cuts, c)
		}
	}
	return cuts
}
