//go:build gocv

package imageprocessor

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

const (
	smoothingWindow = 15

	// Hough segments are straight along the axis when their endpoints differ by at most this
	lineTolerance = 3

	// Images with fewer lines than this are clustered into two color groups instead of three
	smallImageLines = 60
)

// AcceleratedAnalyzer computes energy with OpenCV Sobel gradients and adds
// Hough line and color cluster candidates
type AcceleratedAnalyzer struct{}

// NewAcceleratedAnalyzer returns the OpenCV analyzer
func NewAcceleratedAnalyzer() (EnergyAnalyzer, error) {
	return &AcceleratedAnalyzer{}, nil
}

// Name identifies the backend
func (a *AcceleratedAnalyzer) Name() string { return "opencv" }

// Energy computes the smoothed gradient signal plus strong and weak candidates
func (a *AcceleratedAnalyzer) Energy(img image.Image, axis Axis) (sig Signal, err error) {
	defer func() {
		if r := recover(); r != nil {
			sig = Signal{}
			err = fmt.Errorf("opencv panic: %v", r)
		}
	}()

	if img == nil || img.Bounds().Empty() {
		return Signal{}, ErrEmptyImage
	}

	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return Signal{}, fmt.Errorf("cannot convert image to mat: %w", err)
	}
	defer src.Close()
	if src.Empty() {
		return Signal{}, fmt.Errorf("empty mat for %dx%d image", img.Bounds().Dx(), img.Bounds().Dy())
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	energy, err := gradientEnergy(gray, axis)
	if err != nil {
		return Signal{}, err
	}

	strong := straightLines(gray, axis)
	weak, err := colorTransitions(img, axis)
	if err != nil {
		return Signal{}, err
	}

	return Signal{
		Energy:      energy,
		Strong:      strong,
		Weak:        weak,
		Accelerated: true,
	}, nil
}

// gradientEnergy sums the absolute Sobel derivative orthogonal to the axis per line
func gradientEnergy(gray gocv.Mat, axis Axis) ([]float64, error) {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: 5, Y: 5}, 0, 0, gocv.BorderDefault)

	dx, dy := 0, 1
	if axis == AxisColumns {
		dx, dy = 1, 0
	}

	grad := gocv.NewMat()
	defer grad.Close()
	gocv.Sobel(blurred, &grad, gocv.MatTypeCV16S, dx, dy, 3, 1, 0, gocv.BorderDefault)

	// Scale down so gradients up to 1020 still fit 8 bits
	abs := gocv.NewMat()
	defer abs.Close()
	gocv.ConvertScaleAbs(grad, &abs, 0.25, 0)

	rows, cols := abs.Rows(), abs.Cols()
	data := abs.ToBytes()
	if len(data) < rows*cols {
		return nil, fmt.Errorf("unexpected gradient buffer size %d for %dx%d", len(data), cols, rows)
	}

	var energy []float64
	if axis == AxisRows {
		energy = make([]float64, rows)
		for y := 0; y < rows; y++ {
			var sum int
			for _, v := range data[y*cols : (y+1)*cols] {
				sum += int(v)
			}
			energy[y] = float64(sum)
		}
	} else {
		energy = make([]float64, cols)
		for y := 0; y < rows; y++ {
			for x, v := range data[y*cols : (y+1)*cols] {
				energy[x] += float64(v)
			}
		}
	}

	return movingAverage(normalize(energy), smoothingWindow), nil
}

// straightLines returns positions of long Hough segments running across the axis
func straightLines(gray gocv.Mat, axis Axis) []int {
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 50, 150)

	lines := gocv.NewMat()
	defer lines.Close()

	extent := gray.Cols()
	if axis == AxisColumns {
		extent = gray.Rows()
	}
	gocv.HoughLinesPWithParams(edges, &lines, 1, math.Pi/180, 80, float32(extent)/2, 10)

	seen := make(map[int]struct{})
	var positions []int
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVeciAt(i, 0)
		if len(v) < 4 {
			continue
		}
		x1, y1, x2, y2 := int(v[0]), int(v[1]), int(v[2]), int(v[3])

		a1, a2 := y1, y2
		if axis == AxisColumns {
			a1, a2 = x1, x2
		}
		if absInt(a1-a2) > lineTolerance {
			continue
		}

		pos := (a1 + a2) / 2
		if _, dup := seen[pos]; dup {
			continue
		}
		seen[pos] = struct{}{}
		positions = append(positions, pos)
	}

	sort.Ints(positions)
	return positions
}

// colorTransitions clusters the mean color of every line and returns the
// indices where the cluster label changes
func colorTransitions(img image.Image, axis Axis) ([]int, error) {
	means := lineMeanColors(imaging.Clone(img), axis)
	n := len(means)
	k := 3
	if n < smallImageLines {
		k = 2
	}
	if n < k {
		return nil, nil
	}

	samples := gocv.NewMatWithSize(n, 3, gocv.MatTypeCV32F)
	defer samples.Close()
	for i, m := range means {
		samples.SetFloatAt(i, 0, float32(m[0]))
		samples.SetFloatAt(i, 1, float32(m[1]))
		samples.SetFloatAt(i, 2, float32(m[2]))
	}

	labels := gocv.NewMatWithSize(n, 1, gocv.MatTypeCV32S)
	defer labels.Close()
	for i, l := range terciles(means, k) {
		labels.SetIntAt(i, 0, int32(l))
	}

	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.Count|gocv.EPS, 20, 0.5)
	gocv.KMeans(samples, k, &labels, criteria, 1, gocv.KMeansUseInitialLabels, &centers)

	if labels.Rows() != n {
		return nil, fmt.Errorf("kmeans returned %d labels for %d lines", labels.Rows(), n)
	}

	var transitions []int
	prev := labels.GetIntAt(0, 0)
	for i := 1; i < n; i++ {
		cur := labels.GetIntAt(i, 0)
		if cur != prev {
			transitions = append(transitions, i)
		}
		prev = cur
	}
	return transitions, nil
}

// lineMeanColors returns the mean B, G, R of every line along the axis
func lineMeanColors(img *image.NRGBA, axis Axis) [][3]float64 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	n, span := h, w
	if axis == AxisColumns {
		n, span = w, h
	}

	means := make([][3]float64, n)
	for i := 0; i < n; i++ {
		var b, g, r float64
		for j := 0; j < span; j++ {
			x, y := j, i
			if axis == AxisColumns {
				x, y = i, j
			}
			off := y*img.Stride + x*4
			r += float64(img.Pix[off])
			g += float64(img.Pix[off+1])
			b += float64(img.Pix[off+2])
		}
		s := float64(span)
		means[i] = [3]float64{b / s, g / s, r / s}
	}
	return means
}

// terciles assigns initial k-means labels by luminance rank so clustering is deterministic
func terciles(means [][3]float64, k int) []int {
	idx := make([]int, len(means))
	for i := range idx {
		idx[i] = i
	}
	lum := func(m [3]float64) float64 {
		return 0.0722*m[0] + 0.7152*m[1] + 0.2126*m[2]
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return lum(means[idx[a]]) < lum(means[idx[b]])
	})

	labels := make([]int, len(means))
	for rank, i := range idx {
		labels[i] = rank * k / len(means)
	}
	return labels
}

// AcceleratedQuantizer extracts dominant colors with OpenCV k-means
type AcceleratedQuantizer struct{}

// NewAcceleratedQuantizer returns the OpenCV color quantizer
func NewAcceleratedQuantizer() (ColorQuantizer, error) {
	return &AcceleratedQuantizer{}, nil
}

// Quantize clusters the pixels of a downscaled copy of img into k colors
func (q *AcceleratedQuantizer) Quantize(img image.Image, k int) (out []color.NRGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("opencv panic: %v", r)
		}
	}()

	small := imaging.Resize(img, 96, 96, imaging.Box)
	n := len(small.Pix) / 4
	if n < k {
		return nil, fmt.Errorf("image has %d pixels, need at least %d", n, k)
	}

	samples := gocv.NewMatWithSize(n, 3, gocv.MatTypeCV32F)
	defer samples.Close()
	for i := 0; i < n; i++ {
		samples.SetFloatAt(i, 0, float32(small.Pix[i*4]))
		samples.SetFloatAt(i, 1, float32(small.Pix[i*4+1]))
		samples.SetFloatAt(i, 2, float32(small.Pix[i*4+2]))
	}

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.Count|gocv.EPS, 20, 1.0)
	gocv.KMeans(samples, k, &labels, criteria, 3, gocv.KMeansPPCenters, &centers)

	if centers.Rows() != k || centers.Cols() != 3 {
		return nil, fmt.Errorf("kmeans returned %dx%d centers", centers.Rows(), centers.Cols())
	}

	out = make([]color.NRGBA, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, color.NRGBA{
			R: clampByte(centers.GetFloatAt(i, 0)),
			G: clampByte(centers.GetFloatAt(i, 1)),
			B: clampByte(centers.GetFloatAt(i, 2)),
			A: 255,
		})
	}
	return out, nil
}

func clampByte(v float32) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
