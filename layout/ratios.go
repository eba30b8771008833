// Package layout turns band and column crops into sized layout rows and
// names the archetype of each section.
package layout

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"layoutdna/logging"
	"layoutdna/types"

	_ "golang.org/x/image/webp"
)

// ComputeRatios converts column widths into fractions rounded to three
// decimals and whole percentages. Index i of both results refers to column i.
// A zero total yields empty slices.
func ComputeRatios(widths []int) ([]float64, []int) {
	var sum int
	for _, w := range widths {
		sum += w
	}
	if sum <= 0 {
		return []float64{}, []int{}
	}

	ratios := make([]float64, len(widths))
	percents := make([]int, len(widths))
	for i, w := range widths {
		r := math.Round(float64(w)/float64(sum)*1000) / 1000
		ratios[i] = r
		percents[i] = int(math.Round(r * 100))
	}
	return ratios, percents
}

// ImageWidth reads the pixel width of an image from its header
func ImageWidth(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("cannot read size of %s: %w", path, err)
	}
	return cfg.Width, nil
}

// BuildRow sizes the columns cut from one band. Columns whose width cannot be
// read are left out so every slice of the row stays the same length.
func BuildRow(segment string, columns []string) types.Row {
	row := types.Row{
		Segment:       segment,
		Columns:       []string{},
		Ratios:        []float64{},
		RatiosPercent: []int{},
	}

	var widths []int
	for _, col := range columns {
		w, err := ImageWidth(col)
		if err != nil {
			logging.LogWarning("Dropping column %s: %v", col, err)
			continue
		}
		row.Columns = append(row.Columns, col)
		widths = append(widths, w)
	}

	ratios, percents := ComputeRatios(widths)
	if len(ratios) != len(row.Columns) {
		// Every column had zero width
		row.Columns = []string{}
		return row
	}
	row.Ratios = ratios
	row.RatiosPercent = percents
	return row
}

// ColumnSplitter cuts one band image into column crops
type ColumnSplitter func(bandPath string) []string

// BuildRows splits every band into columns and sizes them, keeping band order
func BuildRows(bands []string, split ColumnSplitter) []types.Row {
	rows := make([]types.Row, 0, len(bands))
	for _, band := range bands {
		rows = append(rows, BuildRow(band, split(band)))
	}
	return rows
}
