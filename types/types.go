package types

// ImageSample holds one input path and the metadata derived from its filename
type ImageSample struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Order int    `json:"order"`
	Label string `json:"label"`
	Slug  string `json:"slug"`
}

// Row is one horizontal band of a section's primary image
type Row struct {
	Segment       string    `json:"segment"`
	Columns       []string  `json:"columns"`
	Ratios        []float64 `json:"ratios"`
	RatiosPercent []int     `json:"ratios_percent"`
}

// Section is one logical page region, possibly backed by several images
type Section struct {
	Name           string         `json:"name"`
	Label          string         `json:"label"`
	Slug           string         `json:"slug"`
	Images         []string       `json:"images"`
	Pattern        string         `json:"pattern"`
	PatternVariant string         `json:"pattern_variant"`
	LayoutRows     []Row          `json:"layout_rows"`
	Hints          map[string]any `json:"hints,omitempty"`
}

// PrimaryImage returns the first image of the section, or "" if it has none
func (s Section) PrimaryImage() string {
	if len(s.Images) == 0 {
		return ""
	}
	return s.Images[0]
}

// Plan is the decomposition result for a batch of images
type Plan struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
	Count    int       `json:"count"`
}

// PaletteEntry is one named color of the design DNA
type PaletteEntry struct {
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

// Typography holds the default font hint
type Typography struct {
	FontFamily string `json:"fontFamily"`
}

// DesignDNA is the compact palette and typography of a design
type DesignDNA struct {
	Palette    []PaletteEntry `json:"palette"`
	Typography Typography     `json:"typography"`
}

// Color returns the color registered under slug
func (d DesignDNA) Color(slug string) (string, bool) {
	for _, entry := range d.Palette {
		if entry.Slug == slug {
			return entry.Color, true
		}
	}
	return "", false
}
