package scanner

import (
	"sync"
	"time"

	"layoutdna/cache"
	"layoutdna/imageprocessor"
	"layoutdna/types"
)

// ScanOptions defines the options for analyzing a batch of images
type ScanOptions struct {
	// OutDir receives band and column crops
	OutDir    string
	MinHeight int
	MinWidth  int
	Precise   bool

	// Backend names the energy backend ("auto", "pixel", "accelerated");
	// ignored when Analyzer is set
	Backend  string
	Analyzer imageprocessor.EnergyAnalyzer

	// Quantizer overrides palette color quantization; nil uses the accelerated
	// one when compiled in
	Quantizer imageprocessor.ColorQuantizer
	// NoQuantizer forces thumbnail sampling for the palette
	NoQuantizer bool

	// MaxWorkers limits concurrent sections; 0 picks from the CPU count
	MaxWorkers int

	// Cache stores layout rows and palettes by content hash; nil disables caching
	Cache    cache.Cache
	CacheTTL time.Duration

	ShowProgress bool
	DebugMode    bool
}

// Result is the decomposition of one batch
type Result struct {
	Plan *types.Plan     `json:"plan"`
	DNA  types.DesignDNA `json:"dna"`
}

// SectionResult holds the outcome of analyzing one section
type SectionResult struct {
	Index  int
	Slug   string
	Image  string
	Rows   []types.Row
	Cached bool
	Error  error
}

// ProgressTracker tracks progress of the analysis
type ProgressTracker struct {
	processed int
	cached    int
	errors    int
	bands     int
	ticker    *time.Ticker
	done      chan bool
	finished  chan struct{}
	mu        sync.Mutex
	total     int
}
