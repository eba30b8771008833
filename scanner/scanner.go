// Package scanner runs the full decomposition of a batch of design images:
// grouping into sections, band and column segmentation, pattern naming and
// palette extraction.
package scanner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"layoutdna/cache"
	"layoutdna/imageprocessor"
	"layoutdna/layout"
	"layoutdna/logging"
	"layoutdna/palette"
	"layoutdna/sections"
	"layoutdna/signalhandler"
	"layoutdna/types"

	"golang.org/x/sync/errgroup"
)

// Scanner holds the components shared by every section of a run
type Scanner struct {
	options   ScanOptions
	segmenter *imageprocessor.Segmenter
	extractor *palette.Extractor
	cache     cache.Cache
}

// NewScanner validates options and builds the segmenter and palette extractor
func NewScanner(options ScanOptions) (*Scanner, error) {
	analyzer := options.Analyzer
	if analyzer == nil {
		var err error
		analyzer, err = imageprocessor.SelectAnalyzer(options.Backend)
		if err != nil {
			return nil, err
		}
	}

	if options.OutDir == "" {
		options.OutDir = "."
	}
	if options.MinHeight <= 0 {
		options.MinHeight = imageprocessor.DefaultMinHeight
	}
	if options.MinWidth <= 0 {
		options.MinWidth = imageprocessor.DefaultMinWidth
	}
	if options.MaxWorkers <= 0 {
		options.MaxWorkers = signalhandler.GetOptimalProcs()
	}

	extractor := &palette.Extractor{
		Loader:    imageprocessor.NewImageLoaderRegistry(),
		Quantizer: options.Quantizer,
	}
	if extractor.Quantizer == nil && !options.NoQuantizer {
		if q, err := imageprocessor.NewAcceleratedQuantizer(); err == nil {
			extractor.Quantizer = q
		}
	}

	c := options.Cache
	if c == nil {
		c = cache.NewNullCache()
	}

	return &Scanner{
		options:   options,
		segmenter: imageprocessor.NewSegmenter(analyzer),
		extractor: extractor,
		cache:     c,
	}, nil
}

// Analyze runs a one-off scanner over paths
func Analyze(ctx context.Context, paths []string, options ScanOptions) (*Result, error) {
	s, err := NewScanner(options)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, paths)
}

// AnalyzeFolder collects the design images under folder and analyzes them
func AnalyzeFolder(ctx context.Context, folder string, options ScanOptions) (*Result, error) {
	paths, err := CollectImages(folder)
	if err != nil {
		return nil, err
	}
	if options.DebugMode {
		logging.DebugLog("Found %d design images in %s", len(paths), folder)
	}
	return Analyze(ctx, paths, options)
}

// Analyze groups paths into sections, segments each section's primary image
// in parallel and extracts the palette. Output order matches a sequential
// run. Only cancellation of ctx produces an error.
func (s *Scanner) Analyze(ctx context.Context, paths []string) (*Result, error) {
	startTime := time.Now()
	plan := sections.Group(paths)

	if s.options.DebugMode {
		logging.DebugLog("Grouped %d images into %d sections using %s backend, %d workers",
			plan.Count, len(plan.Sections), s.segmenter.Analyzer.Name(), s.options.MaxWorkers)
	}

	var out io.Writer
	if s.options.ShowProgress {
		out = os.Stderr
	}
	resultsChan := make(chan SectionResult, len(plan.Sections))
	tracker := NewProgressTracker(len(plan.Sections), out, resultsChan)

	rows := make([][]types.Row, len(plan.Sections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.options.MaxWorkers)

	for i, section := range plan.Sections {
		i, section := i, section
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result := s.analyzeSection(gctx, i, section)
			rows[i] = result.Rows
			resultsChan <- result
			return nil
		})
	}

	err := g.Wait()
	close(resultsChan)
	tracker.Stop()
	if err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	for i := range plan.Sections {
		plan.Sections[i].LayoutRows = rows[i]
		plan.Sections[i].Pattern = layout.ClassifyPattern(plan.Sections[i])
		plan.Sections[i].PatternVariant = layout.ClassifyPatternVariant(plan.Sections[i])
	}

	dna := s.ExtractPalette(ctx, paths)

	if out != nil || s.options.DebugMode {
		PrintCompletionStats(tracker, startTime, out)
	}

	return &Result{Plan: plan, DNA: dna}, nil
}

// analyzeSection builds the layout rows of a section's primary image,
// reusing cached rows whose crops still exist
func (s *Scanner) analyzeSection(ctx context.Context, index int, section types.Section) SectionResult {
	primary := section.PrimaryImage()
	result := SectionResult{Index: index, Slug: section.Slug, Image: primary, Rows: []types.Row{}}

	hash, err := imageprocessor.ContentHash(primary)
	if err != nil {
		// Unreadable image: the section keeps no rows
		result.Error = err
		return result
	}

	key := cache.LayoutKey(hash, cache.LayoutKeyOpts{
		Name:      filepath.Base(primary),
		OutDir:    s.options.OutDir,
		MinHeight: s.options.MinHeight,
		MinWidth:  s.options.MinWidth,
		Precise:   s.options.Precise,
		Backend:   s.segmenter.Analyzer.Name(),
	})
	if rows, ok := loadCachedRows(ctx, s.cache, key); ok {
		result.Rows = rows
		result.Cached = true
		return result
	}

	result.Rows = s.SegmentLayout(primary)
	if len(result.Rows) == 0 {
		result.Error = fmt.Errorf("no bands produced for %s", primary)
		return result
	}

	storeCached(ctx, s.cache, key, result.Rows, s.options)
	return result
}

// SegmentLayout cuts image into bands and every band into sized columns
func (s *Scanner) SegmentLayout(path string) []types.Row {
	bands := s.segmenter.SegmentRows(path, s.options.OutDir, s.options.MinHeight, s.options.Precise)
	return layout.BuildRows(bands, func(band string) []string {
		return s.segmenter.SegmentColumns(band, s.options.OutDir, s.options.MinWidth, s.options.Precise)
	})
}

// ExtractPalette returns the design DNA of paths[0], cached by content hash
func (s *Scanner) ExtractPalette(ctx context.Context, paths []string) types.DesignDNA {
	if len(paths) == 0 {
		return palette.DefaultDNA()
	}

	hash, err := imageprocessor.ContentHash(paths[0])
	if err != nil {
		logging.LogWarning("Using default palette: %v", err)
		return palette.DefaultDNA()
	}

	key := cache.PaletteKey(hash, s.extractor.Quantizer != nil)
	if dna, ok := loadCachedDNA(ctx, s.cache, key); ok {
		return dna
	}

	dna := s.extractor.Extract(paths)
	storeCached(ctx, s.cache, key, dna, s.options)
	return dna
}
