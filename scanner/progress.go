package scanner

import (
	"fmt"
	"io"
	"time"

	"layoutdna/logging"
)

// NewProgressTracker consumes section results and, when out is non-nil,
// redraws a progress line every half second
func NewProgressTracker(total int, out io.Writer, resultsChan chan SectionResult) *ProgressTracker {
	tracker := &ProgressTracker{
		ticker:   time.NewTicker(500 * time.Millisecond),
		done:     make(chan bool),
		finished: make(chan struct{}),
		total:    total,
	}

	go tracker.displayProgress(out)
	go tracker.processResults(resultsChan)

	return tracker
}

// displayProgress shows the progress periodically
func (p *ProgressTracker) displayProgress(out io.Writer) {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			if out == nil {
				continue
			}
			p.mu.Lock()
			if p.errors > 0 {
				fmt.Fprintf(out, "\rSections: %d/%d (cached: %d, errors: %d)", p.processed, p.total, p.cached, p.errors)
			} else {
				fmt.Fprintf(out, "\rSections: %d/%d (cached: %d)", p.processed, p.total, p.cached)
			}
			p.mu.Unlock()
		}
	}
}

// processResults updates the tracker state until resultsChan is closed
func (p *ProgressTracker) processResults(resultsChan chan SectionResult) {
	defer close(p.finished)

	for result := range resultsChan {
		p.mu.Lock()
		p.processed++
		p.bands += len(result.Rows)
		if result.Cached {
			p.cached++
		}
		if result.Error != nil {
			p.errors++
			logging.LogWarning("Section %s (%s): %v", result.Slug, result.Image, result.Error)
		} else {
			logging.DebugLog("Section %s: %d rows (cached: %v)", result.Slug, len(result.Rows), result.Cached)
		}
		p.mu.Unlock()
	}
}

// Stop ends progress display; call it after closing the results channel
func (p *ProgressTracker) Stop() {
	<-p.finished
	p.ticker.Stop()
	p.done <- true
}

// Counts returns processed, cached and failed section totals
func (p *ProgressTracker) Counts() (processed, cached, errors int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processed, p.cached, p.errors
}

// PrintCompletionStats logs statistics after the analysis finishes
func PrintCompletionStats(tracker *ProgressTracker, startTime time.Time, out io.Writer) {
	elapsed := time.Since(startTime)

	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	logging.DebugLog("Analysis completed in %v. Sections: %d, cached: %d, bands: %d, errors: %d",
		elapsed, tracker.processed, tracker.cached, tracker.bands, tracker.errors)

	if out == nil {
		return
	}
	fmt.Fprintf(out, "\nAnalyzed %d sections (%d bands) in %v.\n", tracker.processed, tracker.bands, elapsed.Round(time.Millisecond))
	if tracker.errors > 0 {
		fmt.Fprintf(out, "Encountered %d errors. Check the log for details.\n", tracker.errors)
	}
}
