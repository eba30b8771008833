package scanner

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"layoutdna/types"

	"github.com/stretchr/testify/assert"
)

func TestProgressTrackerCounts(t *testing.T) {
	results := make(chan SectionResult, 4)
	var out bytes.Buffer
	tracker := NewProgressTracker(4, &out, results)

	results <- SectionResult{Index: 0, Slug: "hero", Rows: []types.Row{{}, {}}}
	results <- SectionResult{Index: 1, Slug: "caracteristicas", Rows: []types.Row{{}}, Cached: true}
	results <- SectionResult{Index: 2, Slug: "contacto", Rows: []types.Row{}, Error: errors.New("truncated")}
	results <- SectionResult{Index: 3, Slug: "precios", Rows: []types.Row{{}}, Cached: true}
	close(results)
	tracker.Stop()

	processed, cached, failed := tracker.Counts()
	assert.Equal(t, 4, processed)
	assert.Equal(t, 2, cached)
	assert.Equal(t, 1, failed)

	PrintCompletionStats(tracker, time.Now(), &out)
	assert.Contains(t, out.String(), "Analyzed 4 sections (4 bands)")
	assert.Contains(t, out.String(), "Encountered 1 errors")
}

func TestProgressTrackerEmpty(t *testing.T) {
	results := make(chan SectionResult)
	tracker := NewProgressTracker(0, nil, results)
	close(results)
	tracker.Stop()

	processed, cached, failed := tracker.Counts()
	assert.Zero(t, processed)
	assert.Zero(t, cached)
	assert.Zero(t, failed)
}
