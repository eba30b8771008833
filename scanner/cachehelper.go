package scanner

import (
	"context"
	"encoding/json"
	"os"

	"layoutdna/cache"
	"layoutdna/logging"
	"layoutdna/types"
)

// loadCachedRows returns rows stored under key when every crop they name is still on disk
func loadCachedRows(ctx context.Context, c cache.Cache, key string) ([]types.Row, bool) {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		logging.LogWarning("Cache lookup failed: %v", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}

	var rows []types.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		logging.DebugLog("Discarding unreadable cache entry %s: %v", key, err)
		_ = c.Delete(ctx, key)
		return nil, false
	}

	for _, row := range rows {
		if !fileExists(row.Segment) {
			logging.DebugLog("Cached crop %s is gone, recomputing", row.Segment)
			return nil, false
		}
		for _, col := range row.Columns {
			if !fileExists(col) {
				logging.DebugLog("Cached crop %s is gone, recomputing", col)
				return nil, false
			}
		}
	}
	return rows, true
}

// loadCachedDNA returns the palette stored under key
func loadCachedDNA(ctx context.Context, c cache.Cache, key string) (types.DesignDNA, bool) {
	var dna types.DesignDNA

	data, hit, err := c.Get(ctx, key)
	if err != nil {
		logging.LogWarning("Cache lookup failed: %v", err)
		return dna, false
	}
	if !hit {
		return dna, false
	}
	if err := json.Unmarshal(data, &dna); err != nil || len(dna.Palette) == 0 {
		_ = c.Delete(ctx, key)
		return types.DesignDNA{}, false
	}
	return dna, true
}

// storeCached marshals v under key; failures only cost a future recomputation
func storeCached(ctx context.Context, c cache.Cache, key string, v any, options ScanOptions) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.LogWarning("Cannot encode cache entry %s: %v", key, err)
		return
	}
	if err := c.Set(ctx, key, data, options.CacheTTL); err != nil {
		logging.LogWarning("Cannot store cache entry %s: %v", key, err)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
