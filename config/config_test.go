package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 180, cfg.Segmentation.MinHeight)
	assert.Equal(t, 160, cfg.Segmentation.MinWidth)
	assert.Equal(t, "auto", cfg.Backend)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "layoutdna.toml", `
backend = "pixel"
workers = 2
out_dir = "crops"

[segmentation]
min_height = 240
precise = true

[cache]
db = "/tmp/results.db"
size = 50
ttl = "72h"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pixel", cfg.Backend)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "crops", cfg.OutDir)
	assert.Equal(t, 240, cfg.Segmentation.MinHeight)
	assert.Equal(t, 160, cfg.Segmentation.MinWidth, "unset keys keep defaults")
	assert.True(t, cfg.Segmentation.Precise)
	assert.Equal(t, "/tmp/results.db", cfg.Cache.DB)
	assert.Equal(t, 50, cfg.Cache.Size)

	ttl, err := cfg.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, ttl)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "layoutdna.yml", `
backend: accelerated
segmentation:
  min_width: 200
cache:
  disabled: true
log_file: run.log
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "accelerated", cfg.Backend)
	assert.Equal(t, 200, cfg.Segmentation.MinWidth)
	assert.Equal(t, 180, cfg.Segmentation.MinHeight)
	assert.True(t, cfg.Cache.Disabled)
	assert.Equal(t, "run.log", cfg.LogFile)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"unknown extension", "cfg.json", `{}`},
		{"bad toml", "cfg.toml", `backend = `},
		{"bad yaml", "cfg.yaml", "segmentation: [1, 2"},
		{"unknown backend", "cfg.toml", `backend = "cuda"`},
		{"negative height", "cfg.yaml", "segmentation:\n  min_height: -1\n"},
		{"bad ttl", "cfg.toml", "[cache]\nttl = \"soon\"\n"},
		{"negative workers", "cfg.toml", `workers = -3`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDefaultCacheDB(t *testing.T) {
	p := DefaultCacheDB()
	assert.Equal(t, "results.db", filepath.Base(p))
	assert.Equal(t, "layoutdna", filepath.Base(filepath.Dir(p)))
}
