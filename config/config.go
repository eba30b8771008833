// Package config loads layoutdna settings from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"layoutdna/imageprocessor"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the full layoutdna configuration
type Config struct {
	Segmentation Segmentation `toml:"segmentation" yaml:"segmentation"`
	Backend      string       `toml:"backend" yaml:"backend"`
	Workers      int          `toml:"workers" yaml:"workers"`
	Cache        CacheConfig  `toml:"cache" yaml:"cache"`
	OutDir       string       `toml:"out_dir" yaml:"out_dir"`
	LogFile      string       `toml:"log_file" yaml:"log_file"`
}

// Segmentation configures band and column detection
type Segmentation struct {
	MinHeight int  `toml:"min_height" yaml:"min_height"`
	MinWidth  int  `toml:"min_width" yaml:"min_width"`
	Precise   bool `toml:"precise" yaml:"precise"`
}

// CacheConfig selects and bounds the result cache
type CacheConfig struct {
	Disabled bool `toml:"disabled" yaml:"disabled"`
	// DB is the SQLite file of the persistent cache; empty keeps the cache in memory
	DB string `toml:"db" yaml:"db"`
	// Size is the maximum number of entries
	Size int `toml:"size" yaml:"size"`
	// TTL is a Go duration such as "72h"; empty never expires
	TTL string `toml:"ttl" yaml:"ttl"`
}

// Default returns sane defaults
func Default() *Config {
	return &Config{
		Segmentation: Segmentation{
			MinHeight: imageprocessor.DefaultMinHeight,
			MinWidth:  imageprocessor.DefaultMinWidth,
		},
		Backend: imageprocessor.BackendAuto,
		Cache: CacheConfig{
			Size: 256,
		},
		OutDir: "layoutdna-out",
	}
}

// DefaultCacheDB returns the SQLite cache path under the user cache directory
func DefaultCacheDB() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "layoutdna", "results.db")
}

// Load reads path over Default. Files ending in .toml are decoded as TOML,
// .yaml and .yml as YAML.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}

	return cfg, cfg.Validate()
}

// Validate checks that values are sane
func (c *Config) Validate() error {
	if c.Segmentation.MinHeight <= 0 {
		return fmt.Errorf("segmentation.min_height must be > 0")
	}
	if c.Segmentation.MinWidth <= 0 {
		return fmt.Errorf("segmentation.min_width must be > 0")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must be >= 0")
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir is required")
	}

	switch strings.ToLower(c.Backend) {
	case "", imageprocessor.BackendAuto, imageprocessor.BackendPixel, imageprocessor.BackendAccelerated:
	default:
		return fmt.Errorf("unsupported backend %q (use auto, pixel or accelerated)", c.Backend)
	}
	return nil
}

// CacheTTL parses Cache.TTL; empty means no expiry
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("cache.ttl: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("cache.ttl must not be negative")
	}
	return d, nil
}
