package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"layoutdna/cache"
	"layoutdna/config"
	"layoutdna/database"
	"layoutdna/logging"
	"layoutdna/scanner"

	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	outDir    string
	output    string
	minHeight int
	minWidth  int
	precise   bool
	workers   int
	noCache   bool
	cacheDB   string
	persist   bool
	progress  bool
}

func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze <folder | image...>",
		Short: "Build the section plan and design DNA of a set of images",
		Long: `Groups the images into sections by filename, cuts the first image of every
section into bands and columns, names each section's layout archetype and
extracts the palette of the first image. Prints {"plan": ..., "dna": ...} as JSON.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyAnalyzeFlags(cmd, &opts)

			paths, err := expandInputs(args)
			if err != nil {
				return err
			}

			store, err := c.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			ttl, err := c.cfg.CacheTTL()
			if err != nil {
				return err
			}

			result, err := scanner.Analyze(cmd.Context(), paths, scanner.ScanOptions{
				OutDir:       c.cfg.OutDir,
				MinHeight:    c.cfg.Segmentation.MinHeight,
				MinWidth:     c.cfg.Segmentation.MinWidth,
				Precise:      c.cfg.Segmentation.Precise,
				Backend:      c.cfg.Backend,
				MaxWorkers:   c.cfg.Workers,
				Cache:        store,
				CacheTTL:     ttl,
				ShowProgress: opts.progress,
				DebugMode:    c.verbose,
			})
			if err != nil {
				return err
			}

			if st, ok := store.(*database.Store); ok {
				if stats, err := st.Stats(cmd.Context()); err == nil {
					logging.DebugLog("Cache %s holds %d/%d entries (%d bytes)", c.cfg.Cache.DB, stats.Entries, stats.MaxEntries, stats.TotalBytes)
				}
			}

			return c.writeJSON(opts.output, result)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.outDir, "out", "o", "", "directory for band and column crops")
	flags.StringVar(&opts.output, "output", "", "write JSON here instead of stdout")
	flags.IntVar(&opts.minHeight, "min-height", 0, "minimum band height in pixels")
	flags.IntVar(&opts.minWidth, "min-width", 0, "minimum column width in pixels")
	flags.BoolVar(&opts.precise, "precise", false, "lower thresholds to find more cuts")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "sections analyzed in parallel (0 = auto)")
	flags.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	flags.StringVar(&opts.cacheDB, "cache-db", "", "persistent SQLite cache file")
	flags.BoolVar(&opts.persist, "persist", false, "use the SQLite cache at "+config.DefaultCacheDB())
	flags.BoolVar(&opts.progress, "progress", false, "show progress on stderr")

	return cmd
}

// applyAnalyzeFlags lets explicitly set flags override the configuration
func (c *CLI) applyAnalyzeFlags(cmd *cobra.Command, opts *analyzeOptions) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		c.cfg.OutDir = opts.outDir
	}
	if flags.Changed("min-height") {
		c.cfg.Segmentation.MinHeight = opts.minHeight
	}
	if flags.Changed("min-width") {
		c.cfg.Segmentation.MinWidth = opts.minWidth
	}
	if flags.Changed("precise") {
		c.cfg.Segmentation.Precise = opts.precise
	}
	if flags.Changed("workers") {
		c.cfg.Workers = opts.workers
	}
	if flags.Changed("no-cache") {
		c.cfg.Cache.Disabled = opts.noCache
	}
	if flags.Changed("cache-db") {
		c.cfg.Cache.DB = opts.cacheDB
	}
	if opts.persist && c.cfg.Cache.DB == "" {
		c.cfg.Cache.DB = config.DefaultCacheDB()
	}
}

// openCache builds the configured result cache
func (c *CLI) openCache() (cache.Cache, error) {
	cc := c.cfg.Cache
	switch {
	case cc.Disabled:
		return cache.NewNullCache(), nil
	case cc.DB != "":
		logging.DebugLog("Using SQLite cache %s (max %d entries)", cc.DB, cc.Size)
		return database.OpenStore(cc.DB, cc.Size)
	default:
		return cache.NewMemoryCache(cc.Size)
	}
}

// expandInputs turns a single folder argument into the images it contains
func expandInputs(args []string) ([]string, error) {
	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err == nil && info.IsDir() {
			return scanner.CollectImages(args[0])
		}
	}
	return args, nil
}

// writeJSON encodes v, indented, to path or to stdout when path is empty
func (c *CLI) writeJSON(path string, v any) error {
	var w io.Writer = c.stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("cannot create %s: %w", path, err)
		}
		defer f.Close()
		w = f
		logging.LogInfo("Writing %s", path)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
