package cli

import (
	"fmt"

	"layoutdna/imageprocessor"

	"github.com/spf13/cobra"
)

type segmentOptions struct {
	outDir  string
	minGap  int
	precise bool
}

func (c *CLI) rowsCommand() *cobra.Command {
	var opts segmentOptions

	cmd := &cobra.Command{
		Use:   "rows <image>",
		Short: "Cut an image into horizontal bands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minHeight := c.cfg.Segmentation.MinHeight
			if cmd.Flags().Changed("min-height") {
				minHeight = opts.minGap
			}
			c.applySegmentFlags(cmd, &opts)
			return c.runSegment(args[0], func(s *imageprocessor.Segmenter, outDir string, precise bool) []string {
				return s.SegmentRows(args[0], outDir, minHeight, precise)
			})
		},
	}

	c.segmentFlags(cmd, &opts, "min-height", "minimum band height in pixels")
	return cmd
}

func (c *CLI) columnsCommand() *cobra.Command {
	var opts segmentOptions

	cmd := &cobra.Command{
		Use:   "columns <image>",
		Short: "Cut an image into vertical columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minWidth := c.cfg.Segmentation.MinWidth
			if cmd.Flags().Changed("min-width") {
				minWidth = opts.minGap
			}
			c.applySegmentFlags(cmd, &opts)
			return c.runSegment(args[0], func(s *imageprocessor.Segmenter, outDir string, precise bool) []string {
				return s.SegmentColumns(args[0], outDir, minWidth, precise)
			})
		},
	}

	c.segmentFlags(cmd, &opts, "min-width", "minimum column width in pixels")
	return cmd
}

func (c *CLI) segmentFlags(cmd *cobra.Command, opts *segmentOptions, gapFlag, gapUsage string) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.outDir, "out", "o", "", "directory for the crops")
	flags.IntVar(&opts.minGap, gapFlag, 0, gapUsage)
	flags.BoolVar(&opts.precise, "precise", false, "lower thresholds to find more cuts")
}

// applySegmentFlags lets explicitly set flags override the configuration
func (c *CLI) applySegmentFlags(cmd *cobra.Command, opts *segmentOptions) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		c.cfg.OutDir = opts.outDir
	}
	if flags.Changed("precise") {
		c.cfg.Segmentation.Precise = opts.precise
	}
}

// runSegment cuts one image and prints every crop path on its own line
func (c *CLI) runSegment(path string, cut func(*imageprocessor.Segmenter, string, bool) []string) error {
	analyzer, err := imageprocessor.SelectAnalyzer(c.cfg.Backend)
	if err != nil {
		return err
	}

	crops := cut(imageprocessor.NewSegmenter(analyzer), c.cfg.OutDir, c.cfg.Segmentation.Precise)
	if len(crops) == 0 {
		return fmt.Errorf("no crops produced for %s", path)
	}
	for _, crop := range crops {
		fmt.Fprintln(c.stdout, crop)
	}
	return nil
}
