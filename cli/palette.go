package cli

import (
	"layoutdna/scanner"

	"github.com/spf13/cobra"
)

func (c *CLI) paletteCommand() *cobra.Command {
	var output string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "palette <folder | image...>",
		Short: "Extract the design DNA of the first image",
		Long: `Samples the colors of the first image and prints the background, text,
primary and secondary colors plus the default font as JSON. Unreadable input
yields the default DNA.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("no-cache") {
				c.cfg.Cache.Disabled = noCache
			}

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

			s, err := scanner.NewScanner(scanner.ScanOptions{
				OutDir:   c.cfg.OutDir,
				Backend:  c.cfg.Backend,
				Cache:    store,
				CacheTTL: ttl,
			})
			if err != nil {
				return err
			}
			return c.writeJSON(output, s.ExtractPalette(cmd.Context(), paths))
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "write JSON here instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
