package cli

import (
	"layoutdna/sections"

	"github.com/spf13/cobra"
)

func (c *CLI) groupCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "group <folder | image...>",
		Short: "Group images into ordered sections by filename",
		Long: `Parses each filename for its leading order number and section name, then
prints the ordered section plan as JSON. No image is decoded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandInputs(args)
			if err != nil {
				return err
			}
			return c.writeJSON(output, sections.Group(paths))
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "write JSON here instead of stdout")
	return cmd
}
