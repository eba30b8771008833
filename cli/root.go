// Package cli implements the layoutdna command-line interface.
//
// Commands:
//   - analyze: full decomposition of a folder or list of images to JSON
//   - group: section grouping only
//   - rows, columns: segment one image into bands or columns
//   - palette: design DNA of the first image
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"layoutdna/config"
	"layoutdna/logging"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  string
)

// SetVersion sets the version information displayed by --version
func SetVersion(v, c string) {
	version = v
	commit = c
}

// CLI holds global flag values shared by every command
type CLI struct {
	stdout io.Writer
	stderr io.Writer

	verbose    bool
	logFile    string
	configPath string
	backend    string

	cfg *config.Config
}

// New creates a CLI writing results to stdout and diagnostics to stderr
func New(stdout, stderr io.Writer) *CLI {
	return &CLI{stdout: stdout, stderr: stderr, cfg: config.Default()}
}

// RootCommand builds the command tree
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "layoutdna",
		Short:        "Decompose design screenshots into sections, rows, columns and a palette",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.CloseLogger()
		},
	}

	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	if commit != "" {
		root.SetVersionTemplate(fmt.Sprintf("layoutdna %s\ncommit: %s\n", version, commit))
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&c.logFile, "logfile", "", "also write logs to this file")
	flags.StringVarP(&c.configPath, "config", "c", "", "TOML or YAML configuration file")
	flags.StringVar(&c.backend, "backend", "", "energy backend: auto, pixel or accelerated")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.groupCommand())
	root.AddCommand(c.rowsCommand())
	root.AddCommand(c.columnsCommand())
	root.AddCommand(c.paletteCommand())

	return root
}

// setup applies logging flags and loads the configuration file
func (c *CLI) setup() error {
	logging.Init(c.stderr, c.verbose)

	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.cfg = cfg
		logging.DebugLog("Loaded configuration from %s", c.configPath)
	}
	if c.backend != "" {
		c.cfg.Backend = c.backend
	}
	if c.logFile == "" {
		c.logFile = c.cfg.LogFile
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	if c.logFile != "" {
		if err := logging.SetupLogger(c.logFile); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the CLI with os.Args
func Execute(ctx context.Context) error {
	return New(os.Stdout, os.Stderr).RootCommand().ExecuteContext(ctx)
}
