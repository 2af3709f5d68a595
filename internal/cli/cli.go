// Package cli implements the skewer command-line interface.
//
// The commands are thin wrappers over pkg/pipeline:
//   - layout: group, fold and pack a batch and write the layout JSON
//   - junctions: place a batch with the force strategy over a log y axis
//   - view: interactive track with pan, fold toggling and settle
//   - config: print the effective options as TOML
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skewer/pkg/buildinfo"
	"github.com/matzehuels/skewer/pkg/cache"
	"github.com/matzehuels/skewer/pkg/glyph"
	"github.com/matzehuels/skewer/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and cache scoping.
const appName = "skewer"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Skewer lays out crowded genome-browser feature tracks",
		Long:         `Skewer groups genomic features into glyphs, decides which of them fit the view, and packs them along the axis without overlap.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.junctionsCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.configCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Layouts are memoized for
// the lifetime of the process under an application-scoped key.
func (c *CLI) newRunner(entries int) *pipeline.Runner {
	var mc cache.Cache = cache.NewNullCache()
	if entries > 0 {
		mc = cache.NewMemoryCache(entries)
	}
	return pipeline.NewRunner(mc, cache.NewScopedKeyer(nil, appName+":"), c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// optionFlags are the flags shared by every command that lays out a batch.
type optionFlags struct {
	config string
	width  float64
	gap    float64
	pan    float64
	font   string
	strict bool
}

func (f *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML options file")
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width in pixels (default: width of the regions)")
	cmd.Flags().Float64Var(&f.gap, "gap", 0, "pixels between regions")
	cmd.Flags().Float64Var(&f.pan, "pan", 0, "shift the view by this many pixels")
	cmd.Flags().StringVar(&f.font, "font", "", "label measurer: approx, goregular")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on malformed features instead of dropping them")
}

// options loads the config file, if any, and applies the flags the user set.
func (f *optionFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if f.config != "" {
		var err error
		if opts, err = pipeline.LoadOptions(f.config); err != nil {
			return pipeline.Options{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		opts.Track.Viewport = glyph.NewViewport(f.width)
	}
	if flags.Changed("gap") {
		opts.Gap = f.gap
	}
	if flags.Changed("pan") {
		opts.Pan = f.pan
	}
	if flags.Changed("font") {
		opts.Font = f.font
	}
	if flags.Changed("strict") {
		opts.Track.Group.Strict = f.strict
	}
	return opts, nil
}
