package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skewer/pkg/pipeline"
)

// layoutCommand creates the layout command for packed tracks.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  optionFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [batch.json]",
		Short: "Group, fold and pack a feature track",
		Long: `Group, fold and pack a feature track.

The layout command reads a batch (regions, an optional coding transcript and
features), groups features into units, unfolds as many as fit the viewport and
packs them without overlap. Units that do not fit stay folded on a stack at
their genomic position. Use "-" to read the batch from stdin.

The output is a layout JSON with one placement per unit, including the
position each unit animates from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			opts.Strategy = pipeline.StrategyPack
			return c.runLayout(cmd.Context(), args[0], opts, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")

	return cmd
}

// junctionsCommand creates the junctions command for force-placed tracks.
func (c *CLI) junctionsCommand() *cobra.Command {
	var (
		flags  optionFlags
		output string
		iters  int
	)

	cmd := &cobra.Command{
		Use:   "junctions [batch.json]",
		Short: "Place features by force simulation over a log-scaled value",
		Long: `Place features by force simulation over a log-scaled value.

Each unit is pulled towards its genomic x and towards a height given by its
magnitude (for splice junctions, the supporting read count) on a log axis,
while discs push each other apart.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			opts.Strategy = pipeline.StrategyForce
			if cmd.Flags().Changed("iterations") {
				opts.Force.MaxIterations = iters
			}
			return c.runLayout(cmd.Context(), args[0], opts, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().IntVar(&iters, "iterations", 0, "upper bound on simulation ticks")

	return cmd
}

// runLayout loads the batch, computes the layout and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string) error {
	batch, err := pipeline.LoadBatch(input)
	if err != nil {
		return fmt.Errorf("load batch %s: %w", input, err)
	}

	runner := c.newRunner(opts.CacheEntries)
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, batch, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Laid out %d units", len(res.Layout.Units)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := layoutPath(input, output)
	if outputPath == "-" {
		return res.Layout.WriteJSON(os.Stdout)
	}
	if err := writeLayout(res.Layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	fmt.Println(statsLine(res.Layout.Stats, res.CacheInfo.LayoutHit))
	if res.Layout.Message != "" {
		printWarning("%s", res.Layout.Message)
	}
	fmt.Println()
	if input != "-" {
		printNextStep("Explore", appName+" view "+input)
	}
	return nil
}

// layoutPath derives the output path from the input unless one is given.
func layoutPath(input, output string) string {
	switch {
	case output != "":
		return output
	case input == "-":
		return "-"
	default:
		return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
}

func writeLayout(l pipeline.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := l.WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
