package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graphio"
	"github.com/antopio26/graph-js/pkg/pipeline"
)

// layoutCommand creates the layout command for computing placements only.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [spec.json]",
		Short: "Compute node and edge placements for a graph spec",
		Long: `Compute node and edge placements for a graph spec.

The layout command runs the build and layout stages and writes the result as
a JSON layout document: node boxes, cluster frames, edge polylines and the
drawing size. The document can be diffed between runs or fed to other
tooling; 'render -f json' produces the same format.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateDirection(opts.Direction); err != nil {
				return err
			}
			if output != "" {
				if err := errors.ValidateOutputPath(output); err != nil {
					return err
				}
			}
			return c.runLayout(cmd.Context(), args[0], opts, output)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute all stages, ignoring cached entries")

	// Layout flags
	layoutFlags(cmd, &opts)

	return cmd
}

// runLayout builds the graph, computes the layout, and writes the document.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	applyConfig(&opts, c.Config)
	opts.SpecPath = input
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	ld, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load spec %s: %w", input, err)
	}
	res, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, ld, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := graphio.ExportLayoutJSON(res, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(ld.Graph.NodeCount(), ld.Graph.EdgeCount(), len(ld.Graph.Clusters()), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
