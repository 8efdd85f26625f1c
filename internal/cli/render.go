package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/pipeline"
)

// renderCommand creates the render command running the full pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [spec.json]",
		Short: "Render a graph spec to SVG, PNG, PDF or JSON",
		Long: `Render a graph spec to SVG, PNG, PDF or JSON.

The render command runs the full pipeline: it builds the graph from the spec,
composes and measures node content, computes the layered layout, and writes
the requested output formats next to the input file (or to --output).

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if opts.Style != "" {
				if err := pipeline.ValidateStyle(opts.Style); err != nil {
					return err
				}
			}
			if err := pipeline.ValidateDirection(opts.Direction); err != nil {
				return err
			}
			if output != "" {
				if err := errors.ValidateOutputPath(output); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args[0], opts, output)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute all stages, ignoring cached entries")

	// Render flags
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: simple (default), blueprint")
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "padding around the drawing")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", false, "embed hover and selection behavior in the SVG")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "raster scale factor for PNG output")

	// Layout flags
	layoutFlags(cmd, &opts)

	return cmd
}

// runRender executes the pipeline and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	applyConfig(&opts, c.Config)
	opts.SpecPath = input
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(input)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render %s: %w", input, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	}); err != nil {
		return err
	}

	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, len(result.Graph.Clusters()), result.CacheInfo.RenderHit)
	printNewline()
	printNextStep("Inspect", appName+" inspect "+input)

	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams bundles the inputs to writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes the rendered formats to disk and prints one line per
// file. With a single format the --output path is used as-is; with several,
// the extension-stripped base names the family of files.
func writeArtifacts(p artifactWriteParams) error {
	base := basePath(p.output, p.input)

	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := p.output
		if path == "" || len(p.formats) > 1 {
			path = base + "." + format
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// An empty output falls back to the input with its extension stripped; an
// output that already names a format keeps only its stem.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
