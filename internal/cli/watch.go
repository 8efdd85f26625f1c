package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/pipeline"
)

// watchCommand creates the watch command re-rendering on spec changes.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		debounce   time.Duration
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "watch [spec.json]",
		Short: "Re-render whenever the spec file changes",
		Long: `Re-render whenever the spec file changes.

The watch command renders once, then keeps watching the spec file and
re-renders after each save. Rapid bursts of writes are coalesced by the
debounce window, and a broken intermediate save is reported without
stopping the loop. Stop with Ctrl-C.`,
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
			if output != "" {
				if err := errors.ValidateOutputPath(output); err != nil {
					return err
				}
			}
			return c.runWatch(cmd.Context(), args[0], opts, output, debounce)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: simple (default), blueprint")
	cmd.Flags().DurationVar(&debounce, "debounce", 250*time.Millisecond, "delay before re-rendering after a change")
	layoutFlags(cmd, &opts)

	return cmd
}

// runWatch renders once, then re-renders after each change to the spec file.
// The first render failing aborts; later failures are reported and the loop
// keeps running so a half-saved spec does not kill the session.
func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options, output string, debounce time.Duration) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	applyConfig(&opts, c.Config)
	opts.SpecPath = input
	opts.Logger = c.Logger

	if err := c.renderOnce(ctx, runner, opts, input, output); err != nil {
		return fmt.Errorf("render %s: %w", input, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors write a temp file and
	// rename it over the original, which drops a file-level watch.
	dir := filepath.Dir(input)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	printNewline()
	printInfo("Watching %s", input)
	printDetail("Press Ctrl-C to stop")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			printNewline()
			printInfo("Stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !specChanged(event, input) {
				continue
			}
			c.Logger.Debug("spec changed", "op", event.Op.String())
			pending = time.After(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "error", err)
		case <-pending:
			pending = nil
			if err := c.renderOnce(ctx, runner, opts, input, output); err != nil {
				printError("Render failed: %v", err)
			}
		}
	}
}

// renderOnce runs the pipeline and rewrites the artifacts.
func (c *CLI) renderOnce(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, input, output string) error {
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
}

// specChanged reports whether the event is a content change of the watched
// file. Creates and renames count: editors often replace the file instead of
// writing it in place.
func specChanged(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}
