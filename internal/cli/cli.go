package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/antopio26/graph-js/pkg/buildinfo"
	"github.com/antopio26/graph-js/pkg/cache"
	"github.com/antopio26/graph-js/pkg/config"
	"github.com/antopio26/graph-js/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "graphjs"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	// Persistent flags, bound by RootCommand and applied in setup.
	configPath  string
	verbose     bool
	quiet       bool
	noCache     bool
	cacheDirArg string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. RootCommand's pre-run replaces the configuration when a
// file is found.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. Debug level also reports callers.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level == log.DebugLevel)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "graphjs lays out and renders compound graphs",
		Long:         `graphjs turns JSON graph specs into layered drawings: it composes node content, assigns ranks, reduces edge crossings, routes edges around cluster frames, and renders the result as SVG, PNG or PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "only log warnings and errors")
	flags.StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultFile+" if present)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	flags.StringVar(&c.cacheDirArg, "cache-dir", "", "cache directory (default: user cache dir)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies the persistent flags before any command runs.
func (c *CLI) setup() error {
	switch {
	case c.verbose:
		c.SetLogLevel(log.DebugLevel)
	case c.quiet:
		c.SetLogLevel(log.WarnLevel)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// loadConfig reads the --config file when given, falls back to graphjs.toml
// in the working directory, and otherwise keeps the built-in defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	if _, err := os.Stat(config.DefaultFile); err == nil {
		return config.Load(config.DefaultFile)
	}
	return config.Default(), nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner wired to the configured cache backend.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(backend, nil, c.Logger)
	runner.TTL = c.Config.Cache.TTL.Std()
	runner.Layouter = &progressLayouter{Logger: c.Logger}
	return runner, nil
}

// newCache builds the cache backend selected by the configuration. An
// unusable file cache degrades to no caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache || c.Config.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.Backend == "redis" {
		return cache.NewRedisCache(ctx, c.Config.Cache.URL)
	}
	fc, err := cache.NewFileCache(c.cacheDir())
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir resolves the file cache directory: the --cache-dir flag wins,
// then the [cache] dir setting, then the user cache directory.
func (c *CLI) cacheDir() string {
	if c.cacheDirArg != "" {
		return c.cacheDirArg
	}
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig fills options the command line left unset from the config file.
// File values still at their built-in defaults are skipped for the layout
// section, so a spec's own layout block is only overridden by an explicit
// file setting or a flag.
func applyConfig(opts *pipeline.Options, cfg *config.Config) {
	def := config.Default()
	if opts.Direction == "" && cfg.Layout.Direction != def.Layout.Direction {
		opts.Direction = cfg.Layout.Direction
	}
	if opts.NodeSep == 0 && cfg.Layout.NodeSep != def.Layout.NodeSep {
		opts.NodeSep = cfg.Layout.NodeSep
	}
	if opts.RankSep == 0 && cfg.Layout.RankSep != def.Layout.RankSep {
		opts.RankSep = cfg.Layout.RankSep
	}
	if opts.EdgeSep == 0 && cfg.Layout.EdgeSep != def.Layout.EdgeSep {
		opts.EdgeSep = cfg.Layout.EdgeSep
	}
	if opts.Margin == 0 && cfg.Layout.Margin != def.Layout.Margin {
		opts.Margin = cfg.Layout.Margin
	}
	if opts.ClusterMargin == 0 && cfg.Layout.ClusterMargin != def.Layout.ClusterMargin {
		opts.ClusterMargin = cfg.Layout.ClusterMargin
	}
	if opts.Sweeps == 0 && cfg.Layout.Sweeps != def.Layout.Sweeps {
		opts.Sweeps = cfg.Layout.Sweeps
	}
	if opts.Style == "" {
		opts.Style = cfg.Render.Style
	}
	if opts.Padding == 0 {
		opts.Padding = cfg.Render.Padding
	}
}

// layoutFlags registers the engine override flags shared by the commands
// that run the layout stage.
func layoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Direction, "direction", "d", "", "rank direction: TB (default), BT, LR, RL")
	cmd.Flags().Float64Var(&opts.NodeSep, "node-sep", 0, "minimum gap between nodes in a rank")
	cmd.Flags().Float64Var(&opts.RankSep, "rank-sep", 0, "gap between ranks")
	cmd.Flags().Float64Var(&opts.EdgeSep, "edge-sep", 0, "gap between parallel edge lanes")
	cmd.Flags().Float64Var(&opts.Margin, "margin", 0, "outer margin around the drawing")
	cmd.Flags().Float64Var(&opts.ClusterMargin, "cluster-margin", 0, "padding inside cluster frames")
	cmd.Flags().IntVar(&opts.Sweeps, "sweeps", 0, "crossing reduction sweeps")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
