package layout

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/antopio26/graph-js/pkg/graph"
)

// Engine is a reusable facade around Run: a fixed configuration plus a
// logger. It holds no per-run state and is safe for concurrent use.
type Engine struct {
	cfg Config
	log *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the whole configuration at once.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithDirection sets the drawing direction.
func WithDirection(d Direction) Option {
	return func(e *Engine) { e.cfg.Direction = d }
}

// WithNodeSep sets the minimum gap between nodes in a rank.
func WithNodeSep(v float64) Option {
	return func(e *Engine) { e.cfg.NodeSep = v }
}

// WithRankSep sets the minimum gap between ranks.
func WithRankSep(v float64) Option {
	return func(e *Engine) { e.cfg.RankSep = v }
}

// WithEdgeSep sets the minimum gap between edge lanes.
func WithEdgeSep(v float64) Option {
	return func(e *Engine) { e.cfg.EdgeSep = v }
}

// WithMargin sets the outer margin of the drawing.
func WithMargin(v float64) Option {
	return func(e *Engine) { e.cfg.Margin = v }
}

// WithClusterMargin sets the padding between a cluster frame and its content.
func WithClusterMargin(v float64) Option {
	return func(e *Engine) { e.cfg.ClusterMargin = v }
}

// WithSweeps sets the number of ordering refinement iterations.
func WithSweeps(n int) Option {
	return func(e *Engine) { e.cfg.Sweeps = n }
}

// WithLogger attaches a logger. The default engine is silent.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates an engine with the given options applied over defaults.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{log: log.New(io.Discard)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns a copy of the engine's configuration with defaults filled
// in.
func (e *Engine) Config() Config {
	cfg := e.cfg
	cfg.Normalize()
	return cfg
}

// Layout runs the pipeline for g. The engine retains neither the graph nor
// the result, so callers keep ownership of previous results across
// cancelled or failed runs.
func (e *Engine) Layout(ctx context.Context, g *graph.Graph) (*Result, error) {
	res, err := Run(ctx, g, e.cfg)
	if err != nil {
		if err == ErrCancelled {
			e.log.Debug("layout cancelled", "nodes", g.NodeCount())
		}
		return nil, err
	}
	e.log.Debug("layout complete",
		"nodes", len(res.Nodes),
		"ranks", res.Stats.Ranks,
		"crossings", res.Stats.Crossings,
		"duration", res.Stats.Duration,
	)
	return res, nil
}
