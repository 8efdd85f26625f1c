package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/antopio26/graph-js/pkg/graph"
	"github.com/antopio26/graph-js/pkg/layout"
	"github.com/antopio26/graph-js/pkg/pipeline"
)

// progressLayouter wraps the built-in layout engine with progress logging.
// It reports what is about to run, how long it took, and advice when the
// result still has edge crossings. The wrapper keeps no state between calls,
// so it stays safe for concurrent use as pipeline.Layouter requires.
type progressLayouter struct {
	pipeline.EngineLayouter
	Logger *log.Logger
}

// Layout runs the engine and logs the outcome.
func (p *progressLayouter) Layout(ctx context.Context, g *graph.Graph, cfg layout.Config) (*layout.Result, error) {
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Debugf("Computing %s layout: %d nodes, %d sweeps", cfg.Direction, g.NodeCount(), cfg.Sweeps)

	prog := newProgress(logger)
	res, err := p.EngineLayouter.Layout(ctx, g, cfg)
	if err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Layout complete: %d crossings", res.Stats.Crossings))
	if res.Stats.Crossings > 0 {
		logger.Warn("Layout has edge crossings; try increasing the sweep count (--sweeps)")
	}
	return res, nil
}
