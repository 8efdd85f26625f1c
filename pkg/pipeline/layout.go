package pipeline

import (
	"bytes"
	"context"

	"github.com/antopio26/graph-js/pkg/graph"
	"github.com/antopio26/graph-js/pkg/graphio"
	"github.com/antopio26/graph-js/pkg/layout"
)

// Layouter computes node placements for a graph. Implementations must be
// safe for concurrent use.
type Layouter interface {
	Layout(ctx context.Context, g *graph.Graph, cfg layout.Config) (*layout.Result, error)
}

// EngineLayouter runs the built-in layout engine.
type EngineLayouter struct{}

// Layout implements Layouter.
func (EngineLayouter) Layout(ctx context.Context, g *graph.Graph, cfg layout.Config) (*layout.Result, error) {
	return layout.Run(ctx, g, cfg)
}

// encodeLayoutForCache serializes a layout result with the wall-clock
// duration zeroed out. Identical layouts must hash identically, and the
// duration is the one field that varies between otherwise equal runs.
func encodeLayoutForCache(res *layout.Result) ([]byte, error) {
	stable := *res
	stable.Stats.Duration = 0
	var buf bytes.Buffer
	if err := graphio.WriteLayoutJSON(&stable, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
