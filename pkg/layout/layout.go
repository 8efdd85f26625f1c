// Package layout implements a layered drawing pipeline for compound directed
// graphs.
//
// The pipeline follows the classic Sugiyama phases, extended with the
// containment machinery compound graphs need:
//
//  1. break edge cycles by reversing back edges
//  2. insert nesting constraints so cluster content stays inside its frame
//  3. assign ranks by longest path (Kahn's algorithm)
//  4. subdivide long edges into per-rank virtual nodes
//  5. order each rank by the median heuristic with transpose refinement,
//     keeping every cluster contiguous
//  6. assign coordinates by the priority method
//  7. route edges through their virtual node positions
//  8. transform the geometry into the requested direction
//
// A run is a pure function of the graph and configuration: the input graph
// is never mutated, identical inputs produce identical results, and a
// cancelled run returns [ErrCancelled] without surfacing partial geometry.
package layout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antopio26/graph-js/pkg/graph"
)

// ErrCancelled is returned when a layout run is cut short through its
// context. It is a distinct outcome, not a structural failure: the input was
// valid, the work was abandoned, and any previously computed Result stays
// valid at the caller.
var ErrCancelled = errors.New("layout cancelled")

// Run computes a complete layout for g under the given configuration. It
// returns either a fully assembled Result or an error, never partial
// geometry.
func Run(ctx context.Context, g *graph.Graph, cfg Config) (*Result, error) {
	start := time.Now()
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	if g.NodeCount() == 0 {
		return emptyResult(), nil
	}
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}

	w, err := build(g, cfg)
	if err != nil {
		return nil, err
	}

	reversed := w.breakCycles()
	w.buildNesting()
	w.assignRanks()
	w.cleanupNesting()
	w.normalizeRanks()
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}

	virtual := w.subdivide()
	w.addBorderSegments()
	if err := w.order(ctx); err != nil {
		return nil, err
	}
	if err := w.position(ctx); err != nil {
		return nil, err
	}

	w.route()
	w.applyDirection()
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}
	return w.collect(reversed, virtual, time.Since(start)), nil
}

func emptyResult() *Result {
	return &Result{
		Nodes:    map[string]NodePlacement{},
		Clusters: map[string]ClusterPlacement{},
		Edges:    map[string]EdgePath{},
	}
}

// collect freezes the working state into the public Result.
func (w *working) collect(reversed, virtual int, elapsed time.Duration) *Result {
	res := &Result{
		Nodes:    make(map[string]NodePlacement),
		Clusters: make(map[string]ClusterPlacement, len(w.boxes)),
		Edges:    make(map[string]EdgePath, len(w.paths)),
		Size:     w.size,
		Stats: Stats{
			Ranks:         len(w.ranks),
			Crossings:     w.crossings,
			VirtualNodes:  virtual,
			ReversedEdges: reversed,
			Duration:      elapsed,
		},
	}
	for _, n := range w.nodes {
		if n.virtual || n.border {
			continue
		}
		res.Nodes[n.id] = NodePlacement{X: n.x, Y: n.y, W: n.w, H: n.h, Rank: n.rank, Order: n.order}
	}
	for c, b := range w.boxes {
		res.Clusters[c] = ClusterPlacement{
			X:     (b.x1 + b.x2) / 2,
			Y:     (b.y1 + b.y2) / 2,
			W:     b.x2 - b.x1,
			H:     b.y2 - b.y1,
			Depth: w.clusterDepth[c],
		}
	}
	for id, p := range w.paths {
		res.Edges[id] = p
	}
	return res
}
