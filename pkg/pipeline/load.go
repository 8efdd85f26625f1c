package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/antopio26/graph-js/pkg/builder"
	"github.com/antopio26/graph-js/pkg/cache"
	"github.com/antopio26/graph-js/pkg/compose"
	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graph"
	"github.com/antopio26/graph-js/pkg/graphio"
	"github.com/antopio26/graph-js/pkg/observability"
)

// Loaded carries the load stage's outputs to the layout and render stages.
type Loaded struct {
	Spec  *builder.Spec
	Graph *graph.Graph

	// Blocks holds the measured block tree per top-level node. It is nil
	// when the graph came from the cache; EnsureBlocks rebuilds it on
	// demand.
	Blocks map[string]*compose.NodeBlock

	// GraphData is the canonical graph document, GraphHash its content
	// hash. Layout cache keys derive from the hash.
	GraphData []byte
	GraphHash string
}

// resolveSpec picks the spec source. A decoded Spec wins over the inline
// document, which wins over the file path.
func resolveSpec(opts *Options) (*builder.Spec, error) {
	switch {
	case opts.Spec != nil:
		return opts.Spec, nil
	case len(opts.SpecJSON) > 0:
		return builder.ReadSpec(bytes.NewReader(opts.SpecJSON))
	case opts.SpecPath != "":
		return builder.LoadSpec(opts.SpecPath)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "a spec is required: set Spec, SpecJSON or SpecPath")
}

// load builds the graph and block trees from a spec and measures everything.
func (r *Runner) load(ctx context.Context, spec *builder.Spec, opts Options) (*Loaded, error) {
	hooks := observability.Pipeline()

	start := time.Now()
	hooks.OnLoadStart(ctx)
	g, blocks, err := builder.Build(ctx, spec)
	if err != nil {
		hooks.OnLoadComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)

	composeStart := time.Now()
	hooks.OnComposeStart(ctx, len(blocks))
	if err := measureAndSize(g, blocks, measurer(opts)); err != nil {
		hooks.OnComposeComplete(ctx, time.Since(composeStart), err)
		return nil, err
	}
	hooks.OnComposeComplete(ctx, time.Since(composeStart), nil)

	data, err := encodeGraph(g)
	if err != nil {
		return nil, err
	}

	return &Loaded{
		Spec:      spec,
		Graph:     g,
		Blocks:    blocks,
		GraphData: data,
		GraphHash: cache.Hash(data),
	}, nil
}

// EnsureBlocks fills in ld.Blocks when the load stage answered from the
// cache. Builds are deterministic, so the rebuilt trees line up with the
// placements the cached graph was laid out with.
func (r *Runner) EnsureBlocks(ctx context.Context, ld *Loaded, opts Options) error {
	if ld.Blocks != nil {
		return nil
	}
	_, blocks, err := builder.Build(ctx, ld.Spec)
	if err != nil {
		return err
	}
	if err := compose.MeasureAll(measurer(opts), blockRoots(blocks)...); err != nil {
		return err
	}
	ld.Blocks = blocks
	return nil
}

// measureAndSize measures every block tree and writes the resulting sizes
// back onto the graph. A node's spec-level width and height act as minimums
// on top of the measured content size.
func measureAndSize(g *graph.Graph, blocks map[string]*compose.NodeBlock, m compose.TextMeasurer) error {
	if err := compose.MeasureAll(m, blockRoots(blocks)...); err != nil {
		return err
	}
	for id, nb := range blocks {
		min := nb.MinSize()
		w, h := min.W, min.H
		if n, ok := g.Node(id); ok {
			if n.W > w {
				w = n.W
			}
			if n.H > h {
				h = n.H
			}
		}
		if err := g.SetSize(id, w, h); err != nil {
			return err
		}
	}
	return nil
}

// measurer resolves the text measurer for a run.
func measurer(opts Options) compose.TextMeasurer {
	if opts.Measurer != nil {
		return opts.Measurer
	}
	return compose.Metrics{}
}

func blockRoots(blocks map[string]*compose.NodeBlock) []*compose.NodeBlock {
	roots := make([]*compose.NodeBlock, 0, len(blocks))
	for _, nb := range blocks {
		roots = append(roots, nb)
	}
	return roots
}

// encodeGraph serializes the graph into its canonical document form, which
// doubles as the cached representation and the input to the graph hash.
func encodeGraph(g *graph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := graphio.WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
