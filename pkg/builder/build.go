package builder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/antopio26/graph-js/pkg/compose"
	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graph"
)

// idNamespace seeds v5 uuids for elements the author left unnamed. IDs are
// derived from the element's position in the spec, so repeated builds of the
// same spec produce the same graph and content-addressed cache keys stay
// stable across runs.
var idNamespace = uuid.MustParse("c0d98e47-2a5b-4d11-9c6e-3f14a8b0e7d2")

func deriveID(path string) string {
	return uuid.NewSHA1(idNamespace, []byte(path)).String()
}

// Build validates a spec and constructs the graph together with the block
// tree for every top-level node, keyed by node ID. The returned blocks are
// unmeasured; run them through [compose.MeasureAll] before layout.
//
// Build does not modify spec: generated IDs appear only in the results.
func Build(ctx context.Context, spec *Spec, opts ...compose.Option) (*graph.Graph, map[string]*compose.NodeBlock, error) {
	if spec == nil {
		return nil, nil, errors.New(errors.ErrCodeInvalidSpec, "nil spec")
	}

	g := graph.New()
	clusters := make([]ClusterSpec, len(spec.Clusters))
	for i, c := range spec.Clusters {
		if c.ID == "" {
			c.ID = deriveID(fmt.Sprintf("clusters/%d", i))
		} else if err := errors.ValidateNodeID(c.ID); err != nil {
			return nil, nil, err
		}
		clusters[i] = c
		if err := g.AddNode(graph.Node{ID: c.ID, Label: c.Label}); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "cluster %s", c.ID)
		}
	}

	nodes := make([]NodeSpec, len(spec.Nodes))
	for i, n := range spec.Nodes {
		if n.ID == "" {
			n.ID = deriveID(fmt.Sprintf("nodes/%d", i))
		} else if err := errors.ValidateNodeID(n.ID); err != nil {
			return nil, nil, err
		}
		nodes[i] = n
		if err := g.AddNode(graph.Node{ID: n.ID, Label: n.Label, W: n.Width, H: n.Height}); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "node %s", n.ID)
		}
	}

	// Membership lists first, explicit Parent fields second, so the field
	// wins when both name the same node.
	for _, c := range clusters {
		for _, child := range c.Children {
			if err := g.SetParent(child, c.ID); err != nil {
				return nil, nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "cluster %s member %s", c.ID, child)
			}
		}
	}
	for _, n := range nodes {
		if n.Parent == "" {
			continue
		}
		if err := g.SetParent(n.ID, n.Parent); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "node %s parent", n.ID)
		}
	}

	for _, e := range spec.Edges {
		switch e.LabelSide {
		case "", "left", "right", "center":
		default:
			return nil, nil, errors.New(errors.ErrCodeInvalidSpec,
				"edge %s->%s: label side %q (must be left, right or center)", e.From, e.To, e.LabelSide)
		}
		if e.LabelOffset < 0 {
			return nil, nil, errors.New(errors.ErrCodeInvalidSpec,
				"edge %s->%s: label offset cannot be negative", e.From, e.To)
		}
		edge := graph.Edge{
			ID:          e.ID,
			From:        e.From,
			To:          e.To,
			Label:       e.Label,
			LabelSide:   e.LabelSide,
			LabelOffset: e.LabelOffset,
			MinLen:      e.MinLen,
			Weight:      e.Weight,
		}
		if _, err := g.AddEdge(edge); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "edge %s->%s", e.From, e.To)
		}
	}

	blocks := make(map[string]*compose.NodeBlock, len(nodes))
	for i, n := range nodes {
		content := cloneContent(compose.NodeSpec{
			ID:         n.ID,
			Label:      n.Label,
			Header:     n.Header,
			Properties: n.Properties,
			Canvas:     n.Canvas,
		})
		fillNestedIDs(&content, fmt.Sprintf("nodes/%d", i))
		nb, err := compose.Compose(ctx, content, opts...)
		if err != nil {
			return nil, nil, err
		}
		blocks[n.ID] = nb
	}

	return g, blocks, nil
}

// cloneContent deep-copies a content spec so generated IDs never leak back
// into the caller's spec.
func cloneContent(spec compose.NodeSpec) compose.NodeSpec {
	out := spec
	if spec.Header != nil {
		h := *spec.Header
		out.Header = &h
	}
	if len(spec.Properties) > 0 {
		out.Properties = make([]compose.PropertySpec, len(spec.Properties))
		for i, p := range spec.Properties {
			if p.Node != nil {
				n := cloneContent(*p.Node)
				p.Node = &n
			}
			out.Properties[i] = p
		}
	}
	if spec.Canvas != nil {
		cv := *spec.Canvas
		if len(spec.Canvas.Children) > 0 {
			cv.Children = make([]compose.CanvasChildSpec, len(spec.Canvas.Children))
			for i, ch := range spec.Canvas.Children {
				ch.Node = cloneContent(ch.Node)
				cv.Children[i] = ch
			}
		}
		out.Canvas = &cv
	}
	return out
}

// fillNestedIDs assigns uuids to nested content nodes so their fragments stay
// addressable for hit testing even when the author left the IDs off.
func fillNestedIDs(spec *compose.NodeSpec, path string) {
	if spec.ID == "" {
		spec.ID = deriveID(path)
	}
	for i := range spec.Properties {
		if spec.Properties[i].Node != nil {
			fillNestedIDs(spec.Properties[i].Node, fmt.Sprintf("%s/properties/%d", path, i))
		}
	}
	if spec.Canvas != nil {
		for i := range spec.Canvas.Children {
			fillNestedIDs(&spec.Canvas.Children[i].Node, fmt.Sprintf("%s/canvas/%d", path, i))
		}
	}
}
