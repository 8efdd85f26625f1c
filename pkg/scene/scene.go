// Package scene assembles layout geometry and composed node content into a
// drawable scene and writes it out as standalone SVG.
//
// Painter's order is fixed: cluster frames first, then edges, then nodes, so
// nodes always sit on top of the lines that connect them. Everything is
// sorted before rendering; identical scenes serialize to identical bytes.
package scene

import (
	"sort"

	"github.com/antopio26/graph-js/pkg/compose"
	"github.com/antopio26/graph-js/pkg/curve"
	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graph"
	"github.com/antopio26/graph-js/pkg/layout"
)

// ClusterBox is one cluster frame with its resolved label.
type ClusterBox struct {
	ID    string  `json:"id" bson:"id"`
	Label string  `json:"label,omitempty" bson:"label,omitempty"`
	X     float64 `json:"x" bson:"x"` // top-left
	Y     float64 `json:"y" bson:"y"`
	W     float64 `json:"w" bson:"w"`
	H     float64 `json:"h" bson:"h"`
	Depth int     `json:"depth" bson:"depth"`
}

// EdgeDraw is one routed edge with its smoothed path and label anchor.
type EdgeDraw struct {
	ID       string      `json:"id" bson:"id"`
	Path     curve.Path  `json:"-" bson:"-"`
	Label    string      `json:"label,omitempty" bson:"label,omitempty"`
	Anchor   curve.Point `json:"anchor" bson:"anchor"`
	Reversed bool        `json:"reversed,omitempty" bson:"reversed,omitempty"`
	SelfLoop bool        `json:"self_loop,omitempty" bson:"self_loop,omitempty"`
}

// Scene is everything a sink needs to draw: sized, sorted, resolved.
type Scene struct {
	Size     layout.Size         `json:"size" bson:"size"`
	Clusters []ClusterBox        `json:"clusters,omitempty" bson:"clusters,omitempty"`
	Edges    []EdgeDraw          `json:"edges,omitempty" bson:"edges,omitempty"`
	Nodes    []*compose.Fragment `json:"nodes,omitempty" bson:"nodes,omitempty"`
}

// Assemble joins a layout result with composed fragments.
//
// Every placed node must have a fragment and every fragment a placement;
// a mismatch means the pipeline skipped a stage for some node and is
// reported as a precondition error rather than silently dropping content.
func Assemble(g *graph.Graph, res *layout.Result, fragments map[string]*compose.Fragment) (*Scene, error) {
	for id := range res.Nodes {
		if _, ok := fragments[id]; !ok {
			return nil, errors.New(errors.ErrCodeRenderPrecondition,
				"node %q was placed but never composed", id)
		}
	}
	for id := range fragments {
		if _, ok := res.Nodes[id]; !ok {
			return nil, errors.New(errors.ErrCodeRenderPrecondition,
				"node %q was composed but never placed", id)
		}
	}

	s := &Scene{Size: res.Size}

	for id, c := range res.Clusters {
		cb := ClusterBox{
			ID: id, X: c.X - c.W/2, Y: c.Y - c.H/2, W: c.W, H: c.H, Depth: c.Depth,
		}
		if n, ok := g.Node(id); ok {
			cb.Label = n.Label
		}
		s.Clusters = append(s.Clusters, cb)
	}
	// Outer frames first so nested frames paint on top of them.
	sort.Slice(s.Clusters, func(i, j int) bool {
		if s.Clusters[i].Depth != s.Clusters[j].Depth {
			return s.Clusters[i].Depth < s.Clusters[j].Depth
		}
		return s.Clusters[i].ID < s.Clusters[j].ID
	})

	for id, p := range res.Edges {
		points := make([]curve.Point, len(p.Points))
		for i, pt := range p.Points {
			points[i] = curve.Point{X: pt.X, Y: pt.Y}
		}
		path := curve.Build(points)
		ed := EdgeDraw{
			ID:       id,
			Path:     path,
			Anchor:   path.LabelAnchor(),
			Reversed: p.Reversed,
			SelfLoop: p.SelfLoop,
		}
		if e, ok := g.Edge(id); ok {
			ed.Label = e.Label
			if e.LabelSide != "" {
				ed.Anchor = path.LabelAnchorOffset(curve.LabelSide(e.LabelSide), e.LabelOffset)
			}
		}
		s.Edges = append(s.Edges, ed)
	}
	sort.Slice(s.Edges, func(i, j int) bool { return s.Edges[i].ID < s.Edges[j].ID })

	ids := make([]string, 0, len(fragments))
	for id := range fragments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s.Nodes = append(s.Nodes, fragments[id])
	}

	return s, nil
}
