package interact

import (
	"sort"

	"github.com/antopio26/graph-js/pkg/compose"
	"github.com/antopio26/graph-js/pkg/curve"
)

// Index is a spatial lookup over a rendered scene. It is immutable once
// built, so it can be shared across goroutines.
type Index struct {
	nodes []nodeEntry // painter's order: later entries are on top
	edges []edgeEntry // sorted by id
}

type nodeEntry struct {
	id   string
	box  compose.Rect
	rows []compose.RowHit
}

type edgeEntry struct {
	id   string
	path curve.Path
}

// BuildIndex flattens node fragments and edge hit paths into an index.
// Fragments must come in painter's order; nested node fragments land on top
// of their host and win hits inside their frames.
func BuildIndex(fragments []*compose.Fragment, edges map[string]curve.Path) *Index {
	idx := &Index{}
	for _, f := range fragments {
		idx.addFragment(f)
	}

	ids := make([]string, 0, len(edges))
	for id := range edges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		idx.edges = append(idx.edges, edgeEntry{id: id, path: edges[id]})
	}
	return idx
}

func (idx *Index) addFragment(f *compose.Fragment) {
	if f == nil {
		return
	}
	if f.NodeID != "" {
		idx.nodes = append(idx.nodes, nodeEntry{id: f.NodeID, box: f.Box, rows: f.Rows})
	}
	for _, nf := range f.Nested {
		idx.addFragment(nf)
	}
}

// Hit resolves the topmost target under the point. Priority: a property row
// beats its node, any node beats any edge, and among overlapping nodes the
// one painted last wins.
func (idx *Index) Hit(pt curve.Point) Target {
	for i := len(idx.nodes) - 1; i >= 0; i-- {
		n := idx.nodes[i]
		if !n.box.Contains(pt.X, pt.Y) {
			continue
		}
		for _, r := range n.rows {
			if r.Rect.Contains(pt.X, pt.Y) {
				return RowTarget(n.id, r.Index)
			}
		}
		return NodeTarget(n.id)
	}
	for _, e := range idx.edges {
		if e.path.HitTest(pt) {
			return EdgeTarget(e.id)
		}
	}
	return None()
}
