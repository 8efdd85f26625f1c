package layout

import (
	"fmt"

	"github.com/antopio26/graph-js/pkg/graph"
)

// node is the internal unit of the pipeline. It covers real leaf nodes,
// virtual subdivision points and cluster border markers.
type node struct {
	id      string
	w, h    float64
	rank    int
	order   int
	x, y    float64
	virtual bool   // subdivision point of a long edge
	border  bool   // cluster border marker (top/bottom/left/right)
	bLeft   bool   // left border segment, pinned to its group's left edge
	bRight  bool   // right border segment, pinned to its group's right edge
	cluster string // innermost enclosing cluster, "" at top level
	edgeID  string // for virtual nodes, the edge being subdivided
}

// edge is the internal form of a rankable edge. Self loops and edges that
// touch cluster frames never become rankable; they are routed separately.
type edge struct {
	id       string
	from, to *node
	minlen   int
	weight   float64
	reversed bool
	nesting  bool // containment constraint, removed after ranking
	chain    []*node
}

// frameEdge is an edge with at least one cluster endpoint. It constrains
// nothing; the router draws it between the finished boxes.
type frameEdge struct {
	id       string
	from, to string // node or cluster IDs
}

// working holds all mutable state of one layout run. It is built fresh per
// run, so the pipeline never mutates the caller's graph.
type working struct {
	cfg Config

	nodes []*node
	byID  map[string]*node
	edges []*edge // rankable edges, including nesting edges during ranking
	loops []*edge // self loops, routed after positioning
	frame []frameEdge

	ranks     [][]*node   // filled by ordering; ranks[r] is left to right
	adj       *orderState // unit-segment adjacency, filled by ordering
	crossings int         // crossing count of the chosen ordering

	clusters      []string // pre-order: parents before children
	clusterParent map[string]string
	clusterDepth  map[string]int
	clusterKids   map[string][]string // direct children, node or cluster IDs
	topLevel      []string            // parentless node and cluster IDs
	pathCache     map[string][]string // cluster -> chain from outermost to itself

	borderTop    map[string]*node
	borderBottom map[string]*node
	borderLeft   map[string][]*node // per content rank, top to bottom
	borderRight  map[string][]*node
	root         *node          // nesting root, removed after ranking
	boxes        map[string]box // cluster frames, filled by positioning
	size         Size           // total drawing extent including margins
	paths        map[string]EdgePath

	seq int // suffix for synthetic node IDs
}

// build constructs the working state from the model. For horizontal
// directions the node sizes arrive swapped; the direction pass swaps the
// computed coordinates back.
func build(g *graph.Graph, cfg Config) (*working, error) {
	w := &working{
		cfg:           cfg,
		byID:          make(map[string]*node),
		clusterParent: make(map[string]string),
		clusterDepth:  make(map[string]int),
		clusterKids:   make(map[string][]string),
		pathCache:     make(map[string][]string),
		borderTop:     make(map[string]*node),
		borderBottom:  make(map[string]*node),
	}

	swap := cfg.horizontal()
	for _, n := range g.Leaves() {
		nw, nh := n.W, n.H
		if swap {
			nw, nh = nh, nw
		}
		ln := &node{id: n.ID, w: nw, h: nh}
		if p, ok := g.Parent(n.ID); ok {
			ln.cluster = p
		}
		w.nodes = append(w.nodes, ln)
		w.byID[n.ID] = ln
	}

	// Clusters in pre-order so parents precede children everywhere.
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if !g.IsCluster(id) {
			return
		}
		w.clusters = append(w.clusters, id)
		w.clusterDepth[id] = depth
		w.clusterKids[id] = g.Children(id)
		if p, ok := g.Parent(id); ok {
			w.clusterParent[id] = p
		}
		for _, child := range g.Children(id) {
			walk(child, depth+1)
		}
	}
	w.topLevel = g.Roots()
	for _, root := range w.topLevel {
		walk(root, 0)
	}

	for _, e := range g.Edges() {
		switch {
		case e.From == e.To:
			w.loops = append(w.loops, &edge{id: e.ID, from: w.byID[e.From], to: w.byID[e.To]})
		case g.IsCluster(e.From) || g.IsCluster(e.To):
			w.frame = append(w.frame, frameEdge{id: e.ID, from: e.From, to: e.To})
		default:
			from, to := w.byID[e.From], w.byID[e.To]
			if from == nil || to == nil {
				return nil, fmt.Errorf("edge %s references missing node", e.ID)
			}
			w.edges = append(w.edges, &edge{
				id:     e.ID,
				from:   from,
				to:     to,
				minlen: e.MinLen,
				weight: e.Weight,
			})
		}
	}
	return w, nil
}

// clusterPath returns the cluster chain enclosing id, outermost first.
func (w *working) clusterPath(cluster string) []string {
	if cluster == "" {
		return nil
	}
	if p, ok := w.pathCache[cluster]; ok {
		return p
	}
	var chain []string
	for c := cluster; c != ""; c = w.clusterParent[c] {
		chain = append([]string{c}, chain...)
	}
	w.pathCache[cluster] = chain
	return chain
}

// lowestCommonCluster returns the innermost cluster containing both
// arguments, or "" when only the top level does.
func (w *working) lowestCommonCluster(a, b string) string {
	pa, pb := w.clusterPath(a), w.clusterPath(b)
	common := ""
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			break
		}
		common = pa[i]
	}
	return common
}

// newSyntheticID returns a fresh node ID that cannot collide with model IDs,
// which never contain the null byte.
func (w *working) newSyntheticID(kind string) string {
	w.seq++
	return fmt.Sprintf("\x00%s_%d", kind, w.seq)
}

// addNode registers a synthetic node.
func (w *working) addNode(n *node) *node {
	w.nodes = append(w.nodes, n)
	w.byID[n.id] = n
	return n
}
