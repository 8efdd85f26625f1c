package layout

import (
	"context"
	"sort"
)

// orderState holds the unit-segment adjacency used by the ordering and
// coordinate phases. After subdivision every segment spans exactly one rank,
// so "up" and "down" are complete neighbor relations.
type orderState struct {
	up   map[*node][]*node
	down map[*node][]*node
}

// order arranges each rank left to right to reduce edge crossings.
//
// It runs the classic median heuristic with adjacent-exchange refinement:
// alternating downward and upward sweeps re-sort every rank by the median
// position of its neighbors in the fixed rank, then transpose swaps adjacent
// pairs while that lowers the crossing count. The best ordering seen across
// all sweeps wins.
//
// Cluster contiguity is enforced on every re-sort: nodes of a cluster move as
// one group at each nesting level, with the left and right border markers
// pinned to the group's edges, so a cluster can never interleave with
// unrelated nodes.
func (w *working) order(ctx context.Context) error {
	st := w.initOrder()
	w.adj = st
	if len(w.ranks) < 2 {
		return nil
	}

	best := w.snapshotOrder()
	bestCross := countTotalCrossings(w.ranks, st.down)

	for sweep := 0; sweep < w.cfg.Sweeps && bestCross > 0; sweep++ {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		w.medianSweep(st, sweep%2 == 0)
		w.transpose(st)
		if c := countTotalCrossings(w.ranks, st.down); c < bestCross {
			bestCross = c
			best = w.snapshotOrder()
		}
	}

	w.restoreOrder(best)
	w.crossings = bestCross
	return nil
}

// initOrder builds the segment adjacency and an initial ordering: creation
// order, grouped once so every cluster starts out contiguous.
func (w *working) initOrder() *orderState {
	st := &orderState{
		up:   make(map[*node][]*node),
		down: make(map[*node][]*node),
	}
	for _, e := range w.edges {
		seq := make([]*node, 0, len(e.chain)+2)
		seq = append(seq, e.from)
		seq = append(seq, e.chain...)
		seq = append(seq, e.to)
		for i := 0; i+1 < len(seq); i++ {
			a, b := seq[i], seq[i+1]
			if a.rank == b.rank {
				continue
			}
			st.down[a] = append(st.down[a], b)
			st.up[b] = append(st.up[b], a)
		}
	}

	w.ranks = make([][]*node, w.rankCount())
	for _, n := range w.nodes {
		w.ranks[n.rank] = append(w.ranks[n.rank], n)
	}
	for r := range w.ranks {
		w.ranks[r] = w.sortRankUnits(w.ranks[r], nil)
		for i, n := range w.ranks[r] {
			n.order = i
		}
	}
	return st
}

// medianSweep re-sorts every rank against its already-visited neighbor rank.
func (w *working) medianSweep(st *orderState, downward bool) {
	if downward {
		for r := 1; r < len(w.ranks); r++ {
			w.reorderRank(r, st.up)
		}
		return
	}
	for r := len(w.ranks) - 2; r >= 0; r-- {
		w.reorderRank(r, st.down)
	}
}

func (w *working) reorderRank(r int, adj map[*node][]*node) {
	keys := make(map[*node]float64, len(w.ranks[r]))
	for _, n := range w.ranks[r] {
		keys[n] = medianValue(adj[n])
	}
	w.ranks[r] = w.sortRankUnits(w.ranks[r], keys)
	for i, n := range w.ranks[r] {
		n.order = i
	}
}

// medianValue returns the median neighbor position, with the weighted
// interpolation for even counts that biases toward the side where the
// neighbors bunch up. Returns -1 when there are no neighbors, which means
// "keep the current position".
func medianValue(neighbors []*node) float64 {
	if len(neighbors) == 0 {
		return -1
	}
	p := make([]int, len(neighbors))
	for i, n := range neighbors {
		p[i] = n.order
	}
	sort.Ints(p)
	m := len(p) / 2
	switch {
	case len(p)%2 == 1:
		return float64(p[m])
	case len(p) == 2:
		return float64(p[0]+p[1]) / 2
	default:
		left := float64(p[m-1] - p[0])
		right := float64(p[len(p)-1] - p[m])
		if left+right == 0 {
			return float64(p[m-1]+p[m]) / 2
		}
		return (float64(p[m-1])*right + float64(p[m])*left) / (left + right)
	}
}

// sortRankUnits reorders one rank by the given keys while keeping every
// cluster's nodes contiguous. A nil keys map keeps the current order and only
// applies the grouping.
func (w *working) sortRankUnits(nodes []*node, keys map[*node]float64) []*node {
	pos := make(map[*node]int, len(nodes))
	for i, n := range nodes {
		pos[n] = i
	}
	return w.sortLevel(nodes, 0, keys, pos)
}

// sortLevel sorts the movable units at one nesting level: bare nodes that
// live directly at this level, and whole nested cluster groups that recurse.
// A unit's key is the mean of its members' keys; units with no key keep
// their current mean position. Border markers pin to the group edges.
func (w *working) sortLevel(nodes []*node, level int, keys map[*node]float64, pos map[*node]int) []*node {
	if len(nodes) <= 1 {
		return nodes
	}

	type unit struct {
		cluster  string // "" for a bare node
		nodes    []*node
		key      float64
		pinLeft  bool
		pinRight bool
	}
	var units []*unit
	byCluster := make(map[string]*unit)

	for _, n := range nodes {
		path := w.clusterPath(n.cluster)
		if len(path) > level {
			name := path[level]
			u, ok := byCluster[name]
			if !ok {
				u = &unit{cluster: name}
				byCluster[name] = u
				units = append(units, u)
			}
			u.nodes = append(u.nodes, n)
		} else {
			units = append(units, &unit{nodes: []*node{n}, pinLeft: n.bLeft, pinRight: n.bRight})
		}
	}

	for _, u := range units {
		keySum, keyN := 0.0, 0
		posSum := 0.0
		for _, n := range u.nodes {
			posSum += float64(pos[n])
			if keys != nil {
				if k := keys[n]; k >= 0 {
					keySum += k
					keyN++
				}
			}
		}
		if keyN > 0 {
			u.key = keySum / float64(keyN)
		} else {
			u.key = posSum / float64(len(u.nodes))
		}
	}

	sort.SliceStable(units, func(a, b int) bool { return units[a].key < units[b].key })

	var front, mid, back []*unit
	for _, u := range units {
		switch {
		case u.pinLeft:
			front = append(front, u)
		case u.pinRight:
			back = append(back, u)
		default:
			mid = append(mid, u)
		}
	}
	units = append(append(front, mid...), back...)

	out := make([]*node, 0, len(nodes))
	for _, u := range units {
		if u.cluster != "" {
			u.nodes = w.sortLevel(u.nodes, level+1, keys, pos)
		}
		out = append(out, u.nodes...)
	}
	return out
}

// transpose swaps adjacent same-group pairs while a swap reduces the local
// crossing count. Bounded passes: the heuristic converges fast and the exact
// fixpoint is not worth the tail.
func (w *working) transpose(st *orderState) {
	for pass := 0; pass < 4; pass++ {
		improved := false
		for r := range w.ranks {
			rank := w.ranks[r]
			for i := 0; i+1 < len(rank); i++ {
				v, x := rank[i], rank[i+1]
				if v.border || x.border || v.cluster != x.cluster {
					continue
				}
				if pairCrossings(x, v, st) < pairCrossings(v, x, st) {
					rank[i], rank[i+1] = x, v
					v.order, x.order = i+1, i
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

// pairCrossings counts the crossings caused by placing a directly left of b,
// looking at both neighbor ranks.
func pairCrossings(a, b *node, st *orderState) int {
	return countInversions(st.up[a], st.up[b]) + countInversions(st.down[a], st.down[b])
}

func countInversions(left, right []*node) int {
	c := 0
	for _, l := range left {
		for _, r := range right {
			if l.order > r.order {
				c++
			}
		}
	}
	return c
}

func (w *working) snapshotOrder() [][]*node {
	s := make([][]*node, len(w.ranks))
	for r := range w.ranks {
		s[r] = append([]*node(nil), w.ranks[r]...)
	}
	return s
}

func (w *working) restoreOrder(s [][]*node) {
	w.ranks = s
	for _, rank := range s {
		for i, n := range rank {
			n.order = i
		}
	}
}
