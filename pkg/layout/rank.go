package layout

// assignRanks assigns every node to a horizontal rank based on its depth in
// the constraint graph.
//
// It uses a longest-path algorithm via topological sort (Kahn's algorithm).
// Each node is placed at the maximum of (source rank + edge minlen) over its
// incoming edges, ensuring that:
//   - nodes without incoming constraints are at rank 0
//   - every edge spans at least its minlen
//   - every cluster member lies strictly between its cluster's borders,
//     because nesting edges participate as ordinary constraints
//
// # Algorithm
//
//  1. Initialize all zero in-degree nodes at rank 0 and add to queue
//  2. Process queue: for each outgoing edge, raise the target to
//     max(current, rank + minlen)
//  3. Decrement in-degree counters; enqueue newly zero-degree nodes
//  4. Repeat until the queue is empty
//
// The edge set must be acyclic; breakCycles runs first.
func (w *working) assignRanks() {
	inDegree := make(map[*node]int, len(w.nodes))
	out := make(map[*node][]*edge, len(w.nodes))
	for _, e := range w.edges {
		out[e.from] = append(out[e.from], e)
		inDegree[e.to]++
	}

	queue := make([]*node, 0, len(w.nodes))
	for _, n := range w.nodes {
		n.rank = 0
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, e := range out[curr] {
			if r := curr.rank + e.minlen; r > e.to.rank {
				e.to.rank = r
			}
			inDegree[e.to]--
			if inDegree[e.to] == 0 {
				queue = append(queue, e.to)
			}
		}
	}
}

// normalizeRanks shifts all ranks so the smallest used rank becomes zero.
// Removing the nesting root leaves everything hanging one level down; a
// shift is the only correction needed, because after subdivision every
// remaining rank is occupied by a node, a border marker or an edge lane,
// and collapsing interior gaps would rob minlen edges of their span.
func (w *working) normalizeRanks() {
	if len(w.nodes) == 0 {
		return
	}
	min := w.nodes[0].rank
	for _, n := range w.nodes {
		if n.rank < min {
			min = n.rank
		}
	}
	if min == 0 {
		return
	}
	for _, n := range w.nodes {
		n.rank -= min
	}
}

// rankCount returns the number of occupied ranks.
func (w *working) rankCount() int {
	max := -1
	for _, n := range w.nodes {
		if n.rank > max {
			max = n.rank
		}
	}
	return max + 1
}
