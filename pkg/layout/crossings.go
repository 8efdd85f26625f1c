package layout

import "sort"

// countLayerCrossings counts edge crossings between two adjacent ranks using
// a Fenwick tree (binary indexed tree) for O(E log V) performance, where E is
// the number of segments between the ranks and V is the size of the lower
// rank.
//
// Two segments (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// This is equivalent to counting inversions in the sequence of target
// positions when segments are sorted by source position.
func countLayerCrossings(upper []*node, down map[*node][]*node) int {
	type seg struct{ upper, lower int }
	var segs []seg
	for i, n := range upper {
		for _, child := range down[n] {
			segs = append(segs, seg{i, child.order})
		}
	}
	if len(segs) < 2 {
		return 0
	}

	sort.Slice(segs, func(a, b int) bool {
		if segs[a].upper != segs[b].upper {
			return segs[a].upper < segs[b].upper
		}
		return segs[a].lower < segs[b].lower
	})

	maxLower := 0
	for _, s := range segs {
		if s.lower > maxLower {
			maxLower = s.lower
		}
	}

	// Count inversions using a Fenwick tree over target positions.
	fenwick := make([]int, maxLower+2)
	crossings, total := 0, 0
	for _, s := range segs {
		lessOrEqual := 0
		for q := s.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := s.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// countTotalCrossings sums the crossings between each pair of consecutive
// ranks. Node order fields must be in sync with the rank slices.
func countTotalCrossings(ranks [][]*node, down map[*node][]*node) int {
	crossings := 0
	for r := 0; r < len(ranks)-1; r++ {
		crossings += countLayerCrossings(ranks[r], down)
	}
	return crossings
}
