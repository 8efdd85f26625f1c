package layout

import (
	"context"
	"math"
	"sort"
)

// box is an axis-aligned rectangle in absolute coordinates.
type box struct{ x1, y1, x2, y2 float64 }

func (b box) union(o box) box {
	return box{
		x1: math.Min(b.x1, o.x1),
		y1: math.Min(b.y1, o.y1),
		x2: math.Max(b.x2, o.x2),
		y2: math.Max(b.y2, o.y2),
	}
}

func nodeBox(n *node) box {
	return box{n.x - n.w/2, n.y - n.h/2, n.x + n.w/2, n.y + n.h/2}
}

// position assigns final coordinates: X by the priority method over three
// alternating sweeps, Y from cumulative rank heights, then cluster frames
// and the translation that puts the drawing at the configured margin.
func (w *working) position(ctx context.Context) error {
	w.initX()
	for _, downward := range []bool{true, false, true} {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		w.sweepX(downward)
	}
	w.assignY()
	w.clusterBoxes()
	w.translate()
	return nil
}

// gap is what a node contributes to the spacing between itself and either
// neighbor. Virtual nodes form edge lanes, border markers reserve the
// cluster frame lane.
func (w *working) gap(n *node) float64 {
	switch {
	case n.virtual:
		return w.cfg.EdgeSep / 2
	case n.border:
		return w.cfg.ClusterMargin
	default:
		return w.cfg.NodeSep / 2
	}
}

// sep is the minimum center distance between two horizontal neighbors.
func (w *working) sep(a, b *node) float64 {
	return a.w/2 + b.w/2 + w.gap(a) + w.gap(b)
}

// initX packs every rank left to right at minimum separation.
func (w *working) initX() {
	for _, rank := range w.ranks {
		x := 0.0
		for i, n := range rank {
			if i > 0 {
				x += w.sep(rank[i-1], n)
			} else {
				x = n.w / 2
			}
			n.x = x
		}
	}
}

// priority decides who may push whom during a sweep. Virtual nodes move
// first and are immovable to everyone else, keeping edge lanes straight;
// border markers are nearly as rigid so frames stay narrow.
func priority(n *node, fixedAdj map[*node][]*node) int {
	switch {
	case n.virtual:
		return 1 << 30
	case n.border:
		return 1 << 29
	default:
		return len(fixedAdj[n])
	}
}

// sweepX runs one pass of the priority method. Each rank is visited with its
// reference rank already fixed; nodes in priority order move toward the
// median X of their reference neighbors, pushing lower-priority neighbors
// aside but never past a higher-priority one.
func (w *working) sweepX(downward bool) {
	var order []int
	if downward {
		for r := 1; r < len(w.ranks); r++ {
			order = append(order, r)
		}
	} else {
		for r := len(w.ranks) - 2; r >= 0; r-- {
			order = append(order, r)
		}
	}

	fixedAdj := w.adj.up
	if !downward {
		fixedAdj = w.adj.down
	}

	for _, r := range order {
		rank := w.ranks[r]
		idx := make([]int, len(rank))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return priority(rank[idx[a]], fixedAdj) > priority(rank[idx[b]], fixedAdj)
		})
		for _, i := range idx {
			n := rank[i]
			neighbors := fixedAdj[n]
			if len(neighbors) == 0 {
				continue
			}
			w.moveToward(rank, i, medianX(neighbors), fixedAdj)
		}
	}
}

// medianX is the median of the neighbors' X coordinates.
func medianX(neighbors []*node) float64 {
	xs := make([]float64, len(neighbors))
	for i, n := range neighbors {
		xs[i] = n.x
	}
	sort.Float64s(xs)
	m := len(xs) / 2
	if len(xs)%2 == 1 {
		return xs[m]
	}
	return (xs[m-1] + xs[m]) / 2
}

// moveToward shifts rank[i] toward the desired X, clamped by the nearest
// neighbor of equal or higher priority on that side. Lower-priority nodes in
// between are pushed along to restore minimum separation.
func (w *working) moveToward(rank []*node, i int, desired float64, fixedAdj map[*node][]*node) {
	n := rank[i]
	p := priority(n, fixedAdj)

	if desired > n.x {
		limit := math.Inf(1)
		span := 0.0
		for j := i + 1; j < len(rank); j++ {
			span += w.sep(rank[j-1], rank[j])
			if priority(rank[j], fixedAdj) >= p {
				limit = rank[j].x - span
				break
			}
		}
		n.x = math.Min(desired, limit)
		for j := i + 1; j < len(rank); j++ {
			if min := rank[j-1].x + w.sep(rank[j-1], rank[j]); rank[j].x < min {
				rank[j].x = min
			} else {
				break
			}
		}
		return
	}

	if desired < n.x {
		limit := math.Inf(-1)
		span := 0.0
		for j := i - 1; j >= 0; j-- {
			span += w.sep(rank[j], rank[j+1])
			if priority(rank[j], fixedAdj) >= p {
				limit = rank[j].x + span
				break
			}
		}
		n.x = math.Max(desired, limit)
		for j := i - 1; j >= 0; j-- {
			if max := rank[j+1].x - w.sep(rank[j], rank[j+1]); rank[j].x > max {
				rank[j].x = max
			} else {
				break
			}
		}
	}
}

// assignY stacks the ranks top to bottom. A rank's height is its tallest
// node; ranks holding only markers and lanes have zero height and take half
// the usual separation.
func (w *working) assignY() {
	heights := make([]float64, len(w.ranks))
	for r, rank := range w.ranks {
		for _, n := range rank {
			if n.h > heights[r] {
				heights[r] = n.h
			}
		}
	}

	y := w.cfg.Margin
	for r, rank := range w.ranks {
		h := heights[r]
		for _, n := range rank {
			n.y = y + h/2
		}
		if h == 0 {
			y += w.cfg.RankSep / 2
		} else {
			y += h + w.cfg.RankSep
		}
	}
}

// clusterBoxes computes every cluster frame as the padded hull of its
// content, innermost clusters first so parents can absorb child frames.
func (w *working) clusterBoxes() {
	w.boxes = make(map[string]box, len(w.clusters))
	for i := len(w.clusters) - 1; i >= 0; i-- {
		c := w.clusters[i]
		var b box
		got := false
		for _, kid := range w.clusterKids[c] {
			var kb box
			if child, ok := w.boxes[kid]; ok {
				kb = child
			} else {
				kb = nodeBox(w.byID[kid])
			}
			if !got {
				b, got = kb, true
			} else {
				b = b.union(kb)
			}
		}
		m := w.cfg.ClusterMargin
		w.boxes[c] = box{b.x1 - m, b.y1 - m, b.x2 + m, b.y2 + m}
	}
}

// translate shifts the whole drawing so its top-left content corner sits at
// the configured margin, and records the total size.
func (w *working) translate() {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	observe := func(b box) {
		minX = math.Min(minX, b.x1)
		minY = math.Min(minY, b.y1)
		maxX = math.Max(maxX, b.x2)
		maxY = math.Max(maxY, b.y2)
	}
	for _, n := range w.nodes {
		observe(nodeBox(n))
	}
	for _, b := range w.boxes {
		observe(b)
	}
	if math.IsInf(minX, 1) {
		return
	}

	dx, dy := w.cfg.Margin-minX, w.cfg.Margin-minY
	for _, n := range w.nodes {
		n.x += dx
		n.y += dy
	}
	for c, b := range w.boxes {
		w.boxes[c] = box{b.x1 + dx, b.y1 + dy, b.x2 + dx, b.y2 + dy}
	}
	w.size = Size{
		W: maxX - minX + 2*w.cfg.Margin,
		H: maxY - minY + 2*w.cfg.Margin,
	}
}
