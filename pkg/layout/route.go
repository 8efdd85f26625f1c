package layout

import "math"

// route turns the positioned geometry into per-edge polylines: the start
// point on the source border, one waypoint per crossed rank, and the end
// point on the target border. Reversed edges flip back to their declared
// orientation here, so callers never observe the internal direction.
func (w *working) route() {
	w.paths = make(map[string]EdgePath, len(w.edges)+len(w.loops)+len(w.frame))

	for _, e := range w.edges {
		if e.from.rank == e.to.rank {
			w.paths[e.id] = w.flatPath(e)
			continue
		}
		pts := make([]Point, 0, len(e.chain)+2)
		first := Point{e.to.x, e.to.y}
		if len(e.chain) > 0 {
			first = Point{e.chain[0].x, e.chain[0].y}
		}
		pts = append(pts, intersect(e.from.x, e.from.y, e.from.w, e.from.h, first))
		for _, v := range e.chain {
			pts = append(pts, Point{v.x, v.y})
		}
		prev := pts[len(pts)-1]
		pts = append(pts, intersect(e.to.x, e.to.y, e.to.w, e.to.h, prev))
		if e.reversed {
			reversePoints(pts)
		}
		w.paths[e.id] = EdgePath{Points: pts, Reversed: e.reversed}
	}

	for _, e := range w.loops {
		n := e.from
		reach := w.cfg.NodeSep / 2
		right := n.x + n.w/2
		w.paths[e.id] = EdgePath{
			Points: []Point{
				{right, n.y - n.h/4},
				{right + reach, n.y - n.h/8},
				{right + reach, n.y + n.h/8},
				{right, n.y + n.h/4},
			},
			SelfLoop: true,
		}
	}

	for _, fe := range w.frame {
		fb, tb := w.endpointBox(fe.from), w.endpointBox(fe.to)
		fc := Point{(fb.x1 + fb.x2) / 2, (fb.y1 + fb.y2) / 2}
		tc := Point{(tb.x1 + tb.x2) / 2, (tb.y1 + tb.y2) / 2}
		start := intersect(fc.X, fc.Y, fb.x2-fb.x1, fb.y2-fb.y1, tc)
		end := intersect(tc.X, tc.Y, tb.x2-tb.x1, tb.y2-tb.y1, fc)
		mid := Point{(start.X + end.X) / 2, (start.Y + end.Y) / 2}
		w.paths[fe.id] = EdgePath{Points: []Point{start, mid, end}}
	}

	// Loop stubs can poke past the node hull; grow the drawing to keep every
	// point inside the margins.
	for _, p := range w.paths {
		for _, pt := range p.Points {
			if need := pt.X + w.cfg.Margin; need > w.size.W {
				w.size.W = need
			}
			if need := pt.Y + w.cfg.Margin; need > w.size.H {
				w.size.H = need
			}
		}
	}
}

// flatPath bows an edge between same-rank nodes through a point just below
// the pair. Same-rank edges cannot come out of ranking itself; this covers
// geometry reconstructed from external documents.
func (w *working) flatPath(e *edge) EdgePath {
	midY := e.from.y + e.from.h/2 + w.cfg.RankSep/3
	mid := Point{(e.from.x + e.to.x) / 2, midY}
	pts := []Point{
		intersect(e.from.x, e.from.y, e.from.w, e.from.h, mid),
		mid,
		intersect(e.to.x, e.to.y, e.to.w, e.to.h, mid),
	}
	if e.reversed {
		reversePoints(pts)
	}
	return EdgePath{Points: pts, Reversed: e.reversed}
}

func (w *working) endpointBox(id string) box {
	if b, ok := w.boxes[id]; ok {
		return b
	}
	return nodeBox(w.byID[id])
}

// intersect returns the point where the segment from the box center to p
// leaves a w×h box centered at (cx, cy). Degenerate boxes yield the center.
func intersect(cx, cy, bw, bh float64, p Point) Point {
	dx, dy := p.X-cx, p.Y-cy
	if dx == 0 && dy == 0 {
		return Point{cx, cy}
	}
	halfW, halfH := bw/2, bh/2

	var sx, sy float64
	if math.Abs(dy)*halfW > math.Abs(dx)*halfH {
		// Leaves through top or bottom.
		if dy < 0 {
			halfH = -halfH
		}
		sy = halfH
		sx = halfH * dx / dy
	} else {
		if dx < 0 {
			halfW = -halfW
		}
		sx = halfW
		if dx != 0 {
			sy = halfW * dy / dx
		}
	}
	return Point{cx + sx, cy + sy}
}

func reversePoints(pts []Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
