package layout

// applyDirection maps the internally computed top-to-bottom geometry onto
// the requested direction.
//
// TB is the identity. BT mirrors Y. LR was computed with swapped node sizes,
// so transposing the axes restores the original sizes and yields a
// left-to-right drawing. RL additionally mirrors the transposed X.
func (w *working) applyDirection() {
	switch w.cfg.Direction {
	case BottomTop:
		h := w.size.H
		for _, n := range w.nodes {
			n.y = h - n.y
		}
		for c, b := range w.boxes {
			w.boxes[c] = box{b.x1, h - b.y2, b.x2, h - b.y1}
		}
		for _, p := range w.paths {
			for i := range p.Points {
				p.Points[i].Y = h - p.Points[i].Y
			}
		}

	case LeftRight, RightLeft:
		for _, n := range w.nodes {
			n.x, n.y = n.y, n.x
			n.w, n.h = n.h, n.w
		}
		for c, b := range w.boxes {
			w.boxes[c] = box{b.y1, b.x1, b.y2, b.x2}
		}
		for _, p := range w.paths {
			for i := range p.Points {
				p.Points[i].X, p.Points[i].Y = p.Points[i].Y, p.Points[i].X
			}
		}
		w.size.W, w.size.H = w.size.H, w.size.W

		if w.cfg.Direction == RightLeft {
			wd := w.size.W
			for _, n := range w.nodes {
				n.x = wd - n.x
			}
			for c, b := range w.boxes {
				w.boxes[c] = box{wd - b.x2, b.y1, wd - b.x1, b.y2}
			}
			for _, p := range w.paths {
				for i := range p.Points {
					p.Points[i].X = wd - p.Points[i].X
				}
			}
		}
	}
}
