package layout

// buildNesting inserts the containment constraints for compound graphs.
//
// Every cluster receives two synthetic border nodes. Nesting edges run from a
// cluster's top border to the top of each child and from the bottom of each
// child to the cluster's bottom border, so after ranking every member sits
// strictly between its cluster's borders, and nested clusters sit strictly
// inside the band of their enclosing cluster. A synthetic root ties the
// forest together so disconnected trees rank from a common origin.
//
// Rank assignment takes the maximum over all incoming constraints, so unit
// minlen on nesting edges is enough; no rank-slot scaling is needed.
func (w *working) buildNesting() {
	if len(w.clusters) == 0 {
		return
	}

	w.root = w.addNode(&node{id: w.newSyntheticID("root"), border: true})

	for _, c := range w.clusters {
		w.borderTop[c] = w.addNode(&node{id: w.newSyntheticID("bt"), border: true, cluster: c})
		w.borderBottom[c] = w.addNode(&node{id: w.newSyntheticID("bb"), border: true, cluster: c})
	}

	for _, c := range w.clusters {
		bt, bb := w.borderTop[c], w.borderBottom[c]
		for _, kid := range w.clusterKids[c] {
			kidTop, kidBottom := w.bandEnds(kid)
			w.edges = append(w.edges,
				&edge{from: bt, to: kidTop, minlen: 1, nesting: true},
				&edge{from: kidBottom, to: bb, minlen: 1, nesting: true},
			)
		}
	}

	for _, id := range w.topLevel {
		top, _ := w.bandEnds(id)
		w.edges = append(w.edges, &edge{from: w.root, to: top, minlen: 1, nesting: true})
	}
}

// bandEnds returns the nodes that bound id's rank band: the border pair for a
// cluster, the node itself twice for a leaf.
func (w *working) bandEnds(id string) (*node, *node) {
	if bt, ok := w.borderTop[id]; ok {
		return bt, w.borderBottom[id]
	}
	n := w.byID[id]
	return n, n
}

// cleanupNesting removes the synthetic root and all nesting edges once ranks
// are assigned. Border nodes stay: ordering and positioning use them to keep
// cluster content contiguous and to reserve space for the frames.
func (w *working) cleanupNesting() {
	if w.root == nil {
		return
	}
	kept := w.edges[:0]
	for _, e := range w.edges {
		if !e.nesting {
			kept = append(kept, e)
		}
	}
	w.edges = kept

	delete(w.byID, w.root.id)
	for i, n := range w.nodes {
		if n == w.root {
			w.nodes = append(w.nodes[:i], w.nodes[i+1:]...)
			break
		}
	}
	w.root = nil
}

// addBorderSegments creates left and right border markers for every content
// rank of every cluster. Ordering pins them to the extremes of the cluster's
// group, and coordinate assignment keeps real nodes a cluster margin away
// from them, which reserves the lane the frame is later drawn in.
func (w *working) addBorderSegments() {
	if len(w.clusters) == 0 {
		return
	}
	w.borderLeft = make(map[string][]*node, len(w.clusters))
	w.borderRight = make(map[string][]*node, len(w.clusters))

	for _, c := range w.clusters {
		top, bottom := w.borderTop[c].rank, w.borderBottom[c].rank
		for r := top + 1; r < bottom; r++ {
			bl := w.addNode(&node{id: w.newSyntheticID("bl"), border: true, bLeft: true, cluster: c, rank: r})
			br := w.addNode(&node{id: w.newSyntheticID("br"), border: true, bRight: true, cluster: c, rank: r})
			w.borderLeft[c] = append(w.borderLeft[c], bl)
			w.borderRight[c] = append(w.borderRight[c], br)
		}
	}
}
