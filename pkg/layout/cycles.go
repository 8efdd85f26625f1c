package layout

// breakCycles reverses a minimal-ish set of back edges so the rankable edge
// set becomes acyclic. Reversed edges keep their identity; the router flips
// their point order back after positioning.
func (w *working) breakCycles() int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[*node]int, len(w.nodes))
	out := make(map[*node][]*edge, len(w.nodes))
	for _, e := range w.edges {
		out[e.from] = append(out[e.from], e)
	}

	var backEdges []*edge
	var dfs func(n *node)
	dfs = func(n *node) {
		color[n] = gray
		for _, e := range out[n] {
			switch color[e.to] {
			case white:
				dfs(e.to)
			case gray:
				backEdges = append(backEdges, e)
			}
		}
		color[n] = black
	}

	for _, n := range w.nodes {
		if color[n] == white {
			dfs(n)
		}
	}

	for _, e := range backEdges {
		e.from, e.to = e.to, e.from
		e.reversed = true
	}
	return len(backEdges)
}
