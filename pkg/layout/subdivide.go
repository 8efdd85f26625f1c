package layout

// subdivide breaks edges that span multiple ranks into chains of virtual
// nodes, one per crossed rank. Ordering treats virtual nodes like any other
// node, which is what lets long edges participate in crossing reduction, and
// their final positions become the edge's bend waypoints.
//
// Virtual nodes are assigned to the innermost cluster containing both
// endpoints, so cluster contiguity never forces a foreign edge lane into a
// frame it merely passes by.
func (w *working) subdivide() int {
	created := 0
	for _, e := range w.edges {
		span := e.to.rank - e.from.rank
		if span <= 1 {
			continue
		}
		common := w.lowestCommonCluster(e.from.cluster, e.to.cluster)
		for r := e.from.rank + 1; r < e.to.rank; r++ {
			v := w.addNode(&node{
				id:      w.newSyntheticID("v"),
				rank:    r,
				virtual: true,
				cluster: common,
				edgeID:  e.id,
			})
			e.chain = append(e.chain, v)
			created++
		}
	}
	return created
}
