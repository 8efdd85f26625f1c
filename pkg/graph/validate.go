package graph

import "fmt"

// Validate checks the structural invariants of the graph and returns the
// first violation found.
//
// # Checked invariants
//
//   - every edge endpoint references an existing node
//   - every parent reference points at an existing node
//   - the parent relation is a forest: no node is an ancestor of itself
//
// Mutating methods already enforce these, so Validate only fails on graphs
// reconstructed from external data (serialized documents, store reads). The
// edge relation is allowed to be cyclic; the layout engine breaks edge
// cycles itself.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return fmt.Errorf("edge %s: %w: source %q", e.ID, ErrUnknownEndpoint, e.From)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return fmt.Errorf("edge %s: %w: target %q", e.ID, ErrUnknownEndpoint, e.To)
		}
	}
	for child, p := range g.parent {
		if _, ok := g.nodes[child]; !ok {
			return fmt.Errorf("parent entry: %w: %s", ErrUnknownNode, child)
		}
		if _, ok := g.nodes[p]; !ok {
			return fmt.Errorf("parent of %s: %w: %s", child, ErrUnknownNode, p)
		}
	}

	// Walk every parent chain once; a chain longer than the node count means
	// a cycle escaped SetParent (possible only via deserialized input).
	for _, id := range g.order {
		steps := 0
		for cur := id; ; {
			p, ok := g.parent[cur]
			if !ok {
				break
			}
			if p == id {
				return fmt.Errorf("%w: %s", ErrAncestryCycle, id)
			}
			steps++
			if steps > len(g.nodes) {
				return fmt.Errorf("%w: chain through %s", ErrAncestryCycle, id)
			}
			cur = p
		}
	}
	return nil
}
