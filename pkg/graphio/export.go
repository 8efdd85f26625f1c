package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/antopio26/graph-js/pkg/graph"
)

// Encode converts a graph to its wire form. Node order follows insertion
// order, cluster members are sorted, so identical graphs encode identically.
func Encode(g *graph.Graph) *Document {
	doc := &Document{Version: Version}

	for _, n := range g.Nodes() {
		if len(g.Children(n.ID)) > 0 {
			label := n.Label
			if label == n.ID {
				label = ""
			}
			doc.Clusters = append(doc.Clusters, ClusterDoc{
				ID: n.ID, Label: label, Children: g.Children(n.ID),
			})
			continue
		}
		nd := NodeDoc{ID: n.ID, W: n.W, H: n.H}
		if n.Label != n.ID {
			nd.Label = n.Label
		}
		doc.Nodes = append(doc.Nodes, nd)
	}

	for _, e := range g.Edges() {
		ed := EdgeDoc{
			ID: e.ID, From: e.From, To: e.To,
			Label: e.Label, LabelSide: e.LabelSide, LabelOffset: e.LabelOffset,
		}
		if e.MinLen != 1 {
			ed.MinLen = e.MinLen
		}
		if e.Weight != 1 {
			ed.Weight = e.Weight
		}
		doc.Edges = append(doc.Edges, ed)
	}
	return doc
}

// WriteJSON encodes a graph as an indented JSON document and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Encode(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
