package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graph"
)

// Version is the document format version this package writes.
const Version = 1

// Document is the wire form of a compound graph.
type Document struct {
	Version  int          `json:"version,omitempty" bson:"version,omitempty"`
	Nodes    []NodeDoc    `json:"nodes" bson:"nodes"`
	Edges    []EdgeDoc    `json:"edges,omitempty" bson:"edges,omitempty"`
	Clusters []ClusterDoc `json:"clusters,omitempty" bson:"clusters,omitempty"`
}

// NodeDoc is one leaf node.
type NodeDoc struct {
	ID    string  `json:"id" bson:"id"`
	Label string  `json:"label,omitempty" bson:"label,omitempty"`
	W     float64 `json:"w,omitempty" bson:"w,omitempty"`
	H     float64 `json:"h,omitempty" bson:"h,omitempty"`
}

// EdgeDoc is one directed edge.
type EdgeDoc struct {
	ID          string  `json:"id,omitempty" bson:"id,omitempty"`
	From        string  `json:"from" bson:"from"`
	To          string  `json:"to" bson:"to"`
	Label       string  `json:"label,omitempty" bson:"label,omitempty"`
	LabelSide   string  `json:"label_side,omitempty" bson:"label_side,omitempty"`
	LabelOffset float64 `json:"label_offset,omitempty" bson:"label_offset,omitempty"`
	MinLen      int     `json:"minlen,omitempty" bson:"minlen,omitempty"`
	Weight      float64 `json:"weight,omitempty" bson:"weight,omitempty"`
}

// ClusterDoc is one compound frame and its members. Children may name leaf
// nodes or other clusters.
type ClusterDoc struct {
	ID       string   `json:"id" bson:"id"`
	Label    string   `json:"label,omitempty" bson:"label,omitempty"`
	Children []string `json:"children" bson:"children"`
}

// Decode builds a graph from a document, validating structure along the way.
func Decode(doc *Document) (*graph.Graph, error) {
	if doc.Version > Version {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"graph document version %d is newer than supported version %d", doc.Version, Version)
	}

	g := graph.New()
	for _, c := range doc.Clusters {
		if err := g.AddNode(graph.Node{ID: c.ID, Label: c.Label}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "cluster %s", c.ID)
		}
	}
	for _, n := range doc.Nodes {
		if err := g.AddNode(graph.Node{ID: n.ID, Label: n.Label, W: n.W, H: n.H}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "node %s", n.ID)
		}
	}
	for _, c := range doc.Clusters {
		for _, child := range c.Children {
			if err := g.SetParent(child, c.ID); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "cluster %s member %s", c.ID, child)
			}
		}
	}
	for _, e := range doc.Edges {
		edge := graph.Edge{
			ID:          e.ID,
			From:        e.From,
			To:          e.To,
			Label:       e.Label,
			LabelSide:   e.LabelSide,
			LabelOffset: e.LabelOffset,
			MinLen:      e.MinLen,
			Weight:      e.Weight,
		}
		if _, err := g.AddEdge(edge); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "edge %s->%s", e.From, e.To)
		}
	}
	return g, nil
}

// ReadJSON decodes a JSON graph document from r.
//
// The returned graph is independent of r and can be modified freely.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph document")
	}
	return Decode(&doc)
}

// ImportJSON reads the JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
