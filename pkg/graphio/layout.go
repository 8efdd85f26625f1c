package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/layout"
)

// LayoutDocument is the wire form of a computed layout: everything an
// external consumer needs to draw the graph without running the engine.
type LayoutDocument struct {
	Version  int                                `json:"version" bson:"version"`
	Nodes    map[string]layout.NodePlacement    `json:"nodes" bson:"nodes"`
	Clusters map[string]layout.ClusterPlacement `json:"clusters,omitempty" bson:"clusters,omitempty"`
	Edges    map[string]layout.EdgePath         `json:"edges,omitempty" bson:"edges,omitempty"`
	Size     layout.Size                        `json:"size" bson:"size"`
	Stats    layout.Stats                       `json:"stats" bson:"stats"`
}

// EncodeLayout converts a layout result to its wire form.
func EncodeLayout(res *layout.Result) *LayoutDocument {
	return &LayoutDocument{
		Version:  Version,
		Nodes:    res.Nodes,
		Clusters: res.Clusters,
		Edges:    res.Edges,
		Size:     res.Size,
		Stats:    res.Stats,
	}
}

// Result converts the document back to a layout result.
func (d *LayoutDocument) Result() *layout.Result {
	return &layout.Result{
		Nodes:    d.Nodes,
		Clusters: d.Clusters,
		Edges:    d.Edges,
		Size:     d.Size,
		Stats:    d.Stats,
	}
}

// WriteLayoutJSON encodes a layout result as indented JSON and writes it to w.
func WriteLayoutJSON(res *layout.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(EncodeLayout(res)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadLayoutJSON decodes a JSON layout document from r.
func ReadLayoutJSON(r io.Reader) (*layout.Result, error) {
	var doc LayoutDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout document")
	}
	if doc.Version > Version {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"layout document version %d is newer than supported version %d", doc.Version, Version)
	}
	return doc.Result(), nil
}

// ExportLayoutJSON writes a layout result to a JSON file at path.
func ExportLayoutJSON(res *layout.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayoutJSON(res, f)
}

// ImportLayoutJSON reads the JSON file at path and returns the decoded layout.
func ImportLayoutJSON(path string) (*layout.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayoutJSON(f)
}
