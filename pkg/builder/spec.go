// Package builder turns plain-data specs into a graph and its composed node
// content. It is the construction surface behind the JSON spec file: the CLI
// and the HTTP API both decode into [Spec] and call [Build].
package builder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/antopio26/graph-js/pkg/compose"
	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/layout"
)

// Spec is a complete diagram description. All structs in this package are
// closed: decoding rejects unknown fields so a typo like "lable" fails
// loudly instead of being dropped.
type Spec struct {
	Nodes    []NodeSpec    `json:"nodes"`
	Edges    []EdgeSpec    `json:"edges,omitempty"`
	Clusters []ClusterSpec `json:"clusters,omitempty"`
	Layout   LayoutSpec    `json:"layout,omitempty"`
}

// NodeSpec is one top-level node: its content plus its place in the graph.
// An empty ID is assigned a fresh uuid during Build.
type NodeSpec struct {
	ID         string                 `json:"id,omitempty"`
	Label      string                 `json:"label,omitempty"`
	Header     *compose.HeaderSpec    `json:"header,omitempty"`
	Properties []compose.PropertySpec `json:"properties,omitempty"`
	Canvas     *compose.CanvasSpec    `json:"canvas,omitempty"`
	Width      float64                `json:"width,omitempty"`  // size hint, used when the node is not composed
	Height     float64                `json:"height,omitempty"` // size hint
	Parent     string                 `json:"parent,omitempty"` // enclosing cluster
}

// EdgeSpec is one directed edge between top-level nodes or clusters.
type EdgeSpec struct {
	ID          string  `json:"id,omitempty"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Label       string  `json:"label,omitempty"`
	LabelSide   string  `json:"label_side,omitempty"`   // left, right or center (default)
	LabelOffset float64 `json:"label_offset,omitempty"` // gap for side-placed labels
	MinLen      int     `json:"minlen,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
}

// ClusterSpec is one compound frame. Children may name nodes or other
// clusters; a node's Parent field overrides membership lists.
type ClusterSpec struct {
	ID       string   `json:"id,omitempty"`
	Label    string   `json:"label,omitempty"`
	Children []string `json:"children,omitempty"`
}

// LayoutSpec carries per-diagram layout settings. Zero values fall back to
// the engine defaults.
type LayoutSpec struct {
	Direction     string  `json:"direction,omitempty"`
	NodeSep       float64 `json:"node_sep,omitempty"`
	RankSep       float64 `json:"rank_sep,omitempty"`
	EdgeSep       float64 `json:"edge_sep,omitempty"`
	Margin        float64 `json:"margin,omitempty"`
	ClusterMargin float64 `json:"cluster_margin,omitempty"`
	Sweeps        int     `json:"sweeps,omitempty"`
}

// Config converts the spec settings to an engine configuration.
func (l LayoutSpec) Config() layout.Config {
	return layout.Config{
		Direction:     layout.Direction(l.Direction),
		NodeSep:       l.NodeSep,
		RankSep:       l.RankSep,
		EdgeSep:       l.EdgeSep,
		Margin:        l.Margin,
		ClusterMargin: l.ClusterMargin,
		Sweeps:        l.Sweeps,
	}
}

// ReadSpec decodes a JSON spec from r. Unknown fields are an error.
func ReadSpec(r io.Reader) (*Spec, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode spec")
	}
	return &spec, nil
}

// LoadSpec reads and decodes the JSON spec file at path.
func LoadSpec(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	spec, err := ReadSpec(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}
