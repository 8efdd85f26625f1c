// Package interact tracks pointer state over a rendered scene.
//
// It knows nothing about any renderer: an Index is built from composed
// fragments and edge paths, a State folds pointer events into hover and
// selection, and typed event buses fan the resulting transitions out to
// listeners. Hover and selection are orthogonal: moving the pointer never
// changes what is selected, and clicking never changes what is hovered.
package interact

// TargetKind classifies what the pointer is over.
type TargetKind string

const (
	TargetNone TargetKind = ""
	TargetNode TargetKind = "node"
	TargetRow  TargetKind = "row"
	TargetEdge TargetKind = "edge"
)

// Target identifies one interactive element. Row is only meaningful for
// TargetRow and is -1 otherwise.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
	Row  int        `json:"row,omitempty"`
}

// None is the absent target.
func None() Target { return Target{Kind: TargetNone, Row: -1} }

// IsNone reports whether the target is absent.
func (t Target) IsNone() bool { return t.Kind == TargetNone }

// NodeTarget returns a target for a whole node.
func NodeTarget(id string) Target { return Target{Kind: TargetNode, ID: id, Row: -1} }

// RowTarget returns a target for one property row of a node.
func RowTarget(id string, row int) Target { return Target{Kind: TargetRow, ID: id, Row: row} }

// EdgeTarget returns a target for an edge.
func EdgeTarget(id string) Target { return Target{Kind: TargetEdge, ID: id, Row: -1} }
