package layout

import "time"

// Point is a position in drawing coordinates. The origin is the top-left
// corner of the drawing; X grows rightward, Y grows downward.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Size is the extent of a box or of the whole drawing.
type Size struct {
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// NodePlacement is the final position of a single node. X and Y address the
// node's center.
type NodePlacement struct {
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	W     float64 `json:"w" bson:"w"`
	H     float64 `json:"h" bson:"h"`
	Rank  int     `json:"rank" bson:"rank"`
	Order int     `json:"order" bson:"order"`
}

// ClusterPlacement is the final bounding box of a cluster frame. X and Y
// address the box center. Depth is the nesting depth, outermost first, so
// renderers can paint outer frames below inner ones.
type ClusterPlacement struct {
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	W     float64 `json:"w" bson:"w"`
	H     float64 `json:"h" bson:"h"`
	Depth int     `json:"depth" bson:"depth"`
}

// EdgePath is the routed polyline of an edge: the start point on the source
// border, one waypoint per crossed rank, and the end point on the target
// border. Points are always ordered from the edge's declared source to its
// declared target, even when the edge was reversed internally to break a
// cycle.
type EdgePath struct {
	Points   []Point `json:"points" bson:"points"`
	Reversed bool    `json:"reversed,omitempty" bson:"reversed,omitempty"`
	SelfLoop bool    `json:"self_loop,omitempty" bson:"self_loop,omitempty"`
}

// Stats describes what the pipeline did, for logging and observability.
type Stats struct {
	Ranks         int           `json:"ranks" bson:"ranks"`
	Crossings     int           `json:"crossings" bson:"crossings"`
	VirtualNodes  int           `json:"virtual_nodes" bson:"virtual_nodes"`
	ReversedEdges int           `json:"reversed_edges" bson:"reversed_edges"`
	Duration      time.Duration `json:"duration" bson:"duration"`
}

// Result is the complete output of a layout run. It is immutable by
// convention: the engine never retains or modifies a returned Result.
type Result struct {
	Nodes    map[string]NodePlacement    `json:"nodes" bson:"nodes"`
	Clusters map[string]ClusterPlacement `json:"clusters" bson:"clusters"`
	Edges    map[string]EdgePath         `json:"edges" bson:"edges"`
	Size     Size                        `json:"size" bson:"size"`
	Stats    Stats                       `json:"stats" bson:"stats"`
}
