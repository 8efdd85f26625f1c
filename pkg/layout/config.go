package layout

import "fmt"

// Direction controls the primary flow of the drawing.
type Direction string

// Supported directions. Each produces a genuinely different geometry: the
// pipeline computes a top-to-bottom layout internally and transforms the
// final coordinates, so BT is not "TB upside down labels" but a proper flip,
// and LR/RL exchange the roles of the axes before sizing.
const (
	TopBottom Direction = "TB"
	BottomTop Direction = "BT"
	LeftRight Direction = "LR"
	RightLeft Direction = "RL"
)

// Default spacing values, in the same unit as node sizes.
const (
	DefaultNodeSep       = 40.0
	DefaultRankSep       = 60.0
	DefaultEdgeSep       = 12.0
	DefaultMargin        = 20.0
	DefaultClusterMargin = 16.0
	DefaultSweeps        = 4
)

// Config holds the tunable parameters of a layout run. The zero value is
// usable after Normalize, which fills in defaults.
type Config struct {
	Direction     Direction // flow of the drawing, default TB
	NodeSep       float64   // minimum gap between adjacent nodes in a rank
	RankSep       float64   // minimum gap between adjacent ranks
	EdgeSep       float64   // minimum gap between edge lanes (virtual nodes)
	Margin        float64   // outer margin around the whole drawing
	ClusterMargin float64   // padding between a cluster frame and its content
	Sweeps        int       // ordering refinement iterations
}

// Normalize fills unset fields with defaults and validates the rest. It is
// idempotent.
func (c *Config) Normalize() error {
	if c.Direction == "" {
		c.Direction = TopBottom
	}
	switch c.Direction {
	case TopBottom, BottomTop, LeftRight, RightLeft:
	default:
		return fmt.Errorf("invalid direction %q (must be TB, BT, LR or RL)", c.Direction)
	}
	if c.NodeSep == 0 {
		c.NodeSep = DefaultNodeSep
	}
	if c.RankSep == 0 {
		c.RankSep = DefaultRankSep
	}
	if c.EdgeSep == 0 {
		c.EdgeSep = DefaultEdgeSep
	}
	if c.Margin == 0 {
		c.Margin = DefaultMargin
	}
	if c.ClusterMargin == 0 {
		c.ClusterMargin = DefaultClusterMargin
	}
	if c.Sweeps == 0 {
		c.Sweeps = DefaultSweeps
	}
	if c.NodeSep < 0 || c.RankSep < 0 || c.EdgeSep < 0 || c.Margin < 0 || c.ClusterMargin < 0 {
		return fmt.Errorf("spacing values cannot be negative")
	}
	if c.Sweeps < 0 {
		return fmt.Errorf("sweeps cannot be negative")
	}
	return nil
}

// horizontal reports whether the direction swaps the axes.
func (c Config) horizontal() bool {
	return c.Direction == LeftRight || c.Direction == RightLeft
}
