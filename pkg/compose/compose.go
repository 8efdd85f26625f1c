// Package compose builds the visual content of a node as a tree of blocks.
//
// A node is a vertical stack of blocks (header, property rows, free-form
// canvas) that all share the node's width. Property rows may embed whole
// nested nodes, so the tree can be arbitrarily deep.
//
// Every block moves through three phases in strict order:
//
//	Measure -> Layout -> Update
//
// Measure computes the minimum size bottom-up, Layout assigns final boxes
// top-down once the graph layout has placed the node, and Update freezes the
// geometry into a renderable Fragment. Calling a phase out of order fails
// with a RENDER_PRECONDITION error instead of producing garbage geometry,
// and re-measuring resets the later phases.
package compose

import (
	"github.com/antopio26/graph-js/pkg/errors"
)

// Size is a width/height pair in scene units.
type Size struct {
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Rect is an axis-aligned box with a top-left origin, matching SVG
// coordinates.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Inset returns the rect shrunk by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Block is one element of a node's content stack.
type Block interface {
	// Measure computes the block's minimum size with the given measurer.
	// It may be called again; doing so invalidates Layout and Update.
	Measure(m TextMeasurer) (Size, error)

	// Layout assigns the block's final box. Requires a prior Measure.
	Layout(box Rect) error

	// Update freezes the geometry into a Fragment. Requires a prior Layout.
	Update() (*Fragment, error)

	// MinSize returns the measured minimum size, zero before Measure.
	MinSize() Size
}

// Font sizes and spacing used by the built-in blocks.
const (
	TitleFontSize    = 14.0
	SubtitleFontSize = 11.0
	RowFontSize      = 12.0

	headerPad  = 8.0
	rowPad     = 6.0
	keyGap     = 16.0
	separatorH = 1.0
)

// Default node frame parameters.
const (
	DefaultMinWidth = 80.0
	DefaultMaxWidth = 420.0
	DefaultPadding  = 10.0
	DefaultCorner   = 6.0
)

// Config bounds the node frame geometry. The zero value means defaults.
type Config struct {
	MinWidth float64 // narrowest a node may measure
	MaxWidth float64 // widest a node may measure
	Padding  float64 // gap between the frame and the content stack
	Corner   float64 // frame corner radius
}

func (c *Config) normalize() {
	if c.MinWidth == 0 {
		c.MinWidth = DefaultMinWidth
	}
	if c.MaxWidth == 0 {
		c.MaxWidth = DefaultMaxWidth
	}
	if c.Padding == 0 {
		c.Padding = DefaultPadding
	}
	if c.Corner == 0 {
		c.Corner = DefaultCorner
	}
}

// phase tracks where a block is in the Measure -> Layout -> Update contract.
type phase int

const (
	phaseNew phase = iota
	phaseMeasured
	phaseLaidOut
)

// blockState is the shared phase bookkeeping embedded in every block.
type blockState struct {
	kind string
	st   phase
	min  Size
	box  Rect
}

func (s *blockState) setMeasured(sz Size) (Size, error) {
	s.min = sz
	s.st = phaseMeasured
	return sz, nil
}

func (s *blockState) setBox(box Rect) error {
	if s.st < phaseMeasured {
		return errors.New(errors.ErrCodeRenderPrecondition,
			"%s: Layout called before Measure", s.kind)
	}
	s.box = box
	s.st = phaseLaidOut
	return nil
}

func (s *blockState) requireLaidOut() error {
	if s.st < phaseLaidOut {
		return errors.New(errors.ErrCodeRenderPrecondition,
			"%s: Update called before Layout", s.kind)
	}
	return nil
}

// MinSize returns the measured minimum size, zero before Measure.
func (s *blockState) MinSize() Size { return s.min }

// Box returns the laid-out box, zero before Layout.
func (s *blockState) Box() Rect { return s.box }
