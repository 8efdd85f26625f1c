package compose

import (
	"context"
	"sort"

	"github.com/antopio26/graph-js/pkg/errors"
)

// NodeSpec describes a node's content as plain data, the shape a JSON spec
// file decodes into.
type NodeSpec struct {
	ID         string         `json:"id,omitempty"`
	Label      string         `json:"label,omitempty"`
	Header     *HeaderSpec    `json:"header,omitempty"`
	Properties []PropertySpec `json:"properties,omitempty"`
	Canvas     *CanvasSpec    `json:"canvas,omitempty"`
}

// HeaderSpec overrides the default header built from the node label.
type HeaderSpec struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Fill     string `json:"fill,omitempty"`
	Stroke   string `json:"stroke,omitempty"`
}

// PropertySpec is one row: a key with either a value or a nested node.
type PropertySpec struct {
	Key   string    `json:"key"`
	Value string    `json:"value,omitempty"`
	Node  *NodeSpec `json:"node,omitempty"`
}

// CanvasSpec adds a free-form child area.
type CanvasSpec struct {
	MinW     float64           `json:"min_w,omitempty"`
	MinH     float64           `json:"min_h,omitempty"`
	Children []CanvasChildSpec `json:"children,omitempty"`
}

// CanvasChildSpec pins a nested node at an offset inside the canvas.
type CanvasChildSpec struct {
	Node NodeSpec `json:"node"`
	DX   float64  `json:"dx,omitempty"`
	DY   float64  `json:"dy,omitempty"`
}

// maxNestDepth bounds node-in-row-in-node nesting. Deeper specs are almost
// certainly aliased or generated by mistake.
const maxNestDepth = 32

// Option configures Compose.
type Option func(*composer)

// WithConfig overrides the frame geometry for every composed node.
func WithConfig(cfg Config) Option {
	return func(c *composer) { c.cfg = cfg }
}

type composer struct {
	cfg Config
}

// Compose builds the block tree for one node description, including all
// nested nodes. The returned tree is unmeasured; run it through MeasureAll.
func Compose(ctx context.Context, spec NodeSpec, opts ...Option) (*NodeBlock, error) {
	c := composer{}
	for _, opt := range opts {
		opt(&c)
	}
	c.cfg.normalize()
	return c.build(ctx, spec, 0)
}

func (c *composer) build(ctx context.Context, spec NodeSpec, depth int) (*NodeBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCancelled, err, "compose interrupted")
	}
	if depth > maxNestDepth {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"node %q nests deeper than %d levels", spec.ID, maxNestDepth)
	}

	nb := &NodeBlock{
		blockState: blockState{kind: "node"},
		ID:         spec.ID,
		cfg:        c.cfg,
	}

	if spec.Header != nil {
		nb.Blocks = append(nb.Blocks, &Header{
			blockState: blockState{kind: "header"},
			Title:      spec.Header.Title,
			Subtitle:   spec.Header.Subtitle,
			Fill:       spec.Header.Fill,
			Stroke:     spec.Header.Stroke,
		})
	} else if spec.Label != "" {
		nb.Blocks = append(nb.Blocks, NewHeader(spec.Label))
	}

	if len(spec.Properties) > 0 {
		pl := NewPropertyList()
		for _, ps := range spec.Properties {
			row := Row{Key: ps.Key, Value: ps.Value}
			if ps.Node != nil {
				child, err := c.build(ctx, *ps.Node, depth+1)
				if err != nil {
					return nil, err
				}
				row.Node = child
			}
			pl.Rows = append(pl.Rows, row)
		}
		nb.Blocks = append(nb.Blocks, pl)
	}

	if spec.Canvas != nil {
		cv := NewCanvas(spec.Canvas.MinW, spec.Canvas.MinH)
		for _, cs := range spec.Canvas.Children {
			child, err := c.build(ctx, cs.Node, depth+1)
			if err != nil {
				return nil, err
			}
			cv.Children = append(cv.Children, CanvasChild{Node: child, DX: cs.DX, DY: cs.DY})
		}
		nb.Blocks = append(nb.Blocks, cv)
	}

	return nb, nil
}

// NodeBlock is a whole node: a vertical stack of blocks sharing one width
// inside a rounded frame. It implements Block itself, which is what lets a
// property row embed it.
type NodeBlock struct {
	blockState
	ID     string
	Blocks []Block
	cfg    Config
}

// NewNode returns an empty node frame with the default configuration.
func NewNode(id string, blocks ...Block) *NodeBlock {
	cfg := Config{}
	cfg.normalize()
	return &NodeBlock{
		blockState: blockState{kind: "node"},
		ID:         id,
		Blocks:     blocks,
		cfg:        cfg,
	}
}

// Measure computes the node's minimum size: the widest block bounded by the
// configured min/max width, heights stacked, plus the frame padding. Nested
// nodes inside rows must already be measured; MeasureAll takes care of the
// ordering.
func (n *NodeBlock) Measure(m TextMeasurer) (Size, error) {
	if n.kind == "" {
		n.kind = "node"
		n.cfg.normalize()
	}
	var w, h float64
	for _, b := range n.Blocks {
		sz, err := b.Measure(m)
		if err != nil {
			return Size{}, err
		}
		w = max(w, sz.W)
		h += sz.H
	}
	frameW := w + 2*n.cfg.Padding
	if frameW < n.cfg.MinWidth {
		frameW = n.cfg.MinWidth
	}
	if frameW > n.cfg.MaxWidth {
		frameW = n.cfg.MaxWidth
	}
	return n.setMeasured(Size{W: frameW, H: h + 2*n.cfg.Padding})
}

// Layout assigns the final frame box and stacks the blocks inside it. Extra
// vertical space beyond the measured minimum goes to the first canvas block;
// without one it stays as bottom slack.
func (n *NodeBlock) Layout(box Rect) error {
	if err := n.setBox(box); err != nil {
		return err
	}
	inner := box.Inset(n.cfg.Padding)

	var minSum float64
	flexible := -1
	for i, b := range n.Blocks {
		minSum += b.MinSize().H
		if _, ok := b.(*Canvas); ok && flexible < 0 {
			flexible = i
		}
	}
	extra := inner.H - minSum
	if extra < 0 {
		extra = 0
	}

	y := inner.Y
	for i, b := range n.Blocks {
		bandH := b.MinSize().H
		if i == flexible {
			bandH += extra
		}
		if err := b.Layout(Rect{X: inner.X, Y: y, W: inner.W, H: bandH}); err != nil {
			return err
		}
		y += bandH
	}
	return nil
}

// Update freezes the node into a Fragment: the frame plus the merged content
// of every block, with row hit indices renumbered across the whole node.
func (n *NodeBlock) Update() (*Fragment, error) {
	if err := n.requireLaidOut(); err != nil {
		return nil, err
	}
	f := &Fragment{NodeID: n.ID, Box: n.box, Corner: n.cfg.Corner}
	for _, b := range n.Blocks {
		bf, err := b.Update()
		if err != nil {
			return nil, err
		}
		f.merge(bf)
	}
	return f, nil
}

// nested returns the node blocks embedded one level down.
func (n *NodeBlock) nested() []*NodeBlock {
	var out []*NodeBlock
	for _, b := range n.Blocks {
		switch bl := b.(type) {
		case *PropertyList:
			for _, row := range bl.Rows {
				if row.Node != nil {
					out = append(out, row.Node)
				}
			}
		case *Canvas:
			for _, ch := range bl.Children {
				if ch.Node != nil {
					out = append(out, ch.Node)
				}
			}
		case *NodeBlock:
			out = append(out, bl)
		}
	}
	return out
}

// LayoutAll lays out every node against its box from the graph layout. A
// node without a box is a pipeline bug surfaced as a precondition error.
func LayoutAll(nodes map[string]*NodeBlock, boxes map[string]Rect) error {
	for _, id := range sortedKeys(nodes) {
		box, ok := boxes[id]
		if !ok {
			return errors.New(errors.ErrCodeRenderPrecondition,
				"node %q was composed but never placed", id)
		}
		if err := nodes[id].Layout(box); err != nil {
			return err
		}
	}
	return nil
}

// UpdateAll produces the final fragment per node, in deterministic order.
func UpdateAll(nodes map[string]*NodeBlock) (map[string]*Fragment, error) {
	out := make(map[string]*Fragment, len(nodes))
	for _, id := range sortedKeys(nodes) {
		f, err := nodes[id].Update()
		if err != nil {
			return nil, err
		}
		out[id] = f
	}
	return out, nil
}

func sortedKeys(m map[string]*NodeBlock) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
