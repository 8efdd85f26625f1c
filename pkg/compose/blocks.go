package compose

import "github.com/antopio26/graph-js/pkg/errors"

// ============================================================================
// HEADER
// ============================================================================

// Header is the title band at the top of a node. Fill and Stroke override
// the style's defaults when set.
type Header struct {
	blockState
	Title    string
	Subtitle string
	Fill     string
	Stroke   string

	titleH, subH float64
}

// NewHeader returns a header block with the given title.
func NewHeader(title string) *Header {
	return &Header{blockState: blockState{kind: "header"}, Title: title}
}

func (h *Header) Measure(m TextMeasurer) (Size, error) {
	if h.kind == "" {
		h.kind = "header"
	}
	title := m.Text(h.Title, TitleFontSize)
	h.titleH = title.H
	w, ht := title.W, title.H
	h.subH = 0
	if h.Subtitle != "" {
		sub := m.Text(h.Subtitle, SubtitleFontSize)
		h.subH = sub.H
		if sub.W > w {
			w = sub.W
		}
		ht += sub.H
	}
	return h.setMeasured(Size{W: w + 2*headerPad, H: ht + 2*headerPad})
}

func (h *Header) Layout(box Rect) error { return h.setBox(box) }

func (h *Header) Update() (*Fragment, error) {
	if err := h.requireLaidOut(); err != nil {
		return nil, err
	}
	f := &Fragment{Box: h.box}
	f.Rects = append(f.Rects, DecorRect{
		Rect: h.box, Kind: DecorHeader, Fill: h.Fill, Stroke: h.Stroke,
	})

	cx := h.box.X + h.box.W/2
	if h.Subtitle == "" {
		f.Texts = append(f.Texts, TextRun{
			Text: h.Title, X: cx, Y: baseline(h.box.Y, h.box.H, TitleFontSize),
			Size: TitleFontSize, Anchor: "middle", Kind: TextTitle,
		})
		return f, nil
	}

	top := h.box.Y + headerPad
	f.Texts = append(f.Texts,
		TextRun{
			Text: h.Title, X: cx, Y: baseline(top, h.titleH, TitleFontSize),
			Size: TitleFontSize, Anchor: "middle", Kind: TextTitle,
		},
		TextRun{
			Text: h.Subtitle, X: cx, Y: baseline(top+h.titleH, h.subH, SubtitleFontSize),
			Size: SubtitleFontSize, Anchor: "middle", Kind: TextSubtitle,
		})
	return f, nil
}

// ============================================================================
// PROPERTY LIST
// ============================================================================

// Row is one key/value line of a PropertyList. When Node is set the row
// embeds a whole nested node in place of the value text.
type Row struct {
	Key   string
	Value string
	Node  *NodeBlock
}

// PropertyList stacks rows of keys and values. Row heights grow to fit an
// embedded node; an empty list measures to zero height.
type PropertyList struct {
	blockState
	Rows []Row

	rowH []float64
	rows []Rect
}

// NewPropertyList returns a property list with the given rows.
func NewPropertyList(rows ...Row) *PropertyList {
	return &PropertyList{blockState: blockState{kind: "property list"}, Rows: rows}
}

func (p *PropertyList) Measure(m TextMeasurer) (Size, error) {
	if p.kind == "" {
		p.kind = "property list"
	}
	p.rowH = make([]float64, len(p.Rows))
	var w, h float64
	for i, row := range p.Rows {
		key := m.Text(row.Key, RowFontSize)
		var val Size
		if row.Node != nil {
			if row.Node.st < phaseMeasured {
				return Size{}, errors.New(errors.ErrCodeRenderPrecondition,
					"property row %d embeds node %q that has not been measured", i, row.Node.ID)
			}
			val = row.Node.MinSize()
		} else {
			val = m.Text(row.Value, RowFontSize)
		}
		p.rowH[i] = max(key.H, val.H) + 2*rowPad
		h += p.rowH[i]
		if rw := key.W + keyGap + val.W + 2*rowPad; rw > w {
			w = rw
		}
	}
	return p.setMeasured(Size{W: w, H: h})
}

func (p *PropertyList) Layout(box Rect) error {
	if err := p.setBox(box); err != nil {
		return err
	}
	p.rows = make([]Rect, len(p.Rows))
	y := box.Y
	for i, row := range p.Rows {
		r := Rect{X: box.X, Y: y, W: box.W, H: p.rowH[i]}
		p.rows[i] = r
		y += r.H

		if row.Node != nil {
			min := row.Node.MinSize()
			nb := Rect{
				X: r.X + r.W - rowPad - min.W,
				Y: r.Y + (r.H-min.H)/2,
				W: min.W,
				H: min.H,
			}
			if err := row.Node.Layout(nb); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *PropertyList) Update() (*Fragment, error) {
	if err := p.requireLaidOut(); err != nil {
		return nil, err
	}
	f := &Fragment{Box: p.box}
	for i, row := range p.Rows {
		r := p.rows[i]
		if i > 0 {
			f.Rects = append(f.Rects, DecorRect{
				Rect: Rect{X: p.box.X, Y: r.Y - separatorH/2, W: p.box.W, H: separatorH},
				Kind: DecorSeparator,
			})
		}
		f.Texts = append(f.Texts, TextRun{
			Text: row.Key, X: r.X + rowPad, Y: baseline(r.Y, r.H, RowFontSize),
			Size: RowFontSize, Anchor: "start", Kind: TextKey,
		})
		if row.Node != nil {
			nf, err := row.Node.Update()
			if err != nil {
				return nil, err
			}
			f.Nested = append(f.Nested, nf)
		} else if row.Value != "" {
			f.Texts = append(f.Texts, TextRun{
				Text: row.Value, X: r.X + r.W - rowPad, Y: baseline(r.Y, r.H, RowFontSize),
				Size: RowFontSize, Anchor: "end", Kind: TextValue,
			})
		}
		f.Rows = append(f.Rows, RowHit{Index: i, Rect: r})
	}
	return f, nil
}

// ============================================================================
// CANVAS
// ============================================================================

// CanvasChild is a nested node pinned at an offset inside a canvas.
type CanvasChild struct {
	Node   *NodeBlock
	DX, DY float64
}

// Canvas is a free-form child area with an explicit minimum size. Children
// keep their measured sizes and sit at fixed offsets from the canvas origin.
type Canvas struct {
	blockState
	MinW, MinH float64
	Children   []CanvasChild
}

// NewCanvas returns a canvas block with the given minimum extent.
func NewCanvas(minW, minH float64) *Canvas {
	return &Canvas{blockState: blockState{kind: "canvas"}, MinW: minW, MinH: minH}
}

func (c *Canvas) Measure(m TextMeasurer) (Size, error) {
	if c.kind == "" {
		c.kind = "canvas"
	}
	w, h := c.MinW, c.MinH
	for i, ch := range c.Children {
		if ch.Node.st < phaseMeasured {
			return Size{}, errors.New(errors.ErrCodeRenderPrecondition,
				"canvas child %d embeds node %q that has not been measured", i, ch.Node.ID)
		}
		min := ch.Node.MinSize()
		w = max(w, ch.DX+min.W+rowPad)
		h = max(h, ch.DY+min.H+rowPad)
	}
	return c.setMeasured(Size{W: w, H: h})
}

func (c *Canvas) Layout(box Rect) error {
	if err := c.setBox(box); err != nil {
		return err
	}
	for _, ch := range c.Children {
		min := ch.Node.MinSize()
		nb := Rect{X: box.X + ch.DX, Y: box.Y + ch.DY, W: min.W, H: min.H}
		if err := ch.Node.Layout(nb); err != nil {
			return err
		}
	}
	return nil
}

func (c *Canvas) Update() (*Fragment, error) {
	if err := c.requireLaidOut(); err != nil {
		return nil, err
	}
	f := &Fragment{Box: c.box}
	f.Rects = append(f.Rects, DecorRect{Rect: c.box, Kind: DecorCanvas})
	for _, ch := range c.Children {
		nf, err := ch.Node.Update()
		if err != nil {
			return nil, err
		}
		f.Nested = append(f.Nested, nf)
	}
	return f, nil
}
