package compose

// Fragment is the frozen geometry of a block, ready for a rendering sink.
// Coordinates are absolute scene coordinates. For a whole node the fragment
// carries the frame box and the merged content of its block stack; nested
// nodes appear under Nested with their own frames.
type Fragment struct {
	NodeID string  `json:"node_id,omitempty" bson:"node_id,omitempty"`
	Box    Rect    `json:"box" bson:"box"`
	Corner float64 `json:"corner,omitempty" bson:"corner,omitempty"`

	Rects  []DecorRect `json:"rects,omitempty" bson:"rects,omitempty"`
	Texts  []TextRun   `json:"texts,omitempty" bson:"texts,omitempty"`
	Rows   []RowHit    `json:"rows,omitempty" bson:"rows,omitempty"`
	Nested []*Fragment `json:"nested,omitempty" bson:"nested,omitempty"`
}

// Decor kinds emitted by the built-in blocks. Styles dispatch on these.
const (
	DecorHeader    = "header"
	DecorSeparator = "separator"
	DecorCanvas    = "canvas"
)

// DecorRect is a styled box inside a fragment: the header band, a row
// separator, the canvas well.
type DecorRect struct {
	Rect   `bson:",inline"`
	Kind   string  `json:"kind" bson:"kind"`
	Fill   string  `json:"fill,omitempty" bson:"fill,omitempty"`
	Stroke string  `json:"stroke,omitempty" bson:"stroke,omitempty"`
	Corner float64 `json:"corner,omitempty" bson:"corner,omitempty"`
}

// Text kinds emitted by the built-in blocks.
const (
	TextTitle    = "title"
	TextSubtitle = "subtitle"
	TextKey      = "key"
	TextValue    = "value"
)

// TextRun is a positioned piece of text. Y is the baseline, Anchor is an
// SVG text-anchor value ("start", "middle" or "end").
type TextRun struct {
	Text   string  `json:"text" bson:"text"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Size   float64 `json:"size" bson:"size"`
	Anchor string  `json:"anchor" bson:"anchor"`
	Kind   string  `json:"kind" bson:"kind"`
}

// RowHit is the pointer-test box of one property row, indexed per node.
type RowHit struct {
	Index int  `json:"index" bson:"index"`
	Rect  Rect `json:"rect" bson:"rect"`
}

// merge appends another fragment's content in place, renumbering row hits so
// indices stay unique per node.
func (f *Fragment) merge(other *Fragment) {
	offset := len(f.Rows)
	f.Rects = append(f.Rects, other.Rects...)
	f.Texts = append(f.Texts, other.Texts...)
	for _, r := range other.Rows {
		r.Index += offset
		f.Rows = append(f.Rows, r)
	}
	f.Nested = append(f.Nested, other.Nested...)
}

// baseline vertically centers a text run of the given font size in a band.
func baseline(bandY, bandH, fontSize float64) float64 {
	return bandY + bandH/2 + fontSize*0.35
}
