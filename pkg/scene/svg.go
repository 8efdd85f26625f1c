package scene

import (
	"bytes"
	"fmt"
	"io"

	"github.com/antopio26/graph-js/pkg/scene/styles"
)

// Option configures the SVG sink.
type Option func(*svgSink)

type svgSink struct {
	style       styles.Style
	padding     float64
	id          string
	interactive bool
	selected    []string
}

// WithStyle selects the visual style, default [styles.Simple].
func WithStyle(s styles.Style) Option { return func(r *svgSink) { r.style = s } }

// WithPadding adds extra space around the scene content.
func WithPadding(p float64) Option { return func(r *svgSink) { r.padding = p } }

// WithID sets the id attribute of the root svg element.
func WithID(id string) Option { return func(r *svgSink) { r.id = id } }

// WithInteraction enables the hover and click-to-select overlay.
func WithInteraction() Option { return func(r *svgSink) { r.interactive = true } }

// WithSelected pre-marks nodes as selected in the overlay.
func WithSelected(ids ...string) Option { return func(r *svgSink) { r.selected = ids } }

// RenderSVG serializes the scene as a standalone SVG document.
func RenderSVG(s *Scene, opts ...Option) []byte {
	r := svgSink{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}

	w := s.Size.W + 2*r.padding
	h := s.Size.H + 2*r.padding

	var buf bytes.Buffer
	idAttr := ""
	if r.id != "" {
		idAttr = fmt.Sprintf(` id="%s"`, styles.EscapeXML(r.id))
	}
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg"%s viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		idAttr, w, h, w, h)

	r.style.RenderDefs(&buf)
	if bg := r.style.Background(); bg != "" {
		fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, bg)
	}

	if r.padding != 0 {
		fmt.Fprintf(&buf, `  <g transform="translate(%.1f %.1f)">`+"\n", r.padding, r.padding)
	}

	for _, c := range s.Clusters {
		r.style.RenderCluster(&buf, styles.Cluster{
			ID: c.ID, Label: c.Label, X: c.X, Y: c.Y, W: c.W, H: c.H, Depth: c.Depth,
		})
	}
	for _, e := range s.Edges {
		hit := e.Path.Hit()
		r.style.RenderEdge(&buf, styles.Edge{
			ID:       e.ID,
			Data:     e.Path.SVG(),
			HitData:  hit.Data,
			HitWidth: hit.Width,
			Label:    e.Label,
			LabelX:   e.Anchor.X,
			LabelY:   e.Anchor.Y,
			Reversed: e.Reversed,
			SelfLoop: e.SelfLoop,
		})
	}
	for _, f := range s.Nodes {
		r.style.RenderNode(&buf, styles.Node{ID: f.NodeID, Fragment: f})
	}

	if r.padding != 0 {
		buf.WriteString("  </g>\n")
	}

	r.style.RenderOverlay(&buf, styles.Overlay{
		Interactive: r.interactive,
		Selected:    r.selected,
	})

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WriteSVG renders the scene and writes it to w.
func WriteSVG(w io.Writer, s *Scene, opts ...Option) error {
	_, err := w.Write(RenderSVG(s, opts...))
	return err
}
