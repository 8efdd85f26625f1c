package styles

import (
	"bytes"
	"fmt"

	"github.com/antopio26/graph-js/pkg/compose"
)

const blueprintFont = "ui-monospace, SFMono-Regular, monospace"

// Blueprint draws white strokes on a dark gridded background, like a
// technical drawing. Fills are transparent; structure comes from lines.
type Blueprint struct{}

func (Blueprint) Background() string { return "url(#bp-grid)" }

func (Blueprint) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <pattern id="bp-grid" width="24" height="24" patternUnits="userSpaceOnUse">
      <rect width="24" height="24" fill="#0e2439"/>
      <path d="M 24 0 L 0 0 0 24" fill="none" stroke="#1d3c59" stroke-width="1"/>
    </pattern>
    <marker id="bp-arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">
      <path d="M 0 1 L 9 5 L 0 9 z" fill="#9fd1ff"/>
    </marker>
  </defs>
`)
}

func (Blueprint) RenderCluster(buf *bytes.Buffer, c Cluster) {
	fmt.Fprintf(buf, `  <g class="cluster" id="cluster-%s">`+"\n", EscapeXML(c.ID))
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#5f8cb8" stroke-width="1" stroke-dasharray="6 4"/>`+"\n",
		Coord(c.X), Coord(c.Y), Coord(c.W), Coord(c.H))
	if c.Label != "" {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="%s" font-size="11" fill="#5f8cb8">%s</text>`+"\n",
			Coord(c.X+8), Coord(c.Y+16), blueprintFont, EscapeXML(c.Label))
	}
	buf.WriteString("  </g>\n")
}

func (Blueprint) RenderEdge(buf *bytes.Buffer, e Edge) {
	fmt.Fprintf(buf, `  <g class="edge" id="edge-%s">`+"\n", EscapeXML(e.ID))
	fmt.Fprintf(buf, `    <path class="edge-line" d="%s" fill="none" stroke="#9fd1ff" stroke-width="1.2" marker-end="url(#bp-arrow)"/>`+"\n", e.Data)
	fmt.Fprintf(buf, `    <path class="edge-hit" d="%s" fill="none" stroke="transparent" stroke-width="%s"/>`+"\n",
		e.HitData, Coord(e.HitWidth))
	if e.Label != "" {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="%s" font-size="10" fill="#9fd1ff" text-anchor="middle">%s</text>`+"\n",
			Coord(e.LabelX), Coord(e.LabelY-4), blueprintFont, EscapeXML(e.Label))
	}
	buf.WriteString("  </g>\n")
}

func (b Blueprint) RenderNode(buf *bytes.Buffer, n Node) {
	fmt.Fprintf(buf, `  <g class="node" id="node-%s">`+"\n", EscapeXML(n.ID))
	b.renderFragment(buf, n.Fragment)
	buf.WriteString("  </g>\n")
}

func (b Blueprint) renderFragment(buf *bytes.Buffer, f *compose.Fragment) {
	if f == nil {
		return
	}
	fmt.Fprintf(buf, `    <rect class="frame" x="%s" y="%s" width="%s" height="%s" rx="%s" fill="#0e2439" fill-opacity="0.85" stroke="#e8f3ff" stroke-width="1.2"/>`+"\n",
		Coord(f.Box.X), Coord(f.Box.Y), Coord(f.Box.W), Coord(f.Box.H), Coord(f.Corner))

	for _, r := range f.Rects {
		switch r.Kind {
		case compose.DecorHeader:
			fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#e8f3ff" stroke-width="0.8"/>`+"\n",
				Coord(r.X), Coord(r.Y), Coord(r.W), Coord(r.H))
		case compose.DecorSeparator:
			fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#5f8cb8" stroke-width="0.6"/>`+"\n",
				Coord(r.X), Coord(r.Y+r.H/2), Coord(r.X+r.W), Coord(r.Y+r.H/2))
		case compose.DecorCanvas:
			fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#5f8cb8" stroke-width="0.6" stroke-dasharray="3 3"/>`+"\n",
				Coord(r.X), Coord(r.Y), Coord(r.W), Coord(r.H))
		}
	}

	for _, tr := range f.Texts {
		fill := "#e8f3ff"
		if tr.Kind == compose.TextSubtitle || tr.Kind == compose.TextKey {
			fill = "#9fd1ff"
		}
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s" text-anchor="%s">%s</text>`+"\n",
			Coord(tr.X), Coord(tr.Y), blueprintFont, Coord(tr.Size), fill, tr.Anchor, EscapeXML(tr.Text))
	}

	for _, nf := range f.Nested {
		b.renderFragment(buf, nf)
	}
}

func (Blueprint) RenderOverlay(buf *bytes.Buffer, o Overlay) {
	for _, id := range o.Selected {
		fmt.Fprintf(buf, "  <style>g[id=\"node-%s\"] .frame { stroke-width: 2.4; }</style>\n", EscapeXML(id))
	}
	if o.Interactive {
		WriteInteraction(buf)
	}
}
