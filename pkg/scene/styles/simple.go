package styles

import (
	"bytes"
	"fmt"

	"github.com/antopio26/graph-js/pkg/compose"
)

const (
	simpleFont     = "ui-sans-serif, system-ui, sans-serif"
	simpleMonoFont = "ui-monospace, SFMono-Regular, monospace"
)

// Simple is the default look: flat fills, one accent per element kind,
// readable on white.
type Simple struct{}

func (Simple) Background() string { return "#ffffff" }

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">
      <path d="M 0 1 L 9 5 L 0 9 z" fill="#5b5b6b"/>
    </marker>
  </defs>
`)
}

func (Simple) RenderCluster(buf *bytes.Buffer, c Cluster) {
	fmt.Fprintf(buf, `  <g class="cluster" id="cluster-%s">`+"\n", EscapeXML(c.ID))
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" rx="8" fill="#f7f7fa" stroke="#c9c9d6" stroke-width="1.2"/>`+"\n",
		Coord(c.X), Coord(c.Y), Coord(c.W), Coord(c.H))
	if c.Label != "" {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="%s" font-size="12" font-weight="600" fill="#7a7a8c">%s</text>`+"\n",
			Coord(c.X+10), Coord(c.Y+18), simpleFont, EscapeXML(c.Label))
	}
	buf.WriteString("  </g>\n")
}

func (Simple) RenderEdge(buf *bytes.Buffer, e Edge) {
	fmt.Fprintf(buf, `  <g class="edge" id="edge-%s">`+"\n", EscapeXML(e.ID))
	fmt.Fprintf(buf, `    <path class="edge-line" d="%s" fill="none" stroke="#5b5b6b" stroke-width="1.5" marker-end="url(#arrow)"/>`+"\n", e.Data)
	fmt.Fprintf(buf, `    <path class="edge-hit" d="%s" fill="none" stroke="transparent" stroke-width="%s"/>`+"\n",
		e.HitData, Coord(e.HitWidth))
	if e.Label != "" {
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="%s" font-size="11" fill="#444454" text-anchor="middle" paint-order="stroke" stroke="#ffffff" stroke-width="3">%s</text>`+"\n",
			Coord(e.LabelX), Coord(e.LabelY-4), simpleFont, EscapeXML(e.Label))
	}
	buf.WriteString("  </g>\n")
}

func (s Simple) RenderNode(buf *bytes.Buffer, n Node) {
	fmt.Fprintf(buf, `  <g class="node" id="node-%s">`+"\n", EscapeXML(n.ID))
	s.renderFragment(buf, n.Fragment)
	buf.WriteString("  </g>\n")
}

func (s Simple) renderFragment(buf *bytes.Buffer, f *compose.Fragment) {
	if f == nil {
		return
	}
	fmt.Fprintf(buf, `    <rect class="frame" x="%s" y="%s" width="%s" height="%s" rx="%s" fill="#ffffff" stroke="#44445a" stroke-width="1.5"/>`+"\n",
		Coord(f.Box.X), Coord(f.Box.Y), Coord(f.Box.W), Coord(f.Box.H), Coord(f.Corner))

	for _, r := range f.Rects {
		switch r.Kind {
		case compose.DecorHeader:
			fill := r.Fill
			if fill == "" {
				fill = "#ececf4"
			}
			fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s"/>`+"\n",
				Coord(r.X), Coord(r.Y), Coord(r.W), Coord(r.H), Coord(r.Corner), EscapeXML(fill))
		case compose.DecorSeparator:
			fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="#e3e3ea"/>`+"\n",
				Coord(r.X), Coord(r.Y), Coord(r.W), Coord(r.H))
		case compose.DecorCanvas:
			fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="#fafafc" stroke="#e3e3ea" stroke-dasharray="4 3"/>`+"\n",
				Coord(r.X), Coord(r.Y), Coord(r.W), Coord(r.H))
		}
	}

	for _, tr := range f.Texts {
		fill, weight, family := "#222230", "400", simpleFont
		switch tr.Kind {
		case compose.TextTitle:
			weight = "600"
		case compose.TextSubtitle:
			fill = "#7a7a8c"
		case compose.TextKey:
			fill = "#66667a"
		case compose.TextValue:
			family = simpleMonoFont
		}
		fmt.Fprintf(buf, `    <text x="%s" y="%s" font-family="%s" font-size="%s" font-weight="%s" fill="%s" text-anchor="%s">%s</text>`+"\n",
			Coord(tr.X), Coord(tr.Y), family, Coord(tr.Size), weight, fill, tr.Anchor, EscapeXML(tr.Text))
	}

	for _, nf := range f.Nested {
		s.renderFragment(buf, nf)
	}
}

func (Simple) RenderOverlay(buf *bytes.Buffer, o Overlay) {
	for _, id := range o.Selected {
		fmt.Fprintf(buf, "  <style>g[id=\"node-%s\"] .frame { stroke-width: 3; }</style>\n", EscapeXML(id))
	}
	if o.Interactive {
		WriteInteraction(buf)
	}
}
