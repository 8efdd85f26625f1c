// Package styles defines the pluggable look of a rendered scene.
//
// A Style turns scene elements into SVG markup. The sink owns document
// structure and ordering; styles own nothing but appearance, so a new look
// is one type with no layout knowledge.
package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/antopio26/graph-js/pkg/compose"
)

// Style renders the visual appearance of scene elements. Implementations
// must write well-formed SVG fragments and escape all text through
// [EscapeXML].
type Style interface {
	// Background returns the fill of the backdrop rect, "" for none.
	Background() string
	// RenderDefs writes <defs> content: markers, patterns, filters.
	RenderDefs(buf *bytes.Buffer)
	// RenderCluster writes one cluster frame.
	RenderCluster(buf *bytes.Buffer, c Cluster)
	// RenderEdge writes one edge: visible path, hit ribbon, label.
	RenderEdge(buf *bytes.Buffer, e Edge)
	// RenderNode writes one node from its composed fragment.
	RenderNode(buf *bytes.Buffer, n Node)
	// RenderOverlay writes the interaction layer (hover CSS, selection JS).
	RenderOverlay(buf *bytes.Buffer, o Overlay)
}

// Cluster is the drawable data of one cluster frame.
type Cluster struct {
	ID         string
	Label      string
	X, Y, W, H float64
	Depth      int
}

// Edge is the drawable data of one routed edge.
type Edge struct {
	ID       string
	Data     string // visible path data
	HitData  string // pointer ribbon path data (same outline)
	HitWidth float64
	Label    string
	LabelX   float64
	LabelY   float64
	Reversed bool
	SelfLoop bool
}

// Node is the drawable data of one node.
type Node struct {
	ID       string
	Fragment *compose.Fragment
}

// Overlay configures the interaction layer written after the content.
type Overlay struct {
	Interactive bool     // emit hover CSS and click-to-select script
	Selected    []string // node ids pre-marked as selected
}

// EscapeXML escapes text for use in SVG content and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Coord formats a coordinate with fixed precision so output is byte-stable.
func Coord(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// interactionCSS highlights hovered and selected nodes by class.
const interactionCSS = `
    .node .frame { transition: stroke-width 0.15s ease; }
    .node:hover .frame { stroke-width: 2.5; }
    .node.selected .frame { stroke-width: 3; }
    .edge-hit { pointer-events: stroke; }
    .edge:hover .edge-line { stroke-width: 2.5; }`

// interactionJS toggles the selected class on click.
const interactionJS = `
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('click', ev => {
        if (!ev.shiftKey) {
          document.querySelectorAll('.node.selected').forEach(n => { if (n !== el) n.classList.remove('selected'); });
        }
        el.classList.toggle('selected');
      });
    });`

// WriteInteraction emits the shared hover/selection overlay.
func WriteInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", interactionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
}
