package scene

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graph"
)

// ToDOT converts a compound graph to Graphviz DOT. Clusters become
// "subgraph cluster_*" blocks so dot draws the same containment this
// engine computes, which makes the two layouts directly comparable.
func ToDOT(g *graph.Graph) []byte {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, id := range g.Roots() {
		writeDOTNode(&buf, g, id, 1)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.Bytes()
}

func writeDOTNode(buf *bytes.Buffer, g *graph.Graph, id string, depth int) {
	indent := strings.Repeat("  ", depth)
	kids := g.Children(id)
	if len(kids) == 0 {
		label := id
		if n, ok := g.Node(id); ok && n.Label != "" {
			label = n.Label
		}
		fmt.Fprintf(buf, "%s%q [label=%q];\n", indent, id, label)
		return
	}

	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+id)
	label := id
	if n, ok := g.Node(id); ok && n.Label != "" {
		label = n.Label
	}
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, label)
	fmt.Fprintf(buf, "%s  style=\"rounded\";\n", indent)
	for _, kid := range kids {
		writeDOTNode(buf, g, kid, depth+1)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

// RenderGraphviz lays the graph out with dot and returns the resulting SVG.
// This bypasses the native pipeline entirely; it exists for side-by-side
// comparison and as an escape hatch for graphs the native engine handles
// poorly.
func RenderGraphviz(ctx context.Context, g *graph.Graph) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes(ToDOT(g))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse generated DOT")
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites graphviz's svg element to a zero-origin viewBox
// with pixel sizes, matching the native sink's framing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	repl := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(repl))
}
