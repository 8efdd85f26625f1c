package scene

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/antopio26/graph-js/pkg/compose"
	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/graph"
	"github.com/antopio26/graph-js/pkg/layout"
	"github.com/antopio26/graph-js/pkg/scene/styles"
)

func testInputs(t *testing.T) (*graph.Graph, *layout.Result, map[string]*compose.Fragment) {
	t.Helper()
	g := graph.New()
	for _, n := range []graph.Node{
		{ID: "grp", Label: "Group"},
		{ID: "a", Label: "Alpha", W: 100, H: 60},
		{ID: "b", Label: "Beta", W: 100, H: 60},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.SetParent("a", "grp"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(graph.Edge{ID: "e1", From: "a", To: "b", Label: "calls"}); err != nil {
		t.Fatal(err)
	}

	res := &layout.Result{
		Nodes: map[string]layout.NodePlacement{
			"a": {X: 70, Y: 60, W: 100, H: 60},
			"b": {X: 70, Y: 200, W: 100, H: 60, Rank: 1},
		},
		Clusters: map[string]layout.ClusterPlacement{
			"grp": {X: 70, Y: 60, W: 132, H: 92, Depth: 0},
		},
		Edges: map[string]layout.EdgePath{
			"e1": {Points: []layout.Point{{X: 70, Y: 90}, {X: 70, Y: 170}}},
		},
		Size: layout.Size{W: 300, H: 280},
	}

	fragments := map[string]*compose.Fragment{
		"a": {NodeID: "a", Box: compose.Rect{X: 20, Y: 30, W: 100, H: 60}},
		"b": {NodeID: "b", Box: compose.Rect{X: 20, Y: 170, W: 100, H: 60}},
	}
	return g, res, fragments
}

func TestAssemble(t *testing.T) {
	g, res, fragments := testInputs(t)
	s, err := Assemble(g, res, fragments)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if len(s.Clusters) != 1 || s.Clusters[0].ID != "grp" {
		t.Fatalf("Clusters = %+v, want one for grp", s.Clusters)
	}
	c := s.Clusters[0]
	if c.X != 70-66 || c.Y != 60-46 {
		t.Errorf("cluster top-left = (%v, %v), want center minus half size", c.X, c.Y)
	}
	if c.Label != "Group" {
		t.Errorf("cluster label = %q, want Group", c.Label)
	}

	if len(s.Edges) != 1 || s.Edges[0].ID != "e1" {
		t.Fatalf("Edges = %+v, want one for e1", s.Edges)
	}
	if s.Edges[0].Label != "calls" {
		t.Errorf("edge label = %q, want calls", s.Edges[0].Label)
	}
	a := s.Edges[0].Anchor
	if math.Abs(a.X-70) > 1e-6 || math.Abs(a.Y-130) > 1e-6 {
		t.Errorf("edge anchor = %+v, want the path midpoint (70, 130)", a)
	}

	if len(s.Nodes) != 2 || s.Nodes[0].NodeID != "a" || s.Nodes[1].NodeID != "b" {
		t.Errorf("Nodes out of order: %v, %v", s.Nodes[0].NodeID, s.Nodes[1].NodeID)
	}
}

func TestAssembleLabelSide(t *testing.T) {
	g, res, fragments := testInputs(t)
	if _, err := g.AddEdge(graph.Edge{ID: "e2", From: "b", To: "a", Label: "returns", LabelSide: "left", LabelOffset: 14}); err != nil {
		t.Fatal(err)
	}
	res.Edges["e2"] = layout.EdgePath{Points: []layout.Point{{X: 90, Y: 170}, {X: 90, Y: 90}}}

	s, err := Assemble(g, res, fragments)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	var e2 EdgeDraw
	for _, e := range s.Edges {
		if e.ID == "e2" {
			e2 = e
		}
	}
	// Upward travel: the traveler's left is the drawing's left.
	if math.Abs(e2.Anchor.X-76) > 1e-6 || math.Abs(e2.Anchor.Y-130) > 1e-6 {
		t.Errorf("anchor = %+v, want (76, 130), offset to the travel-left side", e2.Anchor)
	}
}

func TestAssembleMismatch(t *testing.T) {
	g, res, fragments := testInputs(t)

	t.Run("placed but not composed", func(t *testing.T) {
		missing := map[string]*compose.Fragment{"a": fragments["a"]}
		_, err := Assemble(g, res, missing)
		if !errors.Is(err, errors.ErrCodeRenderPrecondition) {
			t.Errorf("Assemble() error = %v, want RENDER_PRECONDITION", err)
		}
	})

	t.Run("composed but not placed", func(t *testing.T) {
		extra := map[string]*compose.Fragment{
			"a": fragments["a"], "b": fragments["b"],
			"ghost": {NodeID: "ghost"},
		}
		_, err := Assemble(g, res, extra)
		if !errors.Is(err, errors.ErrCodeRenderPrecondition) {
			t.Errorf("Assemble() error = %v, want RENDER_PRECONDITION", err)
		}
	})
}

func TestRenderSVG(t *testing.T) {
	g, res, fragments := testInputs(t)
	s, err := Assemble(g, res, fragments)
	if err != nil {
		t.Fatal(err)
	}

	out := string(RenderSVG(s))
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`viewBox="0 0 300.0 280.0"`,
		`id="cluster-grp"`,
		`id="edge-e1"`,
		`id="node-a"`,
		`id="node-b"`,
		">Group</text>",
		"</svg>\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}

	// Clusters paint before edges, edges before nodes.
	if strings.Index(out, "cluster-grp") > strings.Index(out, "edge-e1") {
		t.Error("cluster painted after edge")
	}
	if strings.Index(out, "edge-e1") > strings.Index(out, "node-a") {
		t.Error("edge painted after node")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	g, res, fragments := testInputs(t)
	s, err := Assemble(g, res, fragments)
	if err != nil {
		t.Fatal(err)
	}
	first := RenderSVG(s)
	for i := 0; i < 3; i++ {
		if !bytes.Equal(first, RenderSVG(s)) {
			t.Fatal("RenderSVG() output differs between runs")
		}
	}
}

func TestRenderSVGOptions(t *testing.T) {
	g, res, fragments := testInputs(t)
	s, err := Assemble(g, res, fragments)
	if err != nil {
		t.Fatal(err)
	}

	out := string(RenderSVG(s,
		WithStyle(styles.Blueprint{}),
		WithPadding(10),
		WithID("diagram"),
		WithInteraction(),
	))
	for _, want := range []string{
		`id="diagram"`,
		`viewBox="0 0 320.0 300.0"`,
		`url(#bp-grid)`,
		`translate(10.0 10.0)`,
		"<script",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
}

func TestRenderSVGEscapesText(t *testing.T) {
	g := graph.New()
	if err := g.AddNode(graph.Node{ID: "x", Label: `A<B>&"C"`}); err != nil {
		t.Fatal(err)
	}
	res := &layout.Result{
		Nodes: map[string]layout.NodePlacement{"x": {X: 50, Y: 30, W: 100, H: 60}},
		Size:  layout.Size{W: 100, H: 60},
	}
	fragments := map[string]*compose.Fragment{
		"x": {
			NodeID: "x",
			Box:    compose.Rect{X: 0, Y: 0, W: 100, H: 60},
			Texts: []compose.TextRun{
				{Text: `A<B>&"C"`, X: 50, Y: 30, Size: 14, Anchor: "middle", Kind: compose.TextTitle},
			},
		},
	}
	s, err := Assemble(g, res, fragments)
	if err != nil {
		t.Fatal(err)
	}
	out := string(RenderSVG(s))
	if strings.Contains(out, "A<B>") {
		t.Error("unescaped markup leaked into the SVG")
	}
	if !strings.Contains(out, "A&lt;B&gt;&amp;") {
		t.Error("expected escaped text content")
	}
}

func TestWriteSVG(t *testing.T) {
	g, res, fragments := testInputs(t)
	s, err := Assemble(g, res, fragments)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteSVG(&buf, s); err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	if !bytes.Equal(buf.Bytes(), RenderSVG(s)) {
		t.Error("WriteSVG() differs from RenderSVG()")
	}
}
