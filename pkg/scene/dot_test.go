package scene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/antopio26/graph-js/pkg/graph"
)

func TestToDOT(t *testing.T) {
	g := graph.New()
	for _, n := range []graph.Node{
		{ID: "grp", Label: "Group"},
		{ID: "a"},
		{ID: "b", Label: "Beta"},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.SetParent("a", "grp"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(graph.Edge{From: "a", To: "b"}); err != nil {
		t.Fatal(err)
	}

	out := string(ToDOT(g))
	for _, want := range []string{
		"digraph G {",
		"compound=true;",
		`subgraph "cluster_grp" {`,
		`label="Group";`,
		`"b" [label="Beta"];`,
		`"a" -> "b";`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, out)
		}
	}

	// Member nodes are declared inside their cluster block.
	if strings.Index(out, `subgraph "cluster_grp"`) > strings.Index(out, `"a" [label="a"];`) {
		t.Error("member node declared outside its cluster subgraph")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"c", "a", "b"} {
		if err := g.AddNode(graph.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := g.AddEdge(graph.Edge{From: "a", To: "b"}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddEdge(graph.Edge{From: "a", To: "c"}); err != nil {
		t.Fatal(err)
	}

	first := ToDOT(g)
	for i := 0; i < 3; i++ {
		if !bytes.Equal(first, ToDOT(g)) {
			t.Fatal("ToDOT() output differs between runs")
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="134pt" height="98pt" viewBox="0.00 0.00 133.68 98.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 133.68 98.00"`) {
		t.Errorf("viewBox not rewritten: %s", out)
	}
	if strings.Contains(out, "pt") {
		t.Errorf("point units survived the rewrite: %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("svg without viewBox should pass through, got %s", got)
	}
}
