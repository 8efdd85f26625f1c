package graph_test

import (
	"fmt"

	"github.com/antopio26/graph-js/pkg/graph"
)

func ExampleGraph() {
	g := graph.New()
	g.AddNode(graph.Node{ID: "api"})
	g.AddNode(graph.Node{ID: "auth"})
	g.AddNode(graph.Node{ID: "db"})
	g.AddEdge(graph.Edge{From: "api", To: "auth"})
	g.AddEdge(graph.Edge{From: "auth", To: "db"})

	fmt.Println("nodes:", g.NodeCount())
	fmt.Println("edges:", g.EdgeCount())
	// Output:
	// nodes: 3
	// edges: 2
}

func ExampleGraph_SetParent() {
	g := graph.New()
	g.AddNode(graph.Node{ID: "backend"})
	g.AddNode(graph.Node{ID: "api"})
	g.AddNode(graph.Node{ID: "worker"})
	g.SetParent("api", "backend")
	g.SetParent("worker", "backend")

	fmt.Println(g.Children("backend"))
	fmt.Println(g.IsCluster("backend"))
	// Output:
	// [api worker]
	// true
}
