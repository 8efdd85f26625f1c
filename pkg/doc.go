// Package pkg provides the core libraries for graphjs compound graph drawing.
//
// # Overview
//
// graphjs turns graph specs into layered drawings: nodes composed of content
// blocks, clusters that frame subgraphs, and edges routed as smooth curves.
// The pkg directory is organized into four main areas:
//
//  1. Structure - the compound graph and its construction ([graph], [builder])
//  2. Geometry - node content, placement, and edge paths ([compose], [layout], [curve])
//  3. Presentation - assembled scenes, output formats, interaction ([scene], [interact], [graphio])
//  4. Infrastructure - orchestration, caching, persistence, configuration
//     ([pipeline], [cache], [store], [config], [errors], [observability])
//
// # Architecture
//
// The typical data flow through graphjs:
//
//	JSON spec
//	     ↓
//	[builder] package (validate + build the compound graph)
//	     ↓
//	[compose] package (node content blocks + measurement)
//	     ↓
//	[layout] package (ranking, ordering, coordinates, edge routing)
//	     ↓
//	[scene] package (assembled drawing)
//	     ↓
//	SVG/PDF/PNG/JSON/DOT output
//
// # Quick Start
//
// Build a graph from a spec and render it:
//
//	import (
//	    "context"
//	    "github.com/antopio26/graph-js/pkg/builder"
//	    "github.com/antopio26/graph-js/pkg/pipeline"
//	)
//
//	spec := &builder.Spec{
//	    Nodes: []builder.NodeSpec{
//	        {ID: "api", Label: "API"},
//	        {ID: "db", Label: "Database"},
//	    },
//	    Edges: []builder.EdgeSpec{{From: "api", To: "db"}},
//	}
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	defer runner.Close()
//
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Spec:    spec,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.SVG()
//
// # Main Packages
//
// ## Structure
//
// [graph] - The compound graph: nodes, directed edges, and nested clusters.
// Validates structure on construction and answers topology queries (roots,
// cluster membership, reachability).
//
// [builder] - Spec decoding and graph construction. Assigns deterministic
// IDs, resolves cluster membership, and surfaces structural problems as
// typed errors.
//
// ## Geometry
//
// [compose] - Node content: headers, property rows, and canvas blocks
// measured into fragments with hit-testable geometry.
//
// [layout] - The layered layout engine: cycle handling, rank assignment,
// crossing reduction sweeps, horizontal coordinates, cluster frames, and
// edge routing through virtual nodes.
//
// [curve] - Smooth edge paths. Builds cubic segments through route points
// and answers label anchoring and hit tests.
//
// ## Presentation
//
// [scene] - Assembles graph, layout, and fragments into a drawable scene
// and renders it: deterministic SVG, DOT export, Graphviz rendering, and
// PDF/PNG conversion via librsvg.
//
// [scene/styles] - Visual styles (simple, blueprint).
//
// [interact] - Hover and selection state shared between outputs. Hit
// indices over fragments and edge paths, pointer transitions, and typed
// event buses.
//
// [graphio] - Serialization types for graphs and layouts (versioned JSON
// documents).
//
// ## Infrastructure
//
// [pipeline] - Complete drawing pipeline (load → layout → render) used by
// the CLI and the HTTP API. Content-addressed caching at every stage.
//
// [cache] - Cache backends: file (CLI), Redis (shared), null (testing).
// Keys hash the inputs so stale entries are structurally unreachable.
//
// [store] - Scene persistence: memory and MongoDB backends for rendered
// results.
//
// [config] - TOML configuration with strict decoding and validation.
//
// [errors] - Coded errors shared across the module.
//
// [observability] - Pipeline and server hooks with a Prometheus
// implementation.
//
// # Common Workflows
//
// Load a spec from disk:
//
//	spec, _ := builder.LoadSpec("pipeline.json")
//	g, _ := builder.Build(ctx, spec)
//
// Compute a layout directly:
//
//	res, _ := layout.Run(ctx, g, layout.Config{Direction: layout.LeftRight})
//
// React to selection changes:
//
//	events := interact.NewEvents(logger)
//	events.Node.Subscribe(func(ev interact.NodeEvent) {
//	    fmt.Printf("%s: %s\n", ev.Type, ev.ID)
//	})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/layout/...       # Specific package
//	go test -run Example           # Examples only
//
// [graph]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/graph
// [builder]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/builder
// [compose]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/compose
// [layout]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/layout
// [curve]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/curve
// [scene]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/scene
// [scene/styles]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/scene/styles
// [interact]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/interact
// [graphio]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/graphio
// [pipeline]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/cache
// [store]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/store
// [config]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/config
// [errors]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/errors
// [observability]: https://pkg.go.dev/github.com/antopio26/graph-js/pkg/observability
package pkg
