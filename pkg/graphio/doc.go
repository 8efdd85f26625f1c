// Package graphio provides versioned JSON import and export for compound
// graphs and layout results.
//
// # Graph Format
//
// A graph document has a format version and three arrays:
//
//	{
//	  "version": 1,
//	  "nodes": [
//	    {"id": "api", "label": "API", "w": 160, "h": 80},
//	    {"id": "db"}
//	  ],
//	  "edges": [
//	    {"from": "api", "to": "db", "label": "queries"}
//	  ],
//	  "clusters": [
//	    {"id": "backend", "label": "Backend", "children": ["api", "db"]}
//	  ]
//	}
//
// Nodes list the leaf elements; clusters list the compound frames with their
// member IDs. A cluster may contain other clusters. Every field except the
// IDs is optional: labels default to the ID, sizes to zero (the composition
// pipeline fills them in), edge minlen to 1 and weight to 1.
//
// Documents without a "version" field are read as version 1. Documents with
// a newer version than this package writes are rejected rather than silently
// misread.
//
// # Layout Format
//
// [LayoutDocument] carries a complete layout result: per-node placements,
// cluster boxes, routed edge paths, the drawing size and run statistics.
// It exists for external tools that consume computed positions instead of
// re-running the engine.
//
// # Round Trips
//
// Export preserves node order, generated edge IDs and all optional fields,
// so import(export(g)) reproduces g exactly. Both document types carry bson
// tags alongside json so they can be stored in MongoDB unchanged.
package graphio
