// Package graph provides a mutable compound directed graph: nodes, directed
// edges, and a parent forest that groups nodes into nested clusters.
//
// The graph is the input to the layout engine. It enforces structural
// invariants at mutation time so that downstream stages can assume a
// well-formed structure:
//
//   - edge endpoints always reference existing nodes
//   - no node is its own parent, and the parent relation is acyclic
//   - node iteration order is the insertion order, making every derived
//     computation deterministic for a given mutation history
//
// The edge relation itself MAY contain cycles; breaking them is the layout
// engine's job, not the model's.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

// ============================================================================
// ERRORS
// ============================================================================

var (
	// ErrInvalidID is returned when a node is added with an empty ID.
	ErrInvalidID = errors.New("node ID cannot be empty")

	// ErrDuplicateNode is returned when a node with the same ID already exists.
	ErrDuplicateNode = errors.New("node with this ID already exists")

	// ErrDuplicateEdge is returned when an edge with the same ID already exists.
	ErrDuplicateEdge = errors.New("edge with this ID already exists")

	// ErrUnknownNode is returned when an operation references a node that does
	// not exist in the graph.
	ErrUnknownNode = errors.New("node does not exist")

	// ErrUnknownEdge is returned when an operation references an edge that does
	// not exist in the graph.
	ErrUnknownEdge = errors.New("edge does not exist")

	// ErrUnknownEndpoint is returned when an edge references a source or target
	// node that does not exist in the graph.
	ErrUnknownEndpoint = errors.New("edge endpoint does not exist")

	// ErrSelfParent is returned when a node is set as its own parent.
	ErrSelfParent = errors.New("node cannot be its own parent")

	// ErrAncestryCycle is returned when a reparenting operation would make a
	// node an ancestor of itself.
	ErrAncestryCycle = errors.New("parent relation would form a cycle")
)

// ============================================================================
// TYPES
// ============================================================================

// Node is a single element of the graph. Nodes with children act as cluster
// frames: they do not participate in rank assignment themselves, their box is
// derived from their descendants.
type Node struct {
	ID    string  // unique identifier, required
	Label string  // display label; defaults to ID when empty
	W     float64 // desired width; the composition pipeline may overwrite it
	H     float64 // desired height
}

// Edge is a directed connection between two nodes. MinLen constrains the rank
// distance between the endpoints, Weight biases the ordering and coordinate
// phases toward keeping the edge short and straight.
type Edge struct {
	ID          string // unique identifier; generated when empty
	From        string
	To          string
	Label       string
	LabelSide   string  // label placement relative to travel: left, right, or center (empty)
	LabelOffset float64 // gap between path and a side-placed label, 0 means the renderer default
	MinLen      int     // minimum rank span, >= 1
	Weight      float64 // straightness bias, > 0
}

// Graph is a compound directed graph. The zero value is not usable; use New.
//
// Methods that return slices always return fresh copies, so callers can
// mutate results without affecting the graph.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []*Edge
	edgeIdx  map[string]*Edge
	parent   map[string]string   // child ID -> parent ID
	children map[string][]string // parent ID -> sorted child IDs
	outgoing map[string][]*Edge
	incoming map[string][]*Edge
	edgeSeq  int // suffix for generated edge IDs
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edgeIdx:  make(map[string]*Edge),
		parent:   make(map[string]string),
		children: make(map[string][]string),
		outgoing: make(map[string][]*Edge),
		incoming: make(map[string][]*Edge),
	}
}

// ============================================================================
// MUTATION
// ============================================================================

// AddNode inserts a node. The ID must be non-empty and unused.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	if n.Label == "" {
		n.Label = n.ID
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge inserts a directed edge. Both endpoints must already exist. Self
// loops are allowed; they are routed around the node rather than ranked. The
// returned edge carries the generated ID and normalized defaults.
func (g *Graph) AddEdge(e Edge) (Edge, error) {
	if _, ok := g.nodes[e.From]; !ok {
		return Edge{}, fmt.Errorf("%w: source %q", ErrUnknownEndpoint, e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return Edge{}, fmt.Errorf("%w: target %q", ErrUnknownEndpoint, e.To)
	}
	if e.ID == "" {
		e.ID = fmt.Sprintf("%s:%s#%d", e.From, e.To, g.edgeSeq)
		g.edgeSeq++
	} else if _, exists := g.edgeIdx[e.ID]; exists {
		return Edge{}, fmt.Errorf("%w: %s", ErrDuplicateEdge, e.ID)
	}
	if e.MinLen < 1 {
		e.MinLen = 1
	}
	if e.Weight <= 0 {
		e.Weight = 1
	}
	stored := e
	g.edges = append(g.edges, &stored)
	g.edgeIdx[stored.ID] = &stored
	g.outgoing[stored.From] = append(g.outgoing[stored.From], &stored)
	g.incoming[stored.To] = append(g.incoming[stored.To], &stored)
	return stored, nil
}

// SetParent assigns child to the cluster rooted at parent. An empty parent
// clears the assignment. Reparenting that would create an ancestry cycle is
// rejected.
func (g *Graph) SetParent(child, parent string) error {
	if _, ok := g.nodes[child]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, child)
	}
	if parent == "" {
		g.detachFromParent(child)
		return nil
	}
	if _, ok := g.nodes[parent]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, parent)
	}
	if child == parent {
		return fmt.Errorf("%w: %s", ErrSelfParent, child)
	}
	if g.IsAncestor(child, parent) {
		return fmt.Errorf("%w: %s is an ancestor of %s", ErrAncestryCycle, child, parent)
	}
	g.detachFromParent(child)
	g.parent[child] = parent
	g.children[parent] = insertSorted(g.children[parent], child)
	return nil
}

// RemoveNode deletes a node together with its incident edges. Children of the
// removed node are reparented to the node's own parent (or become roots).
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	grandparent := g.parent[id]
	for _, child := range append([]string(nil), g.children[id]...) {
		g.detachFromParent(child)
		if grandparent != "" {
			g.parent[child] = grandparent
			g.children[grandparent] = insertSorted(g.children[grandparent], child)
		}
	}
	for _, e := range append([]*Edge(nil), g.outgoing[id]...) {
		g.removeEdgePtr(e)
	}
	for _, e := range append([]*Edge(nil), g.incoming[id]...) {
		g.removeEdgePtr(e)
	}
	g.detachFromParent(id)
	delete(g.children, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	delete(g.nodes, id)
	for i, nid := range g.order {
		if nid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

// RemoveEdge deletes an edge by ID.
func (g *Graph) RemoveEdge(id string) error {
	e, ok := g.edgeIdx[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEdge, id)
	}
	g.removeEdgePtr(e)
	return nil
}

func (g *Graph) removeEdgePtr(e *Edge) {
	delete(g.edgeIdx, e.ID)
	g.edges = removeEdge(g.edges, e)
	g.outgoing[e.From] = removeEdge(g.outgoing[e.From], e)
	g.incoming[e.To] = removeEdge(g.incoming[e.To], e)
}

func (g *Graph) detachFromParent(child string) {
	p, ok := g.parent[child]
	if !ok {
		return
	}
	delete(g.parent, child)
	kids := g.children[p]
	for i, c := range kids {
		if c == child {
			g.children[p] = append(kids[:i], kids[i+1:]...)
			break
		}
	}
	if len(g.children[p]) == 0 {
		delete(g.children, p)
	}
}

// ============================================================================
// ACCESSORS
// ============================================================================

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id string) (Edge, bool) {
	e, ok := g.edgeIdx[id]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Parent returns the parent of a node, if any.
func (g *Graph) Parent(id string) (string, bool) {
	p, ok := g.parent[id]
	return p, ok
}

// Children returns the direct children of a node, sorted by ID.
func (g *Graph) Children(id string) []string {
	return append([]string(nil), g.children[id]...)
}

// IsCluster reports whether a node has children and therefore renders as a
// cluster frame instead of a rank node.
func (g *Graph) IsCluster(id string) bool {
	return len(g.children[id]) > 0
}

// Roots returns the IDs of all nodes without a parent, in insertion order.
func (g *Graph) Roots() []string {
	var out []string
	for _, id := range g.order {
		if _, ok := g.parent[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Leaves returns all non-cluster nodes in insertion order. These are the
// nodes that receive a rank during layout.
func (g *Graph) Leaves() []Node {
	var out []Node
	for _, id := range g.order {
		if !g.IsCluster(id) {
			out = append(out, *g.nodes[id])
		}
	}
	return out
}

// Clusters returns all cluster nodes in insertion order.
func (g *Graph) Clusters() []Node {
	var out []Node
	for _, id := range g.order {
		if g.IsCluster(id) {
			out = append(out, *g.nodes[id])
		}
	}
	return out
}

// IsAncestor reports whether anc appears on the parent chain of id. A node is
// not its own ancestor.
func (g *Graph) IsAncestor(anc, id string) bool {
	for {
		p, ok := g.parent[id]
		if !ok {
			return false
		}
		if p == anc {
			return true
		}
		id = p
	}
}

// Ancestors returns the parent chain of a node, nearest first.
func (g *Graph) Ancestors(id string) []string {
	var out []string
	for {
		p, ok := g.parent[id]
		if !ok {
			return out
		}
		out = append(out, p)
		id = p
	}
}

// Out returns the outgoing edges of a node in insertion order.
func (g *Graph) Out(id string) []Edge {
	out := make([]Edge, 0, len(g.outgoing[id]))
	for _, e := range g.outgoing[id] {
		out = append(out, *e)
	}
	return out
}

// In returns the incoming edges of a node in insertion order.
func (g *Graph) In(id string) []Edge {
	out := make([]Edge, 0, len(g.incoming[id]))
	for _, e := range g.incoming[id] {
		out = append(out, *e)
	}
	return out
}

// SetSize overwrites the stored size of a node. The composition pipeline uses
// this after measuring block trees.
func (g *Graph) SetSize(id string, w, h float64) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	n.W, n.H = w, h
	return nil
}

// Clone returns a deep copy that shares no state with the receiver.
func (g *Graph) Clone() *Graph {
	c := New()
	c.edgeSeq = g.edgeSeq
	for _, id := range g.order {
		n := *g.nodes[id]
		c.nodes[id] = &n
		c.order = append(c.order, id)
	}
	for _, e := range g.edges {
		ce := *e
		c.edges = append(c.edges, &ce)
		c.edgeIdx[ce.ID] = &ce
		c.outgoing[ce.From] = append(c.outgoing[ce.From], &ce)
		c.incoming[ce.To] = append(c.incoming[ce.To], &ce)
	}
	for child, p := range g.parent {
		c.parent[child] = p
	}
	for p, kids := range g.children {
		c.children[p] = append([]string(nil), kids...)
	}
	return c
}

// ============================================================================
// HELPERS
// ============================================================================

func insertSorted(s []string, v string) []string {
	i := sort.SearchStrings(s, v)
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeEdge(s []*Edge, e *Edge) []*Edge {
	for i, x := range s {
		if x == e {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
