package interact

import (
	"reflect"
	"testing"

	"github.com/antopio26/graph-js/pkg/compose"
	"github.com/antopio26/graph-js/pkg/curve"
)

func testIndex() *Index {
	fragments := []*compose.Fragment{
		{
			NodeID: "a",
			Box:    compose.Rect{X: 0, Y: 0, W: 100, H: 60},
			Rows: []compose.RowHit{
				{Index: 0, Rect: compose.Rect{X: 0, Y: 30, W: 100, H: 30}},
			},
		},
		// Painted after "a", overlapping its right edge: topmost there.
		{
			NodeID: "b",
			Box:    compose.Rect{X: 80, Y: 0, W: 100, H: 60},
		},
	}
	edges := map[string]curve.Path{
		"under": curve.Build([]curve.Point{{X: 0, Y: 10}, {X: 300, Y: 10}}),
		"free":  curve.Build([]curve.Point{{X: 0, Y: 200}, {X: 300, Y: 200}}),
	}
	return BuildIndex(fragments, edges)
}

func TestHitPriority(t *testing.T) {
	idx := testIndex()
	tests := []struct {
		name string
		pt   curve.Point
		want Target
	}{
		{name: "row beats node", pt: curve.Point{X: 50, Y: 45}, want: RowTarget("a", 0)},
		{name: "node beats edge", pt: curve.Point{X: 50, Y: 10}, want: NodeTarget("a")},
		{name: "topmost node wins", pt: curve.Point{X: 90, Y: 10}, want: NodeTarget("b")},
		{name: "edge in the open", pt: curve.Point{X: 250, Y: 10}, want: EdgeTarget("under")},
		{name: "free edge", pt: curve.Point{X: 150, Y: 200}, want: EdgeTarget("free")},
		{name: "nothing", pt: curve.Point{X: 400, Y: 400}, want: None()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.Hit(tt.pt); got != tt.want {
				t.Errorf("Hit(%+v) = %+v, want %+v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestNestedFragmentOnTop(t *testing.T) {
	host := &compose.Fragment{
		NodeID: "host",
		Box:    compose.Rect{X: 0, Y: 0, W: 200, H: 200},
		Nested: []*compose.Fragment{
			{NodeID: "inner", Box: compose.Rect{X: 50, Y: 50, W: 60, H: 40}},
		},
	}
	idx := BuildIndex([]*compose.Fragment{host}, nil)
	if got := idx.Hit(curve.Point{X: 60, Y: 60}); got != NodeTarget("inner") {
		t.Errorf("Hit() = %+v, want the nested node", got)
	}
	if got := idx.Hit(curve.Point{X: 10, Y: 10}); got != NodeTarget("host") {
		t.Errorf("Hit() = %+v, want the host node", got)
	}
}

func TestHoverDoesNotTouchSelection(t *testing.T) {
	idx := testIndex()
	s := NewState()

	s.Click(idx, curve.Point{X: 50, Y: 10}, false)
	want := []Target{NodeTarget("a")}
	if got := s.Selected(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Selected() = %+v, want %+v", got, want)
	}

	c, changed := s.PointerMove(idx, curve.Point{X: 150, Y: 10})
	if !changed {
		t.Fatal("PointerMove() reported no change")
	}
	if c.Entered != NodeTarget("b") {
		t.Errorf("Entered = %+v, want node b", c.Entered)
	}
	if len(c.Selected) != 0 || len(c.Deselected) != 0 {
		t.Error("hover change carried selection transitions")
	}
	if got := s.Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %+v after hover, want unchanged %+v", got, want)
	}
}

func TestClickDoesNotTouchHover(t *testing.T) {
	idx := testIndex()
	s := NewState()

	s.PointerMove(idx, curve.Point{X: 50, Y: 10})
	before := s.Hovered()

	s.Click(idx, curve.Point{X: 150, Y: 10}, false)
	if s.Hovered() != before {
		t.Errorf("Hovered() = %+v after click, want unchanged %+v", s.Hovered(), before)
	}
}

func TestPointerMoveSameTarget(t *testing.T) {
	idx := testIndex()
	s := NewState()

	s.PointerMove(idx, curve.Point{X: 50, Y: 10})
	c, changed := s.PointerMove(idx, curve.Point{X: 55, Y: 12})
	if changed {
		t.Error("PointerMove() reported a change within the same target")
	}
	if !c.Empty() {
		t.Errorf("change = %+v, want empty", c)
	}
}

func TestAdditiveClickToggles(t *testing.T) {
	idx := testIndex()
	s := NewState()

	s.Click(idx, curve.Point{X: 50, Y: 10}, true)
	s.Click(idx, curve.Point{X: 150, Y: 10}, true)
	want := []Target{NodeTarget("a"), NodeTarget("b")}
	if got := s.Selected(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Selected() = %+v, want %+v", got, want)
	}

	c := s.Click(idx, curve.Point{X: 50, Y: 10}, true)
	if !reflect.DeepEqual(c.Deselected, []Target{NodeTarget("a")}) {
		t.Errorf("Deselected = %+v, want node a", c.Deselected)
	}
	if got := s.Selected(); !reflect.DeepEqual(got, []Target{NodeTarget("b")}) {
		t.Errorf("Selected() = %+v, want just node b", got)
	}
}

func TestPlainClickReplaces(t *testing.T) {
	idx := testIndex()
	s := NewState()

	s.Click(idx, curve.Point{X: 50, Y: 10}, true)
	s.Click(idx, curve.Point{X: 150, Y: 10}, true)

	c := s.Click(idx, curve.Point{X: 50, Y: 10}, false)
	if !reflect.DeepEqual(c.Deselected, []Target{NodeTarget("b")}) {
		t.Errorf("Deselected = %+v, want node b", c.Deselected)
	}
	if len(c.Selected) != 0 {
		t.Errorf("Selected = %+v, want none (already selected)", c.Selected)
	}
	if got := s.Selected(); !reflect.DeepEqual(got, []Target{NodeTarget("a")}) {
		t.Errorf("Selected() = %+v, want just node a", got)
	}
}

func TestClickEmptySpace(t *testing.T) {
	idx := testIndex()
	s := NewState()

	s.Click(idx, curve.Point{X: 50, Y: 10}, false)

	c := s.Click(idx, curve.Point{X: 400, Y: 400}, true)
	if !c.Empty() || len(s.Selected()) != 1 {
		t.Error("additive click on empty space must not clear the selection")
	}

	c = s.Click(idx, curve.Point{X: 400, Y: 400}, false)
	if len(c.Deselected) != 1 {
		t.Errorf("Deselected = %+v, want the previous selection", c.Deselected)
	}
	if len(s.Selected()) != 0 {
		t.Errorf("Selected() = %+v, want empty", s.Selected())
	}
}

func TestClearSelection(t *testing.T) {
	idx := testIndex()
	s := NewState()
	s.Click(idx, curve.Point{X: 50, Y: 10}, true)
	s.Click(idx, curve.Point{X: 150, Y: 10}, true)

	c := s.ClearSelection()
	if len(c.Deselected) != 2 {
		t.Errorf("Deselected = %d targets, want 2", len(c.Deselected))
	}
	if len(s.Selected()) != 0 {
		t.Error("selection not empty after ClearSelection")
	}
}

func TestBusPanicIsolation(t *testing.T) {
	bus := NewBus[NodeEvent](nil)

	var calls []string
	bus.Subscribe(func(NodeEvent) { calls = append(calls, "first") })
	bus.Subscribe(func(NodeEvent) { panic("listener bug") })
	bus.Subscribe(func(NodeEvent) { calls = append(calls, "third") })

	bus.Emit(NodeEvent{Type: EventEnter, ID: "a"})

	want := []string{"first", "third"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v (panicking listener isolated)", calls, want)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus[EdgeEvent](nil)
	var n int
	h := bus.Subscribe(func(EdgeEvent) { n++ })
	bus.Subscribe(func(EdgeEvent) { n += 10 })

	bus.Unsubscribe(h)
	bus.Emit(EdgeEvent{Type: EventSelect, ID: "e"})
	if n != 10 {
		t.Errorf("n = %d, want 10 after unsubscribe", n)
	}
}

func TestDispatchRouting(t *testing.T) {
	ev := NewEvents(nil)

	var rows []RowEvent
	var nodes []NodeEvent
	ev.Row.Subscribe(func(e RowEvent) { rows = append(rows, e) })
	ev.Node.Subscribe(func(e NodeEvent) { nodes = append(nodes, e) })

	ev.Dispatch(Change{
		Entered: RowTarget("a", 2),
		Left:    NodeTarget("b"),
	})

	if len(rows) != 1 || rows[0] != (RowEvent{Type: EventEnter, NodeID: "a", Index: 2}) {
		t.Errorf("rows = %+v, want one enter for a/2", rows)
	}
	if len(nodes) != 1 || nodes[0] != (NodeEvent{Type: EventLeave, ID: "b"}) {
		t.Errorf("nodes = %+v, want one leave for b", nodes)
	}
}
