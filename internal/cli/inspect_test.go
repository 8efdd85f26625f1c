package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/antopio26/graph-js/pkg/builder"
	"github.com/antopio26/graph-js/pkg/cache"
	"github.com/antopio26/graph-js/pkg/pipeline"
)

func newTestInspectModel(t *testing.T) inspectModel {
	t.Helper()

	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	t.Cleanup(func() { runner.Close() })

	result, err := runner.Execute(context.Background(), pipeline.Options{
		Spec: &builder.Spec{
			Nodes: []builder.NodeSpec{
				{ID: "a", Label: "Service A"},
				{ID: "b", Label: "Service B"},
				{ID: "c", Label: "Service C"},
			},
			Edges: []builder.EdgeSpec{
				{From: "a", To: "b"},
				{From: "b", To: "c"},
			},
		},
		Formats: []string{pipeline.FormatSVG},
		Logger:  logger,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	return newInspectModel("test", result, nil)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m inspectModel, msg tea.Msg) inspectModel {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(inspectModel)
	if !ok {
		t.Fatalf("Update() returned %T, want inspectModel", next)
	}
	return got
}

func TestNewInspectModel(t *testing.T) {
	m := newTestInspectModel(t)

	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.rows))
	}

	// A chain a->b->c ranks the nodes in order
	wantIDs := []string{"a", "b", "c"}
	for i, want := range wantIDs {
		if m.rows[i].id != want {
			t.Errorf("rows[%d].id = %q, want %q", i, m.rows[i].id, want)
		}
	}
	for i := 1; i < len(m.rows); i++ {
		if m.rows[i].rank <= m.rows[i-1].rank {
			t.Errorf("rows[%d].rank = %d, want greater than %d", i, m.rows[i].rank, m.rows[i-1].rank)
		}
	}

	// The initial cursor hovers the first row
	if hov := m.state.Hovered(); hov.IsNone() {
		t.Error("initial hover is none, want first row's node")
	} else if hov.ID != "a" {
		t.Errorf("initial hover ID = %q, want %q", hov.ID, "a")
	}
}

func TestInspectModelNavigation(t *testing.T) {
	m := newTestInspectModel(t)

	m = update(t, m, key("down"))
	m = update(t, m, key("j"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}

	// Hover follows the cursor
	if hov := m.state.Hovered(); hov.ID != "c" {
		t.Errorf("hover ID = %q, want %q", hov.ID, "c")
	}

	m = update(t, m, key("up"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}

	// Stops at the edges
	m = update(t, m, key("k"))
	m = update(t, m, key("up"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	for range 5 {
		m = update(t, m, key("down"))
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
}

func TestInspectModelSelection(t *testing.T) {
	m := newTestInspectModel(t)

	m = update(t, m, key("enter"))
	if !m.isSelected("a") {
		t.Error("isSelected(a) = false after enter, want true")
	}

	// Plain click replaces the selection
	m = update(t, m, key("down"))
	m = update(t, m, key("enter"))
	if m.isSelected("a") {
		t.Error("isSelected(a) = true after selecting b, want false")
	}
	if !m.isSelected("b") {
		t.Error("isSelected(b) = false, want true")
	}

	// Space adds to it
	m = update(t, m, key("down"))
	m = update(t, m, key(" "))
	if !m.isSelected("b") || !m.isSelected("c") {
		t.Error("additive select should keep b and add c")
	}

	// Space on a selected row removes it
	m = update(t, m, key(" "))
	if m.isSelected("c") {
		t.Error("isSelected(c) = true after toggling, want false")
	}

	// Clear drops everything
	m = update(t, m, key("c"))
	if len(m.state.Selected()) != 0 {
		t.Errorf("selected = %d after clear, want 0", len(m.state.Selected()))
	}
}

func TestInspectModelQuit(t *testing.T) {
	m := newTestInspectModel(t)

	for _, k := range []string{"q", "esc"} {
		_, cmd := m.Update(key(k))
		if cmd == nil {
			t.Fatalf("Update(%q) returned nil cmd, want quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("Update(%q) cmd produced %T, want tea.QuitMsg", k, cmd())
		}
	}
}

func TestInspectModelResize(t *testing.T) {
	m := newTestInspectModel(t)

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})
	if m.height != 22 {
		t.Errorf("height = %d, want 22", m.height)
	}

	// Never shrinks below a usable window
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 6})
	if m.height != 5 {
		t.Errorf("height = %d, want 5", m.height)
	}
}

func TestInspectModelView(t *testing.T) {
	m := newTestInspectModel(t)

	view := m.View()
	if !strings.Contains(view, "Inspect test") {
		t.Error("view should contain the title")
	}
	for _, id := range []string{"a", "b", "c"} {
		if !strings.Contains(view, id) {
			t.Errorf("view should list node %q", id)
		}
	}
	if !strings.Contains(view, "[1/3]") {
		t.Error("view should show the cursor position")
	}
}
