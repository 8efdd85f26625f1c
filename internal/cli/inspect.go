package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/antopio26/graph-js/pkg/curve"
	"github.com/antopio26/graph-js/pkg/interact"
	"github.com/antopio26/graph-js/pkg/layout"
	"github.com/antopio26/graph-js/pkg/pipeline"
)

// inspectCommand creates the inspect command for browsing placements.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect [spec.json]",
		Short: "Browse computed placements interactively in the terminal",
		Long: `Browse computed placements interactively in the terminal.

The inspect command runs the pipeline and opens a table of node placements:
rank, order, center and size for every node. Moving the cursor hovers the
node in the shared interaction state, enter selects it, and space toggles it
in a multi-selection, exactly as pointer events over the drawing would.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateDirection(opts.Direction); err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	layoutFlags(cmd, &opts)

	return cmd
}

// runInspect prepares the scene and hands it to the terminal UI.
func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	applyConfig(&opts, c.Config)
	opts.SpecPath = input
	opts.Logger = c.Logger
	opts.Formats = []string{pipeline.FormatSVG}
	// The inspector walks the assembled scene; cached artifact bytes are no
	// use to it, so recompute instead of probing the cache.
	opts.Refresh = true

	spinner := newSpinnerWithContext(ctx, "Preparing scene...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Inspect failed")
		return fmt.Errorf("inspect %s: %w", input, err)
	}
	spinner.Stop()

	events := interact.NewEvents(c.Logger)
	events.Node.Subscribe(func(ev interact.NodeEvent) {
		c.Logger.Debug("node event", "type", ev.Type, "id", ev.ID)
	})
	events.Row.Subscribe(func(ev interact.RowEvent) {
		c.Logger.Debug("row event", "type", ev.Type, "node", ev.NodeID, "row", ev.Index)
	})
	events.Edge.Subscribe(func(ev interact.EdgeEvent) {
		c.Logger.Debug("edge event", "type", ev.Type, "id", ev.ID)
	})

	model := newInspectModel(filepath.Base(input), result, events)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run inspector: %w", err)
	}
	return nil
}

// =============================================================================
// inspectModel - Placement browser
// =============================================================================

// inspectRow is one line of the placement table.
type inspectRow struct {
	id     string
	label  string
	rank   int
	order  int
	center curve.Point
	w, h   float64
}

// inspectModel is the bubbletea model for the placement inspector. Cursor
// movement and keys feed the same interaction state a pointer over the
// drawing would, so hover and selection behave identically in both.
type inspectModel struct {
	title     string
	size      layout.Size
	edgeCount int
	rows      []inspectRow
	index     *interact.Index
	state     *interact.State
	events    *interact.Events
	cursor    int
	offset    int
	height    int
}

// newInspectModel builds the model from a pipeline result. The result must
// carry an assembled scene.
func newInspectModel(title string, result *pipeline.Result, events *interact.Events) inspectModel {
	sc := result.Scene

	edges := make(map[string]curve.Path, len(sc.Edges))
	for _, e := range sc.Edges {
		edges[e.ID] = e.Path
	}

	rows := make([]inspectRow, 0, len(result.Layout.Nodes))
	for id, p := range result.Layout.Nodes {
		row := inspectRow{
			id:     id,
			rank:   p.Rank,
			order:  p.Order,
			center: curve.Point{X: p.X, Y: p.Y},
			w:      p.W,
			h:      p.H,
		}
		if n, ok := result.Graph.Node(id); ok {
			row.label = n.Label
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].rank != rows[j].rank {
			return rows[i].rank < rows[j].rank
		}
		if rows[i].order != rows[j].order {
			return rows[i].order < rows[j].order
		}
		return rows[i].id < rows[j].id
	})

	m := inspectModel{
		title:     title,
		size:      result.Layout.Size,
		edgeCount: len(sc.Edges),
		rows:      rows,
		index:     interact.BuildIndex(sc.Nodes, edges),
		state:     interact.NewState(),
		events:    events,
		height:    15,
	}
	m.hover()
	return m
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
				m.hover()
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
				m.hover()
			}
		case "enter":
			m.click(false)
		case " ":
			m.click(true)
		case "c":
			m.dispatch(m.state.ClearSelection())
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// hover mirrors the cursor row as a pointer move over that node's center.
func (m inspectModel) hover() {
	if len(m.rows) == 0 {
		return
	}
	change, moved := m.state.PointerMove(m.index, m.rows[m.cursor].center)
	if moved {
		m.dispatch(change)
	}
}

// click toggles selection of the cursor row, additively when additive is set.
func (m inspectModel) click(additive bool) {
	if len(m.rows) == 0 {
		return
	}
	m.dispatch(m.state.Click(m.index, m.rows[m.cursor].center, additive))
}

func (m inspectModel) dispatch(change interact.Change) {
	if m.events != nil && !change.Empty() {
		m.events.Dispatch(change)
	}
}

// isSelected reports whether any selected target refers to the node. The
// hit can resolve to a property row inside the node, so matching goes by ID.
func (m inspectModel) isSelected(id string) bool {
	for _, t := range m.state.Selected() {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect " + m.title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%.0f×%.0f · %d nodes · %d edges",
		m.size.W, m.size.H, len(m.rows), m.edgeCount)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  space multi-select  c clear  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		r := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		marker := ""
		if m.isSelected(r.id) {
			marker = "●"
		}

		rows = append(rows, []string{
			cursor,
			r.id,
			r.label,
			strconv.Itoa(r.rank),
			strconv.Itoa(r.order),
			fmt.Sprintf("%.0f,%.0f", r.center.X, r.center.Y),
			fmt.Sprintf("%.0f×%.0f", r.w, r.h),
			marker,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "Rank", "Order", "Center", "Size", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.offset + row
			if actualIdx >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			r := m.rows[actualIdx]
			selected := m.isSelected(r.id)
			isCurrent := actualIdx == m.cursor

			base := lipgloss.NewStyle()
			switch {
			case isCurrent && selected:
				return base.Foreground(colorGreen).Bold(true)
			case isCurrent:
				return base.Foreground(colorCyan).Bold(true)
			case selected:
				return base.Foreground(colorGreen)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	status := fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))
	if hov := m.state.Hovered(); !hov.IsNone() {
		status += " · hover: " + formatTarget(hov)
	}
	if n := len(m.state.Selected()); n > 0 {
		status += fmt.Sprintf(" · selected: %d", n)
	}
	b.WriteString(StyleDim.Render(status))

	return b.String()
}

// formatTarget renders a target for the status line.
func formatTarget(t interact.Target) string {
	if t.Kind == interact.TargetRow {
		return fmt.Sprintf("%s#%d", t.ID, t.Row)
	}
	return t.ID
}
