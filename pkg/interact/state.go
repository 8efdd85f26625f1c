package interact

import (
	"github.com/antopio26/graph-js/pkg/curve"
)

// Change describes the transitions caused by one pointer event, so callers
// can re-style only what moved instead of re-rendering the scene.
type Change struct {
	Entered    Target   // newly hovered, None when hover did not gain a target
	Left       Target   // previously hovered, None when hover did not lose one
	Selected   []Target // added to the selection
	Deselected []Target // removed from the selection
}

// Empty reports whether the change carries no transition at all.
func (c Change) Empty() bool {
	return c.Entered.IsNone() && c.Left.IsNone() &&
		len(c.Selected) == 0 && len(c.Deselected) == 0
}

// State is the pointer interaction state: at most one hovered target and a
// set of selected targets. The two are orthogonal.
type State struct {
	hovered  Target
	selected []Target // insertion order
}

// NewState returns a state with nothing hovered and nothing selected.
func NewState() *State {
	return &State{hovered: None()}
}

// Hovered returns the current hover target, None when the pointer is over
// empty space.
func (s *State) Hovered() Target { return s.hovered }

// Selected returns the selection in the order it was made.
func (s *State) Selected() []Target {
	return append([]Target(nil), s.selected...)
}

// IsSelected reports whether the target is in the selection.
func (s *State) IsSelected(t Target) bool {
	for _, sel := range s.selected {
		if sel == t {
			return true
		}
	}
	return false
}

// PointerMove resolves the point against the index and updates the hover.
// The boolean is false when the hover target did not change. Selection is
// never touched.
func (s *State) PointerMove(idx *Index, pt curve.Point) (Change, bool) {
	t := idx.Hit(pt)
	if t == s.hovered {
		return Change{Entered: None(), Left: None()}, false
	}
	c := Change{Entered: t, Left: s.hovered}
	s.hovered = t
	return c, true
}

// Click updates the selection from a pointer press. A plain click replaces
// the selection with the hit target; an additive click toggles the target's
// membership. Clicking empty space clears the selection unless additive.
// Hover is never touched.
func (s *State) Click(idx *Index, pt curve.Point, additive bool) Change {
	t := idx.Hit(pt)
	c := Change{Entered: None(), Left: None()}

	if t.IsNone() {
		if !additive {
			c.Deselected = s.selected
			s.selected = nil
		}
		return c
	}

	if additive {
		if s.IsSelected(t) {
			s.remove(t)
			c.Deselected = []Target{t}
		} else {
			s.selected = append(s.selected, t)
			c.Selected = []Target{t}
		}
		return c
	}

	for _, sel := range s.selected {
		if sel != t {
			c.Deselected = append(c.Deselected, sel)
		}
	}
	if !s.IsSelected(t) {
		c.Selected = []Target{t}
	}
	s.selected = []Target{t}
	return c
}

// ClearSelection empties the selection and reports what was dropped.
func (s *State) ClearSelection() Change {
	c := Change{Entered: None(), Left: None(), Deselected: s.selected}
	s.selected = nil
	return c
}

func (s *State) remove(t Target) {
	out := s.selected[:0]
	for _, sel := range s.selected {
		if sel != t {
			out = append(out, sel)
		}
	}
	s.selected = out
}
