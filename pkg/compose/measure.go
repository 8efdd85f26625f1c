package compose

import "unicode/utf8"

// TextMeasurer estimates the rendered extent of a text run. Implementations
// must be deterministic: composition results feed content-addressed caches.
type TextMeasurer interface {
	Text(s string, fontSize float64) Size
}

// Metric ratios for the default measurer, tuned for common UI sans fonts.
const (
	metricCharWidth  = 0.55
	metricLineHeight = 1.3
)

// Metrics is a font-free text measurer: width from a per-character ratio,
// height from a line-height ratio. It trades accuracy for a stable, portable
// estimate; no font files, no shaping. The zero value uses the default
// ratios.
type Metrics struct {
	CharWidth  float64 // advance per character as a fraction of font size
	LineHeight float64 // line height as a fraction of font size
}

func (m Metrics) Text(s string, fontSize float64) Size {
	cw := m.CharWidth
	if cw == 0 {
		cw = metricCharWidth
	}
	lh := m.LineHeight
	if lh == 0 {
		lh = metricLineHeight
	}
	return Size{
		W: float64(utf8.RuneCountInString(s)) * fontSize * cw,
		H: fontSize * lh,
	}
}

// MeasureAll measures every node in the given trees, nested nodes first.
//
// Rows embedding a node need that node's size before their own measure, so
// the walk is bottom-up. It is driven by an explicit stack rather than
// recursion: nesting depth is caller-controlled data and must not be able to
// exhaust the goroutine stack.
func MeasureAll(m TextMeasurer, roots ...*NodeBlock) error {
	seen := make(map[*NodeBlock]bool)
	var ordered []*NodeBlock

	stack := make([]*NodeBlock, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		if roots[i] != nil {
			stack = append(stack, roots[i])
		}
	}
	for len(stack) > 0 {
		nb := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[nb] {
			continue
		}
		seen[nb] = true
		ordered = append(ordered, nb)

		nested := nb.nested()
		for i := len(nested) - 1; i >= 0; i-- {
			stack = append(stack, nested[i])
		}
	}

	// Parents precede their nested nodes in the collected order, so the
	// reverse order measures leaves first.
	for i := len(ordered) - 1; i >= 0; i-- {
		if _, err := ordered[i].Measure(m); err != nil {
			return err
		}
	}
	return nil
}
