package curve

import (
	"math"
	"strings"
	"testing"
)

func TestBuildDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{name: "nil"},
		{name: "empty", points: []Point{}},
		{name: "single", points: []Point{{10, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(tt.points)
			if !p.Empty() {
				t.Error("Empty() = false, want true")
			}
			if got := p.SVG(); got != "" {
				t.Errorf("SVG() = %q, want empty", got)
			}
			if got := p.Length(); got != 0 {
				t.Errorf("Length() = %v, want 0", got)
			}
		})
	}
}

func TestBuildStraight(t *testing.T) {
	p := Build([]Point{{0, 0}, {100, 0}})
	if p.Empty() {
		t.Fatal("Empty() = true for two points")
	}
	if !strings.HasPrefix(p.SVG(), "M 0.0 0.0 C ") {
		t.Errorf("SVG() = %q, want M/C prefix", p.SVG())
	}
	if got := p.Length(); math.Abs(got-100) > 1e-6 {
		t.Errorf("Length() = %v, want 100", got)
	}
	a := p.LabelAnchor()
	if math.Abs(a.X-50) > 1e-6 || math.Abs(a.Y) > 1e-6 {
		t.Errorf("LabelAnchor() = %+v, want (50, 0)", a)
	}
}

func TestPathPassesThroughWaypoints(t *testing.T) {
	points := []Point{{0, 0}, {50, 80}, {120, 40}, {200, 90}}
	p := Build(points)

	flat := p.flatten()
	for _, wp := range points {
		best := math.Inf(1)
		for _, f := range flat {
			if d := dist(f, wp); d < best {
				best = d
			}
		}
		if best > 1e-9 {
			t.Errorf("waypoint %+v is %v away from the curve, want on it", wp, best)
		}
	}
}

func TestLabelAnchorUsesArcLength(t *testing.T) {
	// Collinear but unevenly spaced: the middle waypoint sits at x=10 while
	// the arc-length midpoint is x=15.
	p := Build([]Point{{0, 0}, {10, 0}, {30, 0}})
	a := p.LabelAnchor()
	if math.Abs(a.X-15) > 1e-6 || math.Abs(a.Y) > 1e-6 {
		t.Errorf("LabelAnchor() = %+v, want (15, 0)", a)
	}
	if got := p.Length(); math.Abs(got-30) > 1e-6 {
		t.Errorf("Length() = %v, want 30", got)
	}
}

func TestLabelAnchorOffset(t *testing.T) {
	// Horizontal left-to-right path: left of travel is up (Y down on screen).
	p := Build([]Point{{0, 0}, {100, 0}})
	tests := []struct {
		name   string
		side   LabelSide
		offset float64
		want   Point
	}{
		{name: "left", side: LabelLeft, offset: 8, want: Point{50, -8}},
		{name: "right", side: LabelRight, offset: 8, want: Point{50, 8}},
		{name: "default offset", side: LabelLeft, want: Point{50, -DefaultLabelOffset}},
		{name: "center stays on path", side: LabelCenter, offset: 8, want: Point{50, 0}},
		{name: "unknown side stays on path", side: "above", offset: 8, want: Point{50, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.LabelAnchorOffset(tt.side, tt.offset)
			if math.Abs(got.X-tt.want.X) > 1e-6 || math.Abs(got.Y-tt.want.Y) > 1e-6 {
				t.Errorf("LabelAnchorOffset(%s, %v) = %+v, want %+v", tt.side, tt.offset, got, tt.want)
			}
		})
	}

	// Downward travel: the traveler's left is the drawing's right.
	down := Build([]Point{{0, 0}, {0, 100}})
	if got := down.LabelAnchorOffset(LabelLeft, 8); math.Abs(got.X-8) > 1e-6 {
		t.Errorf("LabelAnchorOffset(left) on downward path = %+v, want X=8", got)
	}
}

func TestHitTest(t *testing.T) {
	p := Build([]Point{{0, 0}, {100, 0}})
	tests := []struct {
		name string
		pt   Point
		want bool
	}{
		{name: "on path", pt: Point{50, 0}, want: true},
		{name: "inside ribbon", pt: Point{50, 5}, want: true},
		{name: "outside ribbon", pt: Point{50, 8}, want: false},
		{name: "past endpoint", pt: Point{120, 0}, want: false},
		{name: "near endpoint", pt: Point{103, 0}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.HitTest(tt.pt); got != tt.want {
				t.Errorf("HitTest(%+v) = %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestHitWidthOption(t *testing.T) {
	wide := Builder{HitWidth: 30}.Build([]Point{{0, 0}, {100, 0}})
	if !wide.HitTest(Point{50, 14}) {
		t.Error("HitTest() = false inside widened ribbon")
	}
	h := wide.Hit()
	if h.Width != 30 {
		t.Errorf("Hit().Width = %v, want 30", h.Width)
	}
	if h.Data != wide.SVG() {
		t.Error("hit geometry differs from visible geometry")
	}
}

func TestSVGDeterministic(t *testing.T) {
	points := []Point{{0, 0}, {33.3, 71.2}, {120, 40}}
	if Build(points).SVG() != Build(points).SVG() {
		t.Error("SVG() is not deterministic for identical input")
	}
}

func TestSmoothingPullsTowardPolyline(t *testing.T) {
	// A right-angle polyline: lower smoothing must not lengthen the curve.
	points := []Point{{0, 0}, {100, 0}, {100, 100}}
	loose := Builder{Smoothing: 1}.Build(points).Length()
	tight := Builder{Smoothing: 0.2}.Build(points).Length()
	if tight > loose+1e-6 {
		t.Errorf("tight curve (%v) longer than loose curve (%v)", tight, loose)
	}
	direct := math.Hypot(100, 100)
	if loose < direct {
		t.Errorf("Length() = %v, below the direct distance %v", loose, direct)
	}
}
