// Package curve turns edge waypoints into smooth cubic paths.
//
// The layout engine emits polylines: one point per crossed rank. Rendering
// wants curves, pointer handling wants a forgiving ribbon around the same
// geometry, and labels want a stable anchor. All three come from one build so
// they can never drift apart.
package curve

import (
	"fmt"
	"math"
	"strings"
)

// Point is a position in scene coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// segment is one cubic Bézier piece of the path.
type segment struct {
	c1, c2, to Point
}

// Path is a smoothed edge: a chain of cubic segments that passes through
// every input waypoint in order. The zero value is an empty path.
type Path struct {
	start    Point
	segs     []segment
	points   []Point
	hitWidth float64
}

// Hit is the pointer-test geometry of a path: the same outline with a wider
// stroke, meant to be emitted as an invisible overlay.
type Hit struct {
	Data  string
	Width float64
}

// LabelSide places an edge label relative to the path's direction of travel.
// On a top-to-bottom edge the left side is the drawing's right.
type LabelSide string

const (
	LabelCenter LabelSide = "center"
	LabelLeft   LabelSide = "left"
	LabelRight  LabelSide = "right"
)

// Builder holds the smoothing parameters. The zero value builds with the
// defaults.
type Builder struct {
	// Smoothing scales the Catmull-Rom tangents. 0 means the default of 1;
	// smaller values pull the curve toward the polyline.
	Smoothing float64

	// HitWidth is the stroke width of the pointer-test ribbon, default 12.
	HitWidth float64
}

const (
	// DefaultHitWidth is the pointer ribbon width in scene units.
	DefaultHitWidth = 12.0

	// DefaultLabelOffset is the gap between a path and a side-placed label.
	DefaultLabelOffset = 10.0

	// flattenSteps is the number of line pieces each cubic is cut into for
	// length, anchor and distance queries.
	flattenSteps = 16
)

// Build smooths the waypoints with the default Builder.
func Build(points []Point) Path {
	return Builder{}.Build(points)
}

// Build converts waypoints into a cubic path.
//
// Fewer than two points yield an empty path and exactly two a straight
// segment. Interior control points come from the Catmull-Rom construction:
// the tangent at a waypoint is the chord between its neighbors, scaled by
// Smoothing/6, so the curve passes through every waypoint without
// overshooting on straight runs. The first and last waypoint have only one
// neighbor and use that chord alone.
func (b Builder) Build(points []Point) Path {
	s := b.Smoothing
	if s == 0 {
		s = 1
	}
	hw := b.HitWidth
	if hw == 0 {
		hw = DefaultHitWidth
	}

	p := Path{hitWidth: hw}
	if len(points) < 2 {
		return p
	}
	p.start = points[0]
	p.points = append([]Point(nil), points...)
	p.segs = make([]segment, 0, len(points)-1)

	for i := 0; i+1 < len(points); i++ {
		p0 := points[max(i-1, 0)]
		p1 := points[i]
		p2 := points[i+1]
		p3 := points[min(i+2, len(points)-1)]

		c1 := Point{
			X: p1.X + (p2.X-p0.X)/6*s,
			Y: p1.Y + (p2.Y-p0.Y)/6*s,
		}
		c2 := Point{
			X: p2.X - (p3.X-p1.X)/6*s,
			Y: p2.Y - (p3.Y-p1.Y)/6*s,
		}
		p.segs = append(p.segs, segment{c1: c1, c2: c2, to: p2})
	}
	return p
}

// Empty reports whether the path has no segments.
func (p Path) Empty() bool { return len(p.segs) == 0 }

// Waypoints returns a copy of the input points the path was built from.
func (p Path) Waypoints() []Point {
	return append([]Point(nil), p.points...)
}

// SVG returns the path data string ("M x y C ...").
func (p Path) SVG() string {
	if p.Empty() {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "M %s %s", coord(p.start.X), coord(p.start.Y))
	for _, s := range p.segs {
		fmt.Fprintf(&sb, " C %s %s, %s %s, %s %s",
			coord(s.c1.X), coord(s.c1.Y),
			coord(s.c2.X), coord(s.c2.Y),
			coord(s.to.X), coord(s.to.Y))
	}
	return sb.String()
}

// Hit returns the pointer-test ribbon: identical outline, wider stroke.
func (p Path) Hit() Hit {
	return Hit{Data: p.SVG(), Width: p.hitWidth}
}

// HitTest reports whether pt lies on the pointer ribbon, i.e. within
// HitWidth/2 of the curve.
func (p Path) HitTest(pt Point) bool {
	flat := p.flatten()
	if len(flat) == 0 {
		return false
	}
	if len(flat) == 1 {
		return dist(flat[0], pt) <= p.hitWidth/2
	}
	for i := 0; i+1 < len(flat); i++ {
		if distToSegment(pt, flat[i], flat[i+1]) <= p.hitWidth/2 {
			return true
		}
	}
	return false
}

// Length returns the flattened arc length of the path.
func (p Path) Length() float64 {
	flat := p.flatten()
	total := 0.0
	for i := 0; i+1 < len(flat); i++ {
		total += dist(flat[i], flat[i+1])
	}
	return total
}

// LabelAnchor returns the point halfway along the path by arc length. This
// is not the middle waypoint: on a path with unevenly spaced waypoints the
// arc-length midpoint keeps the label visually centered.
func (p Path) LabelAnchor() Point {
	mid, _ := p.labelMid()
	return mid
}

// LabelAnchorOffset returns the label anchor shifted offset units to one
// side of the path. A zero offset means DefaultLabelOffset. LabelCenter and
// unknown sides ignore the offset and stay on the path.
func (p Path) LabelAnchorOffset(side LabelSide, offset float64) Point {
	mid, dir := p.labelMid()
	if side != LabelLeft && side != LabelRight {
		return mid
	}
	mag := math.Hypot(dir.X, dir.Y)
	if mag == 0 {
		return mid
	}
	if offset == 0 {
		offset = DefaultLabelOffset
	}
	// Left of travel in a Y-down coordinate system.
	nx, ny := dir.Y/mag, -dir.X/mag
	if side == LabelRight {
		nx, ny = -nx, -ny
	}
	return Point{X: mid.X + nx*offset, Y: mid.Y + ny*offset}
}

// labelMid walks the flattened path to its arc-length midpoint and returns
// that point together with the direction of the piece it falls on.
func (p Path) labelMid() (Point, Point) {
	flat := p.flatten()
	if len(flat) == 0 {
		return Point{}, Point{}
	}
	if len(flat) == 1 {
		return flat[0], Point{}
	}

	total := 0.0
	for i := 0; i+1 < len(flat); i++ {
		total += dist(flat[i], flat[i+1])
	}
	if total == 0 {
		return flat[0], Point{}
	}

	want := total / 2
	walked := 0.0
	for i := 0; i+1 < len(flat); i++ {
		step := dist(flat[i], flat[i+1])
		if walked+step >= want {
			t := (want - walked) / step
			mid := Point{
				X: flat[i].X + (flat[i+1].X-flat[i].X)*t,
				Y: flat[i].Y + (flat[i+1].Y-flat[i].Y)*t,
			}
			return mid, Point{X: flat[i+1].X - flat[i].X, Y: flat[i+1].Y - flat[i].Y}
		}
		walked += step
	}
	last := len(flat) - 1
	return flat[last], Point{X: flat[last].X - flat[last-1].X, Y: flat[last].Y - flat[last-1].Y}
}

// flatten cuts every cubic into short line pieces.
func (p Path) flatten() []Point {
	if p.Empty() {
		return nil
	}
	out := make([]Point, 0, len(p.segs)*flattenSteps+1)
	out = append(out, p.start)
	from := p.start
	for _, s := range p.segs {
		for i := 1; i <= flattenSteps; i++ {
			t := float64(i) / flattenSteps
			out = append(out, cubicAt(from, s.c1, s.c2, s.to, t))
		}
		from = s.to
	}
	return out
}

func cubicAt(p0, c1, c2, p3 Point, t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*c1.X + c*c2.X + d*p3.X,
		Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p3.Y,
	}
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// distToSegment returns the distance from p to the segment ab.
func distToSegment(p, a, b Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		return dist(p, a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / l2
	t = math.Max(0, math.Min(1, t))
	return dist(p, Point{a.X + t*abx, a.Y + t*aby})
}

// coord formats one coordinate with a fixed single decimal so path data is
// byte-stable across runs.
func coord(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
