// Package geom provides the small amount of planar geometry shared by the
// terrain stages: points, bounding rectangles and polygon area/centroid.
package geom

import "math"

// Epsilon is the tolerance below which an area is treated as zero.
const Epsilon = 1e-9

// Point is a position in the plane. Points compare by value and are used
// directly as map keys, so two points are the same point only when both
// coordinates are bit-identical.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p*s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Segment is a directed boundary segment.
type Segment struct {
	Start Point
	End   Point
}

// SignedArea computes the shoelace area of the polygon described by segs.
// The sign follows the winding of the segments and is kept as-is.
func SignedArea(segs []Segment) float64 {
	var area float64
	for _, s := range segs {
		area += s.Start.X*s.End.Y - s.Start.Y*s.End.X
	}
	return area / 2
}

// Centroid computes the polygon centroid of segs, normalized by 6×area.
// It reports false when segs is empty or the area is numerically zero, in
// which case no centroid exists.
func Centroid(segs []Segment) (Point, bool) {
	if len(segs) == 0 {
		return Point{}, false
	}
	area := SignedArea(segs)
	if math.Abs(area) < Epsilon {
		return Point{}, false
	}
	var x, y float64
	for _, s := range segs {
		v := s.Start.X*s.End.Y - s.End.X*s.Start.Y
		x += (s.Start.X + s.End.X) * v
		y += (s.Start.Y + s.End.Y) * v
	}
	d := area * 6
	return Point{x / d, y / d}, true
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
