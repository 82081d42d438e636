package geom

import "fmt"

// Bounds is an axis-aligned rectangle in the site plane.
type Bounds struct {
	MinX float64 `json:"min_x" toml:"min_x"`
	MinY float64 `json:"min_y" toml:"min_y"`
	MaxX float64 `json:"max_x" toml:"max_x"`
	MaxY float64 `json:"max_y" toml:"max_y"`
}

// Rect builds bounds from an origin and a size.
func Rect(x, y, w, h float64) Bounds {
	return Bounds{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Valid reports whether b has a positive extent on both axes.
func (b Bounds) Valid() bool { return b.Width() > 0 && b.Height() > 0 }

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Center returns the midpoint of b.
func (b Bounds) Center() Point {
	return Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g,%g]x[%g,%g]", b.MinX, b.MaxX, b.MinY, b.MaxY)
}
