package render

import (
	"math"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/gradient"
	"github.com/matzehuels/coastlines/pkg/mesh"
)

// DefaultWidth is the image width used when a renderer is given none.
const DefaultWidth = 800

// Viewport maps plane coordinates to image coordinates. The image origin is
// the top-left corner, so plane y is flipped.
type Viewport struct {
	Bounds geom.Bounds
	Width  float64
	Height float64
}

// Fit returns a viewport width pixels wide that keeps the aspect ratio of b.
// A non-positive width selects DefaultWidth.
func Fit(b geom.Bounds, width int) Viewport {
	if width <= 0 {
		width = DefaultWidth
	}
	w := float64(width)
	h := w
	if b.Valid() {
		h = math.Round(w * b.Height() / b.Width())
	}
	return Viewport{Bounds: b, Width: w, Height: max(h, 1)}
}

// Project maps a plane point to image coordinates.
func (v Viewport) Project(x, y float64) (float64, float64) {
	if !v.Bounds.Valid() {
		return x, y
	}
	px := (x - v.Bounds.MinX) / v.Bounds.Width() * v.Width
	py := (v.Bounds.MaxY - y) / v.Bounds.Height() * v.Height
	return px, py
}

// Scale returns the number of pixels per plane unit along x.
func (v Viewport) Scale() float64 {
	if !v.Bounds.Valid() {
		return 1
	}
	return v.Width / v.Bounds.Width()
}

// BandColors returns one hex color per band of m. Unpainted meshes fall back
// to the default gradient.
func BandColors(m *mesh.Mesh) []string {
	if len(m.Colors) == m.Bands && m.Bands > 0 {
		return m.Colors
	}
	g := gradient.Default()
	colors := make([]string, m.Bands)
	for i := range colors {
		colors[i] = g.At(float64(i) / float64(m.Bands)).Hex()
	}
	return colors
}
