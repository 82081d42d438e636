package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/matzehuels/coastlines/pkg/render"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	width      int
	outlines   bool
	background string
}

// WithPNGWidth sets the image width in pixels.
func WithPNGWidth(w int) PNGOption { return func(r *pngRenderer) { r.width = w } }

// WithPNGOutlines draws the boundary of every cell.
func WithPNGOutlines() PNGOption { return func(r *pngRenderer) { r.outlines = true } }

// WithPNGBackground fills the image with color before drawing. The default
// background is transparent.
func WithPNGBackground(color string) PNGOption {
	return func(r *pngRenderer) { r.background = color }
}

// RenderPNG rasterizes the same top-down view as RenderSVG.
func RenderPNG(t *terrain.Terrain, opts ...PNGOption) ([]byte, error) {
	var r pngRenderer
	for _, opt := range opts {
		opt(&r)
	}
	vp := render.Fit(t.Bounds, r.width)
	colors := render.BandColors(t.Mesh)

	dc := gg.NewContext(int(vp.Width), int(vp.Height))
	if r.background != "" {
		dc.SetHexColor(r.background)
		dc.Clear()
	}

	// A hairline stroke in the fill color closes the antialiasing seams
	// between neighboring triangles.
	dc.SetLineWidth(1)
	verts := t.Mesh.Vertices
	for band, idx := range t.Mesh.Submeshes {
		dc.SetHexColor(colors[band])
		for i := 0; i+2 < len(idx); i += 3 {
			for k := range 3 {
				v := verts[idx[i+k]]
				x, y := vp.Project(v.X, v.Z)
				if k == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
			dc.FillPreserve()
			dc.Stroke()
		}
	}

	if r.outlines {
		dc.SetRGBA(0, 0, 0, 0.25)
		dc.SetLineWidth(0.5)
		for _, c := range t.Cells {
			for k, p := range c.Polygon {
				x, y := vp.Project(p.X, p.Y)
				if k == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
			dc.Stroke()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
