package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/coastlines/pkg/render"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width      int
	outlines   bool
	sites      bool
	background string
}

// WithWidth sets the image width in pixels. The height follows the aspect
// ratio of the terrain bounds.
func WithWidth(w int) SVGOption { return func(r *svgRenderer) { r.width = w } }

// WithOutlines draws the boundary of every cell.
func WithOutlines() SVGOption { return func(r *svgRenderer) { r.outlines = true } }

// WithSites marks every cell site.
func WithSites() SVGOption { return func(r *svgRenderer) { r.sites = true } }

// WithBackground fills the image with color before drawing.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws t from above, one polygon per mesh triangle grouped by band.
func RenderSVG(t *terrain.Terrain, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	vp := render.Fit(t.Bounds, r.width)
	colors := render.BandColors(t.Mesh)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		vp.Width, vp.Height, vp.Width, vp.Height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	verts := t.Mesh.Vertices
	for band, idx := range t.Mesh.Submeshes {
		if len(idx) == 0 {
			continue
		}
		fmt.Fprintf(&buf, `  <g id="band-%d" fill="%s" stroke="%s" stroke-width="0.5" stroke-linejoin="round">`+"\n",
			band, colors[band], colors[band])
		for i := 0; i+2 < len(idx); i += 3 {
			buf.WriteString(`    <polygon points="`)
			for k := range 3 {
				v := verts[idx[i+k]]
				x, y := vp.Project(v.X, v.Z)
				if k > 0 {
					buf.WriteByte(' ')
				}
				fmt.Fprintf(&buf, "%.2f,%.2f", x, y)
			}
			buf.WriteString("\"/>\n")
		}
		buf.WriteString("  </g>\n")
	}

	if r.outlines {
		renderOutlines(&buf, t, vp)
	}
	if r.sites {
		buf.WriteString(`  <g id="sites" fill="#000000" fill-opacity="0.6">` + "\n")
		for _, c := range t.Cells {
			x, y := vp.Project(c.Site.X, c.Site.Y)
			fmt.Fprintf(&buf, `    <circle cx="%.2f" cy="%.2f" r="1.5"/>`+"\n", x, y)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderOutlines(buf *bytes.Buffer, t *terrain.Terrain, vp render.Viewport) {
	buf.WriteString(`  <g id="cells" fill="none" stroke="#000000" stroke-opacity="0.25" stroke-width="0.5">` + "\n")
	for i, c := range t.Cells {
		fmt.Fprintf(buf, `    <polygon id="cell-%d" data-band="%d" points="`, i, c.Band)
		for k, p := range c.Polygon {
			x, y := vp.Project(p.X, p.Y)
			if k > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(buf, "%.2f,%.2f", x, y)
		}
		buf.WriteString("\"/>\n")
	}
	buf.WriteString("  </g>\n")
}
