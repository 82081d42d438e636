package adjacency

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/coastlines/pkg/mesh"
	"github.com/matzehuels/coastlines/pkg/render"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

// DefaultScale is the number of Graphviz points per plane unit.
const DefaultScale = 8.0

// Options configures adjacency rendering.
type Options struct {
	// Scale maps plane units to points. Zero selects DefaultScale.
	Scale float64

	// Labels writes each vertex height next to its node.
	Labels bool
}

// ToDOT converts the adjacency graph of t to Graphviz DOT.
func ToDOT(t *terrain.Terrain, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	colors := render.BandColors(t.Mesh)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=point, width=0.08, style=filled];\n")
	buf.WriteString("  edge [color=\"#555555\", penwidth=0.5];\n")
	buf.WriteString("\n")

	for i, p := range t.Vertices {
		h := t.Heights[i]
		color := colors[mesh.Band(h, t.Mesh.Bands)]
		x, y := (p.X-t.Bounds.MinX)*scale, (p.Y-t.Bounds.MinY)*scale
		fmt.Fprintf(&buf, "  v%d [pos=\"%.2f,%.2f!\", color=%q, fillcolor=%q", i, x, y, color, color)
		if opts.Labels {
			fmt.Fprintf(&buf, ", xlabel=%q, fontsize=6", strconv.FormatFloat(h, 'f', 2, 64))
		}
		buf.WriteString("];\n")
	}

	buf.WriteString("\n")
	for _, l := range t.Links {
		fmt.Fprintf(&buf, "  v%d -- v%d;\n", l[0], l[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph produced by ToDOT to SVG with the neato
// engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
