// Package render turns generated terrains into artifacts.
//
// # Overview
//
// This package holds what every output format shares:
//
//   - [Viewport] maps the site plane onto an image, north up
//   - [BandColors] resolves the color of each height band
//   - [ToPDF] converts SVG to PDF with the external rsvg-convert tool;
//     [ErrNoConverter] reports when it is missing
//
// The formats themselves live in subpackages:
//
//   - [sink]: top-down SVG, PNG and PDF, mesh JSON, Wavefront OBJ/MTL, GeoJSON
//   - [adjacency]: the diffusion graph as Graphviz DOT, rendered with pinned
//     neato positions
//
// # Usage
//
//	svg := sink.RenderSVG(t, sink.WithWidth(1024))
//	png, err := sink.RenderPNG(t)
//	dot := adjacency.ToDOT(t, adjacency.Options{})
//	graphSVG, err := adjacency.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/coastlines/pkg/render/sink
// [adjacency]: github.com/matzehuels/coastlines/pkg/render/adjacency
package render
