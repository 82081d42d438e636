// Package sink writes terrains to concrete output formats.
//
// Top-down views ([RenderSVG], [RenderPNG], [RenderPDF]) draw every triangle
// of the banded mesh in its band color, north up. Data formats
// ([RenderJSON], [RenderOBJ], [RenderMTL], [RenderGeoJSON]) carry the mesh
// or the cell polygons for use in other tools.
//
// Renderers take functional options and never modify the terrain.
package sink
