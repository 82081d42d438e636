// Package mesh tessellates an adjacency graph into an indexed triangle mesh
// whose triangles are grouped into height bands.
//
// # Tessellation
//
// Every node of the graph becomes a triangle fan: the site is the hub and the
// boundary vertices form the rim in half-edge order. Triangle i joins the hub,
// rim vertex i and rim vertex i+1, wrapping from the last rim vertex to the
// first, so a cell with k half-edges yields exactly k triangles.
//
// Fan vertices are deduplicated into one global vertex buffer by vertex
// identity. The first occurrence of a vertex assigns its index and later
// references reuse it, so building the same inputs twice yields identical
// buffers.
//
// # Bands
//
// A cell with site height h lands in band clamp(round(h*bands), 0, bands-1)
// and all its triangles are appended to that band's index list. Every band is
// present in [Mesh.Submeshes], empty or not. [Mesh.Paint] assigns each band
// the gradient color at band/bands.
//
// # Coordinates
//
// Vertices are three-dimensional with Y up: the plane X maps to X, the plane
// Y maps to Z, and Y holds the elevation. Elevation is zero unless
// [WithElevation] is given.
package mesh
