// Package subdivision describes the planar subdivision (Voronoi diagram) that
// the terrain stages consume.
//
// The subdivision algorithm itself is not part of the terrain core: a
// [Builder] turns a list of sites and bounds into a [Diagram], and everything
// downstream reads only the plain [Diagram], [Cell] and [HalfEdge] values.
// [Fortune] adapts the github.com/pzsz/voronoi sweep implementation;
// [Grid] produces the exact diagram of a square lattice and is handy for
// tests and examples.
//
// # Ordering
//
// Cells keep the order produced by the builder and each cell lists its
// half-edges so that consecutive half-edges share a vertex, closing the
// polygon. Downstream stages rely on both orders for reproducible output.
package subdivision
