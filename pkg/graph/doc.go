// Package graph builds the adjacency graph that height diffusion and mesh
// tessellation walk.
//
// # Overview
//
// A [Graph] is derived once from a [subdivision.Diagram]. It carries:
//
//   - one [Node] per cell that has at least one half-edge, holding the cell's
//     site and its boundary vertices in half-edge order
//   - a neighbor relation over boundary vertices, built by inserting both
//     directions of every half-edge
//
// Cells without half-edges are absent from the node list and contribute no
// neighbors. Construction never fails: degenerate input simply yields a
// smaller graph.
//
// # Vertex Identity
//
// Every distinct site or vertex position is assigned a [VertexID] during
// construction, in first-seen order. Downstream state (heights, mesh vertex
// deduplication) is keyed by that identity rather than by floating-point
// positions:
//
//	g := graph.New(diagram)
//	for _, id := range g.Vertices() {
//	    fmt.Println(g.Position(id), g.Neighbors(id))
//	}
//
// Positions are matched exactly, so two positions that differ in the last bit
// are different vertices.
//
// # Determinism
//
// Node order follows cell order. Neighbor lists keep first insertion order
// with duplicates removed. Iterating a graph is therefore fully reproducible
// for a given diagram, which the seeded stages rely on.
//
// A Graph is immutable after [New] returns and is safe for concurrent reads.
package graph
