// Package adjacency renders the diffusion graph of a terrain with Graphviz.
//
// Every cell corner becomes a point node pinned at its plane position and
// colored by its height band; every adjacency becomes an undirected edge.
// Positions are pinned, so the neato engine only draws and never moves a
// node.
//
//	dot := adjacency.ToDOT(t, adjacency.Options{})
//	svg, err := adjacency.RenderSVG(ctx, dot)
package adjacency
