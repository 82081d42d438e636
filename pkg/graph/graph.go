package graph

import (
	"slices"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/subdivision"
)

// VertexID identifies a distinct site or vertex position within one Graph.
type VertexID int

// None is returned by lookups for positions that are not part of the graph.
const None VertexID = -1

// Edge is one half-edge of a node's boundary, by vertex identity.
type Edge struct {
	From VertexID
	To   VertexID
}

// Node is one non-degenerate cell of the subdivision.
type Node struct {
	Site     geom.Point
	SiteID   VertexID
	Boundary []VertexID // half-edge start points, in half-edge order
	Edges    []Edge
}

// Graph is the adjacency structure of a subdivision.
type Graph struct {
	positions []geom.Point
	ids       map[geom.Point]VertexID
	neighbors [][]VertexID
	vertices  []VertexID
	nodes     []Node
}

// New builds the graph for d. A nil diagram yields an empty graph.
func New(d *subdivision.Diagram) *Graph {
	g := &Graph{ids: make(map[geom.Point]VertexID)}
	if d == nil {
		return g
	}

	for _, c := range d.Cells {
		if c.Degenerate() {
			continue
		}
		n := Node{
			Site:     c.Site,
			SiteID:   g.intern(c.Site),
			Boundary: make([]VertexID, 0, len(c.HalfEdges)),
			Edges:    make([]Edge, 0, len(c.HalfEdges)),
		}
		for _, h := range c.HalfEdges {
			from, to := g.intern(h.Start), g.intern(h.End)
			n.Boundary = append(n.Boundary, from)
			n.Edges = append(n.Edges, Edge{From: from, To: to})
			g.link(from, to)
			g.link(to, from)
		}
		g.nodes = append(g.nodes, n)
	}

	for id, ns := range g.neighbors {
		if len(ns) > 0 {
			g.vertices = append(g.vertices, VertexID(id))
		}
	}
	return g
}

func (g *Graph) intern(p geom.Point) VertexID {
	if id, ok := g.ids[p]; ok {
		return id
	}
	id := VertexID(len(g.positions))
	g.ids[p] = id
	g.positions = append(g.positions, p)
	g.neighbors = append(g.neighbors, nil)
	return id
}

func (g *Graph) link(from, to VertexID) {
	if from == to || slices.Contains(g.neighbors[from], to) {
		return
	}
	g.neighbors[from] = append(g.neighbors[from], to)
}

// ID returns the identity of position p, or [None] if p is not in the graph.
func (g *Graph) ID(p geom.Point) VertexID {
	if id, ok := g.ids[p]; ok {
		return id
	}
	return None
}

// Position returns the position of id. It panics if id is out of range.
func (g *Graph) Position(id VertexID) geom.Point { return g.positions[id] }

// Neighbors returns the vertices sharing an edge with id, in first insertion
// order. The returned slice must not be modified.
func (g *Graph) Neighbors(id VertexID) []VertexID {
	if id < 0 || int(id) >= len(g.neighbors) {
		return nil
	}
	return g.neighbors[id]
}

// Vertices returns the IDs that have at least one neighbor, in first-seen
// order. Sites are never included.
func (g *Graph) Vertices() []VertexID { return g.vertices }

// Nodes returns the non-degenerate cells in diagram order.
func (g *Graph) Nodes() []Node { return g.nodes }

// VertexCount returns the number of distinct positions (sites and vertices).
func (g *Graph) VertexCount() int { return len(g.positions) }

// EdgeCount returns the number of undirected neighbor pairs.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, ns := range g.neighbors {
		n += len(ns)
	}
	return n / 2
}

// IsSymmetric reports whether every neighbor relation holds in both
// directions. It is true for every graph built by [New].
func (g *Graph) IsSymmetric() bool {
	for a, ns := range g.neighbors {
		for _, b := range ns {
			if !slices.Contains(g.neighbors[b], VertexID(a)) {
				return false
			}
		}
	}
	return true
}
