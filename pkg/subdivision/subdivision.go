package subdivision

import (
	"errors"

	"github.com/matzehuels/coastlines/pkg/geom"
)

var (
	// ErrNoSites is returned by builders when asked to subdivide an empty site list.
	ErrNoSites = errors.New("no sites to subdivide")

	// ErrInvalidBounds is returned by builders when the bounds have no area.
	ErrInvalidBounds = errors.New("bounds must have a positive width and height")
)

// HalfEdge is a directed boundary segment of a cell.
type HalfEdge struct {
	Start geom.Point
	End   geom.Point
}

// Segment returns the half-edge as a geometry segment.
func (h HalfEdge) Segment() geom.Segment { return geom.Segment{Start: h.Start, End: h.End} }

// Cell is the region owned by one site.
type Cell struct {
	Site      geom.Point
	HalfEdges []HalfEdge
}

// Degenerate reports whether the cell has no boundary.
func (c Cell) Degenerate() bool { return len(c.HalfEdges) == 0 }

// Segments returns the cell boundary as geometry segments.
func (c Cell) Segments() []geom.Segment {
	segs := make([]geom.Segment, len(c.HalfEdges))
	for i, h := range c.HalfEdges {
		segs[i] = h.Segment()
	}
	return segs
}

// Diagram is a complete subdivision: the sites it was built from and one
// cell per site, in builder order. A Diagram is never mutated once built.
type Diagram struct {
	Sites  []geom.Point
	Cells  []Cell
	Bounds geom.Bounds
}

// HalfEdgeCount returns the total number of half-edges over all cells.
func (d *Diagram) HalfEdgeCount() int {
	n := 0
	for _, c := range d.Cells {
		n += len(c.HalfEdges)
	}
	return n
}

// Builder computes a subdivision from sites.
type Builder interface {
	Build(sites []geom.Point, b geom.Bounds) (*Diagram, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(sites []geom.Point, b geom.Bounds) (*Diagram, error)

// Build calls f(sites, b).
func (f BuilderFunc) Build(sites []geom.Point, b geom.Bounds) (*Diagram, error) {
	return f(sites, b)
}
