package subdivision

import (
	"math"
	"slices"

	"github.com/pzsz/voronoi"

	"github.com/matzehuels/coastlines/pkg/geom"
)

// Fortune builds closed Voronoi cells clipped to the bounds using Fortune's
// sweep-line algorithm.
type Fortune struct{}

// NewFortune returns the default builder.
func NewFortune() Builder { return Fortune{} }

// Build computes the diagram for sites inside b. Sites outside b are passed
// through to the sweep unchanged; the sweep clips their cells to b.
func (Fortune) Build(sites []geom.Point, b geom.Bounds) (*Diagram, error) {
	if len(sites) == 0 {
		return nil, ErrNoSites
	}
	if !b.Valid() {
		return nil, ErrInvalidBounds
	}

	vs := make([]voronoi.Vertex, len(sites))
	for i, s := range sites {
		vs[i] = voronoi.Vertex{X: s.X, Y: s.Y}
	}
	bbox := voronoi.NewBBox(b.MinX, b.MaxX, b.MinY, b.MaxY)
	vd := voronoi.ComputeDiagram(vs, bbox, true)

	d := &Diagram{
		Sites:  slices.Clone(sites),
		Cells:  make([]Cell, 0, len(vd.Cells)),
		Bounds: b,
	}
	for _, vc := range vd.Cells {
		c := Cell{Site: geom.Pt(vc.Site.X, vc.Site.Y)}
		for _, he := range vc.Halfedges {
			s, e := he.GetStartpoint(), he.GetEndpoint()
			if !finite(s) || !finite(e) {
				continue
			}
			c.HalfEdges = append(c.HalfEdges, HalfEdge{
				Start: geom.Pt(s.X, s.Y),
				End:   geom.Pt(e.X, e.Y),
			})
		}
		d.Cells = append(d.Cells, c)
	}
	return d, nil
}

func finite(v voronoi.Vertex) bool {
	return !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsNaN(v.X) && !math.IsNaN(v.Y)
}

var _ Builder = Fortune{}
