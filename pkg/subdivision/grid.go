package subdivision

import "github.com/matzehuels/coastlines/pkg/geom"

// Grid returns the diagram of an nx×ny lattice of square cells with the given
// side length, anchored at the origin. Sites sit at cell centers and every
// cell boundary runs counter-clockwise starting at its lower-left corner.
// Neighboring cells share corner positions exactly.
func Grid(nx, ny int, size float64) *Diagram {
	d := &Diagram{Bounds: geom.Rect(0, 0, float64(nx)*size, float64(ny)*size)}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x0, y0 := float64(i)*size, float64(j)*size
			x1, y1 := float64(i+1)*size, float64(j+1)*size
			site := geom.Pt(x0+size/2, y0+size/2)
			a, b, c, e := geom.Pt(x0, y0), geom.Pt(x1, y0), geom.Pt(x1, y1), geom.Pt(x0, y1)
			d.Sites = append(d.Sites, site)
			d.Cells = append(d.Cells, Cell{
				Site:      site,
				HalfEdges: []HalfEdge{{a, b}, {b, c}, {c, e}, {e, a}},
			})
		}
	}
	return d
}
