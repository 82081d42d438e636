package graph

import (
	"testing"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/subdivision"
)

func TestNewGrid(t *testing.T) {
	g := New(subdivision.Grid(2, 2, 1))

	if got := len(g.Nodes()); got != 4 {
		t.Fatalf("Nodes() = %d, want 4", got)
	}
	// 3x3 lattice corners plus 4 sites.
	if got := g.VertexCount(); got != 13 {
		t.Errorf("VertexCount() = %d, want 13", got)
	}
	if got := len(g.Vertices()); got != 9 {
		t.Errorf("len(Vertices()) = %d, want 9", got)
	}
	// 12 lattice edges.
	if got := g.EdgeCount(); got != 12 {
		t.Errorf("EdgeCount() = %d, want 12", got)
	}
	if !g.IsSymmetric() {
		t.Error("graph is not symmetric")
	}

	center := g.ID(geom.Pt(1, 1))
	if center == None {
		t.Fatal("center vertex missing")
	}
	if got := len(g.Neighbors(center)); got != 4 {
		t.Errorf("center has %d neighbors, want 4", got)
	}
	corner := g.ID(geom.Pt(0, 0))
	if got := len(g.Neighbors(corner)); got != 2 {
		t.Errorf("corner has %d neighbors, want 2", got)
	}
}

func TestNodeBoundaryOrder(t *testing.T) {
	g := New(subdivision.Grid(1, 1, 2))
	n := g.Nodes()[0]

	want := []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(2, 2), geom.Pt(0, 2)}
	if len(n.Boundary) != len(want) {
		t.Fatalf("boundary has %d vertices, want %d", len(n.Boundary), len(want))
	}
	for i, id := range n.Boundary {
		if got := g.Position(id); got != want[i] {
			t.Errorf("boundary[%d] = %v, want %v", i, got, want[i])
		}
	}
	if g.Position(n.SiteID) != geom.Pt(1, 1) {
		t.Errorf("site = %v, want (1,1)", g.Position(n.SiteID))
	}
	if len(g.Neighbors(n.SiteID)) != 0 {
		t.Error("site should have no neighbors")
	}
}

func TestDegenerateCellsAreAbsent(t *testing.T) {
	d := subdivision.Grid(1, 1, 1)
	d.Sites = append(d.Sites, geom.Pt(5, 5))
	d.Cells = append(d.Cells, subdivision.Cell{Site: geom.Pt(5, 5)})

	g := New(d)
	if got := len(g.Nodes()); got != 1 {
		t.Fatalf("Nodes() = %d, want 1", got)
	}
	if g.ID(geom.Pt(5, 5)) != None {
		t.Error("degenerate site should not be interned")
	}
}

func TestNewEmpty(t *testing.T) {
	tests := []struct {
		name string
		d    *subdivision.Diagram
	}{
		{"nil", nil},
		{"no cells", &subdivision.Diagram{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.d)
			if len(g.Nodes()) != 0 || len(g.Vertices()) != 0 || g.VertexCount() != 0 {
				t.Errorf("expected empty graph, got %d nodes", len(g.Nodes()))
			}
			if g.Neighbors(0) != nil {
				t.Error("Neighbors on empty graph should be nil")
			}
		})
	}
}

func TestDuplicateHalfEdgesDeduplicated(t *testing.T) {
	a, b, c := geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(0, 1)
	d := &subdivision.Diagram{Cells: []subdivision.Cell{
		{Site: geom.Pt(0.3, 0.3), HalfEdges: []subdivision.HalfEdge{{Start: a, End: b}, {Start: b, End: c}, {Start: c, End: a}}},
		{Site: geom.Pt(0.6, 0.6), HalfEdges: []subdivision.HalfEdge{{Start: b, End: a}, {Start: a, End: c}, {Start: c, End: b}}},
	}}

	g := New(d)
	for _, id := range g.Vertices() {
		if got := len(g.Neighbors(id)); got != 2 {
			t.Errorf("vertex %v has %d neighbors, want 2", g.Position(id), got)
		}
	}
	if !g.IsSymmetric() {
		t.Error("graph is not symmetric")
	}
}

func TestFortuneGraphIsSymmetric(t *testing.T) {
	sites := []geom.Point{
		geom.Pt(10, 10), geom.Pt(40, 15), geom.Pt(75, 12), geom.Pt(20, 45),
		geom.Pt(55, 50), geom.Pt(85, 60), geom.Pt(15, 85), geom.Pt(60, 88),
	}
	d, err := subdivision.NewFortune().Build(sites, geom.Rect(0, 0, 100, 100))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	g := New(d)
	if len(g.Nodes()) != len(sites) {
		t.Errorf("Nodes() = %d, want %d", len(g.Nodes()), len(sites))
	}
	if !g.IsSymmetric() {
		t.Error("graph is not symmetric")
	}
}
