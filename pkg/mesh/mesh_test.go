package mesh

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/gradient"
	"github.com/matzehuels/coastlines/pkg/graph"
	"github.com/matzehuels/coastlines/pkg/heights"
	"github.com/matzehuels/coastlines/pkg/subdivision"
)

var _ Sampler = (*heights.Field)(nil)

type samplerFunc func(graph.VertexID) float64

func (f samplerFunc) HeightOf(id graph.VertexID) float64 { return f(id) }

func constant(h float64) Sampler {
	return samplerFunc(func(graph.VertexID) float64 { return h })
}

func TestBuildGrid(t *testing.T) {
	g := graph.New(subdivision.Grid(2, 1, 1))
	m, err := Build(g, constant(0.5), 4)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := len(m.Vertices); got != 8 {
		t.Errorf("len(Vertices) = %d, want 8", got)
	}
	if got := m.TriangleCount(); got != 8 {
		t.Errorf("TriangleCount() = %d, want 8", got)
	}
	if len(m.Submeshes) != 4 {
		t.Fatalf("len(Submeshes) = %d, want 4", len(m.Submeshes))
	}
	for b, s := range m.Submeshes {
		want := 0
		if b == 2 {
			want = 24
		}
		if s == nil || len(s) != want {
			t.Errorf("band %d has %d indices, want %d", b, len(s), want)
		}
	}
	if !reflect.DeepEqual(m.CellBands, []int{2, 2}) {
		t.Errorf("CellBands = %v, want [2 2]", m.CellBands)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBuildFanOrder(t *testing.T) {
	g := graph.New(subdivision.Grid(1, 1, 1))
	m, err := Build(g, constant(0), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	wantVerts := []Vertex{
		{X: 0.5, Z: 0.5},
		{X: 0, Z: 0},
		{X: 1, Z: 0},
		{X: 1, Z: 1},
		{X: 0, Z: 1},
	}
	if !reflect.DeepEqual(m.Vertices, wantVerts) {
		t.Errorf("Vertices = %v, want %v", m.Vertices, wantVerts)
	}
	wantTris := []int{0, 1, 2, 0, 2, 3, 0, 3, 4, 0, 4, 1}
	if !reflect.DeepEqual(m.Submeshes[0], wantTris) {
		t.Errorf("Submeshes[0] = %v, want %v", m.Submeshes[0], wantTris)
	}
}

func TestBuildIdempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 11^0xdeadbeef))
	sites := make([]geom.Point, 30)
	for i := range sites {
		sites[i] = geom.Pt(rng.Float64()*50, rng.Float64()*50)
	}
	d, err := subdivision.NewFortune().Build(sites, geom.Rect(0, 0, 50, 50))
	if err != nil {
		t.Fatalf("Build diagram: %v", err)
	}
	g := graph.New(d)
	f, err := heights.New(g, rng, heights.Options{Decay: 0.9, Sharpness: 0.2})
	if err != nil {
		t.Fatalf("heights.New: %v", err)
	}
	if err := f.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}

	a, err := Build(g, f, 5, WithElevation(3))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(g, f, 5, WithElevation(3))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two builds over the same inputs differ")
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if got, want := a.TriangleCount(), d.HalfEdgeCount(); got != want {
		t.Errorf("TriangleCount() = %d, want %d (one per half-edge)", got, want)
	}
}

func TestBuildSamplesEachVertexOnce(t *testing.T) {
	g := graph.New(subdivision.Grid(2, 1, 1))
	for _, opts := range [][]Option{nil, {WithElevation(4)}} {
		calls := make(map[graph.VertexID]int)
		sampler := samplerFunc(func(id graph.VertexID) float64 {
			calls[id]++
			return 0.5
		})
		if _, err := Build(g, sampler, 3, opts...); err != nil {
			t.Fatalf("Build: %v", err)
		}
		if len(calls) != g.VertexCount() {
			t.Errorf("sampled %d vertices, want %d", len(calls), g.VertexCount())
		}
		for id, n := range calls {
			if n != 1 {
				t.Errorf("vertex %d sampled %d times, want 1", id, n)
			}
		}
	}
}

func TestBuildCountsOneMissPerVertex(t *testing.T) {
	g := graph.New(subdivision.Grid(2, 1, 1))
	f, err := heights.New(g, rand.New(rand.NewPCG(1, 2)), heights.Options{Decay: 1, MissDefault: 0.25})
	if err != nil {
		t.Fatalf("heights.New: %v", err)
	}

	m, err := Build(g, f, 4, WithElevation(2))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got, want := f.Misses(), int64(g.VertexCount()); got != want {
		t.Errorf("Misses() = %d, want %d", got, want)
	}
	for _, v := range m.Vertices {
		if v.Y != 0.5 {
			t.Fatalf("vertex %v: elevation %v, want the miss default scaled to 0.5", v, v.Y)
		}
	}
	if !reflect.DeepEqual(m.CellBands, []int{1, 1}) {
		t.Errorf("CellBands = %v, want [1 1]", m.CellBands)
	}
}

func TestBuildSingleBand(t *testing.T) {
	g := graph.New(subdivision.Grid(3, 3, 1))
	for _, h := range []float64{0, 0.4, 0.99, 1} {
		m, err := Build(g, constant(h), 1)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if got := len(m.Submeshes[0]) / 3; got != 36 {
			t.Errorf("h=%v: band 0 has %d triangles, want 36", h, got)
		}
	}
}

func TestBuildSkipsEmptyCells(t *testing.T) {
	d := subdivision.Grid(1, 1, 1)
	d.Cells = append(d.Cells, subdivision.Cell{Site: geom.Pt(7, 7)})
	m, err := Build(graph.New(d), constant(0.5), 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(m.Vertices) != 5 || m.TriangleCount() != 4 {
		t.Errorf("got %d vertices, %d triangles; want 5, 4", len(m.Vertices), m.TriangleCount())
	}
	for _, v := range m.Vertices {
		if v.X == 7 {
			t.Error("empty cell contributed a vertex")
		}
	}
}

func TestBuildOptions(t *testing.T) {
	g := graph.New(subdivision.Grid(1, 1, 2))
	m, err := Build(g, constant(0.5), 2, WithOrigin(geom.Pt(1, 1)), WithElevation(10))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Vertices[0] != (Vertex{X: 0, Y: 5, Z: 0}) {
		t.Errorf("hub = %v, want {0 5 0}", m.Vertices[0])
	}
	if m.Vertices[1] != (Vertex{X: -1, Y: 5, Z: -1}) {
		t.Errorf("first rim = %v, want {-1 5 -1}", m.Vertices[1])
	}
}

func TestBuildInvalidBands(t *testing.T) {
	g := graph.New(subdivision.Grid(1, 1, 1))
	for _, bands := range []int{0, -3} {
		if _, err := Build(g, constant(0), bands); !errors.Is(err, ErrInvalidBands) {
			t.Errorf("Build(bands=%d) error = %v, want ErrInvalidBands", bands, err)
		}
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		h     float64
		bands int
		want  int
	}{
		{0, 4, 0},
		{0.12, 4, 0},
		{0.125, 4, 1},
		{0.5, 4, 2},
		{1, 4, 3},
		{-1, 4, 0},
		{2, 4, 3},
		{1, 1, 0},
	}
	for _, tt := range tests {
		if got := Band(tt.h, tt.bands); got != tt.want {
			t.Errorf("Band(%v, %d) = %d, want %d", tt.h, tt.bands, got, tt.want)
		}
	}
}

func TestPaint(t *testing.T) {
	m := &Mesh{Bands: 2, Submeshes: [][]int{{}, {}}}
	g := gradient.MustParse("#000000", "#ffffff")
	m.Paint(g)

	if len(m.Colors) != 2 || m.Colors[0] != "#000000" || m.Colors[1] != g.At(0.5).Hex() {
		t.Errorf("Colors = %v", m.Colors)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		m    *Mesh
	}{
		{"no bands", &Mesh{}},
		{"band mismatch", &Mesh{Bands: 2, Submeshes: [][]int{{}}}},
		{"partial triangle", &Mesh{Bands: 1, Vertices: make([]Vertex, 3), Submeshes: [][]int{{0, 1}}}},
		{"out of range", &Mesh{Bands: 1, Vertices: make([]Vertex, 3), Submeshes: [][]int{{0, 1, 3}}}},
		{"color mismatch", &Mesh{Bands: 1, Submeshes: [][]int{{}}, Colors: []string{"#000000", "#ffffff"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.m.Validate(); !errors.Is(err, ErrInvalidMesh) {
				t.Errorf("Validate() = %v, want ErrInvalidMesh", err)
			}
		})
	}
}
