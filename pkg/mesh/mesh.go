package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/gradient"
	"github.com/matzehuels/coastlines/pkg/graph"
)

var (
	// ErrInvalidBands is returned by [Build] for a band count below one.
	ErrInvalidBands = errors.New("band count must be positive")

	// ErrInvalidMesh is returned by [Mesh.Validate].
	ErrInvalidMesh = errors.New("invalid mesh")
)

// Sampler provides heights by vertex identity. A missing height must be
// reported through the sampler's own miss policy, never as a failure.
// [Build] asks for every vertex exactly once, so a sampler that counts misses
// sees one miss per height-less vertex per Build.
type Sampler interface {
	HeightOf(id graph.VertexID) float64
}

// Vertex is a mesh vertex in Y-up coordinates.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Mesh is a deduplicated vertex buffer with one triangle list per band.
type Mesh struct {
	Vertices  []Vertex `json:"vertices"`
	Submeshes [][]int  `json:"submeshes"`
	Colors    []string `json:"colors,omitempty"`
	Bands     int      `json:"bands"`

	// CellBands holds the band of each graph node, in node order.
	CellBands []int `json:"cell_bands"`
}

// Option configures Build.
type Option func(*config)

type config struct {
	origin    geom.Point
	maxHeight float64
}

// WithOrigin subtracts origin from every vertex position.
func WithOrigin(origin geom.Point) Option {
	return func(c *config) { c.origin = origin }
}

// WithElevation lifts every vertex to its height times maxHeight.
func WithElevation(maxHeight float64) Option {
	return func(c *config) { c.maxHeight = maxHeight }
}

// Build tessellates g using heights for banding and elevation. It fails only
// for a non-positive band count.
func Build(g *graph.Graph, heights Sampler, bands int, opts ...Option) (*Mesh, error) {
	if bands <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBands, bands)
	}
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	b := &builder{
		g:       g,
		heights: heights,
		cfg:     cfg,
		index:   make([]int, g.VertexCount()),
		mesh: &Mesh{
			Submeshes: make([][]int, bands),
			Bands:     bands,
			CellBands: make([]int, 0, len(g.Nodes())),
		},
	}
	for i := range b.index {
		b.index[i] = -1
	}
	for i := range b.mesh.Submeshes {
		b.mesh.Submeshes[i] = []int{}
	}

	b.sample()
	for _, n := range g.Nodes() {
		b.cell(n)
	}
	return b.mesh, nil
}

type builder struct {
	g       *graph.Graph
	heights Sampler
	cfg     config

	h     []float64 // vertex ID -> sampled height
	index []int // vertex ID -> global vertex index, -1 if not emitted yet
	mesh  *Mesh
}

// sample reads every vertex height once, before any cell is tessellated.
// Bands and elevations both come from this table.
func (b *builder) sample() {
	b.h = make([]float64, b.g.VertexCount())
	for i := range b.h {
		b.h[i] = b.heights.HeightOf(graph.VertexID(i))
	}
}

func (b *builder) cell(n graph.Node) {
	k := len(n.Boundary)
	if k == 0 {
		return
	}

	band := Band(b.h[n.SiteID], b.mesh.Bands)
	b.mesh.CellBands = append(b.mesh.CellBands, band)

	hub := b.vertex(n.SiteID)
	rim := make([]int, k)
	for i, id := range n.Boundary {
		rim[i] = b.vertex(id)
	}

	tris := b.mesh.Submeshes[band]
	for i := range k {
		tris = append(tris, hub, rim[i], rim[(i+1)%k])
	}
	b.mesh.Submeshes[band] = tris
}

func (b *builder) vertex(id graph.VertexID) int {
	if idx := b.index[id]; idx >= 0 {
		return idx
	}
	p := b.g.Position(id).Sub(b.cfg.origin)
	idx := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, Vertex{X: p.X, Y: b.h[id] * b.cfg.maxHeight, Z: p.Y})
	b.index[id] = idx
	return idx
}

// Band returns the band of height h among bands bands.
func Band(h float64, bands int) int {
	band := int(math.Round(h * float64(bands)))
	return max(0, min(band, bands-1))
}

// TriangleCount returns the number of triangles over all bands.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, s := range m.Submeshes {
		n += len(s) / 3
	}
	return n
}

// Paint sets the color of every band to g sampled at band/Bands.
func (m *Mesh) Paint(g gradient.Gradient) {
	m.Colors = make([]string, m.Bands)
	for i := range m.Colors {
		m.Colors[i] = g.At(float64(i) / float64(m.Bands)).Hex()
	}
}

// Validate checks the structural invariants of m.
func (m *Mesh) Validate() error {
	if m.Bands <= 0 || len(m.Submeshes) != m.Bands {
		return fmt.Errorf("%w: %d submeshes for %d bands", ErrInvalidMesh, len(m.Submeshes), m.Bands)
	}
	if len(m.Colors) != 0 && len(m.Colors) != m.Bands {
		return fmt.Errorf("%w: %d colors for %d bands", ErrInvalidMesh, len(m.Colors), m.Bands)
	}
	for b, s := range m.Submeshes {
		if len(s)%3 != 0 {
			return fmt.Errorf("%w: band %d has %d indices", ErrInvalidMesh, b, len(s))
		}
		for _, idx := range s {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("%w: band %d index %d out of range", ErrInvalidMesh, b, idx)
			}
		}
	}
	return nil
}
