// Package terrain holds the finished, serializable result of a generation
// run: the relaxed sites, per-cell heights and bands, the adjacency used for
// diffusion, and the banded mesh.
//
// A Terrain is what gets cached and what every renderer consumes. It carries
// no live graph or height field, so a terrain read back from a cache renders
// exactly like a freshly generated one.
package terrain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/graph"
	"github.com/matzehuels/coastlines/pkg/heights"
	"github.com/matzehuels/coastlines/pkg/mesh"
)

// Cell is one non-degenerate cell of the final subdivision.
type Cell struct {
	Site    geom.Point   `json:"site"`
	Height  float64      `json:"height"`
	Band    int          `json:"band"`
	Polygon []geom.Point `json:"polygon"`
}

// Link is an undirected adjacency between two entries of Terrain.Vertices.
type Link [2]int

// Terrain is a generated terrain.
type Terrain struct {
	Seed   uint64       `json:"seed"`
	Bounds geom.Bounds  `json:"bounds"`
	Sites  []geom.Point `json:"sites"`
	Cells  []Cell       `json:"cells"`

	// Vertices and Links describe the diffusion graph over cell corners.
	Vertices []geom.Point `json:"vertices"`
	Heights  []float64    `json:"heights"`
	Links    []Link       `json:"links"`

	Mesh    *mesh.Mesh      `json:"mesh"`
	Summary heights.Summary `json:"summary"`
	Misses  int64           `json:"misses"`
}

// New snapshots a generation run. sites are the relaxed sites, g the graph
// built from them, f the diffused height field and m the painted mesh.
// Misses records the lookups that had fallen back to the miss default by the
// time of the snapshot. Taking the snapshot adds none.
func New(seed uint64, bounds geom.Bounds, sites []geom.Point, g *graph.Graph, f *heights.Field, m *mesh.Mesh) *Terrain {
	height := func(id graph.VertexID) float64 {
		if h, ok := f.LookupID(id); ok {
			return h
		}
		return f.MissDefault()
	}
	t := &Terrain{
		Seed:    seed,
		Bounds:  bounds,
		Sites:   sites,
		Mesh:    m,
		Summary: f.Summarize(),
		Misses:  f.Misses(),
	}

	for i, n := range g.Nodes() {
		c := Cell{
			Site:    n.Site,
			Height:  height(n.SiteID),
			Polygon: make([]geom.Point, len(n.Boundary)),
		}
		if i < len(m.CellBands) {
			c.Band = m.CellBands[i]
		}
		for j, id := range n.Boundary {
			c.Polygon[j] = g.Position(id)
		}
		t.Cells = append(t.Cells, c)
	}

	index := make(map[graph.VertexID]int, len(g.Vertices()))
	for _, id := range g.Vertices() {
		index[id] = len(t.Vertices)
		t.Vertices = append(t.Vertices, g.Position(id))
		t.Heights = append(t.Heights, height(id))
	}
	for _, id := range g.Vertices() {
		for _, n := range g.Neighbors(id) {
			if id < n {
				t.Links = append(t.Links, Link{index[id], index[n]})
			}
		}
	}
	return t
}

// Marshal encodes t as JSON.
func (t *Terrain) Marshal() ([]byte, error) {
	return json.Marshal(t)
}

// Read decodes a terrain written by Marshal.
func Read(r io.Reader) (*Terrain, error) {
	var t Terrain
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode terrain: %w", err)
	}
	if t.Mesh == nil {
		return nil, fmt.Errorf("decode terrain: missing mesh")
	}
	if err := t.Mesh.Validate(); err != nil {
		return nil, fmt.Errorf("decode terrain: %w", err)
	}
	return &t, nil
}

// Unmarshal is Read over a byte slice.
func Unmarshal(data []byte) (*Terrain, error) {
	return Read(bytes.NewReader(data))
}
