package sink

import (
	"encoding/json"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/heights"
	"github.com/matzehuels/coastlines/pkg/mesh"
	"github.com/matzehuels/coastlines/pkg/render"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

type jsonOutput struct {
	Seed      uint64          `json:"seed"`
	Bounds    geom.Bounds     `json:"bounds"`
	Bands     int             `json:"bands"`
	Colors    []string        `json:"colors"`
	Vertices  []mesh.Vertex   `json:"vertices"`
	Submeshes [][]int         `json:"submeshes"`
	Cells     []jsonCell      `json:"cells"`
	Summary   heights.Summary `json:"summary"`
}

type jsonCell struct {
	Site   geom.Point `json:"site"`
	Height float64    `json:"height"`
	Band   int        `json:"band"`
}

// RenderJSON writes the banded mesh of t with per-band colors and per-cell
// heights. Vertices are Y-up; indices address the vertex array and come in
// triangles.
func RenderJSON(t *terrain.Terrain) ([]byte, error) {
	out := jsonOutput{
		Seed:      t.Seed,
		Bounds:    t.Bounds,
		Bands:     t.Mesh.Bands,
		Colors:    render.BandColors(t.Mesh),
		Vertices:  t.Mesh.Vertices,
		Submeshes: t.Mesh.Submeshes,
		Cells:     make([]jsonCell, len(t.Cells)),
		Summary:   t.Summary,
	}
	for i, c := range t.Cells {
		out.Cells[i] = jsonCell{Site: c.Site, Height: c.Height, Band: c.Band}
	}
	return json.MarshalIndent(out, "", "  ")
}
