package sink

import (
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/coastlines/pkg/render"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

// RenderGeoJSON writes every cell of t as a polygon feature with height,
// band and color properties. Plane coordinates are written unchanged.
func RenderGeoJSON(t *terrain.Terrain) ([]byte, error) {
	colors := render.BandColors(t.Mesh)

	fc := geojson.NewFeatureCollection()
	fc.BBox = geojson.NewBBox(orb.Bound{
		Min: orb.Point{t.Bounds.MinX, t.Bounds.MinY},
		Max: orb.Point{t.Bounds.MaxX, t.Bounds.MaxY},
	})

	for i, c := range t.Cells {
		if len(c.Polygon) < 3 {
			continue
		}
		ring := make(orb.Ring, 0, len(c.Polygon)+1)
		for _, p := range c.Polygon {
			ring = append(ring, orb.Point{p.X, p.Y})
		}
		ring = append(ring, ring[0])
		if ring.Orientation() == orb.CW {
			ring.Reverse()
		}

		f := geojson.NewFeature(orb.Polygon{ring})
		f.ID = i
		f.Properties["height"] = c.Height
		f.Properties["band"] = c.Band
		if c.Band >= 0 && c.Band < len(colors) {
			f.Properties["color"] = colors[c.Band]
		}
		fc.Append(f)
	}
	return json.MarshalIndent(fc, "", "  ")
}
