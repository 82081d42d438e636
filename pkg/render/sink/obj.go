package sink

import (
	"bytes"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/render"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

// OBJOption configures Wavefront OBJ output.
type OBJOption func(*objRenderer)

type objRenderer struct {
	mtllib   string
	centered bool
}

// WithMaterialLib references the named MTL file and assigns one material per
// band. Write the library itself with RenderMTL.
func WithMaterialLib(name string) OBJOption {
	return func(r *objRenderer) { r.mtllib = name }
}

// WithCentered moves the center of the terrain bounds to the origin.
func WithCentered() OBJOption { return func(r *objRenderer) { r.centered = true } }

// RenderOBJ writes the mesh of t as a Wavefront OBJ file with one group per
// non-empty band.
func RenderOBJ(t *terrain.Terrain, opts ...OBJOption) []byte {
	var r objRenderer
	for _, opt := range opts {
		opt(&r)
	}
	var origin geom.Point
	if r.centered {
		origin = t.Bounds.Center()
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# coastlines terrain seed=%d bands=%d\n", t.Seed, t.Mesh.Bands)
	if r.mtllib != "" {
		fmt.Fprintf(&buf, "mtllib %s\n", r.mtllib)
	}
	for _, v := range t.Mesh.Vertices {
		fmt.Fprintf(&buf, "v %g %g %g\n", v.X-origin.X, v.Y, v.Z-origin.Y)
	}
	for band, idx := range t.Mesh.Submeshes {
		if len(idx) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "g band_%d\n", band)
		if r.mtllib != "" {
			fmt.Fprintf(&buf, "usemtl band_%d\n", band)
		}
		// OBJ indices are 1-based.
		for i := 0; i+2 < len(idx); i += 3 {
			fmt.Fprintf(&buf, "f %d %d %d\n", idx[i]+1, idx[i+1]+1, idx[i+2]+1)
		}
	}
	return buf.Bytes()
}

// RenderMTL writes one diffuse material per band, named band_<n>.
func RenderMTL(t *terrain.Terrain) ([]byte, error) {
	var buf bytes.Buffer
	for band, hex := range render.BandColors(t.Mesh) {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("band %d color: %w", band, err)
		}
		fmt.Fprintf(&buf, "newmtl band_%d\n", band)
		fmt.Fprintf(&buf, "Kd %.4f %.4f %.4f\n", c.R, c.G, c.B)
		buf.WriteString("illum 1\n\n")
	}
	return buf.Bytes(), nil
}
