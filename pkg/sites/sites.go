// Package sites produces initial site distributions.
package sites

import (
	"math/rand/v2"

	"github.com/matzehuels/coastlines/pkg/geom"
)

// Uniform returns n sites drawn uniformly inside b.
func Uniform(rng *rand.Rand, n int, b geom.Bounds) []geom.Point {
	out := make([]geom.Point, max(n, 0))
	for i := range out {
		out[i] = geom.Pt(
			b.MinX+rng.Float64()*b.Width(),
			b.MinY+rng.Float64()*b.Height(),
		)
	}
	return out
}

// Append adds n uniform sites inside b to existing, leaving existing intact.
func Append(rng *rand.Rand, existing []geom.Point, n int, b geom.Bounds) []geom.Point {
	out := make([]geom.Point, 0, len(existing)+max(n, 0))
	out = append(out, existing...)
	return append(out, Uniform(rng, n, b)...)
}
