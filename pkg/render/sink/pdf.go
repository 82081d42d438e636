package sink

import (
	"context"

	"github.com/matzehuels/coastlines/pkg/render"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

// RenderPDF renders the top-down SVG view of t and converts it to PDF.
// It returns [render.ErrNoConverter] when rsvg-convert is missing.
func RenderPDF(ctx context.Context, t *terrain.Terrain, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(t, opts...))
}
