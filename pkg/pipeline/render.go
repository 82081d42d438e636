package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "github.com/matzehuels/coastlines/pkg/errors"
	"github.com/matzehuels/coastlines/pkg/observability"
	"github.com/matzehuels/coastlines/pkg/render"
	"github.com/matzehuels/coastlines/pkg/render/adjacency"
	"github.com/matzehuels/coastlines/pkg/render/sink"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, t *terrain.Terrain, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)

	artifacts, err := renderFormats(ctx, t, opts, opts.Formats)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(ctx context.Context, t *terrain.Terrain, opts Options, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		data, err := RenderFormat(ctx, t, opts, format)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders t in a single format.
func RenderFormat(ctx context.Context, t *terrain.Terrain, opts Options, format string) ([]byte, error) {
	var data []byte
	var err error

	switch format {
	case FormatSVG:
		data = sink.RenderSVG(t, svgOptions(opts)...)
	case FormatPNG:
		data, err = sink.RenderPNG(t, pngOptions(opts)...)
	case FormatPDF:
		data, err = sink.RenderPDF(ctx, t, svgOptions(opts)...)
		if errors.Is(err, render.ErrNoConverter) {
			return nil, errs.Wrap(errs.ErrCodeUnsupported, err, "pdf output is not available on this host")
		}
	case FormatJSON:
		data, err = sink.RenderJSON(t)
	case FormatOBJ:
		var objOpts []sink.OBJOption
		if lib := opts.MaterialLib(); lib != "" {
			objOpts = append(objOpts, sink.WithMaterialLib(lib))
		}
		data = sink.RenderOBJ(t, objOpts...)
	case FormatMTL:
		data, err = sink.RenderMTL(t)
	case FormatGeoJSON:
		data, err = sink.RenderGeoJSON(t)
	case FormatDOT:
		data = []byte(adjacency.ToDOT(t, adjacency.Options{}))
	case FormatGraph:
		data, err = adjacency.RenderSVG(ctx, adjacency.ToDOT(t, adjacency.Options{}))
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unsupported format: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

func svgOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithWidth(opts.Width)}
	if opts.Outlines {
		svgOpts = append(svgOpts, sink.WithOutlines())
	}
	if opts.Sites {
		svgOpts = append(svgOpts, sink.WithSites())
	}
	return svgOpts
}

func pngOptions(opts Options) []sink.PNGOption {
	pngOpts := []sink.PNGOption{sink.WithPNGWidth(opts.Width)}
	if opts.Outlines {
		pngOpts = append(pngOpts, sink.WithPNGOutlines())
	}
	return pngOpts
}
