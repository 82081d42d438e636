package pipeline

import (
	"bytes"
	"context"
	"testing"

	errs "github.com/matzehuels/coastlines/pkg/errors"
	"github.com/matzehuels/coastlines/pkg/render"
)

func TestRender(t *testing.T) {
	ctx := context.Background()
	tr, err := Generate(ctx, Options{Builder: gridBuilder})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		format string
		prefix string
	}{
		{FormatSVG, "<svg "},
		{FormatPNG, "\x89PNG"},
		{FormatJSON, "{"},
		{FormatOBJ, "# coastlines terrain"},
		{FormatMTL, "newmtl band_0"},
		{FormatGeoJSON, "{"},
		{FormatDOT, "graph G {"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			artifacts, err := Render(ctx, tr, Options{Formats: []string{tt.format}, Width: 128})
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			data := artifacts[tt.format]
			if !bytes.HasPrefix(data, []byte(tt.prefix)) {
				t.Errorf("artifact starts with %.20q, want %q", data, tt.prefix)
			}
		})
	}
}

func TestRenderOBJReferencesMTL(t *testing.T) {
	ctx := context.Background()
	tr, err := Generate(ctx, Options{Builder: gridBuilder})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(ctx, tr, Options{Formats: []string{FormatOBJ, FormatMTL}})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(artifacts[FormatOBJ], []byte("mtllib terrain.mtl\n")) {
		t.Error("OBJ does not reference the material library")
	}

	alone, err := RenderFormat(ctx, tr, Options{}, FormatOBJ)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(alone, []byte("mtllib")) {
		t.Error("OBJ references a material library that was not requested")
	}
}

func TestRenderFormatUnsupported(t *testing.T) {
	tr, err := Generate(context.Background(), Options{Builder: gridBuilder})
	if err != nil {
		t.Fatal(err)
	}
	_, err = RenderFormat(context.Background(), tr, Options{}, "gif")
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("RenderFormat(gif) error = %v, want %v", err, errs.ErrCodeUnsupported)
	}
}

func TestRenderPDF(t *testing.T) {
	ctx := context.Background()
	tr, err := Generate(ctx, Options{Builder: gridBuilder})
	if err != nil {
		t.Fatal(err)
	}

	data, err := RenderFormat(ctx, tr, Options{}, FormatPDF)
	if !render.ConverterAvailable() {
		if !errs.Is(err, errs.ErrCodeUnsupported) {
			t.Errorf("RenderFormat(pdf) without converter error = %v, want %v", err, errs.ErrCodeUnsupported)
		}
		return
	}
	if err != nil {
		t.Fatalf("RenderFormat(pdf) error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("pdf starts with %.8q", data)
	}
}
