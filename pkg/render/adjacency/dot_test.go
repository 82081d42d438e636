package adjacency

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/matzehuels/coastlines/pkg/graph"
	"github.com/matzehuels/coastlines/pkg/heights"
	"github.com/matzehuels/coastlines/pkg/mesh"
	"github.com/matzehuels/coastlines/pkg/subdivision"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

func gridTerrain(t *testing.T) *terrain.Terrain {
	t.Helper()
	d := subdivision.Grid(2, 2, 1)
	g := graph.New(d)
	f, err := heights.New(g, rand.New(rand.NewPCG(3, 4)), heights.Options{Decay: 1, SeedMin: 1, SeedMax: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Create(); err != nil {
		t.Fatal(err)
	}
	m, err := mesh.Build(g, f, 4)
	if err != nil {
		t.Fatal(err)
	}
	return terrain.New(1, d.Bounds, d.Sites, g, f, m)
}

func TestToDOT(t *testing.T) {
	tr := gridTerrain(t)

	tests := []struct {
		name   string
		opts   Options
		want   []string
		absent []string
	}{
		{
			name:   "default scale",
			opts:   Options{},
			want:   []string{"graph G {", "layout=neato;", `pos="0.00,0.00!"`, `pos="16.00,16.00!"`, " -- "},
			absent: []string{"xlabel"},
		},
		{
			name: "custom scale with labels",
			opts: Options{Scale: 10, Labels: true},
			want: []string{`pos="20.00,20.00!"`, `xlabel="1.00"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(tr, tt.opts)
			for _, s := range tt.want {
				if !strings.Contains(dot, s) {
					t.Errorf("DOT missing %q:\n%s", s, dot)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(dot, s) {
					t.Errorf("DOT contains %q", s)
				}
			}
		})
	}
}

func TestToDOTCounts(t *testing.T) {
	tr := gridTerrain(t)
	dot := ToDOT(tr, Options{})

	if got := strings.Count(dot, " -- "); got != len(tr.Links) {
		t.Errorf("edges = %d, want %d", got, len(tr.Links))
	}
	if got := strings.Count(dot, "pos="); got != len(tr.Vertices) {
		t.Errorf("nodes = %d, want %d", got, len(tr.Vertices))
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "rewrites root",
			in:   `<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`,
		},
		{
			name: "no viewBox",
			in:   `<svg><g/></svg>`,
			want: `<svg><g/></svg>`,
		},
		{
			name: "zero size",
			in:   `<svg viewBox="0 0 0 5"></svg>`,
			want: `<svg viewBox="0 0 0 5"></svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.in))); got != tt.want {
				t.Errorf("normalizeViewBox() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz render in short mode")
	}
	tr := gridTerrain(t)
	svg, err := RenderSVG(context.Background(), ToDOT(tr, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("unexpected root element:\n%.200s", svg)
	}
}
