package relax

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/subdivision"
)

// constSource makes every Float64 draw return the same value.
type constSource uint64

func (c constSource) Uint64() uint64 { return uint64(c) }

const (
	drawZero = constSource(0)
	drawHalf = constSource(1 << 52)
	drawMax  = constSource(1<<53 - 1)
)

func square(site geom.Point, size float64) subdivision.Cell {
	a, b := geom.Pt(0, 0), geom.Pt(size, 0)
	c, d := geom.Pt(size, size), geom.Pt(0, size)
	return subdivision.Cell{Site: site, HalfEdges: []subdivision.HalfEdge{{Start: a, End: b}, {Start: b, End: c}, {Start: c, End: d}, {Start: d, End: a}}}
}

func single(site geom.Point) *subdivision.Diagram {
	return &subdivision.Diagram{
		Sites:  []geom.Point{site},
		Cells:  []subdivision.Cell{square(site, 10)},
		Bounds: geom.Rect(0, 0, 10, 10),
	}
}

// recorder is a builder that remembers the sites it was asked to build and
// returns a diagram with one square cell per site.
type recorder struct {
	calls [][]geom.Point
}

func (r *recorder) Build(sites []geom.Point, b geom.Bounds) (*subdivision.Diagram, error) {
	r.calls = append(r.calls, sites)
	d := &subdivision.Diagram{Sites: sites, Bounds: b}
	for _, s := range sites {
		d.Cells = append(d.Cells, square(s, 10))
	}
	return d, nil
}

func TestRelaxZeroIterations(t *testing.T) {
	d := subdivision.Grid(3, 3, 5)
	rec := &recorder{}
	r := &Relaxer{Builder: rec, Rand: rand.New(drawHalf)}

	got, stats, err := r.Relax(d, 0)
	if err != nil {
		t.Fatalf("Relax: %v", err)
	}
	if got != d {
		t.Error("zero iterations should return the input diagram")
	}
	if len(rec.calls) != 0 {
		t.Errorf("builder called %d times, want 0", len(rec.calls))
	}
	if stats.Sites != 9 || stats.Iterations != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRelaxStep(t *testing.T) {
	tests := []struct {
		name      string
		site      geom.Point
		src       constSource
		scale     float64
		bounds    geom.Bounds
		wantSites []geom.Point
		wantStats Stats
	}{
		{
			name:      "moves halfway",
			site:      geom.Pt(1, 1),
			src:       drawHalf,
			wantSites: []geom.Point{geom.Pt(3, 3)},
			wantStats: Stats{Moved: 1},
		},
		{
			name:      "settled site stays",
			site:      geom.Pt(5, 4),
			src:       drawHalf,
			wantSites: []geom.Point{geom.Pt(5, 4)},
			wantStats: Stats{Settled: 1},
		},
		{
			name:      "birth",
			site:      geom.Pt(1, 1),
			src:       drawMax,
			scale:     0.5,
			wantSites: []geom.Point{geom.Pt(3+1/math.Sqrt2, 3+1/math.Sqrt2), geom.Pt(3, 3)},
			wantStats: Stats{Moved: 1, Born: 1},
		},
		{
			name:      "birth of settled site rejected",
			site:      geom.Pt(5, 4),
			src:       drawMax,
			scale:     0.5,
			wantSites: []geom.Point{geom.Pt(5, 4)},
			wantStats: Stats{Settled: 1, Rejected: 1},
		},
		{
			name:      "birth outside bounds rejected",
			site:      geom.Pt(1, 1),
			src:       drawMax,
			scale:     0.5,
			bounds:    geom.Rect(0, 0, 3.5, 3.5),
			wantSites: []geom.Point{geom.Pt(3, 3)},
			wantStats: Stats{Moved: 1, Rejected: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Relaxer{Rand: rand.New(tt.src), DeathScale: tt.scale}
			bounds := tt.bounds
			if !bounds.Valid() {
				bounds = geom.Rect(0, 0, 10, 10)
			}
			var stats Stats
			got := r.step(single(tt.site), bounds, &stats)

			if len(got) != len(tt.wantSites) {
				t.Fatalf("got sites %v, want %v", got, tt.wantSites)
			}
			for i := range got {
				if geom.Distance(got[i], tt.wantSites[i]) > 1e-9 {
					t.Errorf("site[%d] = %v, want %v", i, got[i], tt.wantSites[i])
				}
			}
			if stats != tt.wantStats {
				t.Errorf("stats = %+v, want %+v", stats, tt.wantStats)
			}
		})
	}
}

func TestRelaxDegenerateCells(t *testing.T) {
	line := geom.Pt(2, 2)
	d := &subdivision.Diagram{
		Cells: []subdivision.Cell{
			{Site: geom.Pt(4, 4)},
			{Site: line, HalfEdges: []subdivision.HalfEdge{
				{Start: geom.Pt(0, 0), End: geom.Pt(4, 4)},
				{Start: geom.Pt(4, 4), End: geom.Pt(0, 0)},
			}},
		},
		Bounds: geom.Rect(0, 0, 10, 10),
	}
	r := &Relaxer{Rand: rand.New(drawHalf)}
	var stats Stats
	got := r.step(d, d.Bounds, &stats)

	if len(got) != 2 || got[0] != geom.Pt(4, 4) || got[1] != line {
		t.Errorf("degenerate cells moved: %v", got)
	}
	if stats.Degenerate != 2 {
		t.Errorf("Degenerate = %d, want 2", stats.Degenerate)
	}
}

func TestRelaxAllDieKeepsDiagram(t *testing.T) {
	d := single(geom.Pt(1, 1))
	rec := &recorder{}
	r := &Relaxer{Builder: rec, Rand: rand.New(drawZero)}

	got, stats, err := r.Relax(d, 2)
	if err != nil {
		t.Fatalf("Relax: %v", err)
	}
	if got != d {
		t.Error("expected previous diagram to survive")
	}
	if len(rec.calls) != 0 {
		t.Errorf("builder called %d times, want 0", len(rec.calls))
	}
	if stats.Died != 2 || stats.Iterations != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRelaxRebuildsEachIteration(t *testing.T) {
	rec := &recorder{}
	r := &Relaxer{Builder: rec, Rand: rand.New(drawHalf), Bounds: geom.Rect(0, 0, 10, 10)}

	got, stats, err := r.Relax(single(geom.Pt(1, 1)), 2)
	if err != nil {
		t.Fatalf("Relax: %v", err)
	}
	if len(rec.calls) != 2 {
		t.Fatalf("builder called %d times, want 2", len(rec.calls))
	}
	// (1,1) -> (3,3) -> (4,4); the second shift is sqrt(8) > 2.
	if got.Sites[0] != geom.Pt(4, 4) {
		t.Errorf("final site = %v, want (4,4)", got.Sites[0])
	}
	if stats.Iterations != 2 || stats.Moved != 2 || stats.Sites != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRelaxErrors(t *testing.T) {
	d := single(geom.Pt(1, 1))
	rng := rand.New(drawHalf)
	failing := subdivision.BuilderFunc(func([]geom.Point, geom.Bounds) (*subdivision.Diagram, error) {
		return nil, subdivision.ErrNoSites
	})
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		r    *Relaxer
		ctx  context.Context
		d    *subdivision.Diagram
		n    int
		want error
	}{
		{"negative", &Relaxer{Builder: &recorder{}, Rand: rng}, context.Background(), d, -1, ErrNegativeIterations},
		{"no builder", &Relaxer{Rand: rng}, context.Background(), d, 1, ErrNoBuilder},
		{"no rand", &Relaxer{Builder: &recorder{}}, context.Background(), d, 1, ErrNoRand},
		{"no diagram", &Relaxer{Builder: &recorder{}, Rand: rng}, context.Background(), nil, 1, ErrNoDiagram},
		{"builder error", &Relaxer{Builder: failing, Rand: rng}, context.Background(), d, 1, subdivision.ErrNoSites},
		{"cancelled", &Relaxer{Builder: &recorder{}, Rand: rng}, cancelled, d, 1, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.r.RelaxContext(tt.ctx, tt.d, tt.n)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRelaxFortune(t *testing.T) {
	bounds := geom.Rect(0, 0, 200, 200)
	rng := rand.New(rand.NewPCG(3, 3^0xdeadbeef))
	sites := make([]geom.Point, 60)
	for i := range sites {
		sites[i] = geom.Pt(rng.Float64()*200, rng.Float64()*200)
	}
	d, err := subdivision.NewFortune().Build(sites, bounds)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := &Relaxer{Builder: subdivision.NewFortune(), Rand: rng, Bounds: bounds}
	got, stats, err := r.Relax(d, 4)
	if err != nil {
		t.Fatalf("Relax: %v", err)
	}
	if stats.Iterations != 4 {
		t.Errorf("Iterations = %d, want 4", stats.Iterations)
	}
	if stats.Sites != len(got.Sites) {
		t.Errorf("Sites = %d, want %d", stats.Sites, len(got.Sites))
	}
	for _, s := range got.Sites {
		if !bounds.Contains(s) {
			t.Errorf("site %v escaped the bounds", s)
		}
	}
}
