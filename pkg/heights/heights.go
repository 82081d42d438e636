package heights

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/graph"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultDecay attenuates height by 15% per hop.
	DefaultDecay = 0.85

	// DefaultSharpness is the default per-hop jitter magnitude.
	DefaultSharpness = 0.3

	// DefaultSeedMin and DefaultSeedMax bound the height given to a seed.
	DefaultSeedMin = 0.75
	DefaultSeedMax = 1.0

	// modifierEpsilon is the distance from zero at which a jitter modifier
	// is considered degenerate.
	modifierEpsilon = 1e-6
)

var (
	// ErrInvalidOptions is returned by [New] when an option is out of range.
	ErrInvalidOptions = errors.New("invalid height options")

	// ErrEmptyGraph is returned by [Field.Create] when the graph has no
	// vertices to seed from.
	ErrEmptyGraph = errors.New("graph has no vertices")

	// ErrUnknownPoint is returned by [Field.AddTo] for a position that is not
	// a vertex of the graph.
	ErrUnknownPoint = errors.New("point is not part of the graph")
)

// =============================================================================
// Options
// =============================================================================

// Options configures a Field.
type Options struct {
	// Decay multiplies a height each time it propagates one hop.
	Decay float64

	// Sharpness scales the per-hop random jitter. Zero disables jitter.
	Sharpness float64

	// SeedMin and SeedMax bound the seed height. Both zero selects the
	// defaults.
	SeedMin float64
	SeedMax float64

	// MissDefault is returned for positions that have no height.
	MissDefault float64

	// OnMiss, if set, is called for every lookup miss.
	OnMiss func(p geom.Point)

	Logger *log.Logger
}

func (o *Options) validate() error {
	if o.SeedMin == 0 && o.SeedMax == 0 {
		o.SeedMin, o.SeedMax = DefaultSeedMin, DefaultSeedMax
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	switch {
	case !unit(o.Decay):
		return fmt.Errorf("%w: decay %v not in [0, 1]", ErrInvalidOptions, o.Decay)
	case !unit(o.Sharpness):
		return fmt.Errorf("%w: sharpness %v not in [0, 1]", ErrInvalidOptions, o.Sharpness)
	case !unit(o.SeedMin) || !unit(o.SeedMax) || o.SeedMin > o.SeedMax:
		return fmt.Errorf("%w: seed range [%v, %v]", ErrInvalidOptions, o.SeedMin, o.SeedMax)
	case !unit(o.MissDefault):
		return fmt.Errorf("%w: miss default %v not in [0, 1]", ErrInvalidOptions, o.MissDefault)
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

// =============================================================================
// Field
// =============================================================================

// Field stores one height per graph vertex and site.
//
// A Field is not safe for concurrent mutation. Concurrent lookups are safe
// once no pass is running.
type Field struct {
	g    *graph.Graph
	rng  *rand.Rand
	opts Options

	heights []float64
	present []bool
	visited []bool
	count   int

	seeded      bool
	lastVisited int
	misses      atomic.Int64
}

// New returns an unseeded field over g. All randomness is drawn from rng.
func New(g *graph.Graph, rng *rand.Rand, opts Options) (*Field, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	n := g.VertexCount()
	return &Field{
		g:       g,
		rng:     rng,
		opts:    opts,
		heights: make([]float64, n),
		present: make([]bool, n),
		visited: make([]bool, n),
	}, nil
}

// Create clears all heights and runs one pass from a random vertex.
func (f *Field) Create() error {
	vs := f.g.Vertices()
	if len(vs) == 0 {
		return ErrEmptyGraph
	}
	clear(f.heights)
	clear(f.present)
	f.count = 0
	f.pass(vs[f.rng.IntN(len(vs))])
	return nil
}

// AddTo runs one pass seeded at p, keeping existing heights.
func (f *Field) AddTo(p geom.Point) error {
	id := f.g.ID(p)
	if id == graph.None {
		return fmt.Errorf("%w: %v", ErrUnknownPoint, p)
	}
	f.pass(id)
	return nil
}

func (f *Field) pass(seed graph.VertexID) {
	f.set(seed, f.opts.SeedMin+f.rng.Float64()*(f.opts.SeedMax-f.opts.SeedMin))

	clear(f.visited)
	queue := []graph.VertexID{seed}
	f.visited[seed] = true

	for head := 0; head < len(queue); head++ {
		p := queue[head]
		for _, n := range f.g.Neighbors(p) {
			if f.visited[n] {
				continue
			}
			mod := 1 - f.rng.Float64()*f.opts.Sharpness
			if math.Abs(mod) < modifierEpsilon {
				mod = 1
			}
			h := f.heights[p] * f.opts.Decay
			if f.present[n] {
				h += f.heights[n]
			}
			f.set(n, geom.Clamp01(h*mod))
			f.visited[n] = true
			queue = append(queue, n)
		}
	}

	f.lastVisited = len(queue)
	f.seeded = true
	f.updateSites()

	f.opts.Logger.Debug("height pass", "seed", f.g.Position(seed), "visited", f.lastVisited)
}

// updateSites sets each site to the mean of its boundary heights. A site with
// no boundary heights stays absent.
func (f *Field) updateSites() {
	for _, n := range f.g.Nodes() {
		var sum float64
		var k int
		for _, id := range n.Boundary {
			if f.present[id] {
				sum += f.heights[id]
				k++
			}
		}
		if k > 0 {
			f.set(n.SiteID, sum/float64(k))
		}
	}
}

func (f *Field) set(id graph.VertexID, h float64) {
	if !f.present[id] {
		f.present[id] = true
		f.count++
	}
	f.heights[id] = h
}

// Height returns the height at p, or the miss default if p has none.
func (f *Field) Height(p geom.Point) float64 {
	if h, ok := f.Lookup(p); ok {
		return h
	}
	f.miss(p)
	return f.opts.MissDefault
}

// HeightOf returns the height of id, or the miss default if it has none.
func (f *Field) HeightOf(id graph.VertexID) float64 {
	if h, ok := f.LookupID(id); ok {
		return h
	}
	var p geom.Point
	if id >= 0 && int(id) < len(f.heights) {
		p = f.g.Position(id)
	}
	f.miss(p)
	return f.opts.MissDefault
}

// Lookup returns the height at p and whether it was present. It never counts
// a miss.
func (f *Field) Lookup(p geom.Point) (float64, bool) {
	return f.LookupID(f.g.ID(p))
}

// LookupID is [Field.Lookup] by vertex identity.
func (f *Field) LookupID(id graph.VertexID) (float64, bool) {
	if id < 0 || int(id) >= len(f.heights) || !f.present[id] {
		return 0, false
	}
	return f.heights[id], true
}

// MissDefault returns the height reported for vertices that have none.
func (f *Field) MissDefault() float64 { return f.opts.MissDefault }

func (f *Field) miss(p geom.Point) {
	f.misses.Add(1)
	f.opts.Logger.Debug("no height", "point", p, "default", f.opts.MissDefault)
	if f.opts.OnMiss != nil {
		f.opts.OnMiss(p)
	}
}

// Misses returns the number of lookups that fell back to the miss default.
func (f *Field) Misses() int64 { return f.misses.Load() }

// Seeded reports whether at least one pass has run.
func (f *Field) Seeded() bool { return f.seeded }

// Visited returns the number of vertices processed by the last pass.
func (f *Field) Visited() int { return f.lastVisited }

// Len returns the number of positions that have a height.
func (f *Field) Len() int { return f.count }

// Graph returns the graph the field was built over.
func (f *Field) Graph() *graph.Graph { return f.g }
