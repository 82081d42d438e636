// Package relax moves subdivision sites toward their cell centroids with
// stochastic birth and death.
//
// Each iteration draws one uniform value r per cell. With p = DeathScale /
// cellCount, a cell with r < p loses its site. Every other site moves halfway
// toward its centroid when the centroid is more than MinShift away, and stays
// put otherwise. A cell with r > 1-p also gains a new site, extrapolated past
// the moved site along the displacement, scaled by half the distance. The
// resulting site list is rebuilt into a fresh diagram; nothing is carried
// across iterations except the sites.
package relax

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/subdivision"
)

const (
	// DefaultMinShift is the centroid distance below which a site is settled.
	DefaultMinShift = 2.0

	// DefaultDeathScale scales 1/cellCount into the death and birth probability.
	DefaultDeathScale = 0.1
)

var (
	// ErrNoBuilder is returned when a Relaxer has no subdivision builder.
	ErrNoBuilder = errors.New("relaxer has no builder")

	// ErrNoRand is returned when a Relaxer has no random source.
	ErrNoRand = errors.New("relaxer has no random source")

	// ErrNoDiagram is returned when there is no diagram to relax.
	ErrNoDiagram = errors.New("no diagram to relax")

	// ErrNegativeIterations is returned for a negative iteration count.
	ErrNegativeIterations = errors.New("iterations must not be negative")
)

// Relaxer runs Lloyd-style relaxation with birth and death.
type Relaxer struct {
	Builder subdivision.Builder
	Rand    *rand.Rand

	// Bounds limits where new sites may be born. Zero uses the bounds of the
	// diagram being relaxed.
	Bounds geom.Bounds

	MinShift   float64 // zero selects DefaultMinShift
	DeathScale float64 // zero selects DefaultDeathScale

	Logger *log.Logger
}

// Stats counts what happened during a Relax call.
type Stats struct {
	Iterations int
	Moved      int // sites pulled toward their centroid
	Settled    int // sites already within MinShift of their centroid
	Died       int
	Born       int
	Degenerate int // cells without a centroid, left in place
	Rejected   int // births discarded for leaving the bounds or not moving
	Sites      int // sites in the final diagram
	Duration   time.Duration
}

// Relax runs iterations rounds of relaxation on d. With zero iterations d is
// returned unchanged.
func (r *Relaxer) Relax(d *subdivision.Diagram, iterations int) (*subdivision.Diagram, Stats, error) {
	return r.RelaxContext(context.Background(), d, iterations)
}

// RelaxContext is like Relax but stops between iterations when ctx is done.
func (r *Relaxer) RelaxContext(ctx context.Context, d *subdivision.Diagram, iterations int) (*subdivision.Diagram, Stats, error) {
	var stats Stats
	if iterations < 0 {
		return nil, stats, ErrNegativeIterations
	}
	if iterations == 0 {
		if d != nil {
			stats.Sites = len(d.Sites)
		}
		return d, stats, nil
	}
	if d == nil {
		return nil, stats, ErrNoDiagram
	}
	if r.Builder == nil {
		return nil, stats, ErrNoBuilder
	}
	if r.Rand == nil {
		return nil, stats, ErrNoRand
	}
	logger := r.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	bounds := r.Bounds
	if !bounds.Valid() {
		bounds = d.Bounds
	}

	start := time.Now()
	for i := range iterations {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		sites := r.step(d, bounds, &stats)
		if len(sites) == 0 {
			logger.Debug("relax: every site died, keeping previous iteration", "iteration", i)
			stats.Iterations++
			continue
		}
		next, err := r.Builder.Build(sites, bounds)
		if err != nil {
			return nil, stats, fmt.Errorf("relax iteration %d: %w", i, err)
		}
		d = next
		stats.Iterations++
		logger.Debug("relax iteration", "iteration", i, "sites", len(sites))
	}
	stats.Sites = len(d.Sites)
	stats.Duration = time.Since(start)
	return d, stats, nil
}

// step computes the next site list from d.
func (r *Relaxer) step(d *subdivision.Diagram, bounds geom.Bounds, stats *Stats) []geom.Point {
	minShift := r.MinShift
	if minShift == 0 {
		minShift = DefaultMinShift
	}
	scale := r.DeathScale
	if scale == 0 {
		scale = DefaultDeathScale
	}
	if len(d.Cells) == 0 {
		return nil
	}
	p := scale / float64(len(d.Cells))

	sites := make([]geom.Point, 0, len(d.Cells)+1)
	for _, c := range d.Cells {
		rn := r.Rand.Float64()
		if rn < p {
			stats.Died++
			continue
		}

		centroid, ok := geom.Centroid(c.Segments())
		if !ok {
			stats.Degenerate++
			sites = append(sites, c.Site)
			continue
		}

		moved := c.Site
		dist := geom.Distance(centroid, c.Site)
		if dist > minShift {
			moved = c.Site.Lerp(centroid, 0.5)
			stats.Moved++
		} else {
			stats.Settled++
		}

		if rn > 1-p {
			if child, ok := offspring(c.Site, moved, dist, bounds); ok {
				sites = append(sites, child)
				stats.Born++
			} else {
				stats.Rejected++
			}
		}
		sites = append(sites, moved)
	}
	return sites
}

// offspring returns the site born from a cell whose site moved from orig to
// moved, dist being the original centroid distance.
func offspring(orig, moved geom.Point, dist float64, bounds geom.Bounds) (geom.Point, bool) {
	shift := moved.Sub(orig)
	if shift == (geom.Point{}) || dist == 0 {
		return geom.Point{}, false
	}
	child := moved.Add(shift.Scale(2 / dist))
	if !bounds.Contains(child) {
		return geom.Point{}, false
	}
	return child, true
}
