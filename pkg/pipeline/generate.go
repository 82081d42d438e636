package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	errs "github.com/matzehuels/coastlines/pkg/errors"
	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/gradient"
	"github.com/matzehuels/coastlines/pkg/graph"
	"github.com/matzehuels/coastlines/pkg/heights"
	"github.com/matzehuels/coastlines/pkg/mesh"
	"github.com/matzehuels/coastlines/pkg/observability"
	"github.com/matzehuels/coastlines/pkg/relax"
	"github.com/matzehuels/coastlines/pkg/sites"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

// Stage names a step of generation.
type Stage string

// Generation stages, in order.
const (
	StageSites      Stage = "sites"
	StageRelax      Stage = "relax"
	StageDiffuse    Stage = "diffuse"
	StageTessellate Stage = "tessellate"
)

// Progress is called after each stage with the time it took.
type Progress func(stage Stage, d time.Duration)

// Generate runs the generation stage and returns the finished terrain.
// Nothing is returned unless every stage succeeds.
func Generate(ctx context.Context, opts Options) (*terrain.Terrain, error) {
	t, _, err := GenerateWithStats(ctx, opts)
	return t, err
}

// GenerateWithStats is Generate that also reports per-stage statistics.
func GenerateWithStats(ctx context.Context, opts Options) (*terrain.Terrain, Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, Stats{}, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnGenerateStart(ctx, opts.Seed, *opts.SiteCount)

	g := &generator{ctx: ctx, opts: &opts, hooks: hooks}
	t, err := g.run()
	g.stats.GenerateTime = time.Since(start)

	cells := 0
	if t != nil {
		cells = len(t.Cells)
	}
	hooks.OnGenerateComplete(ctx, opts.Seed, cells, g.stats.GenerateTime, err)
	if err != nil {
		return nil, g.stats, err
	}
	return t, g.stats, nil
}

type generator struct {
	ctx   context.Context
	opts  *Options
	hooks observability.PipelineHooks
	stats Stats
}

func (g *generator) run() (*terrain.Terrain, error) {
	opts := g.opts
	logger := opts.Logger
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0xdeadbeef))

	// Stage 1: scatter sites and build the first subdivision
	stageStart := time.Now()
	initial := sites.Uniform(rng, *opts.SiteCount, opts.Bounds)
	d, err := opts.Builder.Build(initial, opts.Bounds)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "build subdivision")
	}
	g.stats.SiteTime = time.Since(stageStart)
	g.report(StageSites, g.stats.SiteTime)
	logger.Debug("created sites", "sites", len(initial), "cells", len(d.Cells), "duration", g.stats.SiteTime)
	if err := g.checkCanceled(); err != nil {
		return nil, err
	}

	// Stage 2: relax
	relaxer := &relax.Relaxer{Builder: opts.Builder, Rand: rng, Bounds: opts.Bounds, Logger: logger}
	d, rs, err := relaxer.RelaxContext(g.ctx, d, opts.Iterations())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, canceled(err)
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "relax sites")
	}
	g.stats.Relax = rs
	g.stats.RelaxTime = rs.Duration
	g.hooks.OnRelaxComplete(g.ctx, rs.Iterations, rs.Sites, rs.Duration)
	g.report(StageRelax, rs.Duration)
	logger.Debug("relaxed sites",
		"iterations", rs.Iterations,
		"sites", rs.Sites,
		"born", rs.Born,
		"died", rs.Died,
		"duration", rs.Duration)

	// Stage 3: diffuse heights over the adjacency graph
	stageStart = time.Now()
	adj := graph.New(d)
	field, err := g.diffuse(adj, rng)
	if err != nil {
		return nil, err
	}
	g.stats.DiffuseTime = time.Since(stageStart)
	g.hooks.OnDiffuseComplete(g.ctx, field.Len(), g.stats.DiffuseTime)
	g.report(StageDiffuse, g.stats.DiffuseTime)
	logger.Debug("diffused heights",
		"vertices", adj.VertexCount(),
		"edges", adj.EdgeCount(),
		"heights", field.Len(),
		"duration", g.stats.DiffuseTime)
	if err := g.checkCanceled(); err != nil {
		return nil, err
	}

	// Stage 4: tessellate and paint
	stageStart = time.Now()
	m, err := mesh.Build(adj, field, *opts.Bands, mesh.WithElevation(opts.MaxHeight))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "tessellate")
	}
	grad, err := gradient.Parse(opts.Gradient)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidGradient, err, "invalid gradient")
	}
	m.Paint(grad)
	g.stats.TessellateTime = time.Since(stageStart)
	g.hooks.OnTessellateComplete(g.ctx, m.TriangleCount(), g.stats.TessellateTime)
	g.report(StageTessellate, g.stats.TessellateTime)
	logger.Debug("tessellated mesh",
		"vertices", len(m.Vertices),
		"triangles", m.TriangleCount(),
		"bands", m.Bands,
		"duration", g.stats.TessellateTime)

	t := terrain.New(opts.Seed, opts.Bounds, d.Sites, adj, field, m)
	g.stats.CellCount = len(t.Cells)
	g.stats.VertexCount = len(t.Vertices)
	g.stats.TriangleCount = m.TriangleCount()
	g.stats.Misses = t.Misses
	return t, nil
}

// diffuse seeds the height field once, then runs Peaks extra passes from
// random vertices.
func (g *generator) diffuse(adj *graph.Graph, rng *rand.Rand) (*heights.Field, error) {
	opts := g.opts
	logger := opts.Logger
	field, err := heights.New(adj, rng, heights.Options{
		Decay:       *opts.Decay,
		Sharpness:   *opts.Sharpness,
		MissDefault: opts.MissDefault,
		Logger:      logger,
		OnMiss: func(p geom.Point) {
			g.hooks.OnHeightMiss(g.ctx)
			logger.Debug("height lookup missed", "x", p.X, "y", p.Y, "default", opts.MissDefault)
		},
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "height options")
	}
	if err := field.Create(); err != nil {
		if errors.Is(err, heights.ErrEmptyGraph) {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "relaxation left no usable cells")
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "diffuse heights")
	}

	vs := adj.Vertices()
	for range opts.Peaks {
		p := adj.Position(vs[rng.IntN(len(vs))])
		if err := field.AddTo(p); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "add peak")
		}
	}
	return field, nil
}

func (g *generator) report(stage Stage, d time.Duration) {
	if g.opts.Progress != nil {
		g.opts.Progress(stage, d)
	}
}

func (g *generator) checkCanceled() error {
	if err := g.ctx.Err(); err != nil {
		return canceled(err)
	}
	return nil
}

func canceled(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrCodeTimeout, err, "generation timed out")
	}
	return errs.Wrap(errs.ErrCodeCanceled, err, "generation canceled")
}
