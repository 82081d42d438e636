package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/coastlines/pkg/cache"
	"github.com/matzehuels/coastlines/pkg/observability"
	"github.com/matzehuels/coastlines/pkg/relax"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run in logs and API responses.
	ID string

	// Terrain is the generated terrain.
	Terrain *terrain.Terrain

	// TerrainHash is the content hash of the serialized terrain.
	TerrainHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics. Stage timings are zero when
// the terrain came from the cache.
type Stats struct {
	CellCount     int
	VertexCount   int
	TriangleCount int
	Misses        int64 // height lookups that fell back to the miss default
	Relax         relax.Stats

	SiteTime       time.Duration
	RelaxTime      time.Duration
	DiffuseTime    time.Duration
	TessellateTime time.Duration
	GenerateTime   time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TerrainHit bool // Whether the terrain came from cache
	RenderHit  bool // Whether all artifacts came from cache
	Shared     bool // Whether the terrain was generated by a concurrent identical run
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// Concurrent runs with identical generation options share one generation.
// Multiple goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	group singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{ID: uuid.NewString()}
	logger := r.Logger.With("run", result.ID)

	// Stage 1: Generate
	gen, err := r.generate(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Terrain = gen.terrain
	result.TerrainHash = cache.Hash(gen.data)
	result.Stats = gen.stats
	result.CacheInfo.TerrainHit = gen.hit
	result.CacheInfo.Shared = gen.shared

	logger.Info("generated terrain",
		"seed", opts.Seed,
		"cells", len(gen.terrain.Cells),
		"triangles", gen.terrain.Mesh.TriangleCount(),
		"cached", gen.hit,
		"duration", result.Stats.GenerateTime)
	if gen.terrain.Misses > 0 {
		logger.Info("height lookups fell back to the default", "misses", gen.terrain.Misses, "default", opts.MissDefault)
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.render(ctx, gen.terrain, result.TerrainHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

type generated struct {
	terrain *terrain.Terrain
	data    []byte
	stats   Stats
	hit     bool
	shared  bool
}

// GenerateWithCacheInfo generates a terrain with caching and returns cache hit info.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*terrain.Terrain, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	gen, err := r.generate(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	return gen.terrain, gen.hit, nil
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (*terrain.Terrain, error) {
	t, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return t, err
}

func (r *Runner) generate(ctx context.Context, opts Options) (generated, error) {
	hooks := observability.Cache()
	key := r.Keyer.TerrainKey(opts.TerrainKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if t, err := terrain.Unmarshal(data); err == nil {
				hooks.OnCacheHit(ctx, "terrain")
				return generated{terrain: t, data: data, hit: true}, nil
			}
			// A corrupt entry is recomputed below
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "error", err)
		}
		hooks.OnCacheMiss(ctx, "terrain")
	}

	v, err, shared := r.group.Do(key, func() (any, error) {
		t, stats, err := GenerateWithStats(ctx, opts)
		if err != nil {
			return nil, err
		}
		data, err := t.Marshal()
		if err != nil {
			return nil, fmt.Errorf("serialize terrain: %w", err)
		}
		if err := r.Cache.Set(ctx, key, data, cache.TTLTerrain); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			hooks.OnCacheSet(ctx, "terrain", len(data))
		}
		return generated{terrain: t, data: data, stats: stats}, nil
	})
	if err != nil {
		return generated{}, err
	}
	gen := v.(generated)
	gen.shared = shared
	return gen, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *terrain.Terrain, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	data, err := t.Marshal()
	if err != nil {
		return nil, false, fmt.Errorf("serialize terrain for cache key: %w", err)
	}
	return r.render(ctx, t, cache.Hash(data), opts)
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, t *terrain.Terrain, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, opts)
	return artifacts, err
}

// render serves every format it can from the cache and renders the rest.
func (r *Runner) render(ctx context.Context, t *terrain.Terrain, terrainHash string, opts Options) (map[string][]byte, bool, error) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(terrainHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		hooks.OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	pipelineHooks := observability.Pipeline()
	start := time.Now()
	pipelineHooks.OnRenderStart(ctx, missing)
	rendered, err := renderFormats(ctx, t, opts, missing)
	pipelineHooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(terrainHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
