// Package cache stores generated terrains and rendered artifacts.
//
// The pipeline uses a cache-aside scheme: a terrain is keyed by a hash of the
// generation options, and every rendered artifact is keyed by a hash of the
// terrain plus its render options. A miss recomputes and stores; a corrupt
// entry is treated as a miss.
//
// Backends:
//   - [NullCache]: stores nothing, disables caching
//   - [FileCache]: one file per entry under a local directory, used by the CLI
//   - [RedisCache]: shared cache for API deployments
//   - [MongoCache]: document store with a TTL index
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	// A missing or expired key is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	// TTLTerrain is how long a generated terrain is kept. Terrains are fully
	// determined by their options, so they can live long.
	TTLTerrain = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact is kept.
	TTLArtifact = 24 * time.Hour
)

// =============================================================================
// Keys
// =============================================================================

// TerrainKeyOpts holds every option that changes a generated terrain.
type TerrainKeyOpts struct {
	SiteCount   int
	Bounds      [4]float64
	Relaxations int
	Decay       float64
	Sharpness   float64
	Peaks       int
	Bands       int
	Gradient    []string
	MissDefault float64
	MaxHeight   float64
	Seed        uint64
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string
	Width       int
	Outlines    bool
	Sites       bool
	MaterialLib string
}

// Keyer derives cache keys.
type Keyer interface {
	TerrainKey(opts TerrainKeyOpts) string
	ArtifactKey(terrainHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "terrain:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TerrainKey returns the key of a terrain generated with opts.
func (DefaultKeyer) TerrainKey(opts TerrainKeyOpts) string {
	return hashKey("terrain", opts)
}

// ArtifactKey returns the key of an artifact rendered from a terrain.
func (DefaultKeyer) ArtifactKey(terrainHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", terrainHash, opts)
}
