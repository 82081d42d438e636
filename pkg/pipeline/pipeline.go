// Package pipeline generates and renders terrains for the CLI and the API.
//
// This package wires the generator together: sites are scattered, a planar
// subdivision is built and relaxed, heights are diffused over its adjacency
// graph, and the result is tessellated into banded meshes and rendered. By
// centralizing this logic, every entry point produces the same terrain for
// the same options.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Generate: sites → subdivision → relaxation → diffusion → tessellation
//  2. Render: write the terrain in the requested formats (SVG, PNG, OBJ, ...)
//
// One seeded random source threads through every randomized step of a run,
// so a seed and a set of options always reproduce the same terrain.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    SiteCount: pipeline.Ptr(200),
//	    Seed:      7,
//	    Formats:   []string{"svg", "obj"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	t, err := pipeline.Generate(ctx, opts)
//	artifacts, err := pipeline.Render(ctx, t, opts)
package pipeline

import (
	"io"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coastlines/pkg/cache"
	errs "github.com/matzehuels/coastlines/pkg/errors"
	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/gradient"
	"github.com/matzehuels/coastlines/pkg/heights"
	"github.com/matzehuels/coastlines/pkg/render"
	"github.com/matzehuels/coastlines/pkg/subdivision"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Config Files
// =============================================================================

const (
	// DefaultSiteCount is the number of sites scattered before relaxation.
	DefaultSiteCount = 36

	// DefaultRelaxations is the number of relaxation iterations.
	DefaultRelaxations = 2

	// DefaultBands is the number of height bands, and so of mesh materials.
	DefaultBands = 10

	// DefaultExtent is the side length of the default square bounds.
	DefaultExtent = 100.0

	// DefaultMaxHeight is the elevation of a height of 1 in the mesh.
	DefaultMaxHeight = 10.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultDecay and DefaultSharpness mirror the height synthesizer.
	DefaultDecay     = heights.DefaultDecay
	DefaultSharpness = heights.DefaultSharpness

	// DefaultWidth is the default image width in pixels.
	DefaultWidth = render.DefaultWidth

	// MaxPeaks caps the number of extra diffusion passes.
	MaxPeaks = 64

	// MaxWidth caps the image width in pixels.
	MaxWidth = 8192
)

// DefaultBounds returns the default generation area.
func DefaultBounds() geom.Bounds { return geom.Rect(0, 0, DefaultExtent, DefaultExtent) }

// Format constants for output formats.
const (
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatJSON    = "json"
	FormatOBJ     = "obj"
	FormatMTL     = "mtl"
	FormatGeoJSON = "geojson"
	FormatDOT     = "dot"
	FormatGraph   = "graph"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatPNG:     true,
	FormatPDF:     true,
	FormatJSON:    true,
	FormatOBJ:     true,
	FormatMTL:     true,
	FormatGeoJSON: true,
	FormatDOT:     true,
	FormatGraph:   true,
}

// Extensions maps each format to the file extension used when writing it.
var Extensions = map[string]string{
	FormatSVG:     ".svg",
	FormatPNG:     ".png",
	FormatPDF:     ".pdf",
	FormatJSON:    ".json",
	FormatOBJ:     ".obj",
	FormatMTL:     ".mtl",
	FormatGeoJSON: ".geojson",
	FormatDOT:     ".dot",
	FormatGraph:   ".graph.svg",
}

// FormatNames returns the supported formats in a stable order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run. It is decoded from
// API requests (JSON) and from config files (TOML). Zero values select the
// defaults above.
//
// SiteCount, Decay, Sharpness and Bands are pointers because zero is a
// meaningful request for them: no jitter and no decay are valid, no sites and
// no bands are errors. Only a nil pointer selects the default.
type Options struct {
	// Generation options
	SiteCount   *int        `json:"site_count,omitempty" toml:"site_count,omitempty"`
	Bounds      geom.Bounds `json:"bounds" toml:"bounds"`
	Relaxations int         `json:"relaxations,omitempty" toml:"relaxations,omitempty"`
	SkipRelax   bool        `json:"skip_relax,omitempty" toml:"skip_relax,omitempty"` // Keep the initial sites
	Decay       *float64    `json:"decay,omitempty" toml:"decay,omitempty"`
	Sharpness   *float64    `json:"sharpness,omitempty" toml:"sharpness,omitempty"`
	Peaks       int         `json:"peaks,omitempty" toml:"peaks,omitempty"` // Extra diffusion passes from random vertices
	MissDefault float64     `json:"miss_default,omitempty" toml:"miss_default,omitempty"`
	Seed        uint64      `json:"seed,omitempty" toml:"seed,omitempty"`
	Refresh     bool        `json:"refresh,omitempty" toml:"-"`

	// Mesh options
	Bands     *int     `json:"bands,omitempty" toml:"bands,omitempty"`
	MaxHeight float64  `json:"max_height,omitempty" toml:"max_height,omitempty"`
	Gradient  []string `json:"gradient,omitempty" toml:"gradient,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty" toml:"formats,omitempty"`
	Width    int      `json:"width,omitempty" toml:"width,omitempty"`
	Outlines bool     `json:"outlines,omitempty" toml:"outlines,omitempty"`
	Sites    bool     `json:"sites,omitempty" toml:"sites,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger         `json:"-" toml:"-"`
	Builder  subdivision.Builder `json:"-" toml:"-"`
	Progress Progress            `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every option. It runs
// before any randomized work, so a bad option never costs a generation.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Ptr returns a pointer to v, for the optional fields of [Options].
func Ptr[T any](v T) *T { return &v }

// SetDefaults replaces unset values with defaults. An explicit zero in a
// pointer field is kept for validation.
func (o *Options) SetDefaults() {
	if o.SiteCount == nil {
		o.SiteCount = Ptr(DefaultSiteCount)
	}
	if o.Bounds == (geom.Bounds{}) {
		o.Bounds = DefaultBounds()
	}
	if o.Relaxations == 0 {
		o.Relaxations = DefaultRelaxations
	}
	if o.Decay == nil {
		o.Decay = Ptr(DefaultDecay)
	}
	if o.Sharpness == nil {
		o.Sharpness = Ptr(DefaultSharpness)
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Bands == nil {
		o.Bands = Ptr(DefaultBands)
	}
	if o.MaxHeight == 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if len(o.Gradient) == 0 {
		o.Gradient = gradient.Default().Strings()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Builder == nil {
		o.Builder = subdivision.NewFortune()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func (o *Options) validate() error {
	if err := errs.ValidateSiteCount(*o.SiteCount); err != nil {
		return err
	}
	if err := errs.ValidateExtent(o.Bounds.MinX, o.Bounds.MinY, o.Bounds.MaxX, o.Bounds.MaxY); err != nil {
		return err
	}
	if err := errs.ValidateRelaxations(o.Relaxations); err != nil {
		return err
	}
	if err := errs.ValidateBands(*o.Bands); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"decay", *o.Decay},
		{"sharpness", *o.Sharpness},
		{"miss_default", o.MissDefault},
	} {
		if err := errs.ValidateFraction(f.name, f.v); err != nil {
			return err
		}
	}
	if o.Peaks < 0 || o.Peaks > MaxPeaks {
		return errs.New(errs.ErrCodeInvalidConfig, "peaks must be in [0, %d], got %d", MaxPeaks, o.Peaks)
	}
	if o.MaxHeight < 0 || math.IsNaN(o.MaxHeight) || math.IsInf(o.MaxHeight, 0) {
		return errs.New(errs.ErrCodeInvalidConfig, "max_height must be a finite non-negative number, got %v", o.MaxHeight)
	}
	if o.Width < 1 || o.Width > MaxWidth {
		return errs.New(errs.ErrCodeInvalidConfig, "width must be in [1, %d], got %d", MaxWidth, o.Width)
	}
	if _, err := gradient.Parse(o.Gradient); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidGradient, err, "invalid gradient")
	}
	return ValidateFormats(o.Formats)
}

// Iterations returns the number of relaxation iterations to run.
func (o *Options) Iterations() int {
	if o.SkipRelax {
		return 0
	}
	return o.Relaxations
}

// MaterialLib returns the MTL file name an OBJ artifact references, or ""
// when no MTL artifact is requested.
func (o *Options) MaterialLib() string {
	if !o.HasFormat(FormatMTL) {
		return ""
	}
	return "terrain" + Extensions[FormatMTL]
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

// TerrainKeyOpts returns cache key options for terrain generation.
func (o *Options) TerrainKeyOpts() cache.TerrainKeyOpts {
	return cache.TerrainKeyOpts{
		SiteCount:   *o.SiteCount,
		Bounds:      [4]float64{o.Bounds.MinX, o.Bounds.MinY, o.Bounds.MaxX, o.Bounds.MaxY},
		Relaxations: o.Iterations(),
		Decay:       *o.Decay,
		Sharpness:   *o.Sharpness,
		Peaks:       o.Peaks,
		Bands:       *o.Bands,
		Gradient:    o.Gradient,
		MissDefault: o.MissDefault,
		MaxHeight:   o.MaxHeight,
		Seed:        o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		opts.Width = o.Width
		opts.Outlines = o.Outlines
		opts.Sites = o.Sites
	case FormatOBJ:
		opts.MaterialLib = o.MaterialLib()
	}
	return opts
}
