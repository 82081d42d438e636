package pipeline

import (
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/coastlines/pkg/errors"
)

// DefaultOptions returns options with every default applied, as written by
// "coastlines config init".
func DefaultOptions() Options {
	var o Options
	o.SetDefaults()
	return o
}

// LoadOptions reads options from a TOML file. Keys the options do not know
// are rejected so that typos do not silently fall back to defaults.
func LoadOptions(path string) (Options, error) {
	if err := errs.ValidatePath(path); err != nil {
		return Options{}, err
	}
	var o Options
	md, err := toml.DecodeFile(path, &o)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Options{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return Options{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errs.New(errs.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return o, nil
}

// DecodeOptions reads options from TOML text.
func DecodeOptions(r io.Reader) (Options, error) {
	var o Options
	if _, err := toml.NewDecoder(r).Decode(&o); err != nil {
		return Options{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	return o, nil
}

// WriteOptions writes o as TOML. Runtime-only fields are never written.
func WriteOptions(w io.Writer, o Options) error {
	return toml.NewEncoder(w).Encode(o)
}

// Merge returns base with every set field of override applied on top: non-nil
// pointers, including explicit zeros, and other non-zero values. Command-line
// flags use it to override values loaded from a file.
func Merge(base, override Options) Options {
	out := base
	if override.SiteCount != nil {
		out.SiteCount = override.SiteCount
	}
	if override.Bounds.Valid() {
		out.Bounds = override.Bounds
	}
	if override.Relaxations != 0 {
		out.Relaxations = override.Relaxations
	}
	if override.SkipRelax {
		out.SkipRelax = true
	}
	if override.Decay != nil {
		out.Decay = override.Decay
	}
	if override.Sharpness != nil {
		out.Sharpness = override.Sharpness
	}
	if override.Peaks != 0 {
		out.Peaks = override.Peaks
	}
	if override.MissDefault != 0 {
		out.MissDefault = override.MissDefault
	}
	if override.Seed != 0 {
		out.Seed = override.Seed
	}
	if override.Refresh {
		out.Refresh = true
	}
	if override.Bands != nil {
		out.Bands = override.Bands
	}
	if override.MaxHeight != 0 {
		out.MaxHeight = override.MaxHeight
	}
	if len(override.Gradient) > 0 {
		out.Gradient = override.Gradient
	}
	if len(override.Formats) > 0 {
		out.Formats = override.Formats
	}
	if override.Width != 0 {
		out.Width = override.Width
	}
	if override.Outlines {
		out.Outlines = true
	}
	if override.Sites {
		out.Sites = true
	}
	if override.Logger != nil {
		out.Logger = override.Logger
	}
	if override.Builder != nil {
		out.Builder = override.Builder
	}
	if override.Progress != nil {
		out.Progress = override.Progress
	}
	out.validated = false
	return out
}
