package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coastlines/pkg/cache"
	"github.com/matzehuels/coastlines/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "coastlines"

	// configFileName is the config file looked up in the config directory.
	configFileName = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the local cache directory, $XDG_CACHE_HOME/coastlines or
// ~/.cache/coastlines.
func cacheDir() (string, error) {
	return xdgPath("XDG_CACHE_HOME", ".cache", appName)
}

// configPath returns the default config file, $XDG_CONFIG_HOME/coastlines/config.toml
// or ~/.config/coastlines/config.toml.
func configPath() (string, error) {
	return xdgPath("XDG_CONFIG_HOME", ".config", appName, configFileName)
}

// xdgPath joins elem onto the directory named by env, or onto ~/fallback
// when env is unset.
func xdgPath(env, fallback string, elem ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(append([]string{base}, elem...)...), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// loadBaseOptions returns the options a command starts from: the file at
// path when given, else the default config file if it exists, else the
// pipeline defaults.
func loadBaseOptions(path string) (pipeline.Options, error) {
	if path != "" {
		return pipeline.LoadOptions(path)
	}
	def, err := configPath()
	if err != nil {
		return pipeline.DefaultOptions(), nil
	}
	if _, err := os.Stat(def); err != nil {
		return pipeline.DefaultOptions(), nil
	}
	return pipeline.LoadOptions(def)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
