package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coastlines/internal/server"
	"github.com/matzehuels/coastlines/pkg/cache"
	"github.com/matzehuels/coastlines/pkg/observability"
	"github.com/matzehuels/coastlines/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string        // listen address
	cache     string        // cache backend spec, see cache.Open
	keyPrefix string        // namespace for cache keys on a shared backend
	timeout   time.Duration // per-request generation timeout
	origins   []string      // allowed WebSocket origins
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    server.DefaultAddr,
		timeout: server.DefaultTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the terrain HTTP and WebSocket API",
		Long: `Serve the terrain API.

Routes:
  GET  /healthz               liveness and build info
  POST /v1/terrain            generate and return every requested artifact as JSON
  POST /v1/terrain/{format}   generate and return one artifact as raw bytes
  GET  /v1/terrain/ws         stream stage progress and results over a WebSocket

The cache backend is chosen with --cache:
  none                 no caching
  file:<dir>           local files (default: the CLI cache directory)
  redis://host:6379/0  Redis
  mongodb://host       MongoDB`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", opts.addr, "listen address")
	f.StringVar(&opts.cache, "cache", "", "cache backend (none, file:<dir>, redis://..., mongodb://...)")
	f.StringVar(&opts.keyPrefix, "key-prefix", "", "prefix for cache keys")
	f.DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request generation timeout")
	f.StringSliceVar(&opts.origins, "allowed-origin", nil, "origins allowed to open WebSockets (default: same host)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	spec := opts.cache
	if spec == "" {
		dir, err := cacheDir()
		if err != nil {
			return fmt.Errorf("get cache dir: %w", err)
		}
		spec = "file:" + dir
	}
	backend, err := cache.Open(ctx, spec)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if opts.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(keyer, opts.keyPrefix)
	}

	observability.SetPipelineHooks(observability.NewLogPipelineHooks(logger))
	observability.SetCacheHooks(observability.LogCacheHooks{Logger: logger})
	observability.SetHTTPHooks(observability.LogHTTPHooks{Logger: logger})

	runner := pipeline.NewRunner(backend, keyer, logger)
	defer runner.Close()

	srv := server.New(runner, logger, server.Config{
		Addr:           opts.addr,
		Timeout:        opts.timeout,
		AllowedOrigins: opts.origins,
	})
	logger.Info("cache ready", "backend", cacheKind(spec))
	return srv.ListenAndServe(ctx)
}

// cacheKind names a cache spec without leaking credentials from its URL.
func cacheKind(spec string) string {
	for _, kind := range []string{"file", "redis", "rediss", "mongodb+srv", "mongodb"} {
		if len(spec) > len(kind) && spec[:len(kind)+1] == kind+":" {
			return kind
		}
	}
	return spec
}
