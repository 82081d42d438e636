// Package cli implements the coastlines command-line interface.
//
// The CLI generates terrain to files, previews it interactively in the
// terminal, serves the HTTP/WebSocket API and manages the local artifact
// cache and config file. It is built using cobra and logs via
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Generate a terrain and write one file per output format
//   - preview: Explore seeds and band counts in an interactive terminal view
//   - serve: Run the HTTP and WebSocket API
//   - config: Write or show the TOML config file
//   - cache: Manage the local artifact cache
//
// # Logging
//
// Logs go to stderr through charmbracelet/log; --verbose (-v) lowers the
// level to debug, which adds per-stage timings, relaxation counts and height
// lookup misses. Command output and artifact paths go to stdout.
//
// # Example
//
//	import "github.com/matzehuels/coastlines/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coastlines/pkg/pipeline"
)

// newLogger returns a logger writing to w at level, with "15:04:05.00"
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logStages returns a [pipeline.Progress] that logs each finished stage at
// debug level and then calls next, if any.
func logStages(l *log.Logger, next pipeline.Progress) pipeline.Progress {
	return func(stage pipeline.Stage, d time.Duration) {
		l.Debug("stage complete", "stage", stage, "duration", d.Round(time.Microsecond))
		if next != nil {
			next(stage, d)
		}
	}
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
