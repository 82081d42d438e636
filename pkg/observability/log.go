package observability

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// LogPipelineHooks reports pipeline events to a logger at debug level.
// Height misses are counted rather than logged one by one.
type LogPipelineHooks struct {
	Logger *log.Logger
	misses atomic.Int64
}

// NewLogPipelineHooks returns hooks that log to logger.
func NewLogPipelineHooks(logger *log.Logger) *LogPipelineHooks {
	return &LogPipelineHooks{Logger: logger}
}

func (h *LogPipelineHooks) OnGenerateStart(_ context.Context, seed uint64, siteCount int) {
	h.misses.Store(0)
	h.Logger.Debug("generate", "seed", seed, "sites", siteCount)
}

func (h *LogPipelineHooks) OnGenerateComplete(_ context.Context, seed uint64, cellCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("generate failed", "seed", seed, "error", err, "duration", d)
		return
	}
	h.Logger.Debug("generated", "seed", seed, "cells", cellCount, "misses", h.misses.Load(), "duration", d)
}

func (h *LogPipelineHooks) OnRelaxComplete(_ context.Context, iterations, siteCount int, d time.Duration) {
	h.Logger.Debug("relaxed", "iterations", iterations, "sites", siteCount, "duration", d)
}

func (h *LogPipelineHooks) OnDiffuseComplete(_ context.Context, visited int, d time.Duration) {
	h.Logger.Debug("diffused", "visited", visited, "duration", d)
}

func (h *LogPipelineHooks) OnTessellateComplete(_ context.Context, triangles int, d time.Duration) {
	h.Logger.Debug("tessellated", "triangles", triangles, "duration", d)
}

func (h *LogPipelineHooks) OnHeightMiss(context.Context) { h.misses.Add(1) }

func (h *LogPipelineHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render", "formats", formats)
}

func (h *LogPipelineHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "formats", formats, "error", err)
		return
	}
	h.Logger.Debug("rendered", "formats", formats, "duration", d)
}

// Misses returns the height misses seen since the last generate started.
func (h *LogPipelineHooks) Misses() int64 { return h.misses.Load() }

// LogHTTPHooks reports API requests to a logger at info level.
type LogHTTPHooks struct {
	Logger *log.Logger
}

func (h LogHTTPHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h LogHTTPHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h LogHTTPHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Error("request failed", "method", method, "path", path, "error", err)
}

// LogCacheHooks reports cache traffic to a logger at debug level.
type LogCacheHooks struct {
	Logger *log.Logger
}

func (h LogCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogPipelineHooks)(nil)
	_ CacheHooks    = LogCacheHooks{}
	_ HTTPHooks     = LogHTTPHooks{}
)
