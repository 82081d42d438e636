package pipeline

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/matzehuels/coastlines/pkg/cache"
)

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRunnerExecuteCaches(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	opts := func() Options {
		return Options{Builder: gridBuilder, Formats: []string{FormatSVG, FormatOBJ}}
	}

	first, err := r.Execute(ctx, opts())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.ID == "" {
		t.Error("result has no ID")
	}
	if first.CacheInfo.TerrainHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if len(first.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(first.Artifacts))
	}

	second, err := r.Execute(ctx, opts())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.TerrainHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if second.ID == first.ID {
		t.Error("runs share an ID")
	}
	if second.TerrainHash != first.TerrainHash {
		t.Error("cached terrain hash differs")
	}
	if !bytes.Equal(second.Artifacts[FormatSVG], first.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs")
	}
}

func TestRunnerRendersOnlyMissingFormats(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)

	if _, err := r.Execute(ctx, Options{Builder: gridBuilder, Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Builder: gridBuilder, Formats: []string{FormatSVG, FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.TerrainHit {
		t.Error("terrain should come from cache")
	}
	if res.CacheInfo.RenderHit {
		t.Error("render should miss for the new format")
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(res.Artifacts))
	}
}

func TestRunnerRefresh(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)

	if _, err := r.Execute(ctx, Options{Builder: gridBuilder}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Builder: gridBuilder, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.TerrainHit {
		t.Error("refresh should bypass the terrain cache")
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(context.Background(), Options{SiteCount: Ptr(-4)}); err == nil {
		t.Error("Execute() succeeded with invalid options")
	}
}

func TestRunnerConcurrent(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	const n = 8
	hashes := make([]string, n)
	failures := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := r.Execute(ctx, Options{Builder: gridBuilder, Seed: 5})
			failures[i] = err
			if err == nil {
				hashes[i] = res.TerrainHash
			}
		}()
	}
	wg.Wait()

	for i := range n {
		if failures[i] != nil {
			t.Fatalf("run %d: %v", i, failures[i])
		}
		if hashes[i] != hashes[0] {
			t.Errorf("run %d hash differs", i)
		}
	}
}
