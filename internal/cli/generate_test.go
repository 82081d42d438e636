package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/coastlines/pkg/errors"
	"github.com/matzehuels/coastlines/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty leaves defaults", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,obj,mtl", []string{"svg", "obj", "mtl"}},
		{"spaces and empties", " png, ,geojson ", []string{"png", "geojson"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base, format, want string
	}{
		{"terrain", pipeline.FormatSVG, "terrain.svg"},
		{"out/island", pipeline.FormatOBJ, filepath.Join("out", "island.obj")},
		{"out/island", pipeline.FormatMTL, filepath.Join("out", "terrain.mtl")},
		{"island", pipeline.FormatGraph, "island.graph.svg"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.base, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %q) = %q, want %q", tt.base, tt.format, got, tt.want)
		}
	}
}

func TestGenerateCommandWritesFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{
		"generate", "--no-cache",
		"--sites", "24", "--seed", "9", "--bands", "5",
		"-f", "svg,json,obj,mtl",
		"-o", filepath.Join(dir, "out", "island"),
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, name := range []string{"island.svg", "island.json", "island.obj", "terrain.mtl"} {
		data, err := os.ReadFile(filepath.Join(dir, "out", name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	obj, _ := os.ReadFile(filepath.Join(dir, "out", "island.obj"))
	if !strings.Contains(string(obj), "mtllib terrain.mtl") {
		t.Error("OBJ does not reference the written MTL file")
	}
}

func TestGenerateCommandFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	config := filepath.Join(dir, "island.toml")
	if err := os.WriteFile(config, []byte("site_count = 30\nseed = 3\nbands = 2\nformats = [\"json\"]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"generate", "--no-cache", "-c", config, "--bands", "6", "-o", filepath.Join(dir, "t")})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "t.json"))
	if err != nil {
		t.Fatalf("config formats not used: %v", err)
	}
	if !strings.Contains(string(data), `"seed": 3`) {
		t.Error("seed from config not applied")
	}
	if !strings.Contains(string(data), `"bands": 6`) {
		t.Error("--bands did not override the config file")
	}
}

func TestGenerateCommandRejectsBadFormat(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"generate", "--no-cache", "-f", "gif", "-o", filepath.Join(t.TempDir(), "x")})
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestOptionFlagsKeepExplicitZeros(t *testing.T) {
	var o pipeline.Options
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	addOptionFlags(cmd, &o)
	cmd.SetArgs([]string{"--sharpness", "0", "--decay", "0", "-b", "3"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if o.Sharpness == nil || *o.Sharpness != 0 {
		t.Errorf("sharpness = %v, want explicit 0", o.Sharpness)
	}
	if o.Decay == nil || *o.Decay != 0 {
		t.Errorf("decay = %v, want explicit 0", o.Decay)
	}
	if o.Bands == nil || *o.Bands != 3 {
		t.Errorf("bands = %v, want 3", o.Bands)
	}
	if o.SiteCount != nil {
		t.Errorf("sites = %d, want unset", *o.SiteCount)
	}

	merged := pipeline.Merge(pipeline.DefaultOptions(), o)
	if *merged.Sharpness != 0 || *merged.SiteCount != pipeline.DefaultSiteCount {
		t.Errorf("merged sharpness, sites = %v, %d", *merged.Sharpness, *merged.SiteCount)
	}
}

func TestOptionFlagsRejectGarbage(t *testing.T) {
	var o pipeline.Options
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.SetErr(io.Discard)
	cmd.SetOut(io.Discard)
	addOptionFlags(cmd, &o)
	cmd.SetArgs([]string{"--sharpness", "lots"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected a parse error for --sharpness lots")
	}
}

func TestGenerateCommandRejectsZeroCounts(t *testing.T) {
	for _, flag := range []string{"--sites", "--bands"} {
		t.Run(flag, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
			t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

			root := New(io.Discard, LogInfo).RootCommand()
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs([]string{"generate", "--no-cache", flag, "0", "-o", filepath.Join(dir, "x")})
			err := root.Execute()
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Fatalf("Execute() error = %v, want INVALID_CONFIG", err)
			}
			if _, statErr := os.Stat(filepath.Join(dir, "x.svg")); statErr == nil {
				t.Error("output written for invalid options")
			}
		})
	}
}
