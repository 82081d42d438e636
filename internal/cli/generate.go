package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coastlines/pkg/pipeline"
)

// defaultOutput is the base path generated files are written to.
const defaultOutput = "terrain"

// generateOpts holds the command-line flags for the generate command.
// Flags left unset fall through to the config file and then to the
// pipeline defaults.
type generateOpts struct {
	config  string // TOML config file
	output  string // base path; each format appends its extension
	formats string // comma-separated output formats
	noCache bool   // bypass the local cache entirely
	flags   pipeline.Options
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a terrain and write it in one or more formats",
		Example: `  coastlines generate
  coastlines generate --seed 7 --sites 200 -f svg,png,obj,mtl -o out/island
  coastlines generate --config island.toml --bands 16`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.flags.Formats = parseFormats(opts.formats)
			return c.runGenerate(cmd, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "TOML config file (default: ~/.config/coastlines/config.toml if present)")
	f.StringVarP(&opts.output, "output", "o", defaultOutput, "output base path")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated: "+joinFormats())
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the local cache")
	addOptionFlags(cmd, &opts.flags)

	return cmd
}

// addOptionFlags binds the generation flags shared by generate and preview.
func addOptionFlags(cmd *cobra.Command, o *pipeline.Options) {
	f := cmd.Flags()
	f.VarP(intFlag(&o.SiteCount), "sites", "n", fmt.Sprintf("number of initial sites (default %d)", pipeline.DefaultSiteCount))
	f.IntVar(&o.Relaxations, "relax", 0, fmt.Sprintf("relaxation iterations (default %d)", pipeline.DefaultRelaxations))
	f.BoolVar(&o.SkipRelax, "no-relax", false, "keep the initial random sites")
	f.Var(floatFlag(&o.Decay), "decay", fmt.Sprintf("height decay per diffusion step (default %g)", pipeline.DefaultDecay))
	f.Var(floatFlag(&o.Sharpness), "sharpness", fmt.Sprintf("random height jitter, 0 for none (default %g)", pipeline.DefaultSharpness))
	f.IntVar(&o.Peaks, "peaks", 0, "extra diffusion passes from random vertices")
	f.Uint64VarP(&o.Seed, "seed", "s", 0, fmt.Sprintf("random seed (default %d)", pipeline.DefaultSeed))
	f.VarP(intFlag(&o.Bands), "bands", "b", fmt.Sprintf("number of material bands (default %d)", pipeline.DefaultBands))
	f.Float64Var(&o.MaxHeight, "max-height", 0, fmt.Sprintf("mesh elevation of the top band (default %g)", pipeline.DefaultMaxHeight))
	f.StringSliceVar(&o.Gradient, "gradient", nil, "band colors low to high, e.g. #1d3557,#a8dadc,#f1faee")
	f.IntVarP(&o.Width, "width", "w", 0, fmt.Sprintf("image width in pixels (default %d)", pipeline.DefaultWidth))
	f.BoolVar(&o.Outlines, "outlines", false, "outline cells in images")
	f.BoolVar(&o.Sites, "show-sites", false, "mark cell sites in images")
	f.BoolVar(&o.Refresh, "refresh", false, "regenerate even if the terrain is cached")
}

// optionalFlag fills a pointer option only when its flag is given, so an
// explicit zero reaches validation instead of selecting the default.
type optionalFlag[T int | float64] struct {
	p     **T
	parse func(string) (T, error)
	kind  string
}

func intFlag(p **int) optionalFlag[int] {
	return optionalFlag[int]{p: p, parse: strconv.Atoi, kind: "int"}
}

func floatFlag(p **float64) optionalFlag[float64] {
	parse := func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
	return optionalFlag[float64]{p: p, parse: parse, kind: "float"}
}

func (f optionalFlag[T]) String() string {
	if f.p == nil || *f.p == nil {
		return ""
	}
	return fmt.Sprint(**f.p)
}

func (f optionalFlag[T]) Set(s string) error {
	v, err := f.parse(s)
	if err != nil {
		return err
	}
	*f.p = &v
	return nil
}

func (f optionalFlag[T]) Type() string { return f.kind }

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	ctx := cmd.Context()
	out := newPrinter(cmd.OutOrStdout())

	base, err := loadBaseOptions(opts.config)
	if err != nil {
		return err
	}
	po := pipeline.Merge(base, opts.flags)
	po.Logger = c.Logger

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, cmd.ErrOrStderr(), "generating terrain")
	po.Progress = logStages(c.Logger, spin.Stage)
	spin.Start()
	result, err := runner.Execute(ctx, po)
	spin.Stop()
	if err != nil {
		if spin.Canceled() {
			out.failure("generation interrupted")
		}
		return err
	}

	out.success("generated terrain %s", StyleHighlight.Render(fmt.Sprintf("seed=%d", result.Terrain.Seed)))
	out.result(result)

	formats := make([]string, 0, len(result.Artifacts))
	for f := range result.Artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	for _, format := range formats {
		path := outputPath(opts.output, format)
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		out.file(path, len(result.Artifacts[format]))
	}
	if result.Terrain.Misses > 0 {
		out.warn("%d height lookups fell back to the default", result.Terrain.Misses)
	}
	return nil
}

// outputPath returns the file a format is written to. The MTL file keeps the
// name the OBJ file references, next to the other outputs.
func outputPath(base, format string) string {
	if format == pipeline.FormatMTL {
		o := pipeline.Options{Formats: []string{format}}
		return filepath.Join(filepath.Dir(base), o.MaterialLib())
	}
	return base + pipeline.Extensions[format]
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func joinFormats() string {
	return strings.Join(pipeline.FormatNames(), ", ")
}
