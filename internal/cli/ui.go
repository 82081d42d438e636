package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/coastlines/pkg/pipeline"
)

// Palette, named after the terrain it mostly describes.
var (
	colorSea   = lipgloss.Color("36")
	colorGrass = lipgloss.Color("35")
	colorSand  = lipgloss.Color("220")
	colorLava  = lipgloss.Color("167")
	colorSnow  = lipgloss.Color("255")
	colorRock  = lipgloss.Color("245")
	colorShade = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorSea)
	// StyleHighlight for values worth noticing, like the seed.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorSea)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorShade)
	// StyleWarning for recoverable problems.
	StyleWarning = lipgloss.NewStyle().Foreground(colorSand)

	styleOK      = lipgloss.NewStyle().Foreground(colorGrass)
	styleFail    = lipgloss.NewStyle().Foreground(colorLava)
	styleLabel   = lipgloss.NewStyle().Foreground(colorRock).Width(11)
	styleValue   = lipgloss.NewStyle().Foreground(colorSnow)
	styleSpinner = lipgloss.NewStyle().Foreground(colorSea)
)

const (
	markOK   = "✓"
	markFail = "✗"
	markWarn = "!"
	markInfo = "›"
	markFile = "→"
)

// printer writes styled status lines. Commands hand it cmd.OutOrStdout() so
// tests can capture what a user would see.
type printer struct{ w io.Writer }

func newPrinter(w io.Writer) printer { return printer{w: w} }

func (p printer) line(mark string, style lipgloss.Style, format string, args []any) {
	fmt.Fprintln(p.w, style.Render(mark)+" "+fmt.Sprintf(format, args...))
}

func (p printer) success(format string, args ...any) { p.line(markOK, styleOK, format, args) }
func (p printer) failure(format string, args ...any) { p.line(markFail, styleFail, format, args) }
func (p printer) info(format string, args ...any)    { p.line(markInfo, StyleDim, format, args) }

func (p printer) warn(format string, args ...any) {
	fmt.Fprintln(p.w, StyleWarning.Render(markWarn)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file reports a written artifact and its size.
func (p printer) file(path string, size int) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(markFile)+" "+styleValue.Render(path)+" "+StyleDim.Render(humanBytes(size)))
}

// field prints a padded label and its value.
func (p printer) field(label string, value any) {
	fmt.Fprintln(p.w, "  "+styleLabel.Render(label)+styleValue.Render(fmt.Sprint(value)))
}

// result summarizes a finished run: mesh sizes on one line, then the stage
// timings when the terrain was generated rather than read from the cache.
func (p printer) result(res *pipeline.Result) {
	parts := []string{
		fmt.Sprintf("%d cells", len(res.Terrain.Cells)),
		fmt.Sprintf("%d triangles", res.Terrain.Mesh.TriangleCount()),
		fmt.Sprintf("%d bands", res.Terrain.Mesh.Bands),
	}
	origin := "fresh"
	switch {
	case res.CacheInfo.TerrainHit:
		origin = "cached"
	case res.CacheInfo.Shared:
		origin = "shared"
	}
	parts = append(parts, origin)
	fmt.Fprintln(p.w, "  "+StyleDim.Render(strings.Join(parts, " · ")))

	if res.CacheInfo.TerrainHit {
		return
	}
	p.field("sites", res.Stats.SiteTime)
	p.field("relax", fmt.Sprintf("%v (%d moved, %d born, %d died)",
		res.Stats.RelaxTime, res.Stats.Relax.Moved, res.Stats.Relax.Born, res.Stats.Relax.Died))
	p.field("diffuse", res.Stats.DiffuseTime)
	p.field("tessellate", res.Stats.TessellateTime)
}

func humanBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
