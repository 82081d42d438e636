package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/coastlines/pkg/errors"
	"github.com/matzehuels/coastlines/pkg/geom"
	"github.com/matzehuels/coastlines/pkg/pipeline"
	"github.com/matzehuels/coastlines/pkg/render"
	"github.com/matzehuels/coastlines/pkg/terrain"
)

// Preview map size limits, in terminal cells.
const (
	previewMinCols = 20
	previewMaxCols = 120
	previewMinRows = 8
)

var (
	previewKeyStyle   = lipgloss.NewStyle().Foreground(colorSea)
	previewLabelStyle = lipgloss.NewStyle().Foreground(colorRock)
	previewFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorShade)
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var config string
	var flags pipeline.Options

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Explore terrains interactively in the terminal",
		Long: `Preview generates a terrain and draws its band map in the terminal.

Keys:
  g, space   regenerate with the next seed
  G          regenerate with the previous seed
  + / -      more or fewer bands
  r          toggle relaxation
  q          quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := loadBaseOptions(config)
			if err != nil {
				return err
			}
			opts := pipeline.Merge(base, flags)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			m := newPreviewModel(cmd.Context(), opts)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "TOML config file")
	addOptionFlags(cmd, &flags)
	return cmd
}

// =============================================================================
// PreviewModel - Interactive terrain explorer
// =============================================================================

// generatedMsg carries a finished generation back into the update loop.
type generatedMsg struct {
	terrain *terrain.Terrain
	stats   pipeline.Stats
	err     error
}

// PreviewModel is the bubbletea model behind the preview command.
type PreviewModel struct {
	ctx        context.Context
	opts       pipeline.Options
	terrain    *terrain.Terrain
	stats      pipeline.Stats
	err        error
	generating bool
	cols       int
	rows       int
}

func newPreviewModel(ctx context.Context, opts pipeline.Options) PreviewModel {
	return PreviewModel{ctx: ctx, opts: opts, cols: 60, rows: 20, generating: true}
}

func (m PreviewModel) Init() tea.Cmd {
	return m.generate()
}

// generate runs the pipeline off the update loop.
func (m PreviewModel) generate() tea.Cmd {
	opts := m.opts
	ctx := m.ctx
	return func() tea.Msg {
		t, stats, err := pipeline.GenerateWithStats(ctx, opts)
		return generatedMsg{terrain: t, stats: stats, err: err}
	}
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "g", " ":
			m.opts.Seed++
		case "G":
			if m.opts.Seed <= 1 {
				return m, nil
			}
			m.opts.Seed--
		case "+", "=":
			if *m.opts.Bands >= errs.MaxBands {
				return m, nil
			}
			m.opts.Bands = pipeline.Ptr(*m.opts.Bands + 1)
		case "-", "_":
			if *m.opts.Bands <= 1 {
				return m, nil
			}
			m.opts.Bands = pipeline.Ptr(*m.opts.Bands - 1)
		case "r":
			m.opts.SkipRelax = !m.opts.SkipRelax
		default:
			return m, nil
		}
		m.generating = true
		return m, m.generate()

	case generatedMsg:
		m.generating = false
		m.err = msg.err
		if msg.err == nil {
			m.terrain = msg.terrain
			m.stats = msg.stats
		}

	case tea.WindowSizeMsg:
		m.cols = clampInt(msg.Width-4, previewMinCols, previewMaxCols)
		m.rows = max(msg.Height-9, previewMinRows)
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Coastlines"))
	b.WriteString("  ")
	b.WriteString(m.settings())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("g/G seed  +/- bands  r relax  q quit"))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styleFail.Render(markFail) + " " + errs.UserMessage(m.err))
		b.WriteString("\n")
	case m.terrain == nil:
		b.WriteString(StyleDim.Render("generating..."))
		b.WriteString("\n")
		return b.String()
	}

	if m.terrain != nil {
		b.WriteString(previewFrameStyle.Render(bandMap(m.terrain, m.cols, m.rows)))
		b.WriteString("\n")
		b.WriteString(m.summary())
	}
	if m.generating {
		b.WriteString(" " + styleSpinner.Render("…"))
	}
	return b.String()
}

func (m PreviewModel) settings() string {
	field := func(k string, v any) string {
		return previewLabelStyle.Render(k+" ") + previewKeyStyle.Render(fmt.Sprint(v))
	}
	relax := m.opts.Iterations()
	return strings.Join([]string{
		field("seed", m.opts.Seed),
		field("sites", *m.opts.SiteCount),
		field("relax", relax),
		field("bands", *m.opts.Bands),
	}, StyleDim.Render(" · "))
}

func (m PreviewModel) summary() string {
	s := m.terrain.Summary
	parts := []string{
		fmt.Sprintf("%d cells", m.stats.CellCount),
		fmt.Sprintf("%d triangles", m.stats.TriangleCount),
		fmt.Sprintf("heights %.2f..%.2f", s.Min, s.Max),
		fmt.Sprintf("%d born %d died", m.stats.Relax.Born, m.stats.Relax.Died),
		m.stats.GenerateTime.Round(time.Millisecond).String(),
	}
	if m.terrain.Misses > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d misses", m.terrain.Misses)))
	}
	return StyleDim.Render(strings.Join(parts, " · "))
}

// bandMap draws t as a cols x rows grid of colored blocks. Each character
// takes the band of the nearest site, which is the Voronoi cell it falls in.
func bandMap(t *terrain.Terrain, cols, rows int) string {
	colors := render.BandColors(t.Mesh)
	styles := make([]lipgloss.Style, len(colors))
	for i, c := range colors {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		// Row 0 is the top of the map.
		y := t.Bounds.MaxY - (float64(r)+0.5)/float64(rows)*t.Bounds.Height()
		for c := 0; c < cols; c++ {
			x := t.Bounds.MinX + (float64(c)+0.5)/float64(cols)*t.Bounds.Width()
			band := nearestBand(t.Cells, geom.Pt(x, y))
			if band < 0 || band >= len(styles) {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(styles[band].Render("█"))
		}
	}
	return b.String()
}

func nearestBand(cells []terrain.Cell, p geom.Point) int {
	band, best := -1, math.Inf(1)
	for _, c := range cells {
		dx, dy := c.Site.X-p.X, c.Site.Y-p.Y
		if d := dx*dx + dy*dy; d < best {
			band, best = c.Band, d
		}
	}
	return band
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
