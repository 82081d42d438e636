// Package gradient maps heights in [0, 1] to colors.
//
// A [Gradient] is an ordered list of color stops. Colors between two stops
// are blended in CIE L*a*b* space, which keeps perceived brightness even
// across the ramp.
//
//	g, err := gradient.Parse([]string{"#1d3b5a", "#d8c38a@0.4", "#f2f2f0"})
//	c := g.At(0.5).Hex()
package gradient

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrEmpty is returned when a gradient has no stops.
var ErrEmpty = errors.New("gradient needs at least one stop")

// Stop is a color at a position in [0, 1].
type Stop struct {
	Pos   float64
	Color colorful.Color
}

// Gradient is a list of stops sorted by position.
type Gradient []Stop

// New returns a gradient over stops, sorted by position.
func New(stops ...Stop) (Gradient, error) {
	if len(stops) == 0 {
		return nil, ErrEmpty
	}
	g := slices.Clone(stops)
	slices.SortStableFunc(g, func(a, b Stop) int {
		switch {
		case a.Pos < b.Pos:
			return -1
		case a.Pos > b.Pos:
			return 1
		}
		return 0
	})
	return Gradient(g), nil
}

// Parse builds a gradient from stop specs of the form "#rrggbb" or
// "#rrggbb@pos". Stops without a position are spread evenly by index.
func Parse(specs []string) (Gradient, error) {
	if len(specs) == 0 {
		return nil, ErrEmpty
	}
	stops := make([]Stop, len(specs))
	for i, spec := range specs {
		hex, pos, hasPos := strings.Cut(strings.TrimSpace(spec), "@")
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("stop %d: invalid color %q: %w", i, hex, err)
		}
		stops[i].Color = c
		switch {
		case hasPos:
			p, err := strconv.ParseFloat(pos, 64)
			if err != nil || p < 0 || p > 1 {
				return nil, fmt.Errorf("stop %d: position %q not in [0, 1]", i, pos)
			}
			stops[i].Pos = p
		case len(specs) > 1:
			stops[i].Pos = float64(i) / float64(len(specs)-1)
		}
	}
	return New(stops...)
}

// MustParse is like Parse but panics on error.
func MustParse(specs ...string) Gradient {
	g, err := Parse(specs)
	if err != nil {
		panic(err)
	}
	return g
}

// Default returns the coastline palette: deep water, shallows, sand, grass,
// forest, rock and snow.
func Default() Gradient {
	return MustParse(
		"#1d3b5a@0",
		"#2f6f8f@0.25",
		"#d8c38a@0.4",
		"#5c8a3a@0.55",
		"#35592a@0.7",
		"#7a7265@0.85",
		"#f2f2f0@1",
	)
}

// At returns the color at t. Values outside the stop range take the color of
// the nearest end stop.
func (g Gradient) At(t float64) colorful.Color {
	if len(g) == 0 {
		return colorful.Color{}
	}
	if t <= g[0].Pos {
		return g[0].Color
	}
	last := g[len(g)-1]
	if t >= last.Pos {
		return last.Color
	}
	for i := 1; i < len(g); i++ {
		a, b := g[i-1], g[i]
		if t > b.Pos {
			continue
		}
		span := b.Pos - a.Pos
		if span == 0 {
			return b.Color
		}
		return a.Color.BlendLab(b.Color, (t-a.Pos)/span).Clamped()
	}
	return last.Color
}

// Strings returns the stops in the form accepted by Parse.
func (g Gradient) Strings() []string {
	out := make([]string, len(g))
	for i, s := range g {
		out[i] = s.Color.Hex() + "@" + strconv.FormatFloat(s.Pos, 'g', -1, 64)
	}
	return out
}
