package imaging

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/cellshade/internal/grid"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 // Red component (0-255)
	G uint8 // Green component (0-255)
	B uint8 // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorFrequency represents a color and its occurrence frequency in a grid.
type ColorFrequency struct {
	Hex        string   // Hex color "#rrggbb"
	Count      int      // Number of pixels with this color
	Percentage float64  // Percentage of pixels with this color (0-100)
	RGB        RGBColor // RGB components
	HSL        HSLColor // HSL representation
}

// ColorsResult summarises the colors used by a grid.
type ColorsResult struct {
	// Distinct is the number of different RGB values in the grid.
	Distinct int

	// Colors holds the most frequent colors, most common first.
	Colors []ColorFrequency
}

// Colors counts the exact RGB values of g and returns the most common ones.
//
// Parameters:
//   - g: The grid to summarise. RGB and RGBA grids are both accepted.
//   - count: Maximum number of colors to return. Zero or less returns every
//     distinct color.
//
// Returns:
//   - *ColorsResult: The number of distinct colors and the most frequent
//     ones, each with hex, RGB and HSL forms and its share of the pixels.
//   - error: Non-nil if g is not a valid grid.
//
// Alpha is ignored. Colors with equal frequency are ordered by hex value so
// the result is stable.
//
// # Errors
//
//   - Returns error wrapping *grid.InvalidGridError for a nil or malformed grid
func Colors(g *grid.Grid, count int) (*ColorsResult, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("failed to count colors: %w", err)
	}

	counts := make(map[RGBColor]int)
	total := g.Width() * g.Height()
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			p := g.Get(x, y)
			counts[RGBColor{R: p.R, G: p.G, B: p.B}]++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for rgb, n := range counts {
		c := colorful.Color{R: float64(rgb.R) / 255, G: float64(rgb.G) / 255, B: float64(rgb.B) / 255}
		h, s, l := c.Hsl()
		colors = append(colors, ColorFrequency{
			Hex:        c.Hex(),
			Count:      n,
			Percentage: float64(n) / float64(total) * 100,
			RGB:        rgb,
			HSL:        HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Count != colors[j].Count {
			return colors[i].Count > colors[j].Count
		}
		return colors[i].Hex < colors[j].Hex
	})

	result := &ColorsResult{Distinct: len(colors), Colors: colors}
	if count > 0 && len(colors) > count {
		result.Colors = colors[:count]
	}
	return result, nil
}
