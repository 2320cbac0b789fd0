package filter

import "fmt"

// DefaultStep is the lattice spacing used by the cell-shading stage. It
// yields the six levels 0, 51, 102, 153, 204 and 255 per channel.
const DefaultStep = 51

// Color is an opaque RGB triple.
type Color struct {
	R, G, B uint8
}

// Palette is an ordered, immutable set of distinct colours.
type Palette struct {
	step    int
	entries []Color
}

// NewLatticePalette builds the uniform lattice with spacing step. Each
// channel takes the values 0, step, 2*step, ... up to 255, with 255 appended
// when it is not itself a multiple of step. Entries are generated with red
// outermost and blue innermost, all ascending.
//
// NewLatticePalette panics if step is outside [1, 255].
func NewLatticePalette(step int) *Palette {
	if step < 1 || step > 255 {
		panic(fmt.Sprintf("filter: lattice step %d outside [1, 255]", step))
	}

	var levels []uint8
	for v := 0; v <= 255; v += step {
		levels = append(levels, uint8(v))
	}
	if levels[len(levels)-1] != 255 {
		levels = append(levels, 255)
	}

	entries := make([]Color, 0, len(levels)*len(levels)*len(levels))
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				entries = append(entries, Color{R: r, G: g, B: b})
			}
		}
	}
	return &Palette{step: step, entries: entries}
}

// Step returns the lattice spacing.
func (p *Palette) Step() int { return p.step }

// Len returns the number of entries.
func (p *Palette) Len() int { return len(p.entries) }

// Entries returns a copy of the entries in generation order.
func (p *Palette) Entries() []Color {
	return append([]Color(nil), p.entries...)
}

// Contains reports whether c is a palette entry.
func (p *Palette) Contains(c Color) bool {
	for _, e := range p.entries {
		if e == c {
			return true
		}
	}
	return false
}

// Nearest returns the entry with the smallest Manhattan distance to (r, g, b).
// Ties resolve to the entry generated first.
func (p *Palette) Nearest(r, g, b uint8) Color {
	best := p.entries[0]
	bestDist := manhattan(best, r, g, b)
	for _, e := range p.entries[1:] {
		if d := manhattan(e, r, g, b); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

func manhattan(c Color, r, g, b uint8) int {
	return absDiff(c.R, r) + absDiff(c.G, g) + absDiff(c.B, b)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
