package filter

import "github.com/ironsheep/cellshade/internal/grid"

// Quantization snaps every pixel's RGB value to the nearest palette colour.
// Alpha passes through unchanged.
type Quantization struct {
	// Parallel splits row processing across goroutines.
	Parallel bool

	palette *Palette
}

// NewQuantization returns a cell-shading stage over p. A nil palette selects
// the DefaultStep lattice.
func NewQuantization(p *Palette) *Quantization {
	if p == nil {
		p = NewLatticePalette(DefaultStep)
	}
	return &Quantization{palette: p}
}

// Name implements Filter.
func (q *Quantization) Name() string { return "quantize" }

// Palette returns the palette output colours are drawn from.
func (q *Quantization) Palette() *Palette { return q.palette }

// Apply implements Filter.
func (q *Quantization) Apply(in *grid.Grid) (*grid.Grid, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	w := in.Width()
	out := grid.NewLike(in)
	forRows(q.Parallel, in.Height(), func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				p := in.Get(x, y)
				c := q.palette.Nearest(p.R, p.G, p.B)
				p.R, p.G, p.B = c.R, c.G, c.B
				out.Set(x, y, p)
			}
		}
	})
	return out, nil
}
