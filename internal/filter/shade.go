package filter

import "github.com/ironsheep/cellshade/internal/grid"

// DefaultShadeAmount is subtracted from each colour channel of parity pixels.
const DefaultShadeAmount = 10

// ParityShade darkens every pixel whose x and y coordinates are both odd,
// producing a checkerboard texture. Alpha passes through unchanged.
type ParityShade struct {
	// Parallel splits row processing across goroutines.
	Parallel bool

	amount int
}

// NewParityShade returns a stage subtracting amount from R, G and B of parity
// pixels. Results are clamped to [0, 255].
func NewParityShade(amount int) *ParityShade {
	return &ParityShade{amount: amount}
}

// Name implements Filter.
func (s *ParityShade) Name() string { return "shade" }

// Apply implements Filter.
func (s *ParityShade) Apply(in *grid.Grid) (*grid.Grid, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	w := in.Width()
	out := grid.NewLike(in)
	forRows(s.Parallel, in.Height(), func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				p := in.Get(x, y)
				if x%2 == 1 && y%2 == 1 {
					p.R = clamp255(int(p.R) - s.amount)
					p.G = clamp255(int(p.G) - s.amount)
					p.B = clamp255(int(p.B) - s.amount)
				}
				out.Set(x, y, p)
			}
		}
	})
	return out, nil
}
