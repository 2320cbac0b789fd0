package filter

import (
	"math/rand/v2"

	"github.com/ironsheep/cellshade/internal/grid"
)

// offset is a neighbour position relative to the current pixel.
type offset struct{ dx, dy int }

// neighborhood lists the sampled positions in priority order: the pixel
// itself, the four unit neighbours, then the four neighbours at distance two.
var neighborhood = [...]offset{
	{0, 0},
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-2, 0}, {2, 0}, {0, -2}, {0, 2},
}

// windowSize returns how many leading neighbourhood entries are averaged for
// draw k in [0, 3]. The request of 4+4k samples is clamped to the nine
// available positions, so k=2 and k=3 both use the full neighbourhood.
func windowSize(k int) int {
	return min(4+4*k, len(neighborhood))
}

// Averaging replaces every pixel with the mean of a randomly sized prefix of
// its neighbourhood.
//
// Window sizes are drawn from the filter's own generator, one draw per pixel
// in row-major order, all before any output is written. Row processing may
// therefore run in parallel without changing the result. An Averaging is not
// safe for concurrent Apply calls.
type Averaging struct {
	// Parallel splits row processing across goroutines.
	Parallel bool

	rng *rand.Rand
}

// NewAveraging returns an averaging stage drawing window sizes from src.
// Successive Apply calls continue the same stream.
func NewAveraging(src rand.Source) *Averaging {
	return &Averaging{rng: rand.New(src)}
}

// Name implements Filter.
func (a *Averaging) Name() string { return "average" }

// Apply implements Filter. Every channel of the grid's mode, alpha included,
// is averaged with floor division by the number of samples used. Off-canvas
// samples contribute zero.
func (a *Averaging) Apply(in *grid.Grid) (*grid.Grid, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	w, h := in.Width(), in.Height()
	draws := make([]uint8, w*h)
	for i := range draws {
		draws[i] = uint8(a.rng.IntN(4))
	}

	out := grid.NewLike(in)
	mode := in.Mode()
	forRows(a.Parallel, h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				n := windowSize(int(draws[y*w+x]))
				var r, g, b, al int
				for _, o := range neighborhood[:n] {
					p := in.Get(x+o.dx, y+o.dy)
					r += int(p.R)
					g += int(p.G)
					b += int(p.B)
					al += int(p.A)
				}
				px := grid.Pixel{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), Mode: mode}
				if mode == grid.RGBA {
					px.A = uint8(al / n)
				}
				out.Set(x, y, px)
			}
		}
	})
	return out, nil
}
