package filter

import (
	"github.com/ironsheep/cellshade/internal/grid"
)

// constSource always returns v, pinning every averaging draw to v&3.
type constSource uint64

func (s constSource) Uint64() uint64 { return uint64(s) }

// seqSource returns vals in order, wrapping around, so each averaging draw
// can be scripted.
type seqSource struct {
	vals []uint64
	next int
}

func (s *seqSource) Uint64() uint64 {
	v := s.vals[s.next%len(s.vals)]
	s.next++
	return v
}

// createConstGrid creates a grid filled with a single pixel value
func createConstGrid(w, h int, p grid.Pixel) *grid.Grid {
	g, err := grid.New(w, h, p.Mode)
	if err != nil {
		panic(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, p)
		}
	}
	return g
}

// createPatternGrid creates a grid whose channels vary with position so that
// neighbouring pixels differ
func createPatternGrid(w, h int, mode grid.Mode) *grid.Grid {
	g, err := grid.New(w, h, mode)
	if err != nil {
		panic(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, grid.Pixel{
				R:    uint8((x*37 + y*11) % 256),
				G:    uint8((x*5 + y*71 + 13) % 256),
				B:    uint8((x*x + y*3 + 200) % 256),
				A:    uint8((x*19 + y*23 + 128) % 256),
				Mode: mode,
			})
		}
	}
	return g
}
