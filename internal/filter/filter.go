package filter

import (
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/cellshade/internal/grid"
)

// Filter is one pixel stage. Apply reads in without modifying it and returns
// a freshly allocated grid with the same dimensions and mode.
type Filter interface {
	Name() string
	Apply(in *grid.Grid) (*grid.Grid, error)
}

// forRows runs fn over the row range [0, height). When concurrent is set the
// range is split across GOMAXPROCS goroutines and forRows returns once every
// part has finished.
func forRows(concurrent bool, height int, fn func(start, end int)) {
	if concurrent {
		parallel.Line(height, fn)
		return
	}
	fn(0, height)
}

func clamp255(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
