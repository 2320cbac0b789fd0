package grid

import (
	"bytes"
	"fmt"
	"image"
)

// Mode is the channel layout of a grid.
type Mode int

const (
	// RGB stores three 8-bit channels per pixel.
	RGB Mode = iota + 1
	// RGBA stores four 8-bit channels per pixel; alpha is not premultiplied.
	RGBA
)

// Channels returns the number of channels per pixel, or 0 for an unknown mode.
func (m Mode) Channels() int {
	switch m {
	case RGB:
		return 3
	case RGBA:
		return 4
	default:
		return 0
	}
}

func (m Mode) String() string {
	switch m {
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Pixel is a single colour value tagged with its channel layout.
//
// R, G and B are always meaningful. A is only meaningful when Mode is RGBA
// and is otherwise kept at zero.
type Pixel struct {
	R, G, B uint8
	A       uint8
	Mode    Mode
}

// Zero returns the off-canvas sentinel for mode: all channels zero.
func Zero(mode Mode) Pixel {
	return Pixel{Mode: mode}
}

// InvalidGridError reports a grid whose dimensions, buffer or mode cannot be
// processed.
type InvalidGridError struct {
	Reason string
}

func (e *InvalidGridError) Error() string {
	return "invalid grid: " + e.Reason
}

// Grid is a dense, fixed-size 2-D array of pixels stored as interleaved
// 8-bit channels in row-major order.
type Grid struct {
	width  int
	height int
	mode   Mode
	pix    []uint8
}

// New allocates a zeroed grid.
func New(width, height int, mode Mode) (*Grid, error) {
	if err := check(width, height, mode); err != nil {
		return nil, err
	}
	return &Grid{
		width:  width,
		height: height,
		mode:   mode,
		pix:    make([]uint8, width*height*mode.Channels()),
	}, nil
}

// FromPix wraps an existing interleaved buffer without copying it.
func FromPix(width, height int, mode Mode, pix []uint8) (*Grid, error) {
	if err := check(width, height, mode); err != nil {
		return nil, err
	}
	if want := width * height * mode.Channels(); len(pix) != want {
		return nil, &InvalidGridError{
			Reason: fmt.Sprintf("buffer holds %d bytes, %dx%d %s needs %d", len(pix), width, height, mode, want),
		}
	}
	return &Grid{width: width, height: height, mode: mode, pix: pix}, nil
}

// NewLike allocates a zeroed grid with the same dimensions and mode as g.
func NewLike(g *Grid) *Grid {
	return &Grid{
		width:  g.width,
		height: g.height,
		mode:   g.mode,
		pix:    make([]uint8, len(g.pix)),
	}
}

func check(width, height int, mode Mode) error {
	if width < 0 || height < 0 {
		return &InvalidGridError{Reason: fmt.Sprintf("negative dimensions %dx%d", width, height)}
	}
	if mode.Channels() == 0 {
		return &InvalidGridError{Reason: fmt.Sprintf("unsupported channel mode %s", mode)}
	}
	return nil
}

// Validate reports whether g can be read by the filters. A nil grid is invalid.
func (g *Grid) Validate() error {
	if g == nil {
		return &InvalidGridError{Reason: "nil grid"}
	}
	if err := check(g.width, g.height, g.mode); err != nil {
		return err
	}
	if want := g.width * g.height * g.mode.Channels(); len(g.pix) != want {
		return &InvalidGridError{
			Reason: fmt.Sprintf("buffer holds %d bytes, %dx%d %s needs %d", len(g.pix), g.width, g.height, g.mode, want),
		}
	}
	return nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Mode returns the channel layout.
func (g *Grid) Mode() Mode { return g.mode }

// Bounds returns the grid rectangle anchored at the origin.
func (g *Grid) Bounds() image.Rectangle { return image.Rect(0, 0, g.width, g.height) }

// Pix returns the underlying interleaved buffer.
func (g *Grid) Pix() []uint8 { return g.pix }

// In reports whether (x, y) lies on the canvas.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the pixel at (x, y). Coordinates off the canvas yield the zero
// pixel of the grid's mode.
func (g *Grid) Get(x, y int) Pixel {
	if !g.In(x, y) {
		return Zero(g.mode)
	}
	n := g.mode.Channels()
	i := (y*g.width + x) * n
	p := Pixel{R: g.pix[i], G: g.pix[i+1], B: g.pix[i+2], Mode: g.mode}
	if n == 4 {
		p.A = g.pix[i+3]
	}
	return p
}

// Set writes p at (x, y), which must lie on the canvas. It panics if p's mode
// differs from the grid's.
func (g *Grid) Set(x, y int, p Pixel) {
	if p.Mode != g.mode {
		panic(fmt.Sprintf("grid: set %s pixel on %s grid", p.Mode, g.mode))
	}
	n := g.mode.Channels()
	i := (y*g.width + x) * n
	g.pix[i] = p.R
	g.pix[i+1] = p.G
	g.pix[i+2] = p.B
	if n == 4 {
		g.pix[i+3] = p.A
	}
}

// Equal reports whether both grids have the same shape and pixel values.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.width == o.width && g.height == o.height && g.mode == o.mode && bytes.Equal(g.pix, o.pix)
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := NewLike(g)
	copy(c.pix, g.pix)
	return c
}
