// Package grid provides the in-memory pixel buffer shared by every filter
// stage.
//
// A Grid has a fixed width, height and channel Mode for its whole lifetime.
// Coordinates are 0-based with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward.
//
// # Boundary Condition
//
// Get never fails. Reading outside [0,W)×[0,H) returns the zero pixel of the
// grid's mode (three zero channels for RGB, four for RGBA). Neighbourhood
// sampling relies on this to treat the area beyond the canvas as black and
// transparent.
//
// # Ownership
//
// Filters read from an input grid and write to a freshly allocated output
// grid. A grid is never written by more than one stage.
package grid
