// Package filter implements the three pixel stages of the cell-shading
// pipeline and their composition.
//
// # Stages
//
//   - Averaging: each pixel becomes the floor mean of the first 4, 8 or 9
//     entries of a fixed nine-position neighbourhood, the size drawn at
//     random per pixel. Positions off the canvas contribute zero.
//   - Quantization: each RGB value is replaced by its nearest entry, by
//     Manhattan distance, in a uniform lattice palette.
//   - ParityShade: pixels at odd (x, y) are darkened by a fixed amount.
//
// Every stage reads an immutable input grid and returns a new grid of the
// same dimensions and mode. Stages return *grid.InvalidGridError for a nil or
// malformed input and never partially fill their output.
//
// # Determinism
//
// The averaging stage owns an explicit math/rand/v2 generator. Window sizes
// are drawn in row-major order before the output is computed, so a fixed
// seed reproduces the same image with or without row parallelism.
package filter
