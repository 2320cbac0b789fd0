// Package runner orchestrates a cell-shading run against files on disk.
//
// A run decodes the source image, applies the averaging, quantization and
// parity-shade stages in turn, and writes each stage's output next to the
// source:
//
//   - adjusted_image_avg.jpg
//   - adjusted_image_shaded.jpg
//   - final_adjusted_image.jpg
//
// The first two are intermediates and are deleted once the final stage has
// run, unless Config.KeepIntermediates is set.
//
// # Error Handling
//
// The runner is the only layer that tolerates failure. Decode, filter, save
// and cleanup errors are logged and the run continues to best effort. All
// collected errors are returned joined so the caller can still decide on an
// exit status.
//
// # Configuration
//
// Config is normally built from CELLSHADE_* environment variables with
// FromEnv.
package runner
