package filter

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/ironsheep/cellshade/internal/grid"
)

// DefaultSeed seeds the averaging stage when the caller has no preference.
const DefaultSeed = 42

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithParallel enables row-parallel processing in every stage. Output is
// identical to sequential processing for the same seed.
func WithParallel(on bool) Option {
	return func(p *Pipeline) { p.parallel = on }
}

// WithLogger sets the logger for stage diagnostics, overriding the package
// logger installed by SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// Pipeline runs Averaging, Quantization and ParityShade in that order, each
// stage consuming the previous stage's complete output.
type Pipeline struct {
	average  *Averaging
	quantize *Quantization
	shade    *ParityShade

	parallel bool
	logger   *slog.Logger
}

// New builds the stage chain with the averaging generator seeded from seed.
// Two pipelines built with the same seed produce identical output for the
// same sequence of inputs.
func New(seed uint64, opts ...Option) *Pipeline {
	p := &Pipeline{
		average:  NewAveraging(rand.NewPCG(seed, seed)),
		quantize: NewQuantization(nil),
		shade:    NewParityShade(DefaultShadeAmount),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.average.Parallel = p.parallel
	p.quantize.Parallel = p.parallel
	p.shade.Parallel = p.parallel
	return p
}

// Stages returns the stages in execution order.
func (p *Pipeline) Stages() []Filter {
	return []Filter{p.average, p.quantize, p.shade}
}

// Palette returns the palette used by the quantization stage.
func (p *Pipeline) Palette() *Palette { return p.quantize.Palette() }

// Run applies every stage to in.
//
// Parameters:
//   - in: The source grid. It is never modified.
//
// Returns:
//   - *grid.Grid: The output of the last stage, with the dimensions and mode
//     of in.
//   - error: Non-nil if any stage failed.
//
// Each stage consumes the complete output of the previous one. The averaging
// generator advances on every call, so repeated runs on one pipeline see
// different window sizes.
//
// # Errors
//
// The first failing stage aborts the run and no partial output is returned.
// The error is prefixed with the stage name and wraps the stage's error, so
// errors.As still finds *grid.InvalidGridError.
func (p *Pipeline) Run(in *grid.Grid) (*grid.Grid, error) {
	cur := in
	for _, s := range p.Stages() {
		out, err := p.apply(s, cur)
		if err != nil {
			return nil, err
		}
		cur = out
	}
	return cur, nil
}

// apply runs one stage and logs its completion.
func (p *Pipeline) apply(s Filter, in *grid.Grid) (*grid.Grid, error) {
	start := time.Now()
	out, err := s.Apply(in)
	if err != nil {
		return nil, fmt.Errorf("%s stage: %w", s.Name(), err)
	}
	p.log().Debug("stage complete",
		"stage", s.Name(),
		"width", out.Width(),
		"height", out.Height(),
		"mode", out.Mode().String(),
		"elapsed", time.Since(start))
	return out, nil
}

// Apply runs the single stage s, wrapping its error with the stage name. It
// lets callers drive the stages one at a time while keeping the pipeline's
// logging.
func (p *Pipeline) Apply(s Filter, in *grid.Grid) (*grid.Grid, error) {
	return p.apply(s, in)
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return Logger()
}
