package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/cellshade/internal/filter"
	"github.com/ironsheep/cellshade/internal/grid"
	"github.com/ironsheep/cellshade/internal/imaging"
)

// Fixed artifact names, written next to the source image.
const (
	AveragedName = "adjusted_image_avg.jpg"
	ShadedName   = "adjusted_image_shaded.jpg"
	FinalName    = "final_adjusted_image.jpg"
)

// summaryColors is how many of the final image's colours are logged.
const summaryColors = 5

// Artifacts holds the output paths of one run.
type Artifacts struct {
	Averaged string
	Shaded   string
	Final    string
}

// ArtifactPaths returns the artifact locations for src. An empty outputDir
// selects the directory containing src.
func ArtifactPaths(src, outputDir string) Artifacts {
	if outputDir == "" {
		outputDir = filepath.Dir(src)
	}
	return Artifacts{
		Averaged: filepath.Join(outputDir, AveragedName),
		Shaded:   filepath.Join(outputDir, ShadedName),
		Final:    filepath.Join(outputDir, FinalName),
	}
}

// contains reports whether path names one of the artifacts.
func (a Artifacts) contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, p := range []string{a.Averaged, a.Shaded, a.Final} {
		if pa, err := filepath.Abs(p); err == nil && pa == abs {
			return true
		}
	}
	return false
}

// Result describes what a run produced.
type Result struct {
	Artifacts

	// Output is the grid produced by the last stage, nil if it did not run.
	Output *grid.Grid

	// FinalSaved reports whether the final artifact was written.
	FinalSaved bool

	// Removed lists the intermediate files deleted during cleanup.
	Removed []string

	// Colors summarises the final grid, nil if it did not run.
	Colors *imaging.ColorsResult
}

// Runner drives the pipeline against files on disk.
//
// A stage failure is logged and the run continues as far as it can: later
// stages without an input are skipped, and intermediates are still removed.
// Every failure is returned, joined, once the run is over.
type Runner struct {
	cfg    Config
	codec  *imaging.Codec
	out    io.Writer
	logger *slog.Logger
}

// New creates a runner. Status lines go to out; diagnostics go to logger.
func New(cfg Config, out io.Writer, logger *slog.Logger) *Runner {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = filter.Logger()
	}
	return &Runner{
		cfg:    cfg,
		codec:  imaging.NewCodec(cfg.JPEGQuality),
		out:    out,
		logger: logger,
	}
}

type step struct {
	stage filter.Filter
	label string
	path  string
}

// ErrSourceIsArtifact is returned when the source image is one of the files
// a run would overwrite or delete.
var ErrSourceIsArtifact = errors.New("source image is an artifact path")

// Run processes the image at src and writes the artifacts.
//
// Parameters:
//   - src: Path to the source image. It must not be one of the artifact
//     paths.
//
// Returns:
//   - *Result: Always non-nil. Artifact paths, the final grid and what was
//     saved and removed.
//   - error: Every failure of the run joined, or nil.
//
// Each stage output is saved and reported on the status writer. A failed
// stage is logged and reported, and stages left without input are skipped.
// Intermediates are removed at the end unless KeepIntermediates is set.
//
// # Errors
//
//   - ErrSourceIsArtifact if src would be overwritten or deleted; nothing
//     is read or written
//   - *imaging.DecodeError if the source or a reloaded artifact is unreadable
//   - *imaging.EncodeError, wrapped, if an artifact cannot be saved
//   - *grid.InvalidGridError, wrapped, if a stage rejects its input
func (r *Runner) Run(src string) (*Result, error) {
	res := &Result{Artifacts: ArtifactPaths(src, r.cfg.OutputDir)}
	if res.contains(src) {
		err := fmt.Errorf("%w: %s", ErrSourceIsArtifact, src)
		r.logger.Error("refusing source", "error", err)
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return res, err
	}
	p := filter.New(r.cfg.Seed, filter.WithParallel(r.cfg.Parallel), filter.WithLogger(r.logger))

	stages := p.Stages()
	steps := []step{
		{stages[0], "averaged", res.Averaged},
		{stages[1], "shaded", res.Shaded},
		{stages[2], "final adjusted", res.Final},
	}

	var errs []error
	fail := func(err error) {
		r.logger.Error("stage failed", "error", err)
		fmt.Fprintf(r.out, "Error: %v\n", err)
		errs = append(errs, err)
	}

	if info, err := imaging.Info(src); err == nil {
		r.logger.Debug("source image",
			"path", src,
			"width", info.Width,
			"height", info.Height,
			"format", info.Format,
			"has_alpha", info.HasAlpha,
			"size_bytes", info.FileSizeBytes)
	}

	cur, err := r.codec.Decode(src)
	if err != nil {
		fail(err)
	}

	prevSaved := false
	for i, st := range steps {
		in := cur
		if r.cfg.Reload && i > 0 {
			in = nil
			if prevSaved {
				if in, err = r.codec.Decode(steps[i-1].path); err != nil {
					fail(err)
				}
			}
		}
		prevSaved = false

		if in == nil {
			r.logger.Warn("stage skipped: no input", "stage", st.stage.Name())
			cur = nil
			continue
		}

		out, err := p.Apply(st.stage, in)
		if err != nil {
			fail(err)
			cur = nil
			continue
		}
		cur = out

		if err := r.codec.Save(out, st.path); err != nil {
			fail(fmt.Errorf("save %s image: %w", st.label, err))
			continue
		}
		fmt.Fprintf(r.out, "Saved %s image to %s\n", st.label, st.path)
		prevSaved = true
		if st.path == res.Final {
			res.FinalSaved = true
		}
	}

	res.Output = cur
	if cur != nil {
		if colors, err := imaging.Colors(cur, summaryColors); err == nil {
			res.Colors = colors
			hexes := make([]string, len(colors.Colors))
			for i, c := range colors.Colors {
				hexes[i] = c.Hex
			}
			r.logger.Info("final image", "distinct_colors", colors.Distinct, "top", strings.Join(hexes, ","))
		}
	}

	if !r.cfg.KeepIntermediates {
		for _, path := range []string{res.Averaged, res.Shaded} {
			removed, err := removeIfExists(path)
			if err != nil {
				fail(fmt.Errorf("remove intermediate: %w", err))
				continue
			}
			if removed {
				res.Removed = append(res.Removed, path)
				fmt.Fprintf(r.out, "Deleted intermediate file: %s\n", path)
			}
		}
	}

	return res, errors.Join(errs...)
}

func removeIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// ResolvePath cleans an interactively entered path: surrounding whitespace
// and matching quotes are stripped and the result is made absolute.
func ResolvePath(input string) (string, error) {
	path := strings.TrimSpace(input)
	if len(path) >= 2 {
		if q := path[0]; (q == '"' || q == '\'') && path[len(path)-1] == q {
			path = path[1 : len(path)-1]
		}
	}
	if path == "" {
		return "", errors.New("no image path given")
	}
	return filepath.Abs(path)
}

// Prompt asks for the source image path on out and reads one line from in.
func Prompt(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "ABS Path to Image: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read image path: %w", err)
	}
	return ResolvePath(line)
}
