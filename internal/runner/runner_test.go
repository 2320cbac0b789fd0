package runner

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/cellshade/internal/filter"
	"github.com/ironsheep/cellshade/internal/grid"
	"github.com/ironsheep/cellshade/internal/imaging"
)

// createSourceImage writes a gradient PNG into dir and returns its path
func createSourceImage(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 20), uint8(y * 25), 128, 255})
		}
	}

	path := filepath.Join(dir, "source.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create source: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode source: %v", err)
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	src := createSourceImage(t, dir, 12, 10)

	var out bytes.Buffer
	res, err := New(DefaultConfig(), &out, nil).Run(src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !res.FinalSaved || !exists(res.Final) {
		t.Fatalf("final artifact missing: %s", res.Final)
	}
	if exists(res.Averaged) || exists(res.Shaded) {
		t.Error("intermediates should be deleted")
	}
	if len(res.Removed) != 2 {
		t.Errorf("Removed: got %v, want both intermediates", res.Removed)
	}

	status := out.String()
	for _, want := range []string{
		"Saved averaged image to " + res.Averaged,
		"Saved shaded image to " + res.Shaded,
		"Saved final adjusted image to " + res.Final,
		"Deleted intermediate file: " + res.Averaged,
		"Deleted intermediate file: " + res.Shaded,
	} {
		if !strings.Contains(status, want) {
			t.Errorf("status output missing %q:\n%s", want, status)
		}
	}

	g := res.Output
	if g.Width() != 12 || g.Height() != 10 || g.Mode() != grid.RGB {
		t.Fatalf("final grid: got %dx%d %s", g.Width(), g.Height(), g.Mode())
	}
	palette := filter.NewLatticePalette(filter.DefaultStep)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if x%2 == 1 && y%2 == 1 {
				continue
			}
			p := g.Get(x, y)
			if !palette.Contains(filter.Color{R: p.R, G: p.G, B: p.B}) {
				t.Fatalf("(%d,%d) = %+v is not a palette colour", x, y, p)
			}
		}
	}
	if res.Colors == nil || res.Colors.Distinct == 0 {
		t.Error("Colors summary missing")
	}
}

func TestRun_Deterministic(t *testing.T) {
	dir := t.TempDir()
	src := createSourceImage(t, dir, 9, 9)

	cfg := DefaultConfig()
	first, err := New(cfg, nil, nil).Run(src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	cfg.Parallel = true
	second, err := New(cfg, nil, nil).Run(src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !first.Output.Equal(second.Output) {
		t.Error("runs with the same seed produced different output")
	}
}

func TestRun_KeepIntermediates(t *testing.T) {
	dir := t.TempDir()
	src := createSourceImage(t, dir, 6, 6)

	cfg := DefaultConfig()
	cfg.KeepIntermediates = true
	res, err := New(cfg, nil, nil).Run(src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, path := range []string{res.Averaged, res.Shaded, res.Final} {
		if !exists(path) {
			t.Errorf("%s should exist", path)
		}
	}
	if len(res.Removed) != 0 {
		t.Errorf("nothing should be removed, got %v", res.Removed)
	}
}

func TestRun_Reload(t *testing.T) {
	dir := t.TempDir()
	src := createSourceImage(t, dir, 8, 8)

	cfg := DefaultConfig()
	cfg.Reload = true
	res, err := New(cfg, nil, nil).Run(src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.FinalSaved {
		t.Fatal("final artifact not saved")
	}
	back, err := imaging.NewCodec(0).Decode(res.Final)
	if err != nil {
		t.Fatalf("final artifact unreadable: %v", err)
	}
	if back.Width() != 8 || back.Height() != 8 {
		t.Errorf("final artifact: got %dx%d, want 8x8", back.Width(), back.Height())
	}
}

func TestRun_MissingSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "missing.png")

	var out bytes.Buffer
	res, err := New(DefaultConfig(), &out, nil).Run(src)
	var decodeErr *imaging.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if res.FinalSaved || res.Output != nil {
		t.Error("no output should be produced")
	}
	if exists(res.Final) {
		t.Error("final artifact should not exist")
	}
	if !strings.Contains(out.String(), "Error:") {
		t.Errorf("failure should be reported:\n%s", out.String())
	}
}

func TestRun_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	src := createSourceImage(t, dir, 5, 5)

	cfg := DefaultConfig()
	cfg.OutputDir = filepath.Join(dir, "does", "not", "exist")
	res, err := New(cfg, nil, nil).Run(src)

	var encodeErr *imaging.EncodeError
	if !errors.As(err, &encodeErr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
	if res.FinalSaved {
		t.Error("FinalSaved should be false")
	}
	// Stages still run in memory when saving fails.
	if res.Output == nil {
		t.Error("final grid should still be computed")
	}
}

func TestRun_SourceIsArtifact(t *testing.T) {
	names := []string{AveragedName, ShadedName, FinalName}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			orig := createSourceImage(t, dir, 4, 4)
			src := filepath.Join(dir, name)
			if err := os.Rename(orig, src); err != nil {
				t.Fatalf("failed to rename source: %v", err)
			}
			before, err := os.ReadFile(src)
			if err != nil {
				t.Fatalf("failed to read source: %v", err)
			}

			res, err := New(DefaultConfig(), nil, nil).Run(src)
			if !errors.Is(err, ErrSourceIsArtifact) {
				t.Fatalf("expected ErrSourceIsArtifact, got %v", err)
			}
			if res.Output != nil || res.FinalSaved || len(res.Removed) != 0 {
				t.Errorf("nothing should run: %+v", res)
			}

			after, err := os.ReadFile(src)
			if err != nil {
				t.Fatalf("source was removed: %v", err)
			}
			if !bytes.Equal(before, after) {
				t.Error("source was overwritten")
			}
		})
	}
}

func TestRun_SourceInOtherOutputDir(t *testing.T) {
	dir := t.TempDir()
	orig := createSourceImage(t, dir, 4, 4)
	src := filepath.Join(dir, FinalName)
	if err := os.Rename(orig, src); err != nil {
		t.Fatalf("failed to rename source: %v", err)
	}

	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	res, err := New(cfg, nil, nil).Run(src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !res.FinalSaved || !exists(src) {
		t.Error("source and final artifact should both exist")
	}
}

func TestArtifactPaths(t *testing.T) {
	a := ArtifactPaths("/images/cat.png", "")
	if a.Averaged != "/images/adjusted_image_avg.jpg" ||
		a.Shaded != "/images/adjusted_image_shaded.jpg" ||
		a.Final != "/images/final_adjusted_image.jpg" {
		t.Errorf("unexpected paths: %+v", a)
	}

	b := ArtifactPaths("/images/cat.png", "/out")
	if b.Final != "/out/final_adjusted_image.jpg" {
		t.Errorf("OutputDir ignored: %+v", b)
	}
}

func TestResolvePath(t *testing.T) {
	abs, _ := filepath.Abs("rel/img.png")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"absolute", "/tmp/img.png", "/tmp/img.png"},
		{"whitespace", "  /tmp/img.png \n", "/tmp/img.png"},
		{"double quotes", `"/tmp/my img.png"`, "/tmp/my img.png"},
		{"single quotes", `'/tmp/img.png'`, "/tmp/img.png"},
		{"relative", "rel/img.png", abs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.input)
			if err != nil {
				t.Fatalf("ResolvePath failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := ResolvePath("   "); err == nil {
		t.Error("ResolvePath should fail for blank input")
	}
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	got, err := Prompt(strings.NewReader("/tmp/a.png\nignored\n"), &out)
	if err != nil {
		t.Fatalf("Prompt failed: %v", err)
	}
	if got != "/tmp/a.png" {
		t.Errorf("got %q, want /tmp/a.png", got)
	}
	if out.String() != "ABS Path to Image: " {
		t.Errorf("prompt: got %q", out.String())
	}

	got, err = Prompt(strings.NewReader("/tmp/b.png"), &out)
	if err != nil || got != "/tmp/b.png" {
		t.Errorf("input without newline: got %q, %v", got, err)
	}

	if _, err := Prompt(strings.NewReader(""), &out); err == nil {
		t.Error("Prompt should fail on empty input")
	}
}
