package runner

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ironsheep/cellshade/internal/filter"
	"github.com/ironsheep/cellshade/internal/imaging"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel          = "CELLSHADE_LOG_LEVEL"
	EnvSeed              = "CELLSHADE_SEED"
	EnvJPEGQuality       = "CELLSHADE_JPEG_QUALITY"
	EnvKeepIntermediates = "CELLSHADE_KEEP_INTERMEDIATES"
	EnvReload            = "CELLSHADE_RELOAD"
	EnvParallel          = "CELLSHADE_PARALLEL"
	EnvOutputDir         = "CELLSHADE_OUTPUT_DIR"
)

// Config controls a run.
type Config struct {
	// Seed seeds the averaging stage.
	Seed uint64

	// JPEGQuality is used for every artifact, all of which are JPEG files.
	JPEGQuality int

	// KeepIntermediates leaves the averaged and shaded artifacts on disk.
	KeepIntermediates bool

	// Reload makes each stage read its input back from the previous
	// artifact instead of taking the in-memory grid, so every stage sees
	// the JPEG round trip.
	Reload bool

	// Parallel enables row-parallel filtering.
	Parallel bool

	// OutputDir receives the artifacts. Empty means the source image's
	// directory.
	OutputDir string

	// LogLevel is the minimum level of diagnostic records.
	LogLevel slog.Level
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		Seed:        filter.DefaultSeed,
		JPEGQuality: imaging.DefaultJPEGQuality,
		LogLevel:    slog.LevelInfo,
	}
}

// FromEnv builds a Config from environment variables using lookup, which has
// the signature of os.LookupEnv. Unset variables keep their defaults; set but
// malformed values are reported as errors.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	if v, ok := lookup(EnvJPEGQuality); ok && v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvJPEGQuality, err)
		}
		if q < 1 || q > 100 {
			return cfg, fmt.Errorf("%s: quality %d outside [1, 100]", EnvJPEGQuality, q)
		}
		cfg.JPEGQuality = q
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{EnvKeepIntermediates, &cfg.KeepIntermediates},
		{EnvReload, &cfg.Reload},
		{EnvParallel, &cfg.Parallel},
	}
	for _, f := range flags {
		v, ok := lookup(f.name)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = b
	}

	if v, ok := lookup(EnvOutputDir); ok {
		cfg.OutputDir = v
	}
	return cfg, nil
}
