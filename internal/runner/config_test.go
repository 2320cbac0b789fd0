package runner

import (
	"log/slog"
	"testing"
)

func envLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envLookup(nil))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("got %+v, want defaults %+v", cfg, DefaultConfig())
	}
	if cfg.Seed != 42 || cfg.JPEGQuality != 75 || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestFromEnv_Values(t *testing.T) {
	cfg, err := FromEnv(envLookup(map[string]string{
		EnvLogLevel:          "DEBUG",
		EnvSeed:              "7",
		EnvJPEGQuality:       "90",
		EnvKeepIntermediates: "true",
		EnvReload:            "1",
		EnvParallel:          "false",
		EnvOutputDir:         "/out",
	}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	want := Config{
		Seed:              7,
		JPEGQuality:       90,
		KeepIntermediates: true,
		Reload:            true,
		Parallel:          false,
		OutputDir:         "/out",
		LogLevel:          slog.LevelDebug,
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"log level", EnvLogLevel, "loud"},
		{"seed", EnvSeed, "-1"},
		{"quality not a number", EnvJPEGQuality, "high"},
		{"quality out of range", EnvJPEGQuality, "101"},
		{"keep", EnvKeepIntermediates, "maybe"},
		{"reload", EnvReload, "yes please"},
		{"parallel", EnvParallel, "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromEnv(envLookup(map[string]string{tt.key: tt.val})); err == nil {
				t.Errorf("%s=%q should be rejected", tt.key, tt.val)
			}
		})
	}
}
