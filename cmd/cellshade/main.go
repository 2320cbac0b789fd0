package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ironsheep/cellshade/internal/filter"
	"github.com/ironsheep/cellshade/internal/runner"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("cellshade %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := runner.FromEnv(os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	// Diagnostics go to stderr; stdout carries the prompt and status lines
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	filter.SetLogger(logger)
	logger.Debug("cellshade starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	var src string
	if len(os.Args) > 1 {
		src, err = runner.ResolvePath(os.Args[1])
	} else {
		src, err = runner.Prompt(os.Stdin, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	res, err := runner.New(cfg, os.Stdout, logger).Run(src)
	if err != nil {
		logger.Debug("run finished with errors", "error", err)
	}
	if !res.FinalSaved {
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("cellshade - cell-shading image filter")
	fmt.Println()
	fmt.Println("Usage: cellshade [image-path]")
	fmt.Println()
	fmt.Println("Without a path the image location is read from stdin.")
	fmt.Println("Artifacts are written next to the source image:")
	fmt.Println("  adjusted_image_avg.jpg       (deleted after the run)")
	fmt.Println("  adjusted_image_shaded.jpg    (deleted after the run)")
	fmt.Println("  final_adjusted_image.jpg")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  CELLSHADE_LOG_LEVEL=debug          Diagnostic log level (default info)")
	fmt.Println("  CELLSHADE_SEED=42                  Averaging seed")
	fmt.Println("  CELLSHADE_JPEG_QUALITY=75          JPEG quality, 1-100")
	fmt.Println("  CELLSHADE_KEEP_INTERMEDIATES=true  Keep intermediate artifacts")
	fmt.Println("  CELLSHADE_RELOAD=true              Read each stage back from disk")
	fmt.Println("  CELLSHADE_PARALLEL=true            Row-parallel filtering")
	fmt.Println("  CELLSHADE_OUTPUT_DIR=/path         Artifact directory")
}
