package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tds-scene/internal/batch"
	"tds-scene/internal/config"
	"tds-scene/internal/loader"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Render only first N models for testing")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	inputDir := flag.String("input", "", "Directory scanned for models (default: .)")
	outputDir := flag.String("output", "", "Output directory (default: <input>/renders)")
	format := flag.String("format", "", "Image format: webp, tga or png (default: webp)")
	size := flag.Int("size", 0, "Output edge in pixels (default: 256)")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		InputDir:  *inputDir,
		OutputDir: *outputDir,
		Format:    *format,
		Size:      *size,
		Workers:   *workers,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Explicit file arguments replace the directory scan.
	files := flag.Args()
	if len(files) == 0 {
		var err error
		files, err = batch.Find(cfg.InputDir, loader.Default)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error scanning models: %v\n", err)
			os.Exit(1)
		}
	} else {
		for i, f := range files {
			if rel, err := filepath.Rel(cfg.InputDir, f); err == nil {
				files[i] = rel
			}
		}
	}

	// Limit for testing
	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}

	if len(files) == 0 {
		fmt.Println("No models to render.")
		os.Exit(0)
	}

	fmt.Printf("3DS scene preview renderer → %s\n", cfg.Format)
	fmt.Printf("Models: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		InputDir:    cfg.InputDir,
		OutputDir:   cfg.OutputDir,
		Registry:    loader.Default,
		Format:      cfg.Format,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		FillRatio:   cfg.FillRatio,
		Yaw:         cfg.Yaw,
		Pitch:       cfg.Pitch,
		Workers:     cfg.Workers,
		Progress:    true,
	}, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		for _, w := range r.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", r.Model, w)
		}
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(files))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(20, len(errors))
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Model, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
