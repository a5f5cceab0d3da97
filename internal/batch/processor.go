package batch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tds-scene/internal/loader"
	"tds-scene/internal/output"
	"tds-scene/internal/postprocess"
	"tds-scene/internal/raster"
	"tds-scene/internal/tds"
)

// Config holds all shared resources for a batch run.
type Config struct {
	InputDir    string
	OutputDir   string
	Registry    *loader.Registry
	Format      string
	RenderSize  int
	Supersample int
	FillRatio   float64
	Yaw         float64
	Pitch       float64
	Workers     int
	Progress    bool // print a progress line every two seconds
}

// Result holds the outcome of processing one model file.
type Result struct {
	Model    string // path relative to InputDir
	Image    string // path relative to OutputDir, empty on failure
	Stats    tds.Stats
	Warnings []string
	Success  bool
	Error    string
}

// Find lists model files under dir that the registry can decode, sorted.
func Find(dir string, reg *loader.Registry) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !reg.Supported(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run processes all files using a worker pool. Each file is decoded by its
// own Load call, so workers share nothing but the read-only config.
func Run(cfg Config, files []string) []Result {
	if cfg.Registry == nil {
		cfg.Registry = loader.Default
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Printf("  [%d/%d] %.1f models/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = processFile(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

func processFile(cfg Config, rel string) Result {
	res := Result{Model: filepath.ToSlash(rel)}

	scene, err := cfg.Registry.Load(filepath.Join(cfg.InputDir, rel))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Stats = scene.Stats()
	res.Warnings = scene.Warnings

	if res.Stats.Triangles == 0 {
		res.Error = "no triangles in scene"
		return res
	}

	img := raster.RenderScene(scene, raster.Options{
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		Yaw:         cfg.Yaw,
		Pitch:       cfg.Pitch,
	})
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}
	img = postprocess.Fit(img, cfg.RenderSize, cfg.FillRatio)

	imgRel := strings.TrimSuffix(rel, filepath.Ext(rel)) + "." + cfg.Format
	if err := output.WriteFile(filepath.Join(cfg.OutputDir, imgRel), img, cfg.Format); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Image = filepath.ToSlash(imgRel)
	res.Success = true
	return res
}
