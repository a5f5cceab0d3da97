package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"tds-scene/internal/output"
)

// Config holds input/output paths and preview render settings.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`

	// Render settings
	Format      string  `json:"format"`
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	FillRatio   float64 `json:"fill_ratio"`
	Yaw         float64 `json:"yaw"`
	Pitch       float64 `json:"pitch"`
	Workers     int     `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir  string
	OutputDir string
	Format    string
	Size      int
	Workers   int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.InputDir == "" {
		c.InputDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "renders")
	} else if !filepath.IsAbs(c.OutputDir) && flags.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}

	if c.Format == "" {
		c.Format = "webp"
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		c.FillRatio = 0.85
	}
	// Zero yaw and pitch are valid angles, so only an all-zero camera gets
	// the default three-quarter view.
	if c.Yaw == 0 && c.Pitch == 0 {
		c.Yaw, c.Pitch = 30, 20
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	if !output.Supported(c.Format) {
		return fmt.Errorf("config: unknown format %q (want one of %v)", c.Format, output.Formats())
	}
	if info, err := os.Stat(c.InputDir); err != nil {
		return fmt.Errorf("config: input dir: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("config: input dir %s is not a directory", c.InputDir)
	}
	return nil
}
