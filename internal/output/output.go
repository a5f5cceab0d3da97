// Package output encodes rendered previews.
package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Encoder writes img to w in one image format.
type Encoder func(w io.Writer, img image.Image) error

var encoders = map[string]Encoder{
	"webp": func(w io.Writer, img image.Image) error { return nativewebp.Encode(w, img, nil) },
	"tga":  tga.Encode,
	"png":  png.Encode,
}

// Formats lists the supported format names.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Supported reports whether format names a known encoder.
func Supported(format string) bool {
	_, ok := encoders[format]
	return ok
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	enc, ok := encoders[format]
	if !ok {
		return fmt.Errorf("output: unknown format %q", format)
	}
	if err := enc(w, img); err != nil {
		return fmt.Errorf("output: %s encode: %w", format, err)
	}
	return nil
}

// WriteFile encodes img into path, creating parent directories.
func WriteFile(path string, img image.Image, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("output: close %s: %w", path, err)
	}
	return nil
}
