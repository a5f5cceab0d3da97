// Package loader selects a model decoder by file extension.
package loader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"tds-scene/internal/tds"
)

// Decoder loads one model file into a scene.
type Decoder interface {
	Load(path string) (*tds.Scene, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(path string) (*tds.Scene, error)

func (f DecoderFunc) Load(path string) (*tds.Scene, error) { return f(path) }

// Registry maps lowercase extensions (".3ds") to decoders.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Default knows the 3DS decoder.
var Default = func() *Registry {
	r := NewRegistry()
	r.Register(".3ds", DecoderFunc(tds.Load))
	return r
}()

// Register binds ext to d, replacing any previous binding.
func (r *Registry) Register(ext string, d Decoder) {
	r.mu.Lock()
	r.decoders[normalizeExt(ext)] = d
	r.mu.Unlock()
}

// Lookup returns the decoder for path's extension.
func (r *Registry) Lookup(path string) (Decoder, error) {
	ext := normalizeExt(filepath.Ext(path))
	r.mu.RLock()
	d, ok := r.decoders[ext]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("loader: no decoder for %q (%s)", ext, path)
	}
	return d, nil
}

// Supported reports whether path has a registered extension.
func (r *Registry) Supported(path string) bool {
	_, err := r.Lookup(path)
	return err == nil
}

// Load decodes path with the decoder registered for its extension.
func (r *Registry) Load(path string) (*tds.Scene, error) {
	d, err := r.Lookup(path)
	if err != nil {
		return nil, err
	}
	return d.Load(path)
}

// Extensions lists registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.decoders))
	for ext := range r.decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
