package tds

import (
	"fmt"
	"io"
	"os"
)

// Load opens a .3ds file and decodes it. The file is closed before Load
// returns, whatever the outcome.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	defer f.Close()

	scene, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

// Decode reads one 3DS chunk tree from r, starting at its current offset.
// The first chunk must be Main; bytes after it are ignored.
func Decode(r io.ReadSeeker) (*Scene, error) {
	cur, err := NewCursor(r)
	if err != nil {
		return nil, err
	}
	d := &decoder{cur: cur, scene: &Scene{}}

	root, _, err := readHeader(cur)
	if err != nil {
		return nil, err
	}
	if root.Kind != KindMain {
		return nil, formatErrorf("root chunk is %s, want %s", root.Kind, KindMain)
	}
	if root.Length < HeaderSize {
		return nil, &ChunkError{Offset: root.Offset, Kind: root.Kind, Err: formatErrorf("declared length %d shorter than header", root.Length)}
	}
	if _, err := d.walk(root.Body(), nil, nil); err != nil {
		return nil, err
	}
	return d.scene, nil
}
