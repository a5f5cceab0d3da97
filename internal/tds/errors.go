package tds

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat reports a stream that is not a 3DS chunk tree or whose chunk
	// lengths contradict each other.
	ErrFormat = errors.New("tds: invalid format")

	// ErrTruncated reports a read or skip past the end of the source.
	ErrTruncated = errors.New("tds: truncated input")

	// ErrIO reports a failure of the underlying source.
	ErrIO = errors.New("tds: i/o error")
)

// ChunkError locates a decode failure inside the chunk tree.
type ChunkError struct {
	Offset int64 // stream offset of the chunk header
	Kind   Kind
	Err    error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("tds: chunk %s at offset %d: %v", e.Kind, e.Offset, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

func formatErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}
