package tds

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding/charmap"
)

// Cursor is a forward-only little-endian reader over a seekable source.
// Reads are buffered; forward seeks inside the buffer never touch the source.
// A Cursor is not safe for concurrent use.
type Cursor struct {
	src  io.ReadSeeker
	br   *bufio.Reader
	pos  int64 // absolute offset of the next unread byte
	size int64
	buf  [4]byte
}

// NewCursor measures src and positions the cursor at its current offset.
func NewCursor(src io.ReadSeeker) (*Cursor, error) {
	start, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w: seek: %w", ErrIO, err)
	}
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: seek: %w", ErrIO, err)
	}
	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek: %w", ErrIO, err)
	}
	return &Cursor{
		src:  src,
		br:   bufio.NewReader(src),
		pos:  start,
		size: size,
	}, nil
}

// Pos returns the absolute offset of the next unread byte.
func (c *Cursor) Pos() int64 { return c.pos }

// Remaining returns the number of bytes between the cursor and the end of input.
func (c *Cursor) Remaining() int64 { return c.size - c.pos }

func (c *Cursor) need(n int64) error {
	if n < 0 || n > c.Remaining() {
		return fmt.Errorf("%w: need %d bytes at offset %d, %d left", ErrTruncated, n, c.pos, c.Remaining())
	}
	return nil
}

func (c *Cursor) fill(p []byte) error {
	if err := c.need(int64(len(p))); err != nil {
		return err
	}
	n, err := io.ReadFull(c.br, p)
	c.pos += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: source ended at offset %d", ErrTruncated, c.pos)
		}
		return fmt.Errorf("%w: read: %w", ErrIO, err)
	}
	return nil
}

func (c *Cursor) U16() (uint16, error) {
	if err := c.fill(c.buf[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(c.buf[:2]), nil
}

func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

func (c *Cursor) I32() (int32, error) {
	if err := c.fill(c.buf[:4]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(c.buf[:4])), nil
}

func (c *Cursor) F32() (float32, error) {
	if err := c.fill(c.buf[:4]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(c.buf[:4])), nil
}

// Bytes reads exactly n raw bytes.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if err := c.need(int64(n)); err != nil {
		return nil, err
	}
	p := make([]byte, n)
	if err := c.fill(p); err != nil {
		return nil, err
	}
	return p, nil
}

// CString reads a null-terminated name of at most max bytes including the
// terminator. It returns the name without the terminator and the number of
// bytes consumed (len+1). Bytes outside ASCII are decoded as Windows-1252.
func (c *Cursor) CString(max int64) (string, int64, error) {
	var raw []byte
	for {
		if int64(len(raw)) >= max {
			return "", 0, formatErrorf("name at offset %d not terminated within %d bytes", c.pos-int64(len(raw)), max)
		}
		if err := c.fill(c.buf[:1]); err != nil {
			return "", 0, err
		}
		if c.buf[0] == 0 {
			break
		}
		raw = append(raw, c.buf[0])
	}
	return decodeName(raw), int64(len(raw)) + 1, nil
}

func decodeName(raw []byte) string {
	for _, b := range raw {
		if b >= 0x80 {
			s, err := charmap.Windows1252.NewDecoder().Bytes(raw)
			if err != nil {
				return string(raw)
			}
			return string(s)
		}
	}
	return string(raw)
}

// Skip advances the cursor by n bytes. Negative skips are rejected.
func (c *Cursor) Skip(n int64) error {
	if n < 0 {
		return formatErrorf("negative skip of %d bytes at offset %d", n, c.pos)
	}
	if err := c.need(n); err != nil {
		return err
	}
	if n <= int64(c.br.Buffered()) {
		if _, err := c.br.Discard(int(n)); err != nil {
			return fmt.Errorf("%w: discard: %w", ErrIO, err)
		}
		c.pos += n
		return nil
	}
	target := c.pos + n
	if _, err := c.src.Seek(target, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek: %w", ErrIO, err)
	}
	c.br.Reset(c.src)
	c.pos = target
	return nil
}
