package tds

import "io"

// VisitFunc is called for every chunk header in stream order. depth is 0 for
// the root chunk.
type VisitFunc func(h Header, depth int) error

// Walk visits the chunk tree of r without decoding leaf payloads. Container
// kinds are descended into; everything else is skipped by declared length.
// The root must be Main.
func Walk(r io.ReadSeeker, fn VisitFunc) error {
	cur, err := NewCursor(r)
	if err != nil {
		return err
	}
	root, _, err := readHeader(cur)
	if err != nil {
		return err
	}
	if root.Kind != KindMain {
		return formatErrorf("root chunk is %s, want %s", root.Kind, KindMain)
	}
	return visit(cur, root, 0, fn)
}

func visit(cur *Cursor, h Header, depth int, fn VisitFunc) error {
	if h.Length < HeaderSize {
		return &ChunkError{Offset: h.Offset, Kind: h.Kind, Err: formatErrorf("declared length %d shorter than header", h.Length)}
	}
	if err := fn(h, depth); err != nil {
		return err
	}
	body := h.Body()
	if !h.Kind.container() {
		if err := cur.Skip(body); err != nil {
			return locate(h, err)
		}
		return nil
	}

	var consumed int64
	if h.Kind == KindObject {
		_, n, err := cur.CString(body)
		if err != nil {
			return locate(h, err)
		}
		consumed = n
	}

	for consumed < body {
		child, n, err := readHeader(cur)
		if err != nil {
			return err
		}
		if left := body - consumed; int64(child.Length) > left {
			return &ChunkError{Offset: child.Offset, Kind: child.Kind,
				Err: formatErrorf("declared length %d exceeds the %d bytes left in parent", child.Length, left)}
		}
		if err := visit(cur, child, depth+1, fn); err != nil {
			return err
		}
		consumed += n + child.Body()
	}
	return nil
}
