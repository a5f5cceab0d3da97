package tds

import (
	"errors"
	"fmt"
)

// decoder carries the state of one Decode call. Traversal state lives in the
// arguments and results of walk; only the cursor and the scene being built
// are shared between levels.
type decoder struct {
	cur   *Cursor
	scene *Scene
}

// walk decodes child chunks until budget bytes have been consumed and returns
// the count, which equals budget on success. obj and mat are the object and
// material the children belong to, nil when the level has none.
func (d *decoder) walk(budget int64, obj *Object, mat *Material) (int64, error) {
	var consumed int64
	for consumed < budget {
		h, n, err := readHeader(d.cur)
		if err != nil {
			return consumed, err
		}
		if h.Length < HeaderSize {
			return consumed, &ChunkError{Offset: h.Offset, Kind: h.Kind,
				Err: formatErrorf("declared length %d shorter than header", h.Length)}
		}
		if left := budget - consumed; int64(h.Length) > left {
			return consumed, &ChunkError{Offset: h.Offset, Kind: h.Kind,
				Err: formatErrorf("declared length %d exceeds the %d bytes left in parent", h.Length, left)}
		}

		body, err := d.chunk(h, obj, mat)
		if err != nil {
			return consumed, err
		}
		consumed += n + body
	}
	return consumed, nil
}

// chunk dispatches the body of h and returns the body bytes consumed. Leaf
// bytes not claimed by a decoder are skipped so the parent stays aligned.
func (d *decoder) chunk(h Header, obj *Object, mat *Material) (int64, error) {
	body := h.Body()

	var n int64
	var err error
	switch h.Kind {
	case KindVersion:
		n, err = d.version(body)
	case KindObjectInfo:
		n, err = d.objectInfo(body)
	case KindMaterial:
		n, err = d.walk(body, nil, d.scene.addMaterial())
	case KindObject:
		n, err = d.object(body)
	case KindObjectMesh:
		n, err = d.walk(body, obj, nil)
	case KindObjectVertices:
		if obj != nil {
			n, err = d.vertices(body, obj)
		}
	case KindObjectFaces:
		if obj != nil {
			n, err = d.faces(body, obj)
		}
	case KindObjectUV:
		if obj != nil {
			n, err = d.uvs(body, obj)
		}
	case KindObjectMaterial:
		if obj != nil {
			n, err = d.materialRef(body, obj)
		}
	case KindMaterialName:
		if mat != nil {
			n, err = d.materialName(body, mat)
		}
	case KindMaterialDiffuse:
		if mat != nil {
			n, err = d.diffuse(body, mat)
		}
	}
	if err != nil {
		return n, locate(h, err)
	}
	if n > body {
		return n, locate(h, formatErrorf("decoded %d body bytes, declared %d", n, body))
	}
	if err := d.cur.Skip(body - n); err != nil {
		return n, locate(h, err)
	}
	return body, nil
}

func (d *decoder) objectInfo(body int64) (int64, error) {
	const prefix = HeaderSize + 4
	if body < prefix {
		return 0, formatErrorf("body of %d bytes cannot hold the mesh version", body)
	}
	if _, _, err := readHeader(d.cur); err != nil {
		return 0, err
	}
	mv, err := d.cur.I32()
	if err != nil {
		return HeaderSize, err
	}
	d.scene.MeshVersion = mv

	n, err := d.walk(body-prefix, nil, nil)
	return prefix + n, err
}

func (d *decoder) object(body int64) (int64, error) {
	obj := d.scene.addObject()
	name, n, err := d.cur.CString(body)
	if err != nil {
		return 0, err
	}
	obj.Name = name

	child, err := d.walk(body-n, obj, nil)
	return n + child, err
}

func (d *decoder) warnf(format string, args ...any) {
	d.scene.Warnings = append(d.scene.Warnings, fmt.Sprintf(format, args...))
}

// locate wraps err with the position of h unless a deeper chunk already did.
func locate(h Header, err error) error {
	var ce *ChunkError
	if errors.As(err, &ce) {
		return err
	}
	return &ChunkError{Offset: h.Offset, Kind: h.Kind, Err: err}
}
