package tds

import "strings"

// fits rejects a fixed-size payload that would overrun the chunk body.
func fits(what string, need, body int64) error {
	if need > body {
		return formatErrorf("%s needs %d bytes, body has %d", what, need, body)
	}
	return nil
}

func (d *decoder) version(body int64) (int64, error) {
	if err := fits("version", 4, body); err != nil {
		return 0, err
	}
	v, err := d.cur.I32()
	if err != nil {
		return 0, err
	}
	d.scene.Version = v
	if v > MaxVersion {
		d.warnf("file version %d is newer than %d, it may load incorrectly", v, MaxVersion)
	}
	return 4, nil
}

// vertices stores positions with the source Z-up axis swapped into Y.
func (d *decoder) vertices(body int64, obj *Object) (int64, error) {
	if err := fits("vertex count", 2, body); err != nil {
		return 0, err
	}
	count, err := d.cur.U16()
	if err != nil {
		return 0, err
	}
	n := 2 + 12*int64(count)
	if err := fits("vertex list", n, body); err != nil {
		return 2, err
	}

	verts := make([][3]float32, count)
	for i := range verts {
		var p [3]float32
		for k := range p {
			if p[k], err = d.cur.F32(); err != nil {
				return 2, err
			}
		}
		verts[i] = [3]float32{p[0], p[2], p[1]}
	}
	obj.Vertices = verts
	return n, nil
}

// faces keeps three indices per face and drops the edge-visibility flag.
func (d *decoder) faces(body int64, obj *Object) (int64, error) {
	if err := fits("face count", 2, body); err != nil {
		return 0, err
	}
	count, err := d.cur.U16()
	if err != nil {
		return 0, err
	}
	n := 2 + 8*int64(count)
	if err := fits("face list", n, body); err != nil {
		return 2, err
	}

	tris := make([][3]int16, count)
	for i := range tris {
		var f [4]int16
		for k := range f {
			if f[k], err = d.cur.I16(); err != nil {
				return 2, err
			}
		}
		tris[i] = [3]int16{f[0], f[1], f[2]}
	}
	obj.Triangles = tris
	return n, nil
}

func (d *decoder) uvs(body int64, obj *Object) (int64, error) {
	if err := fits("uv count", 2, body); err != nil {
		return 0, err
	}
	count, err := d.cur.I16()
	if err != nil {
		return 0, err
	}
	if count < 0 {
		return 2, formatErrorf("negative uv count %d", count)
	}
	n := 2 + 8*int64(count)
	if err := fits("uv list", n, body); err != nil {
		return 2, err
	}

	uvs := make([][2]float32, count)
	for i := range uvs {
		if uvs[i][0], err = d.cur.F32(); err != nil {
			return 2, err
		}
		if uvs[i][1], err = d.cur.F32(); err != nil {
			return 2, err
		}
	}
	obj.UVs = uvs
	return n, nil
}

// materialRef binds obj to an already decoded material. The face list that
// follows the name is not used.
func (d *decoder) materialRef(body int64, obj *Object) (int64, error) {
	name, n, err := d.cur.CString(body)
	if err != nil {
		return 0, err
	}
	if m := d.scene.Material(strings.TrimSpace(name)); m != nil {
		obj.Material = m.Name
	}
	if err := d.cur.Skip(body - n); err != nil {
		return n, err
	}
	return body, nil
}

func (d *decoder) materialName(body int64, mat *Material) (int64, error) {
	name, n, err := d.cur.CString(body)
	if err != nil {
		return 0, err
	}
	mat.Name = name
	return n, nil
}

// diffuse reads the first color sub-chunk as 24-bit RGB.
func (d *decoder) diffuse(body int64, mat *Material) (int64, error) {
	if err := fits("diffuse color", HeaderSize+3, body); err != nil {
		return 0, err
	}
	if _, _, err := readHeader(d.cur); err != nil {
		return 0, err
	}
	rgb, err := d.cur.Bytes(3)
	if err != nil {
		return HeaderSize, err
	}
	mat.Diffuse = [3]float32{normalizeColor(rgb[0]), normalizeColor(rgb[1]), normalizeColor(rgb[2])}
	return HeaderSize + 3, nil
}

func normalizeColor(v byte) float32 {
	return float32(v) / 255
}
