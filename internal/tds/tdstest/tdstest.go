// Package tdstest builds synthetic 3DS chunk streams for tests.
package tdstest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Chunk tags, duplicated here so tests can build streams without importing
// the decoder.
const (
	TagVersion         = 0x0002
	TagMeshVersion     = 0x3D3E
	TagObjectInfo      = 0x3D3D
	TagObject          = 0x4000
	TagObjectMesh      = 0x4100
	TagObjectVertices  = 0x4110
	TagObjectFaces     = 0x4120
	TagObjectMaterial  = 0x4130
	TagObjectUV        = 0x4140
	TagMain            = 0x4D4D
	TagMaterialName    = 0xA000
	TagMaterialDiffuse = 0xA020
	TagMaterial        = 0xAFFF
	TagColor24         = 0x0011
)

// Chunk encodes a chunk whose declared length covers the header and parts.
func Chunk(tag uint16, parts ...[]byte) []byte {
	body := bytes.Join(parts, nil)
	return Raw(tag, int32(6+len(body)), body)
}

// Raw encodes a chunk with an explicit declared length, for malformed input.
func Raw(tag uint16, length int32, body []byte) []byte {
	out := make([]byte, 6, 6+len(body))
	binary.LittleEndian.PutUint16(out, tag)
	binary.LittleEndian.PutUint32(out[2:], uint32(length))
	return append(out, body...)
}

func U16(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

func I16(vs ...int16) []byte {
	var out []byte
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint16(out, uint16(v))
	}
	return out
}

func I32(v int32) []byte {
	return binary.LittleEndian.AppendUint32(nil, uint32(v))
}

func F32(vs ...float32) []byte {
	var out []byte
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

// CString returns s followed by a terminating zero byte.
func CString(s string) []byte {
	return append([]byte(s), 0)
}

// VersionChunk encodes a file version chunk.
func VersionChunk(v int32) []byte {
	return Chunk(TagVersion, I32(v))
}

// ObjectInfoChunk encodes an TagObjectInfo container led by a mesh version chunk.
func ObjectInfoChunk(meshVersion int32, children ...[]byte) []byte {
	return Chunk(TagObjectInfo, append([][]byte{Chunk(TagMeshVersion, I32(meshVersion))}, children...)...)
}

// ObjectChunk encodes a named object whose children follow the name.
func ObjectChunk(name string, children ...[]byte) []byte {
	return Chunk(TagObject, append([][]byte{CString(name)}, children...)...)
}

// MeshChunk encodes an TagObjectMesh container.
func MeshChunk(children ...[]byte) []byte {
	return Chunk(TagObjectMesh, children...)
}

// VerticesChunk encodes points in source (Z-up) order.
func VerticesChunk(pts ...[3]float32) []byte {
	body := U16(uint16(len(pts)))
	for _, p := range pts {
		body = append(body, F32(p[0], p[1], p[2])...)
	}
	return Chunk(TagObjectVertices, body)
}

// FacesChunk encodes faces as three indices plus a flag word.
func FacesChunk(faces ...[4]int16) []byte {
	body := U16(uint16(len(faces)))
	for _, f := range faces {
		body = append(body, I16(f[0], f[1], f[2], f[3])...)
	}
	return Chunk(TagObjectFaces, body)
}

// UVChunk encodes texture coordinates.
func UVChunk(uvs ...[2]float32) []byte {
	body := I16(int16(len(uvs)))
	for _, uv := range uvs {
		body = append(body, F32(uv[0], uv[1])...)
	}
	return Chunk(TagObjectUV, body)
}

// ObjectMaterialChunk encodes a material assignment followed by a face list.
func ObjectMaterialChunk(name string, faces ...int16) []byte {
	body := append(CString(name), U16(uint16(len(faces)))...)
	return Chunk(TagObjectMaterial, body, I16(faces...))
}

// MaterialChunk encodes a material with a name and a 24-bit diffuse color.
func MaterialChunk(name string, r, g, b byte) []byte {
	return Chunk(TagMaterial,
		Chunk(TagMaterialName, CString(name)),
		Chunk(TagMaterialDiffuse, Chunk(TagColor24, []byte{r, g, b})),
	)
}

// File wraps children in a TagMain chunk.
func File(children ...[]byte) []byte {
	return Chunk(TagMain, children...)
}

// Cube returns a complete file with one red material and a unit cube object
// named "Cube" bound to it.
func Cube() []byte {
	pts := [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	faces := [][4]int16{
		{0, 2, 1, 7}, {0, 3, 2, 7},
		{4, 5, 6, 7}, {4, 6, 7, 7},
		{0, 1, 5, 7}, {0, 5, 4, 7},
		{2, 3, 7, 7}, {2, 7, 6, 7},
		{1, 2, 6, 7}, {1, 6, 5, 7},
		{0, 4, 7, 7}, {0, 7, 3, 7},
	}
	ids := make([]int16, len(faces))
	for i := range ids {
		ids[i] = int16(i)
	}
	return File(
		VersionChunk(3),
		ObjectInfoChunk(3,
			MaterialChunk("Red", 255, 0, 0),
			ObjectChunk("Cube",
				MeshChunk(
					VerticesChunk(pts...),
					FacesChunk(faces...),
					ObjectMaterialChunk("Red", ids...),
				),
			),
		),
	)
}
