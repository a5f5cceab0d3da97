package tds

import "fmt"

// Kind is the 16-bit type tag of a chunk. Tags outside the table below are
// still valid kinds; Known reports false for them and they are skipped.
type Kind uint16

const (
	KindVersion         Kind = 0x0002
	KindObjectInfo      Kind = 0x3D3D
	KindObject          Kind = 0x4000
	KindObjectMesh      Kind = 0x4100
	KindObjectVertices  Kind = 0x4110
	KindObjectFaces     Kind = 0x4120
	KindObjectMaterial  Kind = 0x4130
	KindObjectUV        Kind = 0x4140
	KindMain            Kind = 0x4D4D
	KindMaterialName    Kind = 0xA000
	KindMaterialDiffuse Kind = 0xA020
	KindMaterial        Kind = 0xAFFF
)

// HeaderSize is the encoded size of a chunk header: u16 tag + i32 length.
const HeaderSize = 6

var kindNames = map[Kind]string{
	KindVersion:         "Version",
	KindObjectInfo:      "ObjectInfo",
	KindObject:          "Object",
	KindObjectMesh:      "ObjectMesh",
	KindObjectVertices:  "ObjectVertices",
	KindObjectFaces:     "ObjectFaces",
	KindObjectMaterial:  "ObjectMaterial",
	KindObjectUV:        "ObjectUV",
	KindMain:            "Main",
	KindMaterialName:    "MaterialName",
	KindMaterialDiffuse: "MaterialDiffuse",
	KindMaterial:        "Material",
}

// Known reports whether k is one of the decoded chunk kinds.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return fmt.Sprintf("%s(0x%04X)", name, uint16(k))
	}
	return fmt.Sprintf("Unknown(0x%04X)", uint16(k))
}

// container reports whether the body of a chunk of this kind is a sequence of
// child chunks. Object bodies start with a name before their children.
func (k Kind) container() bool {
	switch k {
	case KindMain, KindObjectInfo, KindMaterial, KindObject, KindObjectMesh, KindMaterialDiffuse:
		return true
	}
	return false
}

// Header is a decoded chunk header.
type Header struct {
	Offset int64 // stream offset of the tag
	Kind   Kind
	Length int32 // declared length including the header
}

// Body returns the declared body length.
func (h Header) Body() int64 {
	return int64(h.Length) - HeaderSize
}

// readHeader decodes the next chunk header. The returned level counter
// starts at HeaderSize.
func readHeader(c *Cursor) (Header, int64, error) {
	off := c.Pos()
	tag, err := c.U16()
	if err != nil {
		return Header{}, 0, err
	}
	length, err := c.I32()
	if err != nil {
		return Header{}, 0, err
	}
	return Header{Offset: off, Kind: Kind(tag), Length: length}, HeaderSize, nil
}
