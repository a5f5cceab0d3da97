package tds

import (
	"bytes"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"tds-scene/internal/tds/tdstest"
)

func decodeBytes(t *testing.T, data []byte) *Scene {
	t.Helper()
	s, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return s
}

func TestDecodeCubeScenario(t *testing.T) {
	data := tdstest.File(
		tdstest.VersionChunk(3),
		tdstest.ObjectInfoChunk(3,
			tdstest.ObjectChunk("Cube",
				tdstest.VerticesChunk([3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}),
				tdstest.FacesChunk([4]int16{0, 1, 2, 0}),
			),
		),
	)
	s := decodeBytes(t, data)

	if len(s.Objects) != 1 || len(s.Materials) != 0 {
		t.Fatalf("got %d objects, %d materials", len(s.Objects), len(s.Materials))
	}
	o := s.Objects[0]
	if o.Name != "Cube" || len(o.Vertices) != 3 || len(o.Triangles) != 1 {
		t.Fatalf("object = %+v", o)
	}
	if s.Version != 3 || s.MeshVersion != 3 {
		t.Fatalf("version=%d mesh version=%d", s.Version, s.MeshVersion)
	}
	if len(s.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", s.Warnings)
	}
}

func TestDecodeVerticesSwapUpAxis(t *testing.T) {
	data := tdstest.File(tdstest.ObjectChunk("o", tdstest.MeshChunk(tdstest.VerticesChunk([3]float32{1, 2, 3}, [3]float32{4, 5, 6}))))
	got := decodeBytes(t, data).Objects[0].Vertices
	want := [][3]float32{{1, 3, 2}, {4, 6, 5}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("vertices = %v, want %v", got, want)
	}
}

func TestDecodeFacesDropFlag(t *testing.T) {
	data := tdstest.File(tdstest.ObjectChunk("o", tdstest.MeshChunk(tdstest.FacesChunk([4]int16{0, 1, 2, 99}))))
	got := decodeBytes(t, data).Objects[0].Triangles
	if len(got) != 1 || got[0] != [3]int16{0, 1, 2} {
		t.Fatalf("triangles = %v", got)
	}
}

func TestDecodeUVs(t *testing.T) {
	data := tdstest.File(tdstest.ObjectChunk("o", tdstest.MeshChunk(
		tdstest.VerticesChunk([3]float32{0, 0, 0}, [3]float32{1, 0, 0}),
		tdstest.UVChunk([2]float32{0, 0.5}, [2]float32{1, 0.25}),
	)))
	o := decodeBytes(t, data).Objects[0]
	if len(o.UVs) != len(o.Vertices) || o.UVs[1] != [2]float32{1, 0.25} {
		t.Fatalf("uvs = %v", o.UVs)
	}
}

func TestDecodeDiffuseNormalized(t *testing.T) {
	s := decodeBytes(t, tdstest.File(tdstest.ObjectInfoChunk(3, tdstest.MaterialChunk("Orange", 255, 128, 0))))
	if len(s.Materials) != 1 {
		t.Fatalf("got %d materials", len(s.Materials))
	}
	m := s.Materials[0]
	want := [3]float32{1, 0.50196, 0}
	for i := range want {
		if math.Abs(float64(m.Diffuse[i]-want[i])) > 1e-4 {
			t.Fatalf("diffuse = %v, want %v", m.Diffuse, want)
		}
	}
	if m.Name != "Orange" {
		t.Fatalf("name = %q", m.Name)
	}
}

func TestDecodeDiffuseWithLinearColor(t *testing.T) {
	mat := tdstest.Chunk(tdstest.TagMaterial,
		tdstest.Chunk(tdstest.TagMaterialDiffuse,
			tdstest.Chunk(tdstest.TagColor24, []byte{10, 20, 30}),
			tdstest.Chunk(0x0012, []byte{1, 2, 3}),
		),
		tdstest.Chunk(tdstest.TagMaterialName, tdstest.CString("Late")),
	)
	m := decodeBytes(t, tdstest.File(mat)).Materials[0]
	if m.Name != "Late" || m.Diffuse[0] != 10.0/255 {
		t.Fatalf("material = %+v", m)
	}
}

func TestDecodeMaterialAssignment(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"exact", "Steel", "Steel"},
		{"padded", " Steel  ", "Steel"},
		{"unknown", "Gold", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tdstest.File(tdstest.ObjectInfoChunk(3,
				tdstest.MaterialChunk("Steel", 1, 2, 3),
				tdstest.ObjectChunk("Box", tdstest.MeshChunk(tdstest.ObjectMaterialChunk(tt.ref, 0, 1, 2))),
			))
			s := decodeBytes(t, data)
			if got := s.Objects[0].Material; got != tt.want {
				t.Fatalf("material = %q, want %q", got, tt.want)
			}
			if tt.want != "" && s.Material(tt.want) == nil {
				t.Fatalf("Material(%q) = nil", tt.want)
			}
		})
	}
}

func TestDecodeMaterialDefinedLaterIsNotBound(t *testing.T) {
	data := tdstest.File(tdstest.ObjectInfoChunk(3,
		tdstest.ObjectChunk("Box", tdstest.MeshChunk(tdstest.ObjectMaterialChunk("Steel"))),
		tdstest.MaterialChunk("Steel", 1, 2, 3),
	))
	if got := decodeBytes(t, data).Objects[0].Material; got != "" {
		t.Fatalf("material = %q, want unbound", got)
	}
}

func TestDecodeObjectsAtAnyDepth(t *testing.T) {
	data := tdstest.File(
		tdstest.ObjectChunk("A"),
		tdstest.ObjectInfoChunk(3,
			tdstest.ObjectChunk("B", tdstest.MeshChunk(tdstest.ObjectChunk("C"))),
			tdstest.Chunk(0x1234, tdstest.ObjectChunk("hidden")),
		),
	)
	s := decodeBytes(t, data)
	var names []string
	for _, o := range s.Objects {
		names = append(names, o.Name)
	}
	if len(names) != 3 || names[0] != "A" || names[1] != "B" || names[2] != "C" {
		t.Fatalf("objects = %v", names)
	}
}

func TestDecodeSkipsUnknownChunks(t *testing.T) {
	data := tdstest.File(
		tdstest.Chunk(0xB000, bytes.Repeat([]byte{0xFF}, 100)),
		tdstest.ObjectInfoChunk(3,
			tdstest.Chunk(0x0100, tdstest.F32(1)),
			tdstest.ObjectChunk("Box",
				tdstest.Chunk(0x4600, bytes.Repeat([]byte{1}, 9)),
				tdstest.MeshChunk(tdstest.Chunk(0x4160, tdstest.F32(1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0)), tdstest.VerticesChunk([3]float32{1, 1, 1})),
			),
		),
	)
	s := decodeBytes(t, data)
	if len(s.Objects) != 1 || len(s.Objects[0].Vertices) != 1 {
		t.Fatalf("objects = %+v", s.Objects)
	}
}

func TestDecodeLeafWithoutOwnerIsSkipped(t *testing.T) {
	data := tdstest.File(tdstest.ObjectInfoChunk(3,
		tdstest.VerticesChunk([3]float32{1, 2, 3}),
		tdstest.Chunk(tdstest.TagMaterialName, tdstest.CString("orphan")),
		tdstest.ObjectChunk("Box"),
	))
	s := decodeBytes(t, data)
	if len(s.Objects) != 1 || s.Objects[0].Vertices != nil || len(s.Materials) != 0 {
		t.Fatalf("scene = %+v", s)
	}
}

func TestDecodeVersionWarning(t *testing.T) {
	tests := []struct {
		version  int32
		warnings int
	}{
		{2, 0},
		{3, 0},
		{4, 1},
		{10, 1},
	}
	for _, tt := range tests {
		s := decodeBytes(t, tdstest.File(tdstest.VersionChunk(tt.version)))
		if len(s.Warnings) != tt.warnings {
			t.Errorf("version %d: warnings = %v", tt.version, s.Warnings)
		}
		if s.Version != tt.version {
			t.Errorf("version = %d, want %d", s.Version, tt.version)
		}
	}
}

func TestDecodeRootMismatch(t *testing.T) {
	// Only a header: any read past it would report truncation instead.
	_, err := Decode(bytes.NewReader(tdstest.Raw(tdstest.TagObjectInfo, 1000, nil)))
	if !errors.Is(err, ErrFormat) || errors.Is(err, ErrTruncated) {
		t.Fatalf("got %v, want ErrFormat", err)
	}
}

func TestDecodeFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"root shorter than header", tdstest.Raw(tdstest.TagMain, 3, nil)},
		{"child shorter than header", tdstest.File(tdstest.Raw(0x1234, 2, nil))},
		{"child exceeds parent", tdstest.File(tdstest.ObjectChunk("o", tdstest.Raw(0x1234, 100, make([]byte, 10))), make([]byte, 200))},
		{"stray bytes in parent", append(tdstest.Chunk(tdstest.TagMain, tdstest.VersionChunk(3), []byte{1, 2, 3}), make([]byte, 10)...)},
		{"vertex count overruns body", tdstest.File(tdstest.ObjectChunk("o", tdstest.Raw(tdstest.TagObjectVertices, 6+2+12, append(tdstest.U16(5), tdstest.F32(1, 2, 3)...))))},
		{"face count overruns body", tdstest.File(tdstest.ObjectChunk("o", tdstest.Raw(tdstest.TagObjectFaces, 6+2, tdstest.U16(1))))},
		{"negative uv count", tdstest.File(tdstest.ObjectChunk("o", tdstest.Chunk(tdstest.TagObjectUV, tdstest.I16(-1))))},
		{"object name overruns body", tdstest.File(tdstest.Chunk(tdstest.TagObject, []byte("abc")), make([]byte, 10))},
		{"diffuse too short", tdstest.File(tdstest.Chunk(tdstest.TagMaterial, tdstest.Chunk(tdstest.TagMaterialDiffuse, []byte{1, 2})))},
		{"version too short", tdstest.File(tdstest.Chunk(tdstest.TagVersion, tdstest.U16(3)))},
		{"object info too short", tdstest.File(tdstest.Chunk(tdstest.TagObjectInfo, tdstest.I32(3)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("got %v, want ErrFormat", err)
			}
			if s != nil {
				t.Fatalf("partial scene returned: %+v", s)
			}
		})
	}
}

func TestDecodeChunkErrorLocation(t *testing.T) {
	bad := tdstest.Chunk(tdstest.TagObjectUV, tdstest.I16(-1))
	data := tdstest.File(tdstest.ObjectChunk("o", bad))
	_, err := Decode(bytes.NewReader(data))
	var ce *ChunkError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want *ChunkError", err)
	}
	want := int64(len(data) - len(bad))
	if ce.Kind != KindObjectUV || ce.Offset != want {
		t.Fatalf("chunk error at %s/%d, want %s/%d", ce.Kind, ce.Offset, KindObjectUV, want)
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := tdstest.Cube()
	for n := 0; n < len(data); n++ {
		s, err := Decode(bytes.NewReader(data[:n]))
		if !errors.Is(err, ErrTruncated) {
			t.Fatalf("cut at %d: got %v, want ErrTruncated", n, err)
		}
		if s != nil {
			t.Fatalf("cut at %d: partial scene returned", n)
		}
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	data := append(tdstest.Cube(), 0xDE, 0xAD)
	if s := decodeBytes(t, data); len(s.Objects) != 1 {
		t.Fatalf("got %d objects", len(s.Objects))
	}
}

func TestDecodeCube(t *testing.T) {
	s := decodeBytes(t, tdstest.Cube())
	if st := s.Stats(); st != (Stats{Objects: 1, Materials: 1, Vertices: 8, Triangles: 12}) {
		t.Fatalf("stats = %+v", st)
	}
	o := s.Objects[0]
	if o.Material != "Red" || s.Material("Red").Diffuse != [3]float32{1, 0, 0} {
		t.Fatalf("cube material = %q", o.Material)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.3ds")
	if err := os.WriteFile(path, tdstest.Cube(), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Objects) != 1 || s.Objects[0].Name != "Cube" {
		t.Fatalf("objects = %+v", s.Objects)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.3ds"))
	if !errors.Is(err, ErrIO) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file: got %v", err)
	}
}

func TestDecodeConcurrent(t *testing.T) {
	data := tdstest.Cube()
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := Decode(bytes.NewReader(data))
			if err == nil && len(s.Objects) != 1 {
				err = errors.New("wrong object count")
			}
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
