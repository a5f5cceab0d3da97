package tds

// MaxVersion is the newest file version the decoder was written against.
// Newer files are decoded with a warning.
const MaxVersion = 3

// Object holds the geometry of one named object. Vertices are Y-up.
type Object struct {
	Name      string
	Vertices  [][3]float32
	Triangles [][3]int16 // vertex indices
	UVs       [][2]float32
	Material  string // name of a Material in the same Scene, empty if none
}

// Material holds a named surface with its diffuse color in [0, 1].
type Material struct {
	Name    string
	Diffuse [3]float32
}

// Scene is the decoded content of one 3DS stream, in decode order.
type Scene struct {
	Version     int32
	MeshVersion int32
	Objects     []*Object
	Materials   []*Material
	Warnings    []string
}

// Material returns the first material with the given name, or nil.
func (s *Scene) Material(name string) *Material {
	for _, m := range s.Materials {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Stats summarizes a scene.
type Stats struct {
	Objects   int `json:"objects"`
	Materials int `json:"materials"`
	Vertices  int `json:"vertices"`
	Triangles int `json:"triangles"`
}

// Stats returns object, material, vertex and triangle totals.
func (s *Scene) Stats() Stats {
	st := Stats{Objects: len(s.Objects), Materials: len(s.Materials)}
	for _, o := range s.Objects {
		st.Vertices += len(o.Vertices)
		st.Triangles += len(o.Triangles)
	}
	return st
}

func (s *Scene) addObject() *Object {
	o := &Object{}
	s.Objects = append(s.Objects, o)
	return o
}

func (s *Scene) addMaterial() *Material {
	m := &Material{}
	s.Materials = append(s.Materials, m)
	return m
}
