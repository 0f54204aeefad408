package asset

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// MeshData is the CPU side of a mesh. Indices describe triangles.
type MeshData struct {
	Vertices []mgl32.Vec3
	UVs      []mgl32.Vec2
	Indices  []uint32
}

type meshFile struct {
	Vertices [][3]float32 `yaml:"vertices"`
	UVs      [][2]float32 `yaml:"uvs"`
	Indices  []uint32     `yaml:"indices"`
}

// ParseMesh decodes a yaml mesh description.
func ParseMesh(data []byte) (*MeshData, error) {
	var f meshFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("asset: unmarshal mesh: %w", err)
	}
	if len(f.Indices)%3 != 0 {
		return nil, fmt.Errorf("asset: mesh index count %d is not a multiple of 3", len(f.Indices))
	}
	m := &MeshData{
		Vertices: make([]mgl32.Vec3, len(f.Vertices)),
		Indices:  f.Indices,
	}
	for i, v := range f.Vertices {
		m.Vertices[i] = mgl32.Vec3(v)
	}
	if len(f.UVs) > 0 {
		if len(f.UVs) != len(f.Vertices) {
			return nil, fmt.Errorf("asset: mesh has %d uvs for %d vertices", len(f.UVs), len(f.Vertices))
		}
		m.UVs = make([]mgl32.Vec2, len(f.UVs))
		for i, uv := range f.UVs {
			m.UVs[i] = mgl32.Vec2(uv)
		}
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return nil, fmt.Errorf("asset: mesh index %d out of range", idx)
		}
	}
	return m, nil
}

// BoundingRadius is the distance from the local origin to the furthest
// vertex.
func (m *MeshData) BoundingRadius() float32 {
	var r float32
	for _, v := range m.Vertices {
		r = max(r, v.Len())
	}
	return r
}

// Cube returns a unit cube centred on the origin with per-face uvs.
func Cube() *MeshData {
	faces := [6][4]mgl32.Vec3{
		{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},
		{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}},
		{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}},
		{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}},
		{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}},
		{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}},
	}
	uvs := [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	m := &MeshData{}
	for _, face := range faces {
		base := uint32(len(m.Vertices))
		for i, v := range face {
			m.Vertices = append(m.Vertices, v)
			m.UVs = append(m.UVs, uvs[i])
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// Plane returns a size x size quad on the XZ plane facing +Y.
func Plane(size float32) *MeshData {
	h := size / 2
	return &MeshData{
		Vertices: []mgl32.Vec3{{-h, 0, h}, {h, 0, h}, {h, 0, -h}, {-h, 0, -h}},
		UVs:      []mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
}
