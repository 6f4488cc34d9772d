// Package mesh holds the triangle mesh model used for shard matching and
// reads shard meshes from disk.
package mesh

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/pickplace.report/internal/geom"
)

var (
	// ErrUnsupportedFormat is returned for mesh files the importer cannot read.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")

	// ErrInvalidMesh is returned when a mesh file does not parse or its faces
	// reference missing vertices.
	ErrInvalidMesh = errors.New("invalid mesh")
)

// Mesh is an indexed triangle mesh. Colors and Normals are either empty or
// hold one entry per vertex.
type Mesh struct {
	Vertices []r3.Vec
	Colors   []color.RGBA
	Faces    [][3]int
	Normals  []r3.Vec
}

// VertexCount returns the number of vertices; a nil mesh has none.
func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Vertices)
}

// FaceCount returns the number of triangles; a nil mesh has none.
func (m *Mesh) FaceCount() int {
	if m == nil {
		return 0
	}
	return len(m.Faces)
}

// HasColors reports whether every vertex carries a colour.
func (m *Mesh) HasColors() bool {
	return m != nil && len(m.Vertices) > 0 && len(m.Colors) == len(m.Vertices)
}

// IsEmpty reports whether the mesh has no vertices.
func (m *Mesh) IsEmpty() bool {
	return m.VertexCount() == 0
}

// Validate checks face indices and per-vertex attribute lengths.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	if len(m.Colors) != 0 && len(m.Colors) != n {
		return fmt.Errorf("%w: %d colours for %d vertices", ErrInvalidMesh, len(m.Colors), n)
	}
	if len(m.Normals) != 0 && len(m.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidMesh, len(m.Normals), n)
	}
	for i, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= n {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidMesh, i, v, n)
			}
		}
	}
	return nil
}

// ComputeNormals sets area-weighted vertex normals from the faces. Vertices
// that touch no face, or only degenerate ones, get the zero vector.
func (m *Mesh) ComputeNormals() {
	normals := make([]r3.Vec, len(m.Vertices))
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		// The cross product's length is twice the triangle area.
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		for _, v := range f {
			normals[v] = r3.Add(normals[v], n)
		}
	}
	for i, n := range normals {
		if l := r3.Norm(n); l > 0 {
			normals[i] = r3.Scale(1/l, n)
		}
	}
	m.Normals = normals
}

// Compact drops faces that repeat a vertex, then vertices no face uses.
// Faces are reindexed and colours and normals follow their vertices. It
// returns the number of vertices removed. The mesh must pass Validate.
func (m *Mesh) Compact() int {
	faces := m.Faces[:0]
	for _, f := range m.Faces {
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			continue
		}
		faces = append(faces, f)
	}
	m.Faces = faces

	remap := make([]int, len(m.Vertices))
	for i := range remap {
		remap[i] = -1
	}
	for _, f := range m.Faces {
		for _, v := range f {
			remap[v] = 0
		}
	}

	next := 0
	for i, used := range remap {
		if used < 0 {
			continue
		}
		remap[i] = next
		m.Vertices[next] = m.Vertices[i]
		if len(m.Colors) > i {
			m.Colors[next] = m.Colors[i]
		}
		if len(m.Normals) > i {
			m.Normals[next] = m.Normals[i]
		}
		next++
	}
	removed := len(m.Vertices) - next
	m.Vertices = m.Vertices[:next]
	if len(m.Colors) > 0 {
		m.Colors = m.Colors[:next]
	}
	if len(m.Normals) > 0 {
		m.Normals = m.Normals[:next]
	}
	for i, f := range m.Faces {
		m.Faces[i] = [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
	return removed
}

// Transform returns a copy of the mesh moved by t.
func (m *Mesh) Transform(t geom.Transform) *Mesh {
	out := &Mesh{
		Vertices: make([]r3.Vec, len(m.Vertices)),
		Colors:   append([]color.RGBA(nil), m.Colors...),
		Faces:    append([][3]int(nil), m.Faces...),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = t.ApplyPoint(v)
	}
	if len(m.Normals) > 0 {
		out.Normals = make([]r3.Vec, len(m.Normals))
		for i, n := range m.Normals {
			out.Normals[i] = t.ApplyVector(n)
		}
	}
	return out
}

// Centroid returns the mean vertex position, or the zero vector for an
// empty mesh.
func (m *Mesh) Centroid() r3.Vec {
	var sum r3.Vec
	if m.IsEmpty() {
		return sum
	}
	for _, v := range m.Vertices {
		sum = r3.Add(sum, v)
	}
	return r3.Scale(1/float64(len(m.Vertices)), sum)
}
