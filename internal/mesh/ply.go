package mesh

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/chenzhekl/goply"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadPLY parses an ASCII PLY stream. Vertex positions come from x, y and
// z; red, green and blue are read when all three are present, as 0-255
// integers or 0-1 floats. Polygon faces are split into triangle fans.
func ReadPLY(r io.Reader) (m *Mesh, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ply: %w", err)
	}
	if header, _, ok := bytes.Cut(data, []byte("end_header")); ok && bytes.Contains(header, []byte("format binary")) {
		return nil, fmt.Errorf("%w: binary PLY", ErrUnsupportedFormat)
	}
	// The parser reads any line after the body as a header keyword.
	data = append(bytes.TrimRight(data, " \t\r\n"), '\n')

	defer func() {
		if p := recover(); p != nil {
			m = nil
			err = fmt.Errorf("%w: %v", ErrInvalidMesh, p)
		}
	}()
	ply := goply.New(bytes.NewReader(data))

	vertices := ply.Elements("vertex")
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%w: no vertices", ErrInvalidMesh)
	}
	m = &Mesh{Vertices: make([]r3.Vec, len(vertices))}
	withColor := hasColor(vertices[0])
	if withColor {
		m.Colors = make([]color.RGBA, len(vertices))
	}
	for i, v := range vertices {
		x, okx := number(v["x"])
		y, oky := number(v["y"])
		z, okz := number(v["z"])
		if !okx || !oky || !okz {
			return nil, fmt.Errorf("%w: vertex %d has no x, y, z", ErrInvalidMesh, i)
		}
		m.Vertices[i] = r3.Vec{X: x, Y: y, Z: z}
		if withColor {
			m.Colors[i] = color.RGBA{
				R: channel(v["red"]),
				G: channel(v["green"]),
				B: channel(v["blue"]),
				A: 255,
			}
		}
	}

	for i, f := range ply.Elements("face") {
		list, ok := f["vertex_indices"].([]interface{})
		if !ok {
			list, ok = f["vertex_index"].([]interface{})
		}
		if !ok || len(list) < 3 {
			return nil, fmt.Errorf("%w: face %d has fewer than 3 vertices", ErrInvalidMesh, i)
		}
		idx := make([]int, len(list))
		for k, item := range list {
			v, ok := number(item)
			if !ok {
				return nil, fmt.Errorf("%w: face %d has a non-integer index", ErrInvalidMesh, i)
			}
			idx[k] = int(v)
		}
		for k := 1; k+1 < len(idx); k++ {
			m.Faces = append(m.Faces, [3]int{idx[0], idx[k], idx[k+1]})
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func hasColor(v goply.PlyElement) bool {
	for _, k := range []string{"red", "green", "blue"} {
		if _, ok := number(v[k]); !ok {
			return false
		}
	}
	return true
}

// number widens any PLY scalar property to float64.
func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case int8:
		return float64(n), true
	case uint8:
		return float64(n), true
	case int16:
		return float64(n), true
	case uint16:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

// channel maps a colour property to 0-255. Float channels are 0-1 and are
// scaled and truncated; integer channels are clamped.
func channel(v interface{}) uint8 {
	f, _ := number(v)
	switch v.(type) {
	case float32, float64:
		f *= 255
	}
	return uint8(math.Max(0, math.Min(255, f)))
}
