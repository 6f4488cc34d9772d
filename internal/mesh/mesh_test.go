package mesh

import (
	"errors"
	"image/color"
	"io/fs"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/pickplace.report/internal/fsutil"
	"github.com/banshee-data/pickplace.report/internal/geom"
	"github.com/banshee-data/pickplace.report/internal/monitoring"
	"github.com/banshee-data/pickplace.report/internal/testutil"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	m.Run()
}

func TestReadPLY_ColouredTriangles(t *testing.T) {
	m, err := ReadPLY(strings.NewReader(testutil.TwoTrianglePLY))
	require.NoError(t, err)

	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount())
	assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, m.Faces)
	assert.Equal(t, r3.Vec{X: 1, Y: 1}, m.Vertices[2])

	require.True(t, m.HasColors())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, m.Colors[0])
	assert.Equal(t, color.RGBA{G: 255, A: 255}, m.Colors[1])
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, m.Colors[3])
	assert.Empty(t, m.Normals)
}

func TestReadPLY_QuadIsFanTriangulated(t *testing.T) {
	m, err := ReadPLY(strings.NewReader(testutil.QuadPLY))
	require.NoError(t, err)

	assert.False(t, m.HasColors())
	assert.Equal(t, [][3]int{{0, 1, 2}, {0, 2, 3}}, m.Faces)
}

func TestReadPLY_FloatColours(t *testing.T) {
	src := `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
property float red
property float green
property float blue
element face 1
property list uchar uint vertex_index
end_header
0 0 0 1 0.5 0
1 0 0 0 0 0
0 1 0 0.25 1 1
3 0 1 2
`
	m, err := ReadPLY(strings.NewReader(src))
	require.NoError(t, err)
	require.True(t, m.HasColors())
	assert.Equal(t, color.RGBA{R: 255, G: 127, A: 255}, m.Colors[0])
	assert.Equal(t, color.RGBA{R: 63, G: 255, B: 255, A: 255}, m.Colors[2])
	assert.Equal(t, [][3]int{{0, 1, 2}}, m.Faces)
}

func TestReadPLY_TrailingBlankLines(t *testing.T) {
	m, err := ReadPLY(strings.NewReader(testutil.QuadPLY + "\n\n  \n"))
	require.NoError(t, err)
	assert.Equal(t, 4, m.VertexCount())
}

func TestReadPLY_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"binary", "ply\nformat binary_little_endian 1.0\nelement vertex 0\nend_header\n", ErrUnsupportedFormat},
		{"not ply", "solid cube\nfacet normal 0 0 1\n", ErrInvalidMesh},
		{"empty", "", ErrInvalidMesh},
		{"no vertices", "ply\nformat ascii 1.0\nend_header\n", ErrInvalidMesh},
		{"bad number", strings.Replace(testutil.QuadPLY, "1 1 0\n", "1 one 0\n", 1), ErrInvalidMesh},
		{"index out of range", strings.Replace(testutil.QuadPLY, "4 0 1 2 3", "4 0 1 2 9", 1), ErrInvalidMesh},
		{"short body", strings.Replace(testutil.QuadPLY, "4 0 1 2 3\n", "", 1), ErrInvalidMesh},
		{"two-vertex face", strings.Replace(testutil.QuadPLY, "4 0 1 2 3", "2 0 1", 1), ErrInvalidMesh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadPLY(strings.NewReader(tt.src))
			assert.Nil(t, m)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestComputeNormals(t *testing.T) {
	m, err := ReadPLY(strings.NewReader(testutil.TwoTrianglePLY))
	require.NoError(t, err)
	m.Vertices = append(m.Vertices, r3.Vec{X: 5})
	m.Colors = append(m.Colors, color.RGBA{})

	m.ComputeNormals()
	require.Len(t, m.Normals, 5)
	for i := 0; i < 4; i++ {
		assert.Equal(t, r3.Vec{Z: 1}, m.Normals[i], "vertex %d", i)
	}
	assert.Equal(t, r3.Vec{}, m.Normals[4], "unused vertex")
}

func TestCompact(t *testing.T) {
	m := &Mesh{
		Vertices: []r3.Vec{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4}},
		Colors: []color.RGBA{
			{R: 0}, {R: 1}, {R: 2}, {R: 3}, {R: 4},
		},
		Faces: [][3]int{{0, 2, 4}, {1, 1, 3}},
	}
	m.ComputeNormals()

	removed := m.Compact()
	assert.Equal(t, 2, removed)
	assert.Equal(t, []r3.Vec{{X: 0}, {X: 2}, {X: 4}}, m.Vertices)
	assert.Equal(t, []color.RGBA{{R: 0}, {R: 2}, {R: 4}}, m.Colors)
	assert.Equal(t, [][3]int{{0, 1, 2}}, m.Faces)
	assert.Len(t, m.Normals, 3)
	assert.NoError(t, m.Validate())
}

func TestCompact_NothingToDo(t *testing.T) {
	m, err := ReadPLY(strings.NewReader(testutil.QuadPLY))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Compact())
	assert.Equal(t, 4, m.VertexCount())
}

func TestTransform(t *testing.T) {
	m, err := ReadPLY(strings.NewReader(testutil.TwoTrianglePLY))
	require.NoError(t, err)
	m.ComputeNormals()

	tr := geom.Translation(r3.Vec{X: 10}).Mul(geom.RotationX(math.Pi))
	moved := m.Transform(tr)

	assert.Equal(t, r3.Vec{}, m.Vertices[0], "source is not modified")
	assert.InDelta(t, 11, moved.Vertices[2].X, 1e-12)
	assert.InDelta(t, -1, moved.Vertices[2].Y, 1e-12)
	assert.InDelta(t, -1, moved.Normals[0].Z, 1e-12)
	assert.Equal(t, m.Faces, moved.Faces)
	assert.Equal(t, m.Colors, moved.Colors)

	moved.Faces[0][0] = 3
	assert.Equal(t, 0, m.Faces[0][0], "faces are copied")
}

func TestCentroidAndCounts(t *testing.T) {
	var nilMesh *Mesh
	assert.Equal(t, 0, nilMesh.VertexCount())
	assert.Equal(t, 0, nilMesh.FaceCount())
	assert.False(t, nilMesh.HasColors())
	assert.True(t, nilMesh.IsEmpty())
	assert.Equal(t, r3.Vec{}, (&Mesh{}).Centroid())

	m, err := ReadPLY(strings.NewReader(testutil.QuadPLY))
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 0.5, Y: 0.5}, m.Centroid())
}

func TestValidate(t *testing.T) {
	base := func() *Mesh {
		return &Mesh{
			Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}},
			Faces:    [][3]int{{0, 1, 2}},
		}
	}
	assert.NoError(t, base().Validate())

	m := base()
	m.Colors = []color.RGBA{{}}
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)

	m = base()
	m.Normals = make([]r3.Vec, 4)
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)

	m = base()
	m.Faces = append(m.Faces, [3]int{0, 1, -1})
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
}

func TestImporter_Load(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/scan/s0.ply", []byte(testutil.TwoTrianglePLY), 0644))
	require.NoError(t, mfs.WriteFile("/scan/S1.PLY", []byte(testutil.QuadPLY), 0644))
	require.NoError(t, mfs.WriteFile("/scan/s2.obj", []byte("v 0 0 0\n"), 0644))
	require.NoError(t, mfs.WriteFile("/scan/bad.ply", []byte("garbage"), 0644))
	im := NewImporter(mfs)

	m, err := im.Load("/scan/s0.ply")
	require.NoError(t, err)
	assert.Equal(t, 4, m.VertexCount())
	assert.Len(t, m.Normals, 4)

	m, err = im.Load("/scan/S1.PLY")
	require.NoError(t, err)
	assert.Equal(t, 2, m.FaceCount())

	_, err = im.Load("/scan/s2.obj")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = im.Load("/scan/missing.ply")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = im.Load("/scan/bad.ply")
	assert.ErrorIs(t, err, ErrInvalidMesh)
	assert.Contains(t, err.Error(), "/scan/bad.ply")
}

func TestImporter_ImportOrEmpty(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/scan/s0.ply", []byte(testutil.TwoTrianglePLY), 0644))
	im := NewImporter(mfs)

	m, err := im.ImportOrEmpty("/scan/s0.ply")
	require.NoError(t, err)
	assert.Equal(t, 4, m.VertexCount())

	m, err = im.ImportOrEmpty("/scan/none.ply")
	assert.Error(t, err)
	require.NotNil(t, m)
	assert.True(t, m.IsEmpty())
}

func TestNewImporter_DefaultsToOS(t *testing.T) {
	im := NewImporter(nil)
	assert.Equal(t, fsutil.OSFileSystem{}, im.fs)
}
