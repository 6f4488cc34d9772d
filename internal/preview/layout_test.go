package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/pickplace.report/internal/fsutil"
	"github.com/banshee-data/pickplace.report/internal/geom"
	"github.com/banshee-data/pickplace.report/internal/monitoring"
	"github.com/banshee-data/pickplace.report/internal/scanlog"
	"github.com/banshee-data/pickplace.report/internal/testutil"
)

const pngMagic = "\x89PNG\r\n\x1a\n"

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	m.Run()
}

func sampleRecord(t *testing.T) *scanlog.ScanRecord {
	t.Helper()
	mfs := fsutil.NewMemoryFileSystem()
	testutil.WriteScanLog(t, mfs, "/scan", testutil.SampleLogYAML)
	rec, err := scanlog.NewCodec(scanlog.WithFileSystem(mfs)).Decode("/scan")
	require.NoError(t, err)
	return rec
}

func TestRenderLayout_PicksOnly(t *testing.T) {
	var buf bytes.Buffer
	err := RenderLayout(&buf, sampleRecord(t), nil, Options{SizeInches: 3})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), pngMagic))
}

func TestRenderLayout_WithPlaces(t *testing.T) {
	places := []geom.Plane{
		geom.WorldXY().Transform(geom.Translation(r3.Vec{X: 4, Y: 4})),
		geom.WorldXY().Transform(geom.Translation(r3.Vec{X: 5, Y: 4})),
	}
	var buf bytes.Buffer
	err := RenderLayout(&buf, sampleRecord(t), places, Options{SizeInches: 3, Title: "layout"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), pngMagic))
}

func TestRenderLayout_SVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderLayout(&buf, sampleRecord(t), nil, Options{Format: "svg"}))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderLayout_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderLayout(&buf, nil, nil, Options{}), ErrNothingToDraw)
	assert.ErrorIs(t, RenderLayout(&buf, &scanlog.ScanRecord{}, nil, Options{}), ErrNothingToDraw)

	err := RenderLayout(&buf, sampleRecord(t), []geom.Plane{geom.WorldXY()}, Options{})
	assert.ErrorIs(t, err, scanlog.ErrCountMismatch)

	err = RenderLayout(&buf, sampleRecord(t), nil, Options{Format: "bmp"})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestSaveLayout(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	rec := sampleRecord(t)

	require.NoError(t, SaveLayout(mfs, "/out/preview/layout.png", rec, nil, Options{SizeInches: 2}))
	data, err := mfs.ReadFile("/out/preview/layout.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), pngMagic))

	mfs.DenyWrites("/locked")
	assert.Error(t, SaveLayout(mfs, "/locked/layout.png", rec, nil, Options{SizeInches: 2}))
}

func TestGenerateColors(t *testing.T) {
	assert.Nil(t, generateColors(0))
	cs := generateColors(3)
	require.Len(t, cs, 3)
	assert.NotEqual(t, cs[0], cs[1])
	r, g, b := hslToRGB(0, 0, 0.5)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}
