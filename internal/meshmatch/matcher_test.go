package meshmatch

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/pickplace.report/internal/geom"
	"github.com/banshee-data/pickplace.report/internal/mesh"
	"github.com/banshee-data/pickplace.report/internal/monitoring"
	"github.com/banshee-data/pickplace.report/internal/timeutil"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	m.Run()
}

func tetra() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		Faces:    [][3]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}},
	}
}

func square() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		Faces:    [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

func assertTransformNear(t *testing.T, want, got geom.Transform) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "entry %d", i)
	}
}

func TestFindMatch_EmptyCandidates(t *testing.T) {
	tr, idx := FindMatch(nil, tetra())
	assert.Equal(t, geom.Identity(), tr)
	assert.Equal(t, 0, idx)

	res := NewMatcher(FixedSampler{0, 1, 2}).FindMatch([]*mesh.Mesh{}, tetra())
	assert.False(t, res.Found)
	assert.Equal(t, 0, res.Index)
}

func TestFindMatch_SingleCandidate(t *testing.T) {
	moved := geom.Translation(r3.Vec{X: 3, Y: -2, Z: 0.5}).Mul(geom.RotationZYX(0.4, -0.2, 1.1))
	candidate := tetra()
	target := candidate.Transform(moved)

	res := NewMatcher(FixedSampler{0, 1, 2}).FindMatch([]*mesh.Mesh{candidate}, target)
	require.True(t, res.Found)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, [3]int{0, 1, 2}, res.Indices)
	assertTransformNear(t, moved, res.Transform)

	got := res.SourcePlane.Transform(res.Transform)
	for _, pair := range [][2]r3.Vec{
		{res.TargetPlane.Origin, got.Origin},
		{res.TargetPlane.XAxis, got.XAxis},
		{res.TargetPlane.YAxis, got.YAxis},
		{res.TargetPlane.ZAxis, got.ZAxis},
	} {
		assert.InDelta(t, 0, r3.Norm(r3.Sub(pair[0], pair[1])), 1e-9)
	}
	assert.True(t, geom.IsValidTransformMatrix(res.Transform))
}

func TestFindMatch_NoMatchReturnsLength(t *testing.T) {
	candidates := []*mesh.Mesh{square(), nil, {}}
	res := NewMatcher(FixedSampler{0, 1, 2}).FindMatch(candidates, tetra())
	assert.False(t, res.Found)
	assert.Equal(t, 3, res.Index)
	assert.Equal(t, geom.Identity(), res.Transform)
}

func TestFindMatch_CountsMustBothMatch(t *testing.T) {
	sameVertices := tetra()
	sameVertices.Faces = sameVertices.Faces[:3]
	res := NewMatcher(FixedSampler{0, 1, 2}).FindMatch([]*mesh.Mesh{sameVertices, tetra()}, tetra())
	assert.Equal(t, 1, res.Index)
}

func TestFindMatch_FirstMatchWins(t *testing.T) {
	other := tetra().Transform(geom.Translation(r3.Vec{Z: 9}))
	res := NewMatcher(FixedSampler{0, 1, 2}).FindMatch([]*mesh.Mesh{square(), other, tetra()}, tetra())
	assert.Equal(t, 1, res.Index)
	assert.InDelta(t, -9, res.Transform.Translation().Z, 1e-12)
}

func TestFindMatch_ShapeIsNotCompared(t *testing.T) {
	// Same counts, different geometry: still a match.
	flat := tetra()
	flat.Vertices[3] = r3.Vec{X: 5, Y: 5}
	res := NewMatcher(FixedSampler{0, 1, 2}).FindMatch([]*mesh.Mesh{flat}, tetra())
	assert.True(t, res.Found)
	assert.Equal(t, 0, res.Index)
}

func TestFindMatch_DegenerateSample(t *testing.T) {
	res := NewMatcher(FixedSampler{2, 2, 2}).FindMatch([]*mesh.Mesh{tetra()}, tetra())
	assert.True(t, res.Found)
	assert.False(t, res.SourcePlane.IsValid())
	assert.False(t, geom.ValidateTransform(res.Transform).Valid)
}

func TestFindMatch_NilAndEmptyTarget(t *testing.T) {
	res := NewMatcher(FixedSampler{}).FindMatch([]*mesh.Mesh{tetra()}, nil)
	assert.False(t, res.Found)
	assert.Equal(t, 1, res.Index)

	res = NewMatcher(FixedSampler{}).FindMatch([]*mesh.Mesh{tetra(), {}}, &mesh.Mesh{})
	assert.True(t, res.Found)
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, geom.Identity(), res.Transform)
}

func TestRandomSampler_SeededIsDeterministic(t *testing.T) {
	a, b := NewRandomSampler(42), NewRandomSampler(42)
	for i := 0; i < 20; i++ {
		s := a.Sample(7)
		assert.Equal(t, s, b.Sample(7))
		for _, v := range s {
			assert.True(t, v >= 0 && v < 7)
		}
	}
	assert.Equal(t, [3]int{0, 0, 0}, a.Sample(1))
}

func TestRandomSampler_MatchIsValidForRigidCopy(t *testing.T) {
	// Any non-collinear triple recovers the same rigid transform.
	moved := geom.RotationZ(math.Pi / 3).Mul(geom.Translation(r3.Vec{X: 1}))
	candidate := tetra()
	target := candidate.Transform(moved)
	m := NewMatcher(NewRandomSampler(7))
	for i := 0; i < 10; i++ {
		res := m.FindMatch([]*mesh.Mesh{candidate}, target)
		if !res.SourcePlane.IsValid() {
			continue
		}
		assertTransformNear(t, moved, res.Transform)
	}
}

func TestClockSeededSampler(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	a := NewClockSeededSampler(clock)
	b := NewRandomSampler(clock.Now().UnixNano())
	assert.Equal(t, b.Sample(100), a.Sample(100))
}

func TestFixedSampler_Wraps(t *testing.T) {
	assert.Equal(t, [3]int{1, 0, 3}, FixedSampler{5, -4, 3}.Sample(4))
}

func TestNewMatcher_DefaultSampler(t *testing.T) {
	m := NewMatcher(nil)
	require.NotNil(t, m.Sampler)
	_, ok := m.Sampler.(*RandomSampler)
	assert.True(t, ok)
}
