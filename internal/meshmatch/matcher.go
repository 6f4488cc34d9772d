// Package meshmatch finds which candidate mesh corresponds to a target mesh
// and the rigid transform that carries one onto the other.
//
// Correspondence is decided by topology counts alone: the first candidate
// with the same vertex and face counts as the target is the match. The
// transform maps a plane through three sampled candidate vertices onto the
// plane through the target vertices at the same indices. Samples are not
// checked for collinearity, so a degenerate draw yields a transform with
// NaN entries; geom.ValidateTransform reports those.
package meshmatch

import (
	"github.com/banshee-data/pickplace.report/internal/geom"
	"github.com/banshee-data/pickplace.report/internal/mesh"
	"github.com/banshee-data/pickplace.report/internal/monitoring"
)

// Result describes the outcome of FindMatch. When Found is false, Index is
// len(candidates) and Transform is the identity.
type Result struct {
	Transform   geom.Transform
	Index       int
	Found       bool
	Indices     [3]int
	SourcePlane geom.Plane
	TargetPlane geom.Plane
}

// Matcher matches meshes using its Sampler to choose vertex triples.
type Matcher struct {
	Sampler Sampler
}

// NewMatcher returns a matcher using s, or a clock-seeded random sampler
// when s is nil.
func NewMatcher(s Sampler) *Matcher {
	if s == nil {
		s = NewTimeSeededSampler()
	}
	return &Matcher{Sampler: s}
}

// FindMatch scans candidates in order and returns the first whose vertex
// and face counts equal the target's. Nil candidates never match. A nil
// target matches nothing.
func (m *Matcher) FindMatch(candidates []*mesh.Mesh, target *mesh.Mesh) Result {
	res := Result{Transform: geom.Identity(), Index: len(candidates)}
	if target == nil {
		monitoring.Logf("[meshmatch] no target mesh")
		return res
	}

	for i, c := range candidates {
		if c == nil || c.VertexCount() != target.VertexCount() || c.FaceCount() != target.FaceCount() {
			continue
		}
		res.Index = i
		res.Found = true
		n := target.VertexCount()
		if n == 0 {
			// Nothing to sample on an empty mesh.
			monitoring.Logf("[meshmatch] candidate %d matches an empty target", i)
			return res
		}
		idx := m.Sampler.Sample(n)
		res.Indices = idx
		res.SourcePlane = geom.PlaneFromPoints(c.Vertices[idx[0]], c.Vertices[idx[1]], c.Vertices[idx[2]])
		res.TargetPlane = geom.PlaneFromPoints(target.Vertices[idx[0]], target.Vertices[idx[1]], target.Vertices[idx[2]])
		res.Transform = geom.PlaneToPlane(res.SourcePlane, res.TargetPlane)
		monitoring.Logf("[meshmatch] candidate %d of %d matches: vertices=%d faces=%d indices=%v",
			i, len(candidates), n, target.FaceCount(), idx)
		return res
	}

	monitoring.Logf("[meshmatch] no match among %d candidates", len(candidates))
	return res
}

// FindMatch matches with a clock-seeded random sampler and returns the
// transform and matched index. The index equals len(candidates) when
// nothing matches.
func FindMatch(candidates []*mesh.Mesh, target *mesh.Mesh) (geom.Transform, int) {
	res := NewMatcher(nil).FindMatch(candidates, target)
	return res.Transform, res.Index
}
