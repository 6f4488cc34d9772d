package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// PlaneEquation is a plane in implicit form: A*x + B*y + C*z + D = 0.
// The normal (A, B, C) is not required to be unit length.
type PlaneEquation struct {
	A, B, C, D float64
}

// Normal returns the unitized normal (A, B, C), or the zero vector when
// all three coefficients are zero.
func (e PlaneEquation) Normal() r3.Vec {
	n := r3.Vec{X: e.A, Y: e.B, Z: e.C}
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// ValueAt evaluates the equation at p. Zero means p lies on the plane.
func (e PlaneEquation) ValueAt(p r3.Vec) float64 {
	return e.A*p.X + e.B*p.Y + e.C*p.Z + e.D
}

// Plane converts the equation into an oriented frame. The origin is the
// point of the plane closest to the world origin, Z is the unit normal and
// X is chosen perpendicular to Z by the largest-component rule, so the
// equation 0,0,1,0 yields WorldXY. A zero normal yields an invalid plane.
func (e PlaneEquation) Plane() Plane {
	n := r3.Vec{X: e.A, Y: e.B, Z: e.C}
	length := r3.Norm(n)
	if length == 0 {
		return Plane{}
	}
	z := r3.Scale(1/length, n)
	origin := r3.Scale(-e.D/length, z)
	x := r3.Unit(perpendicularTo(z))
	y := r3.Unit(r3.Cross(z, x))
	return Plane{Origin: origin, XAxis: x, YAxis: y, ZAxis: z}
}

// perpendicularTo returns a vector perpendicular to v by zeroing the
// smallest component and swapping/negating the remaining two.
func perpendicularTo(v r3.Vec) r3.Vec {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	var out [3]float64
	var i, j int
	var a, b float64
	switch {
	case ay > ax && az > ay:
		i, j, a, b = 2, 1, v.Z, -v.Y
	case ay > ax && az >= ax:
		i, j, a, b = 1, 2, v.Y, -v.Z
	case ay > ax:
		i, j, a, b = 1, 0, v.Y, -v.X
	case az > ax:
		i, j, a, b = 2, 0, v.Z, -v.X
	case az > ay:
		i, j, a, b = 0, 2, v.X, -v.Z
	default:
		i, j, a, b = 0, 1, v.X, -v.Y
	}
	out[i] = b
	out[j] = a
	return r3.Vec{X: out[0], Y: out[1], Z: out[2]}
}

// Plane is an oriented frame: an origin plus three orthonormal axes.
type Plane struct {
	Origin r3.Vec
	XAxis  r3.Vec
	YAxis  r3.Vec
	ZAxis  r3.Vec
}

// WorldXY is the reference frame every pose is measured from.
func WorldXY() Plane {
	return Plane{
		XAxis: r3.Vec{X: 1},
		YAxis: r3.Vec{Y: 1},
		ZAxis: r3.Vec{Z: 1},
	}
}

// PlaneFromPoints builds a frame with its origin at a, X towards b and Z
// along (b-a)×(c-a). Coincident or collinear points produce NaN axes; the
// caller is expected to check IsValid if it cares.
func PlaneFromPoints(a, b, c r3.Vec) Plane {
	ab := r3.Sub(b, a)
	ac := r3.Sub(c, a)
	x := r3.Unit(ab)
	z := r3.Unit(r3.Cross(ab, ac))
	y := r3.Cross(z, x)
	return Plane{Origin: a, XAxis: x, YAxis: y, ZAxis: z}
}

// Equation returns the implicit form of the plane.
func (p Plane) Equation() PlaneEquation {
	n := p.ZAxis
	return PlaneEquation{A: n.X, B: n.Y, C: n.Z, D: -r3.Dot(n, p.Origin)}
}

// Transform returns the plane moved by the rigid transform t.
func (p Plane) Transform(t Transform) Plane {
	return Plane{
		Origin: t.ApplyPoint(p.Origin),
		XAxis:  t.ApplyVector(p.XAxis),
		YAxis:  t.ApplyVector(p.YAxis),
		ZAxis:  t.ApplyVector(p.ZAxis),
	}
}

// IsValid reports whether the axes are finite, unit length and mutually
// orthogonal within PlaneTolerance.
func (p Plane) IsValid() bool {
	for _, v := range []r3.Vec{p.Origin, p.XAxis, p.YAxis, p.ZAxis} {
		if !finite(v) {
			return false
		}
	}
	for _, v := range []r3.Vec{p.XAxis, p.YAxis, p.ZAxis} {
		if math.Abs(r3.Norm(v)-1) > PlaneTolerance {
			return false
		}
	}
	if math.Abs(r3.Dot(p.XAxis, p.YAxis)) > PlaneTolerance ||
		math.Abs(r3.Dot(p.YAxis, p.ZAxis)) > PlaneTolerance ||
		math.Abs(r3.Dot(p.ZAxis, p.XAxis)) > PlaneTolerance {
		return false
	}
	return true
}

// PlaneTolerance bounds axis length and orthogonality error in IsValid.
const PlaneTolerance = 1e-6

func finite(v r3.Vec) bool {
	for _, f := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
