package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Quaternion is a rotation quaternion w + xi + yj + zk. Callers are
// expected to supply unit quaternions; nothing here renormalizes implicitly.
type Quaternion struct {
	W, X, Y, Z float64
}

// IdentityQuaternion is the no-rotation quaternion.
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// Number returns q as a gonum quaternion.
func (q Quaternion) Number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

// Norm returns |q|.
func (q Quaternion) Norm() float64 {
	return quat.Abs(q.Number())
}

// Normalize returns q scaled to unit length. The zero quaternion is
// returned unchanged.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return q
	}
	u := quat.Scale(1/n, q.Number())
	return Quaternion{W: u.Real, X: u.Imag, Y: u.Jmag, Z: u.Kmag}
}

// Rotate applies q to v as q·v·q*.
func (q Quaternion) Rotate(v r3.Vec) r3.Vec {
	return r3.Rotation(q.Number()).Rotate(v)
}

// Matrix returns the rotation matrix of q as a transform with no translation.
func (q Quaternion) Matrix() Transform {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return Transform{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y), 0,
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x), 0,
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
}

// QuaternionFromMatrix extracts the rotation quaternion from the upper-left
// 3×3 block of t. The branch with the largest diagonal term is used to keep
// the division well conditioned; in the trace branch W is non-negative.
func QuaternionFromMatrix(t Transform) Quaternion {
	m00, m01, m02 := t[0], t[1], t[2]
	m10, m11, m12 := t[4], t[5], t[6]
	m20, m21, m22 := t[8], t[9], t[10]

	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 2 * math.Sqrt(trace+1)
		return Quaternion{W: s / 4, X: (m21 - m12) / s, Y: (m02 - m20) / s, Z: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		return Quaternion{W: (m21 - m12) / s, X: s / 4, Y: (m01 + m10) / s, Z: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		return Quaternion{W: (m02 - m20) / s, X: (m01 + m10) / s, Y: s / 4, Z: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		return Quaternion{W: (m10 - m01) / s, X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: s / 4}
	}
}

// QuaternionFromPlanes returns the rotation taking from's axes onto to's
// axes. Origins are ignored.
func QuaternionFromPlanes(from, to Plane) Quaternion {
	return QuaternionFromMatrix(PlaneToPlane(from, to))
}

// EulerFromQuaternion converts a unit quaternion into roll (X), pitch (Y)
// and yaw (Z) radians using the 3-2-1 sequence.
//
// Pitch uses 2·atan2(√(1+s), √(1−s)) − π/2 with s = 2(w·y − x·z). The
// conversion is not gimbal-lock safe: near pitch = ±π/2 roll and yaw
// become ill-conditioned, and rounding that pushes |s| past 1 yields NaN.
func EulerFromQuaternion(q Quaternion) (roll, pitch, yaw float64) {
	sinrCosp := 2 * (q.W*q.X + q.Y*q.Z)
	cosrCosp := 1 - 2*(q.X*q.X+q.Y*q.Y)
	roll = math.Atan2(sinrCosp, cosrCosp)

	s := 2 * (q.W*q.Y - q.X*q.Z)
	sinp := math.Sqrt(1 + s)
	cosp := math.Sqrt(1 - s)
	pitch = 2*math.Atan2(sinp, cosp) - math.Pi/2

	sinyCosp := 2 * (q.W*q.Z + q.X*q.Y)
	cosyCosp := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	yaw = math.Atan2(sinyCosp, cosyCosp)
	return roll, pitch, yaw
}

// Pose is a rigid placement: a position plus an orientation.
type Pose struct {
	Position    r3.Vec
	Orientation Quaternion
}

// Plane places WorldXY at the pose. The orientation goes through Euler
// angles first: WorldXY is rotated by RotationZYX(yaw, pitch, roll) and
// then translated to Position. Outputs are kept identical to the scan
// tooling that produced the logs, including its gimbal-lock behavior.
func (p Pose) Plane() Plane {
	roll, pitch, yaw := EulerFromQuaternion(p.Orientation)
	pl := WorldXY().Transform(RotationZYX(yaw, pitch, roll))
	return pl.Transform(Translation(p.Position))
}

// PoseFromPlane reads a pose off a plane: its origin and the rotation
// taking WorldXY onto it.
func PoseFromPlane(pl Plane) Pose {
	return Pose{
		Position:    pl.Origin,
		Orientation: QuaternionFromPlanes(WorldXY(), pl),
	}
}
