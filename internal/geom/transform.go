package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a 4×4 homogeneous matrix in row-major order:
// m00,m01,m02,m03, m10,m11,m12,m13, m20,..., m30,m31,m32,m33.
type Transform [16]float64

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a transform moving points by v.
func Translation(v r3.Vec) Transform {
	return Transform{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// RotationX rotates by angle radians about the world X axis.
func RotationX(angle float64) Transform {
	s, c := math.Sincos(angle)
	return Transform{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// RotationY rotates by angle radians about the world Y axis.
func RotationY(angle float64) Transform {
	s, c := math.Sincos(angle)
	return Transform{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotationZ rotates by angle radians about the world Z axis.
func RotationZ(angle float64) Transform {
	s, c := math.Sincos(angle)
	return Transform{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotationZYX builds the Tait-Bryan rotation Rz(yaw)·Ry(pitch)·Rx(roll):
// a point is rolled about X first, then pitched about Y, then yawed about Z.
func RotationZYX(yaw, pitch, roll float64) Transform {
	return RotationZ(yaw).Mul(RotationY(pitch)).Mul(RotationX(roll))
}

// Mul returns t·o, i.e. o is applied first.
func (t Transform) Mul(o Transform) Transform {
	var out Transform
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += t[r*4+k] * o[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// ApplyPoint applies t to the point p (translation included).
func (t Transform) ApplyPoint(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: t[0]*p.X + t[1]*p.Y + t[2]*p.Z + t[3],
		Y: t[4]*p.X + t[5]*p.Y + t[6]*p.Z + t[7],
		Z: t[8]*p.X + t[9]*p.Y + t[10]*p.Z + t[11],
	}
}

// ApplyVector applies only the linear part of t to v.
func (t Transform) ApplyVector(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: t[0]*v.X + t[1]*v.Y + t[2]*v.Z,
		Y: t[4]*v.X + t[5]*v.Y + t[6]*v.Z,
		Z: t[8]*v.X + t[9]*v.Y + t[10]*v.Z,
	}
}

// Inverse inverts a rigid transform (rotation + translation) as [Rᵀ | -Rᵀt].
// The result is meaningless for transforms with scale or shear.
func (t Transform) Inverse() Transform {
	inv := Transform{
		t[0], t[4], t[8], 0,
		t[1], t[5], t[9], 0,
		t[2], t[6], t[10], 0,
		0, 0, 0, 1,
	}
	tr := inv.ApplyVector(r3.Vec{X: t[3], Y: t[7], Z: t[11]})
	inv[3], inv[7], inv[11] = -tr.X, -tr.Y, -tr.Z
	return inv
}

// Translation returns the translation column of t.
func (t Transform) Translation() r3.Vec {
	return r3.Vec{X: t[3], Y: t[7], Z: t[11]}
}

// frame maps WorldXY onto p: columns are p's axes, the last column its origin.
func frame(p Plane) Transform {
	x, y, z, o := p.XAxis, p.YAxis, p.ZAxis, p.Origin
	return Transform{
		x.X, y.X, z.X, o.X,
		x.Y, y.Y, z.Y, o.Y,
		x.Z, y.Z, z.Z, o.Z,
		0, 0, 0, 1,
	}
}

// PlaneToPlane returns the rigid transform taking from onto to: from's
// origin lands on to's origin and each axis lands on the matching axis.
func PlaneToPlane(from, to Plane) Transform {
	return frame(to).Mul(frame(from).Inverse())
}
