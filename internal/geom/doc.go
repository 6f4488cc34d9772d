// Package geom holds the small slice of 3-D geometry the pick-and-place
// tooling needs: implicit plane equations, oriented plane frames, rigid
// 4×4 transforms, quaternions and the quaternion → Euler conversion used
// by the scan log.
//
// Coordinate convention: right-handed, Z up. Transforms are row-major
// [16]float64 (m00,m01,m02,m03, m10,...), the same layout ApplyPoint expects.
// Vector arithmetic is delegated to gonum's spatial/r3 package.
package geom
