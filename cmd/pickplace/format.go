package main

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/pickplace.report/internal/geom"
	"github.com/banshee-data/pickplace.report/internal/units"
)

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("(%.6g, %.6g, %.6g)", v.X, v.Y, v.Z)
}

// formatPose prints a plane's origin and its roll, pitch and yaw relative
// to WorldXY in the given angle units.
func formatPose(pl geom.Plane, unit string) string {
	roll, pitch, yaw := geom.EulerFromQuaternion(geom.PoseFromPlane(pl).Orientation)
	suffix := units.Suffix(unit)
	return fmt.Sprintf("origin=%s roll=%.4g%s pitch=%.4g%s yaw=%.4g%s",
		formatVec(pl.Origin),
		units.ConvertAngle(roll, unit), suffix,
		units.ConvertAngle(pitch, unit), suffix,
		units.ConvertAngle(yaw, unit), suffix)
}

func formatEquation(e geom.PlaneEquation) string {
	return fmt.Sprintf("%.6gx %+.6gy %+.6gz %+.6g = 0", e.A, e.B, e.C, e.D)
}

// formatTransform prints the matrix one row per line.
func formatTransform(t geom.Transform) string {
	var b strings.Builder
	for r := 0; r < 4; r++ {
		fmt.Fprintf(&b, "  [% 10.6f % 10.6f % 10.6f % 10.6f]\n", t[r*4], t[r*4+1], t[r*4+2], t[r*4+3])
	}
	return b.String()
}
