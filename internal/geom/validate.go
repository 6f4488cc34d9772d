package geom

import (
	"fmt"
	"math"
)

// MatrixValidationTolerance is the tolerance for checking rotation matrix validity.
const MatrixValidationTolerance = 0.01

// TransformValidation is the outcome of ValidateTransform.
type TransformValidation struct {
	Valid  bool
	Issues []string
}

// ValidateTransform checks that t is a proper rigid transform and lists
// every problem it finds. A transform built from a degenerate sample
// (coincident or collinear points) fails on the non-finite check.
func ValidateTransform(t Transform) TransformValidation {
	result := TransformValidation{Issues: make([]string, 0)}

	for i, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			result.Issues = append(result.Issues, fmt.Sprintf("entry %d is not finite", i))
			return result
		}
	}

	if det := rotationDeterminant(t); math.Abs(det-1.0) > MatrixValidationTolerance {
		result.Issues = append(result.Issues,
			fmt.Sprintf("rotation determinant %.4f is not 1 (scale or reflection)", det))
	}

	if t[12] != 0 || t[13] != 0 || t[14] != 0 || math.Abs(t[15]-1.0) > 0.001 {
		result.Issues = append(result.Issues, "last row is not [0 0 0 1]")
	}

	result.Valid = len(result.Issues) == 0
	return result
}

// IsValidTransformMatrix checks if a 4x4 matrix is a valid rigid transform.
// A valid rigid transform has:
// 1. Finite entries
// 2. Rotation submatrix with det ≈ 1
// 3. Last row is [0 0 0 1]
func IsValidTransformMatrix(t Transform) bool {
	return ValidateTransform(t).Valid
}

func rotationDeterminant(t Transform) float64 {
	r00, r01, r02 := t[0], t[1], t[2]
	r10, r11, r12 := t[4], t[5], t[6]
	r20, r21, r22 := t[8], t[9], t[10]
	return r00*(r11*r22-r12*r21) - r01*(r10*r22-r12*r20) + r02*(r10*r21-r11*r20)
}
