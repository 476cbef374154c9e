package rmr

import "math"

// EstimateRQD estimates the Rock Quality Designation percentage from the
// number of discontinuities intersected along a mapped traverse. This is the
// closed-form frequency model used when no borehole core is available:
//
//	RQD = 100 * e^(-0.1λ) * (0.1λ + 1),  λ = count / length
//
// The result is clamped to [0, 100]. A non-positive traverse length is a
// degenerate case and returns 0 rather than an error.
func EstimateRQD(count int, lengthM float64) float64 {
	if lengthM <= 0 {
		return 0
	}
	lambda := float64(count) / lengthM
	rqd := 100 * math.Exp(-0.1*lambda) * (0.1*lambda + 1)
	if rqd < 0 {
		return 0
	}
	if rqd > 100 {
		return 100
	}
	return rqd
}
