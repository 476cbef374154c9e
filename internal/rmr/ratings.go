// Package rmr implements the Rock Mass Rating scoring engine: the empirical
// rating tables, the discontinuity-frequency RQD estimator and the scorer
// that aggregates a station's (or family's) records into a bounded quality
// index and quality class.
package rmr

// Fixed rating terms. Rock strength is pre-classified in this survey
// methodology (R4, 75 MPa) rather than derived from field data, and the
// orientation adjustment is the standard "unfavorable" penalty; no geometric
// comparison against an excavation axis is performed.
const (
	StrengthRating        = 7
	OrientationAdjustment = -5
)

// RQDRating maps an RQD percentage to its partial rating. Band edges are
// inclusive on the lower side.
func RQDRating(rqd float64) int {
	switch {
	case rqd >= 90:
		return 20
	case rqd >= 75:
		return 17
	case rqd >= 50:
		return 13
	case rqd >= 25:
		return 8
	default:
		return 3
	}
}

// SpacingRating maps a mean discontinuity spacing in millimeters to its
// partial rating.
func SpacingRating(spacingMM float64) int {
	switch {
	case spacingMM >= 2000:
		return 20
	case spacingMM >= 600:
		return 15
	case spacingMM >= 200:
		return 10
	case spacingMM >= 60:
		return 8
	default:
		return 5
	}
}

// GroundwaterRating maps a coded groundwater condition (1 = completely dry
// through 5 = flowing) to its partial rating. Codes outside the 1-5 scale are
// tolerated and rated with the damp-conditions default of 7; the second
// return value reports whether the code was recognized so callers can flag
// suspect field data instead of failing on it.
func GroundwaterRating(code int) (rating int, recognized bool) {
	ratings := map[int]int{1: 15, 2: 10, 3: 7, 4: 4, 5: 0}
	if r, ok := ratings[code]; ok {
		return r, true
	}
	return 7, false
}

// ConditionRating computes the discontinuity condition rating from mean coded
// aperture, roughness, weathering and infilling values. The inputs are means
// across a subset's records and are expected to be fractional; the penalty
// formula applies to them unchanged. The result is clamped to [0, 30].
func ConditionRating(aperture, roughness, weathering, infilling float64) float64 {
	penalty := (aperture-1)*2 + (roughness-1)*1.5 + (weathering-1)*3
	switch {
	case infilling <= 2:
		// no penalty for clean or surface-stained joints
	case infilling == 3:
		penalty += 5
	default:
		penalty += 3
	}
	rating := 30 - penalty
	if rating < 0 {
		return 0
	}
	if rating > 30 {
		return 30
	}
	return rating
}

// SpacingMillimeters converts a coded 1-5 spacing category to a representative
// real spacing in millimeters. Out-of-scale codes clamp to the nearest end of
// the scale.
func SpacingMillimeters(code int) float64 {
	spacing := [...]float64{10, 40, 130, 400, 800}
	if code < 1 {
		code = 1
	}
	if code > 5 {
		code = 5
	}
	return spacing[code-1]
}

// PersistenceMeters converts a coded 1-5 persistence category to a
// representative trace length in meters. Out-of-scale codes clamp to the
// nearest end of the scale.
func PersistenceMeters(code int) float64 {
	persistence := [...]float64{0.5, 2.0, 6.5, 15.0, 25.0}
	if code < 1 {
		code = 1
	}
	if code > 5 {
		code = 5
	}
	return persistence[code-1]
}
