package rmr

import (
	"math"

	"github.com/rockmech/rockrating/internal/geodata"
)

// Breakdown holds the six partial scores that sum to a total RMR value.
type Breakdown struct {
	Strength    int     `json:"strength"`
	RQD         int     `json:"rqd"`
	Spacing     int     `json:"spacing"`
	Condition   float64 `json:"condition"`
	Groundwater int     `json:"groundwater"`
	Orientation int     `json:"orientation"`
}

// Total sums the six partial scores. No clamp to [0, 100] is applied; the
// orientation adjustment can legitimately push a very poor subset below zero.
func (b Breakdown) Total() float64 {
	return float64(b.Strength) + float64(b.RQD) + float64(b.Spacing) +
		b.Condition + float64(b.Groundwater) + float64(b.Orientation)
}

// Result is the scored outcome for any record subset, whole station or
// orientation family alike.
type Result struct {
	Breakdown Breakdown `json:"breakdown"`
	Total     float64   `json:"total"`
	Class     Class     `json:"class"`

	// Descriptive statistics for the scored subset.
	EstimatedRQD  float64 `json:"estimated_rqd"`
	MeanSpacingMM float64 `json:"mean_spacing_mm"`
	Count         int     `json:"count"`
	LengthM       float64 `json:"length_m"`

	// GroundwaterRecognized is false when the rounded mean groundwater
	// code fell outside the 1-5 scale and the default rating was used.
	GroundwaterRecognized bool `json:"groundwater_recognized"`
}

// ScoreSubset scores a set of discontinuity records against an explicit
// traverse length. Families are scored this way, with the length taken from
// the parent station rather than the family's own extent.
//
// The record set must be non-empty; callers are responsible for filtering
// empty subsets before scoring.
func ScoreSubset(records []geodata.Record, lengthM float64) Result {
	count := len(records)
	rqd := EstimateRQD(count, lengthM)

	var spacingSum, apertureSum, roughnessSum, weatheringSum, infillingSum, groundwaterSum float64
	for _, r := range records {
		spacingSum += SpacingMillimeters(r.SpacingCode)
		apertureSum += float64(r.ApertureCode)
		roughnessSum += float64(r.RoughnessCode)
		weatheringSum += float64(r.WeatheringCode)
		infillingSum += float64(r.InfillingCode)
		groundwaterSum += float64(r.GroundwaterCode)
	}
	n := float64(count)
	meanSpacing := spacingSum / n

	condition := ConditionRating(apertureSum/n, roughnessSum/n, weatheringSum/n, infillingSum/n)
	groundwaterCode := int(math.Round(groundwaterSum / n))
	groundwater, recognized := GroundwaterRating(groundwaterCode)

	breakdown := Breakdown{
		Strength:    StrengthRating,
		RQD:         RQDRating(rqd),
		Spacing:     SpacingRating(meanSpacing),
		Condition:   condition,
		Groundwater: groundwater,
		Orientation: OrientationAdjustment,
	}

	total := breakdown.Total()
	return Result{
		Breakdown:             breakdown,
		Total:                 total,
		Class:                 Classify(total),
		EstimatedRQD:          rqd,
		MeanSpacingMM:         meanSpacing,
		Count:                 count,
		LengthM:               lengthM,
		GroundwaterRecognized: recognized,
	}
}

// ScoreStation scores all records of one station, taking the traverse length
// from the maximum measured distance among them. The record set must be
// non-empty.
func ScoreStation(records []geodata.Record) Result {
	return ScoreSubset(records, geodata.TraverseLength(records))
}
