package rmr

import (
	"math"
	"testing"

	"github.com/rockmech/rockrating/internal/geodata"
)

func uniformRecord(station string, distance float64, code int) geodata.Record {
	return geodata.Record{
		StationID:       station,
		DistanceM:       distance,
		SpacingCode:     code,
		ApertureCode:    code,
		RoughnessCode:   code,
		WeatheringCode:  code,
		InfillingCode:   code,
		GroundwaterCode: code,
	}
}

func TestScoreStationReferenceScenario(t *testing.T) {
	// Three discontinuities over a 10 m traverse, best-case codes everywhere:
	// strength 7 + RQD 20 + spacing 5 + condition 30 + groundwater 15 - 5 = 72
	records := []geodata.Record{
		uniformRecord("E1", 2.5, 1),
		uniformRecord("E1", 6.0, 1),
		uniformRecord("E1", 10.0, 1),
	}

	result := ScoreStation(records)

	if result.Count != 3 {
		t.Errorf("Count = %d, want 3", result.Count)
	}
	if result.LengthM != 10 {
		t.Errorf("LengthM = %.2f, want 10", result.LengthM)
	}
	if math.Abs(result.EstimatedRQD-99.955) > 0.01 {
		t.Errorf("EstimatedRQD = %.3f, want 99.955", result.EstimatedRQD)
	}
	if result.MeanSpacingMM != 10 {
		t.Errorf("MeanSpacingMM = %.1f, want 10", result.MeanSpacingMM)
	}

	b := result.Breakdown
	if b.Strength != 7 {
		t.Errorf("strength rating = %d, want 7", b.Strength)
	}
	if b.RQD != 20 {
		t.Errorf("RQD rating = %d, want 20", b.RQD)
	}
	if b.Spacing != 5 {
		t.Errorf("spacing rating = %d, want 5", b.Spacing)
	}
	if b.Condition != 30 {
		t.Errorf("condition rating = %.1f, want 30", b.Condition)
	}
	if b.Groundwater != 15 {
		t.Errorf("groundwater rating = %d, want 15", b.Groundwater)
	}
	if b.Orientation != -5 {
		t.Errorf("orientation adjustment = %d, want -5", b.Orientation)
	}

	if result.Total != 72 {
		t.Errorf("Total = %.1f, want 72", result.Total)
	}
	if result.Class != ClassII {
		t.Errorf("Class = %s, want II", result.Class)
	}
	if !result.GroundwaterRecognized {
		t.Error("GroundwaterRecognized = false for in-scale code")
	}
}

func TestScoreStationUnrecognizedGroundwater(t *testing.T) {
	records := []geodata.Record{
		uniformRecord("E2", 5, 1),
		uniformRecord("E2", 8, 1),
	}
	for i := range records {
		records[i].GroundwaterCode = 9
	}

	result := ScoreStation(records)

	if result.Breakdown.Groundwater != 7 {
		t.Errorf("groundwater rating = %d, want default 7", result.Breakdown.Groundwater)
	}
	if result.GroundwaterRecognized {
		t.Error("GroundwaterRecognized = true for out-of-scale code 9")
	}
}

func TestScoreStationMeanCodes(t *testing.T) {
	// Mixed codes exercise the fractional-mean path of the condition formula
	a := uniformRecord("E3", 4, 1)
	b := uniformRecord("E3", 8, 2)
	result := ScoreStation([]geodata.Record{a, b})

	// mean codes 1.5: penalty = 0.5*2 + 0.5*1.5 + 0.5*3 = 3.25
	if math.Abs(result.Breakdown.Condition-26.75) > 0.001 {
		t.Errorf("condition rating = %.3f, want 26.75", result.Breakdown.Condition)
	}
	// mean spacing (10 + 40) / 2 = 25 mm
	if result.MeanSpacingMM != 25 {
		t.Errorf("MeanSpacingMM = %.1f, want 25", result.MeanSpacingMM)
	}
	// mean groundwater 1.5 rounds to 2
	if result.Breakdown.Groundwater != 10 {
		t.Errorf("groundwater rating = %d, want 10 (code 2)", result.Breakdown.Groundwater)
	}
}

func TestScoreSubsetUsesGivenLength(t *testing.T) {
	// A family spanning only part of the traverse still scores against the
	// parent station's full length
	records := []geodata.Record{
		uniformRecord("E4", 1, 1),
		uniformRecord("E4", 2, 1),
	}

	asStation := ScoreStation(records)
	asFamily := ScoreSubset(records, 20)

	if asStation.LengthM != 2 {
		t.Errorf("station LengthM = %.1f, want 2", asStation.LengthM)
	}
	if asFamily.LengthM != 20 {
		t.Errorf("family LengthM = %.1f, want 20", asFamily.LengthM)
	}
	if asFamily.EstimatedRQD <= asStation.EstimatedRQD {
		t.Errorf("lower frequency should give higher RQD: family %.2f vs station %.2f",
			asFamily.EstimatedRQD, asStation.EstimatedRQD)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		total    float64
		expected Class
	}{
		{95, ClassI},
		{81, ClassI},
		{80.9, ClassII},
		{61, ClassII},
		{60.5, ClassIII},
		{41, ClassIII},
		{40, ClassIV},
		{21, ClassIV},
		{20, ClassV},
		{-10, ClassV},
	}

	for _, tt := range tests {
		if got := Classify(tt.total); got != tt.expected {
			t.Errorf("Classify(%.1f) = %s, want %s", tt.total, got, tt.expected)
		}
	}
}

func TestClassLabels(t *testing.T) {
	if got := ClassII.Label(); got != "Class II - good rock" {
		t.Errorf("ClassII.Label() = %q", got)
	}
	if got := ClassV.Label(); got != "Class V - very poor rock" {
		t.Errorf("ClassV.Label() = %q", got)
	}
}
