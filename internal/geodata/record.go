// Package geodata defines the field survey data model: discontinuity records
// grouped into scanline stations, plus CSV ingest for consolidated survey files.
package geodata

// Record represents a single measured discontinuity (fracture, joint or
// bedding plane) logged along a station traverse. Records are read-only once
// loaded; scorers never mutate them.
type Record struct {
	// StationID is the grouping key for the scanline station the
	// discontinuity was logged at.
	StationID string

	// DistanceM is the position along the station traverse in meters.
	// The maximum distance among a station's records doubles as the
	// traverse length.
	DistanceM float64

	// DipDirectionDeg is the compass bearing (0-360) of the plane's
	// steepest descent direction. Nil when the orientation could not be
	// measured; such records are excluded from family clustering but
	// still count toward station scoring.
	DipDirectionDeg *float64

	// Coded condition attributes on the standard 1-5 field scales.
	// Spacing is a coded category here, not a millimeter value.
	SpacingCode     int
	ApertureCode    int
	RoughnessCode   int
	WeatheringCode  int
	InfillingCode   int
	GroundwaterCode int

	// PersistenceCode is the optional coded trace-length category. Zero
	// when the survey file has no Persistence column.
	PersistenceCode int
}

// HasOrientation reports whether the record carries a measured dip direction.
func (r Record) HasOrientation() bool {
	return r.DipDirectionDeg != nil
}

// Orientation returns the dip direction in degrees. Only valid when
// HasOrientation is true.
func (r Record) Orientation() float64 {
	return *r.DipDirectionDeg
}

// TraverseLength returns the traverse length proxy for a set of records
// belonging to one station: the maximum DistanceM among them. Returns 0 for
// an empty set.
func TraverseLength(records []Record) float64 {
	var max float64
	for _, r := range records {
		if r.DistanceM > max {
			max = r.DistanceM
		}
	}
	return max
}
