package families

import (
	"fmt"
	"math"

	"github.com/rockmech/rockrating/internal/geodata"
	"github.com/rockmech/rockrating/internal/rmr"
	"gonum.org/v1/gonum/stat"
)

// Family is a non-empty subset of one station's discontinuities with a
// statistically coherent orientation, carrying its own RMR score.
type Family struct {
	// Label is the stable discovery-order name: F1, F2, ...
	Label string `json:"label"`

	// RecordIndices are positions into the parent station's record slice,
	// so the unclustered complement set stays recoverable.
	RecordIndices []int `json:"record_indices"`

	// MeanOrientationDeg is the circular mean dip direction of the
	// members, normalized to [0, 360).
	MeanOrientationDeg float64 `json:"mean_orientation_deg"`

	// Result is the family's RMR score, computed against the parent
	// station's traverse length.
	Result rmr.Result `json:"result"`
}

// ScoreFamilies discovers and scores the orientation families of one
// station's records. Records without a measured dip direction are excluded
// from clustering only; stationLengthM is the parent station's traverse
// length, since families have no independent length context. A station with
// too few coherent orientations legitimately yields an empty slice.
func ScoreFamilies(records []geodata.Record, stationLengthM float64, p Params) []Family {
	var angles []float64
	var origin []int
	for i, r := range records {
		if r.HasOrientation() {
			angles = append(angles, r.Orientation())
			origin = append(origin, i)
		}
	}

	groups := FindFamilies(angles, p)
	fams := make([]Family, 0, len(groups))
	for g, group := range groups {
		members := make([]geodata.Record, 0, len(group))
		indices := make([]int, 0, len(group))
		orientations := make([]float64, 0, len(group))
		for _, idx := range group {
			members = append(members, records[origin[idx]])
			indices = append(indices, origin[idx])
			orientations = append(orientations, angles[idx])
		}

		fams = append(fams, Family{
			Label:              fmt.Sprintf("F%d", g+1),
			RecordIndices:      indices,
			MeanOrientationDeg: circularMeanDeg(orientations),
			Result:             rmr.ScoreSubset(members, stationLengthM),
		})
	}
	return fams
}

// circularMeanDeg computes the circular mean of bearings in degrees,
// normalized to [0, 360).
func circularMeanDeg(degrees []float64) float64 {
	radians := make([]float64, len(degrees))
	for i, d := range degrees {
		radians[i] = d * math.Pi / 180
	}
	mean := stat.CircularMean(radians, nil) * 180 / math.Pi
	mean = math.Mod(mean, 360)
	if mean < 0 {
		mean += 360
	}
	return mean
}
