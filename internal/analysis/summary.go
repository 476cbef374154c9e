package analysis

import (
	"math"

	"github.com/rockmech/rockrating/internal/rmr"
	"gonum.org/v1/gonum/stat"
)

// Summary condenses a report into the headline figures shown on overview
// views: dataset size, mean and spread of the station totals, and the most
// common quality class.
type Summary struct {
	StationCount  int       `json:"station_count"`
	RecordCount   int       `json:"record_count"`
	FamilyCount   int       `json:"family_count"`
	MeanRMR       float64   `json:"mean_rmr"`
	StdDevRMR     float64   `json:"stddev_rmr"`
	MinRMR        float64   `json:"min_rmr"`
	MaxRMR        float64   `json:"max_rmr"`
	DominantClass rmr.Class `json:"dominant_class"`
}

// Summarize computes summary statistics over a report. A report with no
// stations yields a zero Summary.
func Summarize(r Report) Summary {
	if len(r.Stations) == 0 {
		return Summary{}
	}

	totals := make([]float64, len(r.Stations))
	classCounts := make(map[rmr.Class]int)
	s := Summary{
		StationCount: len(r.Stations),
		MinRMR:       math.Inf(1),
		MaxRMR:       math.Inf(-1),
	}
	for i, station := range r.Stations {
		totals[i] = station.Result.Total
		classCounts[station.Result.Class]++
		s.RecordCount += station.Result.Count
		s.FamilyCount += len(station.Families)
		s.MinRMR = math.Min(s.MinRMR, station.Result.Total)
		s.MaxRMR = math.Max(s.MaxRMR, station.Result.Total)
	}

	s.MeanRMR = stat.Mean(totals, nil)
	s.StdDevRMR = stat.StdDev(totals, nil)
	if len(totals) == 1 {
		// StdDev of a single sample is NaN (Bessel correction)
		s.StdDevRMR = 0
	}

	best := 0
	for class, count := range classCounts {
		// Ties resolve toward the better class for a stable result
		if count > best || (count == best && class < s.DominantClass) {
			best = count
			s.DominantClass = class
		}
	}
	return s
}
