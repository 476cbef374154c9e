// Package analysis orchestrates RMR scoring and family discovery over a
// loaded survey dataset and produces the report records consumed by the REST
// server, the batch CLI and the CSV exporters.
package analysis

import (
	"fmt"
	"sync"

	"github.com/rockmech/rockrating/internal/families"
	"github.com/rockmech/rockrating/internal/geodata"
	"github.com/rockmech/rockrating/internal/rmr"
	"go.uber.org/zap"
)

// StationReport is the scored outcome for one station: the whole-station
// score plus its orientation families.
type StationReport struct {
	StationID string            `json:"station_id"`
	Result    rmr.Result        `json:"result"`
	Families  []families.Family `json:"families"`
}

// Report aggregates station reports for a whole dataset, in station
// first-seen order.
type Report struct {
	Stations []StationReport `json:"stations"`
}

// Analyzer computes scores and families for one dataset. The dataset handle
// is passed in explicitly and never mutated; every result is recomputed from
// it on demand, except that family discovery with the analyzer's default
// parameters is cached per station since re-deriving group membership for
// every view of the same station is wasted work.
type Analyzer struct {
	dataset *geodata.Dataset
	params  families.Params
	logger  *zap.SugaredLogger

	mu          sync.Mutex
	familyCache map[string][]families.Family
}

// New creates an analyzer over a dataset with the given default family
// parameters.
func New(dataset *geodata.Dataset, params families.Params, logger *zap.SugaredLogger) *Analyzer {
	return &Analyzer{
		dataset:     dataset,
		params:      params,
		logger:      logger,
		familyCache: make(map[string][]families.Family),
	}
}

// Dataset returns the analyzer's dataset handle.
func (a *Analyzer) Dataset() *geodata.Dataset {
	return a.dataset
}

// Params returns the analyzer's default family parameters.
func (a *Analyzer) Params() families.Params {
	return a.params
}

// StationScore scores one station's full record set.
func (a *Analyzer) StationScore(stationID string) (rmr.Result, error) {
	records := a.dataset.StationRecords(stationID)
	if len(records) == 0 {
		return rmr.Result{}, fmt.Errorf("unknown station %q", stationID)
	}
	result := rmr.ScoreStation(records)
	if !result.GroundwaterRecognized {
		a.logger.Warnf("station %s: groundwater code outside 1-5 scale, rated with default", stationID)
	}
	return result, nil
}

// StationFamilies discovers and scores the orientation families of one
// station. Calls with the analyzer's default parameters are served from the
// per-station cache. An empty result is a legitimate outcome, distinct from
// the unknown-station error.
func (a *Analyzer) StationFamilies(stationID string, p families.Params) ([]families.Family, error) {
	records := a.dataset.StationRecords(stationID)
	if len(records) == 0 {
		return nil, fmt.Errorf("unknown station %q", stationID)
	}

	cacheable := p == a.params
	if cacheable {
		a.mu.Lock()
		cached, ok := a.familyCache[stationID]
		a.mu.Unlock()
		if ok {
			return cached, nil
		}
	}

	fams := families.ScoreFamilies(records, geodata.TraverseLength(records), p)
	if cacheable {
		a.mu.Lock()
		a.familyCache[stationID] = fams
		a.mu.Unlock()
	}
	return fams, nil
}

// StationReport builds the combined score-plus-families report for one
// station using the analyzer's default parameters.
func (a *Analyzer) StationReport(stationID string) (StationReport, error) {
	result, err := a.StationScore(stationID)
	if err != nil {
		return StationReport{}, err
	}
	fams, err := a.StationFamilies(stationID, a.params)
	if err != nil {
		return StationReport{}, err
	}
	return StationReport{StationID: stationID, Result: result, Families: fams}, nil
}

// Analyze scores every station in the dataset. Stations are independent and
// share nothing, so they are scored concurrently; clustering within each
// station stays sequential.
func (a *Analyzer) Analyze() Report {
	stations := a.dataset.Stations()
	reports := make([]StationReport, len(stations))

	var wg sync.WaitGroup
	for i, stationID := range stations {
		wg.Add(1)
		go func(i int, stationID string) {
			defer wg.Done()
			report, err := a.StationReport(stationID)
			if err != nil {
				// Stations() only lists stations with records, so
				// this indicates a bug rather than bad input.
				a.logger.Errorf("failed to score station %s: %v", stationID, err)
				return
			}
			reports[i] = report
		}(i, stationID)
	}
	wg.Wait()

	return Report{Stations: reports}
}
