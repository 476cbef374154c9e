package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rockmech/rockrating/internal/rmr"
)

// WriteRecordsCSV writes the enriched per-record table: the raw survey
// columns plus the real spacing and persistence conversions and the family
// label each record landed in (empty for unclustered records).
func (a *Analyzer) WriteRecordsCSV(w io.Writer) error {
	header := []string{
		"Station", "Distance_m", "Dip_Direction_degrees",
		"Spacing_mm", "Aperture_mm", "Roughness", "Weathering",
		"Infilling_Type", "Groundwater",
		"Spacing_real_mm", "Persistence_m", "Family",
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, stationID := range a.dataset.Stations() {
		records := a.dataset.StationRecords(stationID)
		fams, err := a.StationFamilies(stationID, a.params)
		if err != nil {
			return err
		}

		labels := make(map[int]string)
		for _, fam := range fams {
			for _, idx := range fam.RecordIndices {
				labels[idx] = fam.Label
			}
		}

		for i, r := range records {
			dip := ""
			if r.HasOrientation() {
				dip = strconv.FormatFloat(r.Orientation(), 'f', -1, 64)
			}
			persistence := ""
			if r.PersistenceCode != 0 {
				persistence = formatFloat(rmr.PersistenceMeters(r.PersistenceCode))
			}
			row := []string{
				r.StationID,
				formatFloat(r.DistanceM),
				dip,
				strconv.Itoa(r.SpacingCode),
				strconv.Itoa(r.ApertureCode),
				strconv.Itoa(r.RoughnessCode),
				strconv.Itoa(r.WeatheringCode),
				strconv.Itoa(r.InfillingCode),
				strconv.Itoa(r.GroundwaterCode),
				formatFloat(rmr.SpacingMillimeters(r.SpacingCode)),
				persistence,
				labels[i],
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write export row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReportCSV writes the station and family summary table: one row per
// station followed by one row per discovered family, each with the full
// rating breakdown.
func WriteReportCSV(w io.Writer, r Report) error {
	header := []string{
		"Station", "Subset", "RMR_Total", "Class",
		"RQD", "Mean_Spacing_mm", "Discontinuities", "Length_m",
		"Rating_Strength", "Rating_RQD", "Rating_Spacing",
		"Rating_Condition", "Rating_Groundwater", "Rating_Orientation",
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, station := range r.Stations {
		if err := cw.Write(reportRow(station.StationID, "station", station.Result)); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
		for _, fam := range station.Families {
			if err := cw.Write(reportRow(station.StationID, fam.Label, fam.Result)); err != nil {
				return fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func reportRow(stationID, subset string, result rmr.Result) []string {
	return []string{
		stationID,
		subset,
		strconv.FormatFloat(result.Total, 'f', 1, 64),
		result.Class.Label(),
		strconv.FormatFloat(result.EstimatedRQD, 'f', 1, 64),
		strconv.FormatFloat(result.MeanSpacingMM, 'f', 0, 64),
		strconv.Itoa(result.Count),
		strconv.FormatFloat(result.LengthM, 'f', 2, 64),
		strconv.Itoa(result.Breakdown.Strength),
		strconv.Itoa(result.Breakdown.RQD),
		strconv.Itoa(result.Breakdown.Spacing),
		strconv.FormatFloat(result.Breakdown.Condition, 'f', 1, 64),
		strconv.Itoa(result.Breakdown.Groundwater),
		strconv.Itoa(result.Breakdown.Orientation),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
