package geodata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Required columns of a consolidated survey CSV. Spacing_mm carries a coded
// 1-5 category despite its name; the real millimeter conversion happens at
// scoring time.
var requiredColumns = []string{
	"Station",
	"Distance_m",
	"Dip_Direction_degrees",
	"Spacing_mm",
	"Aperture_mm",
	"Roughness",
	"Weathering",
	"Infilling_Type",
	"Groundwater",
}

// ReadCSV parses a consolidated survey file into a Dataset. A missing column
// or an unparsable cell fails immediately with an error naming the field and
// the offending station; an empty Dip_Direction_degrees cell is not an error
// and yields a record without orientation.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("survey CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read survey CSV header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("survey CSV is missing required column %q", col)
		}
	}

	var records []Record
	row := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read survey CSV row %d: %w", row+1, err)
		}
		row++

		station := strings.TrimSpace(fields[colIdx["Station"]])
		if station == "" {
			return nil, fmt.Errorf("row %d: missing Station value", row)
		}

		rec := Record{StationID: station}

		rec.DistanceM, err = parseFloatCell(fields[colIdx["Distance_m"]])
		if err != nil {
			return nil, cellError(station, row, "Distance_m", fields[colIdx["Distance_m"]], err)
		}

		dipRaw := strings.TrimSpace(fields[colIdx["Dip_Direction_degrees"]])
		if dipRaw != "" {
			dip, err := parseFloatCell(dipRaw)
			if err != nil {
				return nil, cellError(station, row, "Dip_Direction_degrees", dipRaw, err)
			}
			rec.DipDirectionDeg = &dip
		}

		codes := []struct {
			column string
			dst    *int
		}{
			{"Spacing_mm", &rec.SpacingCode},
			{"Aperture_mm", &rec.ApertureCode},
			{"Roughness", &rec.RoughnessCode},
			{"Weathering", &rec.WeatheringCode},
			{"Infilling_Type", &rec.InfillingCode},
			{"Groundwater", &rec.GroundwaterCode},
		}
		for _, c := range codes {
			raw := fields[colIdx[c.column]]
			*c.dst, err = parseCodeCell(raw)
			if err != nil {
				return nil, cellError(station, row, c.column, raw, err)
			}
		}

		// Persistence is optional; not all survey campaigns log it.
		if idx, ok := colIdx["Persistence"]; ok && strings.TrimSpace(fields[idx]) != "" {
			rec.PersistenceCode, err = parseCodeCell(fields[idx])
			if err != nil {
				return nil, cellError(station, row, "Persistence", fields[idx], err)
			}
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("survey CSV contains no data rows")
	}
	return NewDataset(records), nil
}

// WriteCSV writes the dataset back out in the consolidated survey format.
func WriteCSV(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(requiredColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range d.Records() {
		dip := ""
		if r.HasOrientation() {
			dip = strconv.FormatFloat(r.Orientation(), 'f', -1, 64)
		}
		row := []string{
			r.StationID,
			strconv.FormatFloat(r.DistanceM, 'f', -1, 64),
			dip,
			strconv.Itoa(r.SpacingCode),
			strconv.Itoa(r.ApertureCode),
			strconv.Itoa(r.RoughnessCode),
			strconv.Itoa(r.WeatheringCode),
			strconv.Itoa(r.InfillingCode),
			strconv.Itoa(r.GroundwaterCode),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellError(station string, row int, column, raw string, err error) error {
	return fmt.Errorf("station %s, row %d: invalid %s value %q: %w", station, row, column, strings.TrimSpace(raw), err)
}

func parseFloatCell(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}

// parseCodeCell accepts integer codes, tolerating the "2.0" form some field
// logging exports produce.
func parseCodeCell(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not an integer code")
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer code")
	}
	return int(f), nil
}
