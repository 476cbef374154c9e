package geodata

// Dataset is an immutable collection of discontinuity records with stations
// resolved in first-seen order. All derived results (scores, families) are
// recomputed from the dataset on demand; the dataset itself is never mutated
// after construction.
type Dataset struct {
	records      []Record
	stationOrder []string
	byStation    map[string][]Record
}

// NewDataset builds a dataset from a slice of records. Stations are indexed
// in the order their first record appears.
func NewDataset(records []Record) *Dataset {
	d := &Dataset{
		records:   records,
		byStation: make(map[string][]Record),
	}
	for _, r := range records {
		if _, seen := d.byStation[r.StationID]; !seen {
			d.stationOrder = append(d.stationOrder, r.StationID)
		}
		d.byStation[r.StationID] = append(d.byStation[r.StationID], r)
	}
	return d
}

// Len returns the total number of records in the dataset.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns all records in load order.
func (d *Dataset) Records() []Record {
	return d.records
}

// Stations returns station IDs in first-seen order. Every listed station has
// at least one record.
func (d *Dataset) Stations() []string {
	return d.stationOrder
}

// StationRecords returns the records for one station in load order, or nil if
// the station is unknown.
func (d *Dataset) StationRecords(stationID string) []Record {
	return d.byStation[stationID]
}
