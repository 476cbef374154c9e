package restserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rockmech/rockrating/internal/analysis"
	"github.com/rockmech/rockrating/internal/families"
	"github.com/rockmech/rockrating/internal/geodata"
	"github.com/rockmech/rockrating/internal/rmr"
	"github.com/rockmech/rockrating/pkg/responseformat"
)

// maxUploadBytes caps survey CSV uploads at 32 MiB, far above any real
// scanline campaign.
const maxUploadBytes = 32 << 20

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// UploadResponse is returned after a successful dataset upload.
type UploadResponse struct {
	ID       string `json:"id"`
	Stations int    `json:"stations"`
	Records  int    `json:"records"`
}

// StationInfo is one row of the station list.
type StationInfo struct {
	StationID string  `json:"station_id"`
	Count     int     `json:"count"`
	LengthM   float64 `json:"length_m"`
}

// StationScoreResponse is the full scoring outcome for one station.
type StationScoreResponse struct {
	StationID string     `json:"station_id"`
	Result    rmr.Result `json:"result"`
	Class     string     `json:"class_label"`
}

// FamiliesResponse lists the scored orientation families of one station. An
// empty Families slice is a legitimate outcome for stations without enough
// angularly coherent discontinuities.
type FamiliesResponse struct {
	StationID    string            `json:"station_id"`
	ToleranceDeg float64           `json:"tolerance_deg"`
	MinMembers   int               `json:"min_members"`
	Families     []families.Family `json:"families"`
}

// SummaryResponse is the dataset overview.
type SummaryResponse struct {
	ID       string           `json:"id"`
	Summary  analysis.Summary `json:"summary"`
	Stations []StationTotal   `json:"stations"`
}

// StationTotal is a station's headline score for overview views.
type StationTotal struct {
	StationID string  `json:"station_id"`
	Total     float64 `json:"total"`
	Class     string  `json:"class"`
	Families  int     `json:"families"`
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, map[string]string{"status": "ok"}, nil)
}

// UploadDataset ingests a survey CSV, registers it under a fresh ID and, when
// persistence is enabled, stores its full report.
func (h *Handlers) UploadDataset(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)

	body := req.Body
	// Accept both a plain CSV body and a multipart form with a "file" field
	if err := req.ParseMultipartForm(maxUploadBytes); err == nil {
		file, _, err := req.FormFile("file")
		if err != nil {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "multipart upload is missing the file field")
			return
		}
		defer file.Close()
		body = file
	}

	ds, err := geodata.ReadCSV(body)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.New().String()
	analyzer := h.controller.RegisterDataset(id, ds)
	h.controller.logger.Infof("registered dataset %s: %d stations, %d records", id, len(ds.Stations()), ds.Len())

	if h.controller.DB != nil {
		if err := h.controller.DB.SaveReport(id, analyzer.Analyze()); err != nil {
			// Persistence is best-effort; the dataset is already servable
			h.controller.logger.Errorf("failed to persist report for dataset %s: %v", id, err)
		}
	}

	w.WriteHeader(http.StatusCreated)
	h.formatter.WriteResponse(w, req, UploadResponse{
		ID:       id,
		Stations: len(ds.Stations()),
		Records:  ds.Len(),
	}, nil)
}

// ListDatasets lists the registered dataset IDs.
func (h *Handlers) ListDatasets(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, map[string][]string{"datasets": h.controller.datasetIDs()}, nil)
}

// DatasetSummary returns the dataset overview: summary statistics plus each
// station's headline score.
func (h *Handlers) DatasetSummary(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	analyzer, ok := h.controller.analyzer(id)
	if !ok {
		h.formatter.WriteError(w, req, http.StatusNotFound, fmt.Sprintf("unknown dataset %q", id))
		return
	}

	report := analyzer.Analyze()
	totals := make([]StationTotal, 0, len(report.Stations))
	for _, station := range report.Stations {
		totals = append(totals, StationTotal{
			StationID: station.StationID,
			Total:     station.Result.Total,
			Class:     station.Result.Class.Label(),
			Families:  len(station.Families),
		})
	}

	h.formatter.WriteResponse(w, req, SummaryResponse{
		ID:       id,
		Summary:  analysis.Summarize(report),
		Stations: totals,
	}, nil)
}

// ListStations lists a dataset's stations with record counts and traverse
// lengths.
func (h *Handlers) ListStations(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	analyzer, ok := h.controller.analyzer(id)
	if !ok {
		h.formatter.WriteError(w, req, http.StatusNotFound, fmt.Sprintf("unknown dataset %q", id))
		return
	}

	ds := analyzer.Dataset()
	stations := make([]StationInfo, 0, len(ds.Stations()))
	for _, stationID := range ds.Stations() {
		records := ds.StationRecords(stationID)
		stations = append(stations, StationInfo{
			StationID: stationID,
			Count:     len(records),
			LengthM:   geodata.TraverseLength(records),
		})
	}
	h.formatter.WriteResponse(w, req, stations, nil)
}

// StationScore returns the full RMR breakdown for one station.
func (h *Handlers) StationScore(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	analyzer, ok := h.controller.analyzer(vars["id"])
	if !ok {
		h.formatter.WriteError(w, req, http.StatusNotFound, fmt.Sprintf("unknown dataset %q", vars["id"]))
		return
	}

	result, err := analyzer.StationScore(vars["station"])
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusNotFound, err.Error())
		return
	}

	h.formatter.WriteResponse(w, req, StationScoreResponse{
		StationID: vars["station"],
		Result:    result,
		Class:     result.Class.Label(),
	}, nil)
}

// StationFamilies returns the scored orientation families for one station.
// tolerance and min_members query parameters override the configured
// defaults.
func (h *Handlers) StationFamilies(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	analyzer, ok := h.controller.analyzer(vars["id"])
	if !ok {
		h.formatter.WriteError(w, req, http.StatusNotFound, fmt.Sprintf("unknown dataset %q", vars["id"]))
		return
	}

	params := analyzer.Params()
	if raw := req.URL.Query().Get("tolerance"); raw != "" {
		tolerance, err := strconv.ParseFloat(raw, 64)
		if err != nil || tolerance <= 0 {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "tolerance must be a positive number of degrees")
			return
		}
		params.ToleranceDeg = tolerance
	}
	if raw := req.URL.Query().Get("min_members"); raw != "" {
		minMembers, err := strconv.Atoi(raw)
		if err != nil || minMembers < 1 {
			h.formatter.WriteError(w, req, http.StatusBadRequest, "min_members must be a positive integer")
			return
		}
		params.MinMembers = minMembers
	}

	fams, err := analyzer.StationFamilies(vars["station"], params)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusNotFound, err.Error())
		return
	}
	if fams == nil {
		fams = []families.Family{}
	}

	h.formatter.WriteResponse(w, req, FamiliesResponse{
		StationID:    vars["station"],
		ToleranceDeg: params.ToleranceDeg,
		MinMembers:   params.MinMembers,
		Families:     fams,
	}, nil)
}

// ExportCSV streams the dataset as CSV: the enriched per-record table by
// default, or the station/family score table with table=report.
func (h *Handlers) ExportCSV(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	analyzer, ok := h.controller.analyzer(id)
	if !ok {
		h.formatter.WriteError(w, req, http.StatusNotFound, fmt.Sprintf("unknown dataset %q", id))
		return
	}

	table := req.URL.Query().Get("table")
	w.Header().Set("Content-Type", "text/csv")

	var err error
	switch table {
	case "", "records":
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+"_records.csv"))
		err = analyzer.WriteRecordsCSV(w)
	case "report":
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+"_report.csv"))
		err = analysis.WriteReportCSV(w, analyzer.Analyze())
	default:
		h.formatter.WriteError(w, req, http.StatusBadRequest, "table must be records or report")
		return
	}
	if err != nil {
		h.controller.logger.Errorf("CSV export for dataset %s failed: %v", id, err)
	}
}
