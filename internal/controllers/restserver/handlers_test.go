package restserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/rockmech/rockrating/internal/geodata"
	"github.com/rockmech/rockrating/pkg/config"
)

const testCSV = `Station,Distance_m,Dip_Direction_degrees,Spacing_mm,Aperture_mm,Roughness,Weathering,Infilling_Type,Groundwater
E1,2.5,10,1,1,1,1,1,1
E1,6.0,12,1,1,1,1,1,1
E1,10.0,14,1,1,1,1,1,1
E2,4.2,310,3,3,4,3,3,3
`

func testController(t *testing.T) *Controller {
	t.Helper()

	cfg := &config.Data{
		HTTP:     config.HTTPData{ListenAddr: ":0"},
		Analysis: config.AnalysisData{ToleranceDeg: 15, MinMembers: 3},
	}
	var wg sync.WaitGroup
	ctrl, err := NewController(context.Background(), &wg, cfg, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}

	ds, err := geodata.ReadCSV(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	ctrl.RegisterDataset(DefaultDatasetID, ds)
	return ctrl
}

func doRequest(ctrl *Controller, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	ctrl := testController(t)
	rr := doRequest(ctrl, http.MethodGet, "/health", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestListStations(t *testing.T) {
	ctrl := testController(t)
	rr := doRequest(ctrl, http.MethodGet, "/datasets/default/stations", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var stations []StationInfo
	if err := json.Unmarshal(rr.Body.Bytes(), &stations); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(stations))
	}
	if stations[0].StationID != "E1" || stations[0].Count != 3 || stations[0].LengthM != 10 {
		t.Errorf("unexpected first station: %+v", stations[0])
	}
}

func TestStationScore(t *testing.T) {
	ctrl := testController(t)
	rr := doRequest(ctrl, http.MethodGet, "/datasets/default/stations/E1", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp StationScoreResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Result.Total != 72 {
		t.Errorf("E1 total = %.1f, want 72", resp.Result.Total)
	}
	if resp.Class != "Class II - good rock" {
		t.Errorf("class label = %q", resp.Class)
	}
}

func TestStationScoreNotFound(t *testing.T) {
	ctrl := testController(t)

	rr := doRequest(ctrl, http.MethodGet, "/datasets/default/stations/E9", nil, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown station status = %d, want 404", rr.Code)
	}

	rr = doRequest(ctrl, http.MethodGet, "/datasets/nope/stations/E1", nil, "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown dataset status = %d, want 404", rr.Code)
	}
}

func TestStationFamilies(t *testing.T) {
	ctrl := testController(t)
	rr := doRequest(ctrl, http.MethodGet, "/datasets/default/stations/E1/families", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp FamiliesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Families) != 1 || resp.Families[0].Label != "F1" {
		t.Fatalf("families = %+v, want one F1", resp.Families)
	}
	if resp.ToleranceDeg != 15 || resp.MinMembers != 3 {
		t.Errorf("params = %.0f/%d, want 15/3", resp.ToleranceDeg, resp.MinMembers)
	}
}

func TestStationFamiliesEmptyIsOK(t *testing.T) {
	// E2 has one oriented record; no family can form, but the response is
	// still a successful empty list, not an error
	ctrl := testController(t)
	rr := doRequest(ctrl, http.MethodGet, "/datasets/default/stations/E2/families", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"families":[]`) {
		t.Errorf("empty family list should serialize as []: %s", rr.Body.String())
	}
}

func TestStationFamiliesParamOverrides(t *testing.T) {
	ctrl := testController(t)

	rr := doRequest(ctrl, http.MethodGet, "/datasets/default/stations/E1/families?tolerance=5&min_members=2", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp FamiliesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ToleranceDeg != 5 || resp.MinMembers != 2 {
		t.Errorf("params = %.0f/%d, want 5/2", resp.ToleranceDeg, resp.MinMembers)
	}

	rr = doRequest(ctrl, http.MethodGet, "/datasets/default/stations/E1/families?tolerance=junk", nil, "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad tolerance status = %d, want 400", rr.Code)
	}
	rr = doRequest(ctrl, http.MethodGet, "/datasets/default/stations/E1/families?min_members=0", nil, "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("zero min_members status = %d, want 400", rr.Code)
	}
}

func TestDatasetSummary(t *testing.T) {
	ctrl := testController(t)
	rr := doRequest(ctrl, http.MethodGet, "/datasets/default/summary", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var resp SummaryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Summary.StationCount != 2 || resp.Summary.RecordCount != 4 {
		t.Errorf("summary = %+v", resp.Summary)
	}
	if len(resp.Stations) != 2 {
		t.Errorf("got %d station totals, want 2", len(resp.Stations))
	}
}

func TestUploadDatasetRawBody(t *testing.T) {
	ctrl := testController(t)

	rr := doRequest(ctrl, http.MethodPost, "/datasets", bytes.NewBufferString(testCSV), "text/csv")
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	var resp UploadResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Stations != 2 || resp.Records != 4 {
		t.Errorf("upload response = %+v", resp)
	}
	if resp.ID == "" {
		t.Error("upload response has empty dataset ID")
	}

	// The new dataset is immediately servable
	rr = doRequest(ctrl, http.MethodGet, "/datasets/"+resp.ID+"/stations", nil, "")
	if rr.Code != http.StatusOK {
		t.Errorf("uploaded dataset not servable: status %d", rr.Code)
	}
}

func TestUploadDatasetMultipart(t *testing.T) {
	ctrl := testController(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "survey.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(testCSV)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	rr := doRequest(ctrl, http.MethodPost, "/datasets", &buf, mw.FormDataContentType())
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
}

func TestUploadDatasetBadCSV(t *testing.T) {
	ctrl := testController(t)

	rr := doRequest(ctrl, http.MethodPost, "/datasets", bytes.NewBufferString("Station,Distance_m\nE1,1\n"), "text/csv")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Dip_Direction_degrees") {
		t.Errorf("error should name the missing column: %s", rr.Body.String())
	}
}

func TestExportCSV(t *testing.T) {
	ctrl := testController(t)

	rr := doRequest(ctrl, http.MethodGet, "/datasets/default/export", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if !strings.Contains(rr.Body.String(), "Family") {
		t.Errorf("records export missing Family column:\n%s", rr.Body.String())
	}

	rr = doRequest(ctrl, http.MethodGet, "/datasets/default/export?table=report", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("report export status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "RMR_Total") {
		t.Errorf("report export missing header:\n%s", rr.Body.String())
	}

	rr = doRequest(ctrl, http.MethodGet, "/datasets/default/export?table=junk", nil, "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad table status = %d, want 400", rr.Code)
	}
}

func TestMsgPackFormat(t *testing.T) {
	ctrl := testController(t)

	rr := doRequest(ctrl, http.MethodGet, "/datasets/default/stations/E1?format=msgpack", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/x-msgpack" {
		t.Errorf("Content-Type = %q, want application/x-msgpack", ct)
	}

	var decoded map[string]any
	dec := msgpack.NewDecoder(bytes.NewReader(rr.Body.Bytes()))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&decoded); err != nil {
		t.Fatalf("failed to decode msgpack response: %v", err)
	}
	if decoded["station_id"] != "E1" {
		t.Errorf("msgpack station_id = %v, want E1", decoded["station_id"])
	}
}
