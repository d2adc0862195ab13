package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/adapters/repositories"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/api/dto"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/services"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	statements := []string{
		`INSERT INTO zones (zone_id, name) VALUES (1, 'Centrum'), (2, 'Noord');`,
		`INSERT INTO vehicles (vehicle_id, zone_id, lat, lon, battery_level) VALUES
			(10, 1, 51.050, 4.470, 15),
			(11, 2, 51.200, 4.600, 40),
			(12, 1, 51.060, 4.480, 22);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	routes := repositories.NewSqliteRouteRepository(db)
	vehicles := repositories.NewSqliteVehicleRepository(db)
	optimizer := services.NewTourOptimizer(300*time.Millisecond, nil, 0)
	service := services.NewRouteService(routes, vehicles, optimizer)

	return NewRouter(service, vehicles)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, v any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if v != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
			t.Fatalf("%s %s: decode response: %v (body=%s)", method, path, err, rec.Body.String())
		}
	}
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestListVehiclesEndpoint(t *testing.T) {
	h := newTestServer(t)

	var res dto.ListVehiclesResponse
	rec := doJSON(t, h, http.MethodGet, "/vehicles?zone_id=1", "", &res)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
	if len(res.Vehicles) != 2 {
		t.Fatalf("vehicles = %d, want 2", len(res.Vehicles))
	}
}

func TestRouteLifecycleOverHTTP(t *testing.T) {
	h := newTestServer(t)

	// Create: vehicle 11 is out of zone and must be dropped.
	var created dto.RouteResponse
	rec := doJSON(t, h, http.MethodPost, "/routes", `{
		"swapper_id": 7,
		"zone_id": 1,
		"date": "2026-03-05",
		"target_duration_minutes": 120,
		"vehicle_ids": [10, 11, 12]
	}`, &created)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body=%s)", rec.Code, rec.Body.String())
	}
	if created.Status != "suggested" {
		t.Fatalf("created status = %q, want suggested", created.Status)
	}
	if len(created.Stops) != 2 {
		t.Fatalf("created stops = %d, want 2", len(created.Stops))
	}

	routeID := strconv.FormatInt(created.RouteID, 10)

	// Start before confirm refuses.
	rec = doJSON(t, h, http.MethodPost, "/routes/"+routeID+"/start", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("early start status = %d, want 404", rec.Code)
	}

	var confirmed dto.RouteResponse
	rec = doJSON(t, h, http.MethodPost, "/routes/"+routeID+"/confirm", "", &confirmed)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
	if confirmed.Status != "confirmed" || confirmed.ConfirmedAt == nil {
		t.Fatalf("confirm response = %+v", confirmed)
	}

	// Double confirm refuses.
	rec = doJSON(t, h, http.MethodPost, "/routes/"+routeID+"/confirm", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double confirm status = %d, want 404", rec.Code)
	}

	var started dto.RouteResponse
	rec = doJSON(t, h, http.MethodPost, "/routes/"+routeID+"/start", "", &started)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
	if started.Status != "in_progress" {
		t.Fatalf("started status = %q, want in_progress", started.Status)
	}

	// Work through the stops: complete the first, skip the second.
	firstStop := strconv.FormatInt(created.Stops[0].RouteStopID, 10)
	secondStop := strconv.FormatInt(created.Stops[1].RouteStopID, 10)

	var action dto.StopActionResponse
	rec = doJSON(t, h, http.MethodPost, "/stops/"+firstStop+"/complete", "", &action)
	if rec.Code != http.StatusOK || !action.Updated {
		t.Fatalf("complete stop = (%d, %+v)", rec.Code, action)
	}

	// Completing the same stop again is a 404.
	rec = doJSON(t, h, http.MethodPost, "/stops/"+firstStop+"/complete", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double complete status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/stops/"+secondStop+"/skip", "", &action)
	if rec.Code != http.StatusOK || !action.Updated {
		t.Fatalf("skip stop = (%d, %+v)", rec.Code, action)
	}

	// All stops terminal: the route completed itself.
	var listed dto.ListRoutesResponse
	rec = doJSON(t, h, http.MethodGet, "/routes?zone_id=1", "", &listed)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	if len(listed.Routes) != 1 {
		t.Fatalf("listed routes = %d, want 1", len(listed.Routes))
	}
	if listed.Routes[0].Status != "completed" {
		t.Fatalf("final route status = %q, want completed", listed.Routes[0].Status)
	}
}

func TestCreateRouteValidation(t *testing.T) {
	h := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"unknown field", `{"swapper_id": 7, "zone_id": 1, "target_duration_minutes": 120, "vehicle_ids": [10], "extra": true}`},
		{"missing swapper", `{"zone_id": 1, "target_duration_minutes": 120, "vehicle_ids": [10]}`},
		{"missing vehicles", `{"swapper_id": 7, "zone_id": 1, "target_duration_minutes": 120, "vehicle_ids": []}`},
		{"bad date", `{"swapper_id": 7, "zone_id": 1, "date": "05-03-2026", "target_duration_minutes": 120, "vehicle_ids": [10]}`},
		{"duration too short", `{"swapper_id": 7, "zone_id": 1, "target_duration_minutes": 30, "vehicle_ids": [10]}`},
		{"no vehicles in zone", `{"swapper_id": 7, "zone_id": 1, "target_duration_minutes": 120, "vehicle_ids": [11]}`},
	}

	for _, c := range cases {
		rec := doJSON(t, h, http.MethodPost, "/routes", c.body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400 (body=%s)", c.name, rec.Code, rec.Body.String())
		}
	}
}

func TestListRoutesRequiresFilter(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/routes", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	// An empty filtered result is a 200 with an empty list.
	var listed dto.ListRoutesResponse
	rec = doJSON(t, h, http.MethodGet, "/routes?status=completed", "", &listed)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(listed.Routes) != 0 {
		t.Fatalf("routes = %d, want 0", len(listed.Routes))
	}
}
