package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fleet-dispatch-service/internal/adapters/geocode"
	"fleet-dispatch-service/internal/api/dto"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/services"
)

func testRouter() http.Handler {
	geocoder := geocode.NewMockGeocoder(map[string]domain.Coordinates{
		"Mumbai, India": {Lat: 19.076, Lon: 72.8777},
		"Delhi, India":  {Lat: 28.7041, Lon: 77.1025},
	})

	// Fallback-only estimator keeps the test offline and deterministic.
	builder := &services.MatrixBuilder{
		Geocoder:  geocoder,
		Estimator: services.NewEstimator(nil),
	}

	return NewRouter(builder)
}

const planBody = `{
	"supply": "Mumbai, India",
	"vehicles": [{"capacity": 1000, "start_date": "2025-01-15", "start_time": "08:00"}],
	"demands": [{"city": "Delhi, India", "demand": 500, "tw_start": "09:00", "tw_end": "17:00"}]
}`

func TestPlanEndpointProducesRouteAndSummary(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(planBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}

	var res dto.PlanResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if res.RunID == "" {
		t.Fatal("run_id must be set")
	}
	if len(res.Routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(res.Routes))
	}

	legs := res.Routes[0].Legs
	if len(legs) != 2 {
		t.Fatalf("legs = %d, want delivery + return", len(legs))
	}
	if legs[0].To != "Delhi, India" || legs[0].DeliverKg != 500 {
		t.Fatalf("delivery leg = %+v", legs[0])
	}
	if legs[1].To != "Mumbai, India" {
		t.Fatalf("route must end at the supply point, got %q", legs[1].To)
	}

	if res.Summary.BottleneckVehicle != 1 {
		t.Fatalf("bottleneck = %d, want 1", res.Summary.BottleneckVehicle)
	}
	if res.Summary.TotalDistanceKm <= 0 || res.Summary.CompletionHours <= 0 {
		t.Fatalf("summary not populated: %+v", res.Summary)
	}
	if len(res.Unserved) != 0 {
		t.Fatalf("unexpected unserved demand: %+v", res.Unserved)
	}
}

func TestPlanEndpointRejectsInvalidRequests(t *testing.T) {
	router := testRouter()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"not json", `{`, http.StatusBadRequest},
		{"missing supply", `{"vehicles":[{"capacity":1,"start_date":"2025-01-15","start_time":"08:00"}],"demands":[{"city":"Delhi, India","demand":1}]}`, http.StatusBadRequest},
		{"zero capacity", `{"supply":"Mumbai, India","vehicles":[{"capacity":0,"start_date":"2025-01-15","start_time":"08:00"}],"demands":[{"city":"Delhi, India","demand":1}]}`, http.StatusBadRequest},
		{"bad start time", `{"supply":"Mumbai, India","vehicles":[{"capacity":1,"start_date":"2025-01-15","start_time":"8am"}],"demands":[{"city":"Delhi, India","demand":1}]}`, http.StatusBadRequest},
		{"unknown city", `{"supply":"Mumbai, India","vehicles":[{"capacity":1,"start_date":"2025-01-15","start_time":"08:00"}],"demands":[{"city":"Atlantis","demand":1}]}`, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d (body: %s)", tc.name, rec.Code, tc.want, rec.Body.String())
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
