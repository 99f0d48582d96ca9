package routing

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

func TestOSRMRouteConvertsUnits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"Ok","routes":[{"distance":144553.0,"duration":7200.0}]}`))
	}))
	defer srv.Close()

	svc := NewOSRMRouteService(srv.URL)
	got, err := svc.Route(context.Background(), domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 0, Lon: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(got.DistanceKm-144.553) > 1e-9 {
		t.Fatalf("distance = %v km, want 144.553", got.DistanceKm)
	}
	if math.Abs(got.DurationMin-120) > 1e-9 {
		t.Fatalf("duration = %v min, want 120", got.DurationMin)
	}
}

func TestOSRMRouteClassifiesRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	svc := NewOSRMRouteService(srv.URL)
	_, err := svc.Route(context.Background(), domain.Coordinates{}, domain.Coordinates{Lat: 1, Lon: 1})

	var re *ports.RouteError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want *ports.RouteError", err)
	}
	if re.Kind != ports.RouteErrRejected {
		t.Fatalf("kind = %v, want rejected", re.Kind)
	}
	if re.Retryable() {
		t.Fatal("rejection must not be retryable")
	}
}

func TestOSRMRouteClassifiesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	svc := NewOSRMRouteService(srv.URL)
	_, err := svc.Route(context.Background(), domain.Coordinates{}, domain.Coordinates{Lat: 1, Lon: 1})

	var re *ports.RouteError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want *ports.RouteError", err)
	}
	if re.Kind != ports.RouteErrMalformed {
		t.Fatalf("kind = %v, want malformed", re.Kind)
	}
}

func TestOSRMRouteClassifiesConnectionFailure(t *testing.T) {
	// Nothing listens here.
	svc := NewOSRMRouteService("http://127.0.0.1:1")
	_, err := svc.Route(context.Background(), domain.Coordinates{}, domain.Coordinates{Lat: 1, Lon: 1})

	var re *ports.RouteError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want *ports.RouteError", err)
	}
	if !re.Retryable() {
		t.Fatalf("kind = %v, want a retryable transport failure", re.Kind)
	}
}
