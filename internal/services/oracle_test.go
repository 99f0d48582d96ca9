package services

import (
	"context"
	"math"
	"testing"
	"time"

	"fleet-dispatch-service/internal/adapters/routing"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

func TestFallbackEstimateKnownDistance(t *testing.T) {
	// One degree of longitude on the equator is 6371 * pi/180 km,
	// inflated by the 1.3 road circuity factor.
	origin := domain.Coordinates{Lat: 0, Lon: 0}
	dest := domain.Coordinates{Lat: 0, Lon: 1}

	est := FallbackEstimate(origin, dest)

	wantKm := 6371.0 * math.Pi / 180 * 1.3
	if math.Abs(est.DistanceKm-wantKm) > 1e-6 {
		t.Fatalf("distance = %v, want %v", est.DistanceKm, wantKm)
	}

	wantMin := wantKm / 50 * 60
	if math.Abs(est.DurationMin-wantMin) > 1e-6 {
		t.Fatalf("duration = %v, want %v", est.DurationMin, wantMin)
	}
}

func TestFallbackEstimateIsPure(t *testing.T) {
	origin := domain.Coordinates{Lat: 19.076, Lon: 72.8777}
	dest := domain.Coordinates{Lat: 28.7041, Lon: 77.1025}

	first := FallbackEstimate(origin, dest)
	for i := 0; i < 10; i++ {
		if got := FallbackEstimate(origin, dest); got != first {
			t.Fatalf("call %d produced %v, want %v", i, got, first)
		}
	}
}

func TestEstimateUsesRemoteResult(t *testing.T) {
	origin := domain.Coordinates{Lat: 1, Lon: 2}
	dest := domain.Coordinates{Lat: 3, Lon: 4}

	router := routing.NewMockRouteService([]routing.MockRoute{
		{From: origin, To: dest, Km: 42, Min: 33},
	})

	e := NewEstimator(router)
	got := e.Estimate(context.Background(), origin, dest)

	if got.DistanceKm != 42 || got.DurationMin != 33 {
		t.Fatalf("estimate = %+v, want 42 km / 33 min", got)
	}
	if router.Calls != 1 {
		t.Fatalf("router calls = %d, want 1", router.Calls)
	}
}

func TestEstimateRetriesTransientThenFallsBack(t *testing.T) {
	origin := domain.Coordinates{Lat: 0, Lon: 0}
	dest := domain.Coordinates{Lat: 0, Lon: 1}

	router := routing.NewMockRouteService(nil)
	router.Err = &ports.RouteError{Kind: ports.RouteErrTimeout}

	e := NewEstimator(router)
	e.RetryDelay = time.Millisecond

	got := e.Estimate(context.Background(), origin, dest)

	if router.Calls != 3 {
		t.Fatalf("router calls = %d, want 3", router.Calls)
	}
	if want := FallbackEstimate(origin, dest); got != want {
		t.Fatalf("estimate = %+v, want fallback %+v", got, want)
	}
}

func TestEstimateFallsBackImmediatelyOnRejection(t *testing.T) {
	origin := domain.Coordinates{Lat: 0, Lon: 0}
	dest := domain.Coordinates{Lat: 1, Lon: 1}

	router := routing.NewMockRouteService(nil)
	router.Err = &ports.RouteError{Kind: ports.RouteErrRejected}

	e := NewEstimator(router)
	e.RetryDelay = time.Millisecond

	got := e.Estimate(context.Background(), origin, dest)

	if router.Calls != 1 {
		t.Fatalf("router calls = %d, want 1 (rejection must not be retried)", router.Calls)
	}
	if want := FallbackEstimate(origin, dest); got != want {
		t.Fatalf("estimate = %+v, want fallback %+v", got, want)
	}
}
