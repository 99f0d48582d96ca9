package services

import (
	"context"
	"errors"
	"math"
	"time"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/metrics"
	"fleet-dispatch-service/internal/ports"
)

const (
	earthRadiusKm      = 6371.0
	roadCircuityFactor = 1.3

	// fallbackSpeedKmph converts fallback road distance to duration.
	// The dispatch engine derives travel time at its own dispatchSpeedKmph
	// (60); the two constants are intentionally distinct and must not be
	// unified without changing simulated arrival times.
	fallbackSpeedKmph = 50.0

	routeAttempts   = 3
	routeRetryDelay = 2 * time.Second
)

// Estimator is the distance/time oracle: remote-first with a deterministic
// geometric fallback. Estimate never fails; any remote failure degrades to
// the fallback instead of propagating.
type Estimator struct {
	Router ports.RouteService
	// RetryDelay is the fixed wait between attempts after a transient
	// failure. Tests shorten it; zero means the production default.
	RetryDelay time.Duration
}

func NewEstimator(router ports.RouteService) *Estimator {
	return &Estimator{Router: router, RetryDelay: routeRetryDelay}
}

// Estimate returns road distance and travel time between two coordinate
// pairs. Transient remote failures (timeout, connection) are retried up to
// routeAttempts with a fixed delay; any other failure kind, or exhaustion
// of retries, falls through to FallbackEstimate.
func (e *Estimator) Estimate(ctx context.Context, origin, dest domain.Coordinates) domain.Estimate {
	if e.Router == nil {
		metrics.OracleEstimates.WithLabelValues("fallback").Inc()
		return FallbackEstimate(origin, dest)
	}

	delay := e.RetryDelay
	if delay <= 0 {
		delay = routeRetryDelay
	}

	for attempt := 1; attempt <= routeAttempts; attempt++ {
		res, err := e.Router.Route(ctx, origin, dest)
		if err == nil {
			metrics.OracleEstimates.WithLabelValues("remote").Inc()
			return domain.Estimate{DistanceKm: res.DistanceKm, DurationMin: res.DurationMin}
		}

		var re *ports.RouteError
		if !errors.As(err, &re) || !re.Retryable() || attempt == routeAttempts {
			break
		}
		metrics.OracleRetries.Inc()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
			continue
		}
		break
	}

	metrics.OracleEstimates.WithLabelValues("fallback").Inc()
	return FallbackEstimate(origin, dest)
}

// FallbackEstimate is the pure geometric estimate: great-circle distance
// inflated by a fixed road-circuity factor, with duration derived from an
// assumed average road speed. No I/O, no randomness; identical inputs
// always yield identical output.
func FallbackEstimate(origin, dest domain.Coordinates) domain.Estimate {
	km := haversineKm(origin, dest) * roadCircuityFactor
	return domain.Estimate{
		DistanceKm:  km,
		DurationMin: km / fallbackSpeedKmph * 60,
	}
}

func haversineKm(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Asin(math.Sqrt(h))
}
