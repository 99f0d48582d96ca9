package ports

import (
	"context"
	"fmt"

	"fleet-dispatch-service/internal/domain"
)

// Road distance and travel duration for a driving route, as returned by a
// remote routing service.
type RouteResult struct {
	DistanceKm  float64
	DurationMin float64
}

// Contract for querying a remote routing service.
type RouteService interface {
	// Route returns the driving distance and duration between two
	// coordinate pairs, or a *RouteError describing the failure kind.
	Route(ctx context.Context, origin, destination domain.Coordinates) (RouteResult, error)
}

// Enumerated failure kinds a route service may surface. The estimator
// retries timeouts and connection errors; every other kind falls straight
// through to the geometric fallback.
type RouteErrorKind int

const (
	RouteErrTimeout RouteErrorKind = iota
	RouteErrConnection
	RouteErrMalformed
	RouteErrRejected
)

func (k RouteErrorKind) String() string {
	switch k {
	case RouteErrTimeout:
		return "timeout"
	case RouteErrConnection:
		return "connection"
	case RouteErrMalformed:
		return "malformed"
	case RouteErrRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// RouteError is the typed failure a RouteService returns.
type RouteError struct {
	Kind RouteErrorKind
	Err  error
}

func (e *RouteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("route service: %s", e.Kind)
	}
	return fmt.Sprintf("route service: %s: %v", e.Kind, e.Err)
}

func (e *RouteError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is transient enough to retry.
func (e *RouteError) Retryable() bool {
	return e.Kind == RouteErrTimeout || e.Kind == RouteErrConnection
}
