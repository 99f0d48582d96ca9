package ports

import (
	"context"

	"fleet-dispatch-service/internal/domain"
)

// DistanceCache persists oracle estimates across planning runs.
// Keys are location names normalized by the caller.
type DistanceCache interface {
	// Fetch cached estimates for one origin and multiple destinations.
	// Missing pairs are simply absent from the result.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]domain.Estimate, error)
	// Store estimates for a single origin.
	PutMany(ctx context.Context, origin string, results map[string]domain.Estimate) error
}

// GeocodeCache persists resolved coordinates across planning runs.
type GeocodeCache interface {
	GetMany(ctx context.Context, names []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
