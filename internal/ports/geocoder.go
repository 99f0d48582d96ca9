package ports

import (
	"context"
	"errors"

	"fleet-dispatch-service/internal/domain"
)

// ErrLocationNotFound reports a place name with no geocoding result.
// Matrix building treats it as fatal for the whole run.
var ErrLocationNotFound = errors.New("location not found")

// Contract for resolving a place name to geographic coordinates.
type Geocoder interface {
	// Resolve returns coordinates for a place name. A name that yields no
	// result returns an error wrapping ErrLocationNotFound.
	Resolve(ctx context.Context, name string) (domain.Coordinates, error)
}
