package geocode

import (
	"context"
	"fmt"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

// MockGeocoder serves canned coordinates in tests.
type MockGeocoder struct {
	m map[string]domain.Coordinates
}

func NewMockGeocoder(coords map[string]domain.Coordinates) *MockGeocoder {
	return &MockGeocoder{m: coords}
}

func (g *MockGeocoder) Resolve(ctx context.Context, name string) (domain.Coordinates, error) {
	c, ok := g.m[name]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocoder: %q: %w", name, ports.ErrLocationNotFound)
	}
	return c, nil
}
