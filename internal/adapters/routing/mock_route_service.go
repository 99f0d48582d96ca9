package routing

import (
	"context"
	"fmt"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

type MockRoute struct {
	From, To domain.Coordinates
	Km       float64
	Min      float64
}

// MockRouteService serves canned route results in tests. When Err is set
// every call fails with it; Calls counts attempts either way.
type MockRouteService struct {
	m     map[string]ports.RouteResult
	Err   error
	Calls int
}

func NewMockRouteService(routes []MockRoute) *MockRouteService {
	m := make(map[string]ports.RouteResult, len(routes))
	for _, r := range routes {
		m[pairKey(r.From, r.To)] = ports.RouteResult{DistanceKm: r.Km, DurationMin: r.Min}
	}
	return &MockRouteService{m: m}
}

func (s *MockRouteService) Route(ctx context.Context, origin, destination domain.Coordinates) (ports.RouteResult, error) {
	s.Calls++
	if s.Err != nil {
		return ports.RouteResult{}, s.Err
	}

	r, ok := s.m[pairKey(origin, destination)]
	if !ok {
		return ports.RouteResult{}, &ports.RouteError{
			Kind: ports.RouteErrRejected,
			Err:  fmt.Errorf("missing pair %v -> %v", origin, destination),
		}
	}
	return r, nil
}

func pairKey(a, b domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f", a.Lat, a.Lon, b.Lat, b.Lon)
}
