package services

import (
	"context"
	"errors"
	"testing"

	"fleet-dispatch-service/internal/adapters/geocode"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

// In-memory DistanceCache for builder tests.
type memDistanceCache struct {
	rows map[string]map[string]domain.Estimate
	puts int
}

func newMemDistanceCache() *memDistanceCache {
	return &memDistanceCache{rows: make(map[string]map[string]domain.Estimate)}
}

func (c *memDistanceCache) GetMany(ctx context.Context, origin string, destinations []string) (map[string]domain.Estimate, error) {
	out := make(map[string]domain.Estimate)
	for _, d := range destinations {
		if est, ok := c.rows[origin][d]; ok {
			out[d] = est
		}
	}
	return out, nil
}

func (c *memDistanceCache) PutMany(ctx context.Context, origin string, results map[string]domain.Estimate) error {
	c.puts++
	row := c.rows[origin]
	if row == nil {
		row = make(map[string]domain.Estimate)
		c.rows[origin] = row
	}
	for d, est := range results {
		row[d] = est
	}
	return nil
}

func testGeocoder() ports.Geocoder {
	return geocode.NewMockGeocoder(map[string]domain.Coordinates{
		"Depot": {Lat: 0, Lon: 0},
		"A":     {Lat: 0, Lon: 1},
		"B":     {Lat: 1, Lon: 0},
	})
}

func TestBuildMatrixOrdersLocationsAndFillsPairs(t *testing.T) {
	demands := []domain.Demand{
		{City: "A", QuantityKg: 10},
		{City: "B", QuantityKg: 20},
		{City: "A", QuantityKg: 5}, // duplicate city, single location
	}

	var lastFrac float64
	b := &MatrixBuilder{
		Geocoder:  testGeocoder(),
		Estimator: NewEstimator(nil), // fallback only
		Progress:  func(frac float64) { lastFrac = frac },
	}

	m, err := b.Build(context.Background(), "Depot", demands)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantNames := []string{"Depot", "A", "B"}
	if len(m.Locations) != len(wantNames) {
		t.Fatalf("locations = %d, want %d", len(m.Locations), len(wantNames))
	}
	for i, want := range wantNames {
		if m.Locations[i].Name != want || m.Locations[i].Index != i {
			t.Fatalf("location %d = %+v, want name %q index %d", i, m.Locations[i], want, i)
		}
	}

	for i := range wantNames {
		for j := range wantNames {
			got := m.At(i, j)
			if i == j {
				if got != (domain.Estimate{}) {
					t.Fatalf("diagonal cell (%d,%d) = %+v, want zero", i, j, got)
				}
				continue
			}
			want := FallbackEstimate(m.Locations[i].Coords, m.Locations[j].Coords)
			if got != want {
				t.Fatalf("cell (%d,%d) = %+v, want %+v", i, j, got, want)
			}
		}
	}

	if lastFrac != 1.0 {
		t.Fatalf("final progress = %v, want 1.0", lastFrac)
	}
}

func TestBuildMatrixGeocodeFailureIsFatal(t *testing.T) {
	b := &MatrixBuilder{
		Geocoder:  testGeocoder(),
		Estimator: NewEstimator(nil),
	}

	_, err := b.Build(context.Background(), "Depot", []domain.Demand{{City: "Nowhere", QuantityKg: 1}})
	if err == nil {
		t.Fatal("expected error for unresolvable city")
	}
	if !errors.Is(err, ports.ErrLocationNotFound) {
		t.Fatalf("error = %v, want ErrLocationNotFound", err)
	}
}

func TestBuildMatrixPrefersCachedEstimates(t *testing.T) {
	cached := domain.Estimate{DistanceKm: 999, DurationMin: 111}

	mem := newMemDistanceCache()
	mem.rows["Depot"] = map[string]domain.Estimate{"A": cached}

	b := &MatrixBuilder{
		Geocoder:  testGeocoder(),
		Estimator: NewEstimator(nil),
		Cache:     mem,
	}

	m, err := b.Build(context.Background(), "Depot", []domain.Demand{{City: "A", QuantityKg: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := m.At(0, 1); got != cached {
		t.Fatalf("cell (0,1) = %+v, want cached %+v", got, cached)
	}

	// The A -> Depot direction was a miss and must have been stored.
	if got := m.At(1, 0); got == cached {
		t.Fatalf("cell (1,0) unexpectedly equals the seeded value")
	}
	row, _ := mem.GetMany(context.Background(), "A", []string{"Depot"})
	if _, ok := row["Depot"]; !ok {
		t.Fatal("computed estimate was not written back to the cache")
	}
}
