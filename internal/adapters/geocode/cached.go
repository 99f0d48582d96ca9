package geocode

import (
	"context"
	"fmt"
	"log"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

// CachedGeocoder consults a persistent cache before delegating to the
// underlying geocoder. Cache write failures are logged, not surfaced: the
// cache is an optimization, never a correctness dependency.
type CachedGeocoder struct {
	Next  ports.Geocoder
	Cache ports.GeocodeCache
}

func (g *CachedGeocoder) Resolve(ctx context.Context, name string) (domain.Coordinates, error) {
	if g.Cache != nil {
		hits, err := g.Cache.GetMany(ctx, []string{name})
		if err != nil {
			log.Printf("geocode cache read failed name=%q err=%v", name, err)
		} else if c, ok := hits[name]; ok {
			return c, nil
		}
	}

	coords, err := g.Next.Resolve(ctx, name)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("cached geocoder: %w", err)
	}

	if g.Cache != nil {
		if err := g.Cache.PutMany(ctx, map[string]domain.Coordinates{name: coords}); err != nil {
			log.Printf("geocode cache write failed name=%q err=%v", name, err)
		}
	}

	return coords, nil
}
