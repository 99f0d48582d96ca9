package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/time/rate"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/platform/obs"
	"fleet-dispatch-service/internal/ports"
)

// MatrixBuilder resolves the location set for a planning run and
// materializes the full pairwise distance matrix by querying the oracle
// for every ordered pair.
//
// Oracle calls go through an optional persistent cache and an optional
// rate limiter that paces remote lookups. Geocoding failures are fatal to
// the run; estimate lookups never fail (the oracle degrades internally).
type MatrixBuilder struct {
	Geocoder  ports.Geocoder
	Estimator *Estimator
	Cache     ports.DistanceCache // optional
	Limiter   *rate.Limiter       // optional, paces remote oracle calls
	// Progress, when set, receives a completion fraction in [0,1].
	Progress func(frac float64)
}

// Build resolves coordinates for the supply point and every distinct
// demand city (input order preserved, supply first) and fills an n×n
// estimate matrix for all ordered pairs. Diagonal cells stay zero.
func (b *MatrixBuilder) Build(ctx context.Context, supply string, demands []domain.Demand) (_ *domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "matrix.Build")(&err)

	supply = strings.TrimSpace(supply)
	if supply == "" {
		return nil, errors.New("build matrix: supply location must be non-empty")
	}
	if b.Geocoder == nil {
		return nil, errors.New("build matrix: geocoder must be non-nil")
	}
	if b.Estimator == nil {
		return nil, errors.New("build matrix: estimator must be non-nil")
	}

	// Distinct location names, supply point first, demand cities in
	// declaration order.
	names := []string{supply}
	seen := map[string]struct{}{supply: {}}
	for _, d := range demands {
		city := strings.TrimSpace(d.City)
		if city == "" {
			return nil, errors.New("build matrix: demand city must be non-empty")
		}
		if _, ok := seen[city]; ok {
			continue
		}
		seen[city] = struct{}{}
		names = append(names, city)
	}

	n := len(names)
	locations := make([]domain.Location, 0, n)
	for i, name := range names {
		coords, rerr := b.Geocoder.Resolve(ctx, name)
		if rerr != nil {
			return nil, fmt.Errorf("build matrix: resolve %q: %w", name, rerr)
		}
		locations = append(locations, domain.Location{Index: i, Name: name, Coords: coords})
		b.report(0.5 * float64(i+1) / float64(n))
	}

	cells := make([][]domain.Estimate, n)
	for i := range cells {
		cells[i] = make([]domain.Estimate, n)
	}

	totalPairs := n * (n - 1)
	pairCount := 0

	for i := 0; i < n; i++ {
		row, rerr := b.cachedRow(ctx, names[i], names)
		if rerr != nil {
			// The cache is an optimization; a failed read degrades to
			// recomputing the row, not to failing the run.
			log.Printf("distance cache read failed origin=%q err=%v", names[i], rerr)
			row = nil
		}

		fresh := make(map[string]domain.Estimate)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}

			est, hit := row[names[j]]
			if !hit {
				if b.Limiter != nil {
					if werr := b.Limiter.Wait(ctx); werr != nil {
						return nil, fmt.Errorf("build matrix: wait for rate limiter: %w", werr)
					}
				}
				est = b.Estimator.Estimate(ctx, locations[i].Coords, locations[j].Coords)
				fresh[names[j]] = est
			}

			cells[i][j] = est
			pairCount++
			b.report(0.5 + 0.5*float64(pairCount)/float64(totalPairs))
		}

		if b.Cache != nil && len(fresh) > 0 {
			if perr := b.Cache.PutMany(ctx, names[i], fresh); perr != nil {
				log.Printf("distance cache write failed origin=%q err=%v", names[i], perr)
			}
		}
	}

	b.report(1.0)
	return &domain.DistanceMatrix{Locations: locations, Cells: cells}, nil
}

func (b *MatrixBuilder) cachedRow(ctx context.Context, origin string, names []string) (map[string]domain.Estimate, error) {
	if b.Cache == nil {
		return nil, nil
	}

	destinations := make([]string, 0, len(names)-1)
	for _, name := range names {
		if name != origin {
			destinations = append(destinations, name)
		}
	}
	return b.Cache.GetMany(ctx, origin, destinations)
}

func (b *MatrixBuilder) report(frac float64) {
	if b.Progress == nil {
		return
	}
	if frac > 1 {
		frac = 1
	}
	b.Progress(frac)
}
