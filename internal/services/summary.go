package services

import "fleet-dispatch-service/internal/domain"

// Summarize reduces a Plan to per-vehicle and fleet-wide statistics.
// It performs no I/O and does not mutate the plan.
func Summarize(plan domain.Plan) domain.Summary {
	summary := domain.Summary{
		VehiclesUsed: len(plan),
		Vehicles:     make([]domain.VehicleStats, 0, len(plan)),
	}

	for _, id := range plan.VehicleIDs() {
		legs := plan[id]
		if len(legs) == 0 {
			continue
		}

		var visited []string
		seen := make(map[string]struct{})
		record := func(name string) {
			if _, ok := seen[name]; ok {
				return
			}
			seen[name] = struct{}{}
			visited = append(visited, name)
		}

		var distanceKm float64
		for _, leg := range legs {
			record(leg.From)
			record(leg.To)
			distanceKm += leg.DistanceKm
		}

		hours := legs[len(legs)-1].Arrive.Sub(legs[0].Depart).Hours()
		avgSpeed := 0.0
		if hours > 0 {
			avgSpeed = distanceKm / hours
		}

		summary.Vehicles = append(summary.Vehicles, domain.VehicleStats{
			VehicleID:    id,
			Route:        visited,
			DistanceKm:   distanceKm,
			Hours:        hours,
			AvgSpeedKmph: avgSpeed,
		})

		summary.TotalDistanceKm += distanceKm
		if hours > summary.CompletionHours {
			summary.CompletionHours = hours
			summary.BottleneckVehicle = id
		}
	}

	return summary
}
