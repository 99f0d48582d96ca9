package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/metrics"
)

const (
	// dispatchSpeedKmph converts matrix road distance into simulated
	// travel time. Deliberately distinct from fallbackSpeedKmph in
	// oracle.go; unifying them would silently shift arrival times.
	dispatchSpeedKmph = 60.0

	unloadMinPer100Kg = 30.0

	// quantityEpsilon guards remaining-quantity and remaining-capacity
	// comparisons against floating-point drift.
	quantityEpsilon = 1e-9
)

// ErrNoSolution reports a run where demand exists but no vehicle produced
// a single leg. Callers can distinguish it from "nothing to deliver",
// which yields an empty plan and a nil error.
var ErrNoSolution = errors.New("no vehicle produced a route")

// Result is the output of one dispatch run.
type Result struct {
	Plan domain.Plan
	// UnservedKg holds demand left unfulfilled after the whole fleet was
	// exhausted, keyed by demand input index. Empty when everything was
	// delivered.
	UnservedKg map[int]float64
}

// Unfulfilled reports whether any demand remains after the run.
func (r *Result) Unfulfilled() bool { return len(r.UnservedKg) > 0 }

// demandState is one demand's mutable remaining quantity during a run.
// Identity is the demand's input index; City is only the display name.
type demandState struct {
	index       int
	city        string
	location    int
	remainingKg float64
}

// Dispatch runs the greedy time-advancing simulation over the fleet.
//
// Vehicles are processed strictly in input order, each route built to
// completion before the next vehicle starts, because later vehicles depend
// on the remaining-demand state earlier ones leave behind. All mutable
// state lives in this invocation; the engine is stateless across runs.
func Dispatch(matrix *domain.DistanceMatrix, vehicles []domain.Vehicle, demands []domain.Demand) (*Result, error) {
	if matrix == nil || len(matrix.Locations) == 0 {
		return nil, errors.New("dispatch: matrix must be non-empty")
	}

	states := make([]*demandState, 0, len(demands))
	for i, d := range demands {
		if d.QuantityKg <= 0 {
			return nil, fmt.Errorf("dispatch: demand %d (%q) quantity must be positive", i, d.City)
		}
		loc := matrix.IndexOf(d.City)
		if loc < 0 {
			return nil, fmt.Errorf("dispatch: demand city %q is not in the matrix", d.City)
		}
		states = append(states, &demandState{
			index:       i,
			city:        d.City,
			location:    loc,
			remainingKg: d.QuantityKg,
		})
	}

	plan := domain.Plan{}
	for _, v := range vehicles {
		if !anyRemaining(states) {
			break
		}
		if legs := simulateVehicle(matrix, v, states); len(legs) > 0 {
			plan[v.ID] = legs
		}
	}

	unserved := make(map[int]float64)
	for _, ds := range states {
		if ds.remainingKg > quantityEpsilon {
			unserved[ds.index] = ds.remainingKg
		}
	}

	if len(demands) > 0 && len(plan) == 0 {
		metrics.PlanRuns.WithLabelValues("no_solution").Inc()
		return nil, ErrNoSolution
	}

	res := &Result{Plan: plan, UnservedKg: unserved}
	switch {
	case len(demands) == 0:
		metrics.PlanRuns.WithLabelValues("empty").Inc()
	case res.Unfulfilled():
		metrics.PlanRuns.WithLabelValues("partial").Inc()
	default:
		metrics.PlanRuns.WithLabelValues("complete").Inc()
	}
	return res, nil
}

// simulateVehicle advances one vehicle through the demand list in input
// order, mutating the shared demand states as it delivers.
func simulateVehicle(m *domain.DistanceMatrix, v domain.Vehicle, states []*demandState) []domain.Leg {
	const depot = 0

	cursor := v.StartAt
	loc := depot
	capacity := v.CapacityKg

	var legs []domain.Leg

	for _, ds := range states {
		for ds.remainingKg > quantityEpsilon {
			if capacity > quantityEpsilon {
				travel := travelMinutes(m, loc, ds.location)
				arrive := cursor.Add(minutes(travel))
				deliver := math.Min(capacity, ds.remainingKg)
				unload := deliver / 100 * unloadMinPer100Kg

				legs = append(legs, domain.Leg{
					From:       m.Locations[loc].Name,
					To:         ds.city,
					Depart:     cursor,
					Arrive:     arrive,
					DeliverKg:  deliver,
					UnloadMin:  unload,
					DistanceKm: m.DistanceKm(loc, ds.location),
				})

				cursor = arrive.Add(minutes(unload))
				ds.remainingKg -= deliver
				capacity -= deliver
				loc = ds.location
				continue
			}

			// Capacity exhausted: refill only when returning via the depot
			// is no slower than dispatching a fresh vehicle from it.
			refillMin := travelMinutes(m, loc, depot) + travelMinutes(m, depot, ds.location)
			freshMin := travelMinutes(m, depot, ds.location)
			if refillMin > freshMin {
				// Not economical to continue; leave the remainder for the
				// next vehicle and move on to the next demand city.
				break
			}

			back := travelMinutes(m, loc, depot)
			arrive := cursor.Add(minutes(back))
			legs = append(legs, domain.Leg{
				From:       m.Locations[loc].Name,
				To:         m.Locations[depot].Name,
				Depart:     cursor,
				Arrive:     arrive,
				DistanceKm: m.DistanceKm(loc, depot),
			})
			cursor = arrive
			loc = depot
			capacity = v.CapacityKg
		}
	}

	// Every non-empty route ends back at the supply point.
	if loc != depot {
		back := travelMinutes(m, loc, depot)
		arrive := cursor.Add(minutes(back))
		legs = append(legs, domain.Leg{
			From:       m.Locations[loc].Name,
			To:         m.Locations[depot].Name,
			Depart:     cursor,
			Arrive:     arrive,
			DistanceKm: m.DistanceKm(loc, depot),
		})
	}

	return legs
}

func anyRemaining(states []*demandState) bool {
	for _, ds := range states {
		if ds.remainingKg > quantityEpsilon {
			return true
		}
	}
	return false
}

func travelMinutes(m *domain.DistanceMatrix, from, to int) float64 {
	return m.DistanceKm(from, to) / dispatchSpeedKmph * 60
}

func minutes(min float64) time.Duration {
	return time.Duration(min * float64(time.Minute))
}
