package domain

import "slices"

// Plan maps a vehicle ID to its ordered leg sequence.
// Vehicles that never moved do not appear.
type Plan map[int][]Leg

// VehicleIDs returns the plan's vehicle IDs in ascending order.
// Map iteration order is randomized; output must be stable.
func (p Plan) VehicleIDs() []int {
	ids := make([]int, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
