package domain

import "time"

// A capacity-limited delivery vehicle.
//
// ID is the 1-based position in input order. CapacityKg is the full load
// the vehicle can carry between refills; the remaining load during a run
// is simulation state, not part of this type. StartAt is the combined
// date and time the vehicle becomes available at the supply point.
type Vehicle struct {
	ID         int
	CapacityKg float64
	StartAt    time.Time
}
