package domain

// Per-vehicle route statistics derived from a Plan.
type VehicleStats struct {
	VehicleID    int
	Route        []string // distinct locations in visit order
	DistanceKm   float64
	Hours        float64 // first departure to last arrival
	AvgSpeedKmph float64 // 0 when Hours is 0
}

// Fleet-wide reduction over a Plan.
//
// CompletionHours is the maximum per-vehicle elapsed time; the vehicle
// achieving it is the bottleneck that determines when the whole plan
// finishes.
type Summary struct {
	VehiclesUsed      int
	TotalDistanceKm   float64
	CompletionHours   float64
	BottleneckVehicle int
	Vehicles          []VehicleStats
}
