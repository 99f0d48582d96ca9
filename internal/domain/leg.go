package domain

import "time"

// One movement of one vehicle between two locations.
//
// Delivery legs carry the delivered quantity and the unload time spent at
// the destination. Refill and closing return legs carry zero DeliverKg and
// zero UnloadMin. Within a vehicle's route the departure of leg n+1 is
// never earlier than arrival+unload of leg n.
type Leg struct {
	From       string
	To         string
	Depart     time.Time
	Arrive     time.Time
	DeliverKg  float64
	UnloadMin  float64
	DistanceKm float64
}

func (l Leg) IsDelivery() bool { return l.DeliverKg > 0 }
