package dto

import "time"

type VehicleRequest struct {
	CapacityKg float64 `json:"capacity"`
	StartDate  string  `json:"start_date"` // "2006-01-02"
	StartTime  string  `json:"start_time"` // "15:04"
}

type DemandRequest struct {
	City     string  `json:"city"`
	DemandKg float64 `json:"demand"`
	TWStart  string  `json:"tw_start"`
	TWEnd    string  `json:"tw_end"`
}

type PlanRequest struct {
	Supply   string           `json:"supply"`
	Vehicles []VehicleRequest `json:"vehicles"`
	Demands  []DemandRequest  `json:"demands"`
}

type LegResponse struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	Depart     time.Time `json:"depart"`
	Arrive     time.Time `json:"arrive"`
	DeliverKg  float64   `json:"deliver"`
	UnloadMin  float64   `json:"unload"`
	DistanceKm float64   `json:"distance"`
}

type VehicleRouteResponse struct {
	VehicleID int           `json:"vehicle_id"`
	Legs      []LegResponse `json:"legs"`
}

type VehicleStatsResponse struct {
	VehicleID    int      `json:"vehicle_id"`
	Route        []string `json:"route"`
	DistanceKm   float64  `json:"distance"`
	Hours        float64  `json:"time"`
	AvgSpeedKmph float64  `json:"avg_speed"`
}

type SummaryResponse struct {
	TotalDistanceKm   float64                `json:"total_distance"`
	CompletionHours   float64                `json:"completion_time"`
	BottleneckVehicle int                    `json:"bottleneck_vehicle"`
	PerVehicle        []VehicleStatsResponse `json:"per_vehicle"`
}

type UnservedResponse struct {
	City        string  `json:"city"`
	RemainingKg float64 `json:"remaining"`
}

type PlanResponse struct {
	RunID    string                 `json:"run_id"`
	Routes   []VehicleRouteResponse `json:"routes"`
	Summary  SummaryResponse        `json:"summary"`
	Unserved []UnservedResponse     `json:"unserved,omitempty"`
}
