package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet-dispatch-service/internal/api/dto"
	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
	"fleet-dispatch-service/internal/services"
)

const (
	maxVehicles = 25
	maxDemands  = 50

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// PlanHandler runs one full planning pass: matrix build, dispatch
// simulation, and summary reduction.
type PlanHandler struct {
	Matrix *services.MatrixBuilder
}

func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	vehicles, demands, err := validatePlanRequest(&req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	runID := uuid.NewString()

	// Per-run progress goes to the log; the HTTP surface stays synchronous.
	builder := *h.Matrix
	builder.Progress = func(frac float64) {
		log.Printf("run_id=%s matrix progress=%.2f", runID, frac)
	}

	matrix, err := builder.Build(r.Context(), strings.TrimSpace(req.Supply), demands)
	if err != nil {
		if errors.Is(err, ports.ErrLocationNotFound) {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("run_id=%s build matrix failed: %v", runID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := services.Dispatch(matrix, vehicles, demands)
	if err != nil {
		if errors.Is(err, services.ErrNoSolution) {
			writeError(w, r, http.StatusUnprocessableEntity, "no solution: no vehicle produced a route")
			return
		}
		log.Printf("run_id=%s dispatch failed: %v", runID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, buildPlanResponse(runID, result, demands))
}

func validatePlanRequest(req *dto.PlanRequest) ([]domain.Vehicle, []domain.Demand, error) {
	if strings.TrimSpace(req.Supply) == "" {
		return nil, nil, errors.New("supply is required")
	}
	if len(req.Vehicles) < 1 || len(req.Vehicles) > maxVehicles {
		return nil, nil, fmt.Errorf("vehicles must contain between 1 and %d entries", maxVehicles)
	}
	if len(req.Demands) < 1 || len(req.Demands) > maxDemands {
		return nil, nil, fmt.Errorf("demands must contain between 1 and %d entries", maxDemands)
	}

	vehicles := make([]domain.Vehicle, 0, len(req.Vehicles))
	for i, v := range req.Vehicles {
		if v.CapacityKg <= 0 {
			return nil, nil, fmt.Errorf("vehicle %d: capacity must be positive", i+1)
		}

		startAt, err := time.Parse(dateLayout+" "+timeLayout, strings.TrimSpace(v.StartDate)+" "+strings.TrimSpace(v.StartTime))
		if err != nil {
			return nil, nil, fmt.Errorf("vehicle %d: start_date/start_time must match %q %q", i+1, dateLayout, timeLayout)
		}

		vehicles = append(vehicles, domain.Vehicle{
			ID:         i + 1,
			CapacityKg: v.CapacityKg,
			StartAt:    startAt.UTC(),
		})
	}

	demands := make([]domain.Demand, 0, len(req.Demands))
	for i, d := range req.Demands {
		city := strings.TrimSpace(d.City)
		if city == "" {
			return nil, nil, fmt.Errorf("demand %d: city is required", i+1)
		}
		if d.DemandKg <= 0 {
			return nil, nil, fmt.Errorf("demand %d: demand must be positive", i+1)
		}
		for _, tw := range []string{d.TWStart, d.TWEnd} {
			if strings.TrimSpace(tw) == "" {
				continue
			}
			if _, err := time.Parse(timeLayout, strings.TrimSpace(tw)); err != nil {
				return nil, nil, fmt.Errorf("demand %d: time window must match %q", i+1, timeLayout)
			}
		}

		demands = append(demands, domain.Demand{
			City:        city,
			QuantityKg:  d.DemandKg,
			WindowStart: strings.TrimSpace(d.TWStart),
			WindowEnd:   strings.TrimSpace(d.TWEnd),
		})
	}

	return vehicles, demands, nil
}

func buildPlanResponse(runID string, result *services.Result, demands []domain.Demand) dto.PlanResponse {
	res := dto.PlanResponse{
		RunID:  runID,
		Routes: make([]dto.VehicleRouteResponse, 0, len(result.Plan)),
	}

	for _, id := range result.Plan.VehicleIDs() {
		legs := result.Plan[id]
		out := make([]dto.LegResponse, 0, len(legs))
		for _, leg := range legs {
			out = append(out, dto.LegResponse{
				From:       leg.From,
				To:         leg.To,
				Depart:     leg.Depart,
				Arrive:     leg.Arrive,
				DeliverKg:  leg.DeliverKg,
				UnloadMin:  leg.UnloadMin,
				DistanceKm: leg.DistanceKm,
			})
		}
		res.Routes = append(res.Routes, dto.VehicleRouteResponse{VehicleID: id, Legs: out})
	}

	summary := services.Summarize(result.Plan)
	res.Summary = dto.SummaryResponse{
		TotalDistanceKm:   summary.TotalDistanceKm,
		CompletionHours:   summary.CompletionHours,
		BottleneckVehicle: summary.BottleneckVehicle,
		PerVehicle:        make([]dto.VehicleStatsResponse, 0, len(summary.Vehicles)),
	}
	for _, v := range summary.Vehicles {
		res.Summary.PerVehicle = append(res.Summary.PerVehicle, dto.VehicleStatsResponse{
			VehicleID:    v.VehicleID,
			Route:        v.Route,
			DistanceKm:   v.DistanceKm,
			Hours:        v.Hours,
			AvgSpeedKmph: v.AvgSpeedKmph,
		})
	}

	if result.Unfulfilled() {
		indexes := make([]int, 0, len(result.UnservedKg))
		for i := range result.UnservedKg {
			indexes = append(indexes, i)
		}
		sort.Ints(indexes)
		for _, i := range indexes {
			res.Unserved = append(res.Unserved, dto.UnservedResponse{
				City:        demands[i].City,
				RemainingKg: result.UnservedKg[i],
			})
		}
	}

	return res
}
