package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleet-dispatch-service/internal/api/handlers"
	"fleet-dispatch-service/internal/metrics"
	"fleet-dispatch-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(builder *services.MatrixBuilder) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{Matrix: builder}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(requestIDMiddleware(mux))
}
