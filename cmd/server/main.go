package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"

	"fleet-dispatch-service/internal/adapters/cache"
	"fleet-dispatch-service/internal/adapters/geocode"
	"fleet-dispatch-service/internal/adapters/routing"
	"fleet-dispatch-service/internal/api"
	"fleet-dispatch-service/internal/ports"
	"fleet-dispatch-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Redis caches, Nominatim, OSRM) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := getEnv("DB_PATH", "data/app.db")
	port := getEnv("PORT", "8080")
	osrmURL := getEnv("OSRM_BASE_URL", routing.DefaultBaseURL)
	nominatimURL := getEnv("NOMINATIM_BASE_URL", geocode.DefaultBaseURL)
	userAgent := getEnv("NOMINATIM_USER_AGENT", "fleet-dispatch-service")

	// Public Nominatim allows one request per second; the oracle pace
	// replaces the original fixed inter-call delay.
	geocodeRPS := getEnvFloat("GEOCODE_RPS", 1)
	oracleRPS := getEnvFloat("ORACLE_RPS", 2)

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Cache tables are created on startup for local runs; shared Postgres
	// deployments use cmd/dbtool instead.
	if err := cache.InitSqliteSchema(db); err != nil {
		log.Fatal(err)
	}

	geocodeCache := cache.NewSqliteGeocodeCache(db)

	// A Redis address switches the distance cache to a shared backend;
	// the default is the local SQLite file.
	var distanceCache ports.DistanceCache = cache.NewSqliteDistanceCache(db)
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		distanceCache = cache.NewRedisDistanceCache(client)
		log.Printf("distance cache backend=redis addr=%s", addr)
	}

	geocoder := &geocode.CachedGeocoder{
		Next:  geocode.NewNominatimGeocoder(nominatimURL, userAgent, rate.NewLimiter(rate.Limit(geocodeRPS), 1)),
		Cache: geocodeCache,
	}

	builder := &services.MatrixBuilder{
		Geocoder:  geocoder,
		Estimator: services.NewEstimator(routing.NewOSRMRouteService(osrmURL)),
		Cache:     distanceCache,
		Limiter:   rate.NewLimiter(rate.Limit(oracleRPS), 1),
	}

	router := api.NewRouter(builder)

	// Timeouts are tuned for cold-cache matrix builds (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Fatalf("%s must be a positive number, got %q", key, v)
	}
	return f
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}
