package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/adapters/cache"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/adapters/repositories"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/api"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/config"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/ports"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo fleet data on startup for local runs.
	if err := initAndSeed(db, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	// The plan cache is optional: without redis every optimization pays the
	// full solve.
	var planCache ports.PlanCache
	if cfg.RedisEnabled {
		redisCache, err := cache.NewRedisPlanCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal(err)
		}
		defer redisCache.Close()
		planCache = redisCache
	}

	vehicleRepo := repositories.NewSqliteVehicleRepository(db)
	routeRepo := repositories.NewSqliteRouteRepository(db)
	optimizer := services.NewTourOptimizer(cfg.SolveTimeLimit, planCache, cfg.PlanCacheTTL)
	routeService := services.NewRouteService(routeRepo, vehicleRepo, optimizer)

	router := api.NewRouter(routeService, vehicleRepo)

	// The write timeout sits above the solver's wall-clock limit so a slow
	// or infeasible optimization gets a response instead of a cut connection.
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.SolveTimeLimit + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
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

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
