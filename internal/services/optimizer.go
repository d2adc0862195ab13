package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/domain"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/geo"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/ports"
	"github.com/Jack-Stan/AutomatedRoutePlanner-sub000/internal/solver"
)

// TourOptimizer turns a batch of swap stops into an ordered visitation
// sequence under a target time budget.
//
// The depot is the centroid of the batch, recomputed per call and never
// persisted. All failure modes are returned as Success=false results with a
// readable message; nothing escapes as a panic or partial result. Safe for
// concurrent use.
type TourOptimizer struct {
	solveLimit time.Duration
	seed       int64
	cache      ports.PlanCache // nil disables caching
	cacheTTL   time.Duration
}

// NewTourOptimizer builds an optimizer with the given wall-clock solve limit
// (solver.DefaultTimeLimit when zero). cache may be nil.
func NewTourOptimizer(solveLimit time.Duration, cache ports.PlanCache, cacheTTL time.Duration) *TourOptimizer {
	if solveLimit <= 0 {
		solveLimit = solver.DefaultTimeLimit
	}
	return &TourOptimizer{
		solveLimit: solveLimit,
		seed:       1,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

// Optimize computes a minimum-duration visiting order over all stops.
//
// targetDurationMinutes is trusted as already validated (60-1440) and used
// directly as the budget in seconds. An empty stop list and solver
// infeasibility are routine failures, not errors.
func (o *TourOptimizer) Optimize(ctx context.Context, stops []domain.Stop, targetDurationMinutes int) (result domain.OptimizationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failure(fmt.Sprintf("optimization failed: %v", r))
		}
	}()

	if len(stops) == 0 {
		return failure("no stops provided")
	}

	key := planKey(stops, targetDurationMinutes)
	if cached := o.cacheGet(ctx, key); cached != nil {
		return *cached
	}

	points := make([]domain.Coordinates, len(stops))
	for i, s := range stops {
		points[i] = s.Location
	}
	depot := domain.Centroid(points)

	costs := buildCostMatrix(depot, points)

	tour, err := solver.Solve(ctx, solver.Problem{
		Costs:         costs,
		BudgetSeconds: int64(targetDurationMinutes) * 60,
	}, solver.Options{TimeLimit: o.solveLimit, Seed: o.seed})
	if err != nil {
		if errors.Is(err, solver.ErrNoFeasibleTour) {
			return failure("no solution found within time limit")
		}
		return failure(fmt.Sprintf("optimization failed: %v", err))
	}

	// Walk the tour from the depot, re-indexing solver nodes back to input
	// stop indices and accumulating distance, time and arrival offsets.
	order := make([]int, len(tour))
	offsets := make([]time.Duration, len(tour))
	serviceSec := int64(geo.StopServiceTime / time.Second)

	var totalSec int64
	var totalKm float64
	prev := depot
	prevNode := 0
	for i, node := range tour {
		order[i] = node - 1

		loc := points[node-1]
		totalSec += costs[prevNode][node]
		totalKm += geo.Distance(prev.Lat, prev.Lon, loc.Lat, loc.Lon)

		// Arrival precedes the service allowance baked into the leg cost.
		offsets[i] = time.Duration(totalSec-serviceSec) * time.Second

		prev = loc
		prevNode = node
	}

	result = domain.OptimizationResult{
		Success:              true,
		OptimalOrder:         order,
		ArrivalOffsets:       offsets,
		TotalDurationMinutes: geo.MinutesCeil(totalSec),
		TotalDistanceKm:      totalKm,
	}
	o.cacheSet(ctx, key, &result)
	return result
}

// OptimizeWithParkingZones orders pickup/dropoff pairs: each request
// contributes a pickup visit and a dropoff visit, and the solver enforces
// that every pickup precedes its dropoff.
func (o *TourOptimizer) OptimizeWithParkingZones(ctx context.Context, requests []domain.ParkingRequest, targetDurationMinutes int) (result domain.ZoneOptimizationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.ZoneOptimizationResult{Message: fmt.Sprintf("optimization failed: %v", r)}
		}
	}()

	if len(requests) == 0 {
		return domain.ZoneOptimizationResult{Message: "no parking requests provided"}
	}

	// Node layout: request i maps to pickup node 2i+1 and dropoff node 2i+2.
	points := make([]domain.Coordinates, 0, 2*len(requests))
	precedence := make([][2]int, 0, len(requests))
	for i, req := range requests {
		points = append(points, req.Pickup, req.Dropoff)
		precedence = append(precedence, [2]int{2*i + 1, 2*i + 2})
	}
	depot := domain.Centroid(points)

	costs := buildCostMatrix(depot, points)

	tour, err := solver.Solve(ctx, solver.Problem{
		Costs:         costs,
		BudgetSeconds: int64(targetDurationMinutes) * 60,
		Precedence:    precedence,
	}, solver.Options{TimeLimit: o.solveLimit, Seed: o.seed})
	if err != nil {
		if errors.Is(err, solver.ErrNoFeasibleTour) {
			return domain.ZoneOptimizationResult{Message: "no solution found within time limit"}
		}
		return domain.ZoneOptimizationResult{Message: fmt.Sprintf("optimization failed: %v", err)}
	}

	visits := make([]domain.ParkingVisit, len(tour))
	var totalSec int64
	var totalKm float64
	prev := depot
	prevNode := 0
	for i, node := range tour {
		kind := domain.VisitPickup
		if node%2 == 0 {
			kind = domain.VisitDropoff
		}
		visits[i] = domain.ParkingVisit{RequestIndex: (node - 1) / 2, Kind: kind}

		loc := points[node-1]
		totalSec += costs[prevNode][node]
		totalKm += geo.Distance(prev.Lat, prev.Lon, loc.Lat, loc.Lon)
		prev = loc
		prevNode = node
	}

	return domain.ZoneOptimizationResult{
		Success:              true,
		Visits:               visits,
		TotalDurationMinutes: geo.MinutesCeil(totalSec),
		TotalDistanceKm:      totalKm,
	}
}

// buildCostMatrix returns the (N+1)x(N+1) travel-time matrix in seconds with
// the depot at index 0. The diagonal stays zero.
func buildCostMatrix(depot domain.Coordinates, points []domain.Coordinates) [][]int64 {
	all := make([]domain.Coordinates, 0, len(points)+1)
	all = append(all, depot)
	all = append(all, points...)

	costs := make([][]int64, len(all))
	for i := range all {
		costs[i] = make([]int64, len(all))
		for j := range all {
			if i == j {
				continue
			}
			costs[i][j] = geo.TravelTimeSeconds(all[i].Lat, all[i].Lon, all[j].Lat, all[j].Lon)
		}
	}
	return costs
}

// planKey derives a cache key from the stop batch (order matters: the result
// order indexes into the input) and the budget.
func planKey(stops []domain.Stop, targetDurationMinutes int) string {
	h := sha256.New()
	fmt.Fprintf(h, "budget=%d", targetDurationMinutes)
	for _, s := range stops {
		fmt.Fprintf(h, ";%d:%.6f:%.6f", s.VehicleID, s.Location.Lat, s.Location.Lon)
	}
	return "plan:" + hex.EncodeToString(h.Sum(nil))
}

func (o *TourOptimizer) cacheGet(ctx context.Context, key string) *domain.OptimizationResult {
	if o.cache == nil {
		return nil
	}
	cached, err := o.cache.Get(ctx, key)
	if err != nil {
		log.Printf("plan cache get failed key=%s err=%v", key, err)
		return nil
	}
	return cached
}

func (o *TourOptimizer) cacheSet(ctx context.Context, key string, result *domain.OptimizationResult) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Set(ctx, key, result, o.cacheTTL); err != nil {
		log.Printf("plan cache set failed key=%s err=%v", key, err)
	}
}

func failure(msg string) domain.OptimizationResult {
	return domain.OptimizationResult{Success: false, Message: msg}
}
