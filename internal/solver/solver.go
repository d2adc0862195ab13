// Package solver orders stops of a single-vehicle tour under a total-time
// budget.
//
// The tour starts at the depot (node 0), visits every stop exactly once and
// is costed as an open path: depot -> first stop -> ... -> last stop. A
// first solution is built by cheapest-arc insertion and then refined with
// guided local search: 2-opt and relocate moves over an augmented cost that
// penalizes arcs of recent local optima, so the search escapes them instead
// of cycling. The search runs until the context is cancelled or the
// wall-clock limit expires, whichever comes first.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// ErrNoFeasibleTour is returned when no tour satisfying the budget (and any
// precedence pairs) was found within the time limit. Callers should treat
// this as a routine outcome, not a fault.
var ErrNoFeasibleTour = errors.New("no feasible tour within time limit")

// DefaultTimeLimit caps a single solve's wall-clock time.
const DefaultTimeLimit = 30 * time.Second

// Problem is a single-vehicle tour over a precomputed cost matrix.
type Problem struct {
	// Costs is the square travel-time matrix in seconds. Index 0 is the
	// depot, indices 1..N are stops. The diagonal must be zero.
	Costs [][]int64

	// BudgetSeconds is the hard upper bound on total tour cost.
	BudgetSeconds int64

	// Precedence lists ordered node pairs [first, second]: the first node
	// must appear before the second in the tour (pickup before dropoff).
	Precedence [][2]int
}

// Options tune the search. The zero value is usable.
type Options struct {
	TimeLimit time.Duration // wall-clock cap, DefaultTimeLimit when zero
	Seed      int64         // RNG seed for perturbation kicks, 1 when zero
}

// Solve returns the visiting order as matrix node indices (1..N), depot
// excluded. The returned tour is the best budget-feasible tour found.
func Solve(ctx context.Context, p Problem, opts Options) ([]int, error) {
	n := len(p.Costs) - 1
	if n < 1 {
		return nil, fmt.Errorf("solve: matrix must contain the depot and at least one stop")
	}
	for i, row := range p.Costs {
		if len(row) != len(p.Costs) {
			return nil, fmt.Errorf("solve: cost matrix row %d is not square", i)
		}
	}
	for _, pair := range p.Precedence {
		for _, node := range []int{pair[0], pair[1]} {
			if node < 1 || node > n {
				return nil, fmt.Errorf("solve: precedence node %d out of range 1..%d", node, n)
			}
		}
	}

	limit := opts.TimeLimit
	if limit <= 0 {
		limit = DefaultTimeLimit
	}
	seed := opts.Seed
	if seed == 0 {
		seed = 1
	}

	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	s := &search{
		p:         p,
		n:         n,
		rng:       rand.New(rand.NewSource(seed)),
		penalties: make(map[arc]int64),
	}

	tour := s.cheapestArcInsertion()

	// Penalty scale follows the usual GLS heuristic: a fraction of the mean
	// arc cost of the first local optimum.
	s.lambda = tourCost(p.Costs, tour) / int64(n)
	s.lambda = s.lambda * 3 / 10
	if s.lambda < 1 {
		s.lambda = 1
	}

	var best []int
	bestCost := int64(math.MaxInt64)
	sinceImproved := 0
	record := func(t []int) {
		c := tourCost(p.Costs, t)
		if c <= p.BudgetSeconds && c < bestCost {
			best = append(best[:0:0], t...)
			bestCost = c
			sinceImproved = 0
		}
	}
	record(tour)

	// Stop early once the search stagnates; small instances converge long
	// before the wall-clock limit.
	maxStagnant := 200 * n

	for ctx.Err() == nil && sinceImproved < maxStagnant {
		tour = s.localSearch(ctx, tour)
		record(tour)

		if ctx.Err() != nil {
			break
		}

		// Local optimum reached: penalize the highest-utility arcs and, every
		// so often, kick the tour to diversify beyond what penalties reach.
		s.penalizeTour(tour)
		s.iterations++
		sinceImproved++
		if s.iterations%25 == 0 && s.n >= 4 {
			tour = s.doubleBridge(tour)
		}
	}

	if best == nil {
		return nil, ErrNoFeasibleTour
	}
	return best, nil
}

type arc struct{ from, to int }

type search struct {
	p          Problem
	n          int
	rng        *rand.Rand
	penalties  map[arc]int64
	lambda     int64
	iterations int
}

// cheapestArcInsertion builds the first tour by repeatedly inserting the
// unvisited stop at the position with the smallest cost increase.
func (s *search) cheapestArcInsertion() []int {
	remaining := make(map[int]bool, s.n)
	for i := 1; i <= s.n; i++ {
		remaining[i] = true
	}

	tour := make([]int, 0, s.n)
	for len(remaining) > 0 {
		bestNode, bestPos := -1, -1
		bestDelta := int64(math.MaxInt64)

		for node := 1; node <= s.n; node++ {
			if !remaining[node] {
				continue
			}
			for pos := 0; pos <= len(tour); pos++ {
				cand := insertAt(tour, node, pos)
				if !precedenceOK(cand, s.p.Precedence) {
					continue
				}
				delta := tourCost(s.p.Costs, cand) - tourCost(s.p.Costs, tour)
				// Lowest node index wins ties for determinism.
				if delta < bestDelta {
					bestDelta = delta
					bestNode = node
					bestPos = pos
				}
			}
		}

		if bestNode == -1 {
			// Precedence left no feasible slot anywhere; append the pending
			// pickups first, then everything else, to stay well-formed.
			for node := 1; node <= s.n; node++ {
				if remaining[node] {
					tour = append(tour, node)
				}
			}
			break
		}

		tour = insertAt(tour, bestNode, bestPos)
		delete(remaining, bestNode)
	}

	return tour
}

// localSearch runs best-improvement 2-opt and relocate moves over the
// penalty-augmented cost until no move improves it.
func (s *search) localSearch(ctx context.Context, tour []int) []int {
	improved := true
	for improved && ctx.Err() == nil {
		improved = false
		current := s.augmentedCost(tour)

		// 2-opt: reverse segment [i, k].
		for i := 0; i < len(tour)-1; i++ {
			for k := i + 1; k < len(tour); k++ {
				cand := twoOptSwap(tour, i, k)
				if !precedenceOK(cand, s.p.Precedence) {
					continue
				}
				if c := s.augmentedCost(cand); c < current {
					tour = cand
					current = c
					improved = true
				}
			}
		}

		// Relocate: move a single stop to another position.
		for i := 0; i < len(tour); i++ {
			for j := 0; j <= len(tour); j++ {
				if j == i || j == i+1 {
					continue
				}
				cand := relocate(tour, i, j)
				if !precedenceOK(cand, s.p.Precedence) {
					continue
				}
				if c := s.augmentedCost(cand); c < current {
					tour = cand
					current = c
					improved = true
				}
			}
		}
	}
	return tour
}

// penalizeTour increments penalties on the arcs of the current local optimum
// with the highest utility cost/(1+penalty), the guided-local-search feature
// selection rule.
func (s *search) penalizeTour(tour []int) {
	var maxUtil float64 = -1
	for _, a := range tourArcs(tour) {
		util := float64(s.p.Costs[a.from][a.to]) / float64(1+s.penalties[a])
		if util > maxUtil {
			maxUtil = util
		}
	}
	for _, a := range tourArcs(tour) {
		util := float64(s.p.Costs[a.from][a.to]) / float64(1+s.penalties[a])
		if util == maxUtil {
			s.penalties[a]++
		}
	}
}

func (s *search) augmentedCost(tour []int) int64 {
	c := tourCost(s.p.Costs, tour)
	for _, a := range tourArcs(tour) {
		c += s.lambda * s.penalties[a]
	}
	return c
}

// doubleBridge applies the classic 4-opt perturbation, which 2-opt cannot
// undo in a single move. Precedence-violating kicks are discarded.
func (s *search) doubleBridge(tour []int) []int {
	n := len(tour)
	a := 1 + s.rng.Intn(n-3)
	b := a + 1 + s.rng.Intn(n-a-2)
	c := b + 1 + s.rng.Intn(n-b-1)

	out := make([]int, 0, n)
	out = append(out, tour[:a]...)
	out = append(out, tour[b:c]...)
	out = append(out, tour[a:b]...)
	out = append(out, tour[c:]...)

	if !precedenceOK(out, s.p.Precedence) {
		return tour
	}
	return out
}

// tourCost is the open-path cost: depot to first stop, then each consecutive
// pair. No return leg.
func tourCost(costs [][]int64, tour []int) int64 {
	if len(tour) == 0 {
		return 0
	}
	total := costs[0][tour[0]]
	for i := 0; i < len(tour)-1; i++ {
		total += costs[tour[i]][tour[i+1]]
	}
	return total
}

func tourArcs(tour []int) []arc {
	if len(tour) == 0 {
		return nil
	}
	arcs := make([]arc, 0, len(tour))
	arcs = append(arcs, arc{0, tour[0]})
	for i := 0; i < len(tour)-1; i++ {
		arcs = append(arcs, arc{tour[i], tour[i+1]})
	}
	return arcs
}

func precedenceOK(tour []int, pairs [][2]int) bool {
	if len(pairs) == 0 {
		return true
	}
	pos := make(map[int]int, len(tour))
	for i, node := range tour {
		pos[node] = i
	}
	for _, pair := range pairs {
		pi, iOK := pos[pair[0]]
		pj, jOK := pos[pair[1]]
		if iOK && jOK && pi > pj {
			return false
		}
	}
	return true
}

func insertAt(tour []int, node, pos int) []int {
	out := make([]int, 0, len(tour)+1)
	out = append(out, tour[:pos]...)
	out = append(out, node)
	out = append(out, tour[pos:]...)
	return out
}

func twoOptSwap(tour []int, i, k int) []int {
	out := make([]int, len(tour))
	copy(out, tour[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = tour[j]
		pos++
	}
	copy(out[pos:], tour[k+1:])
	return out
}

func relocate(tour []int, i, j int) []int {
	node := tour[i]
	rest := make([]int, 0, len(tour)-1)
	rest = append(rest, tour[:i]...)
	rest = append(rest, tour[i+1:]...)
	if j > i {
		j--
	}
	return insertAt(rest, node, j)
}
