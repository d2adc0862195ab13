package solver

import (
	"context"
	"errors"
	"testing"
	"time"
)

const testTimeLimit = 200 * time.Millisecond

func solveOrFail(t *testing.T, p Problem) []int {
	t.Helper()
	tour, err := Solve(context.Background(), p, Options{TimeLimit: testTimeLimit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tour
}

func assertPermutation(t *testing.T, tour []int, n int) {
	t.Helper()
	if len(tour) != n {
		t.Fatalf("tour length = %d, want %d", len(tour), n)
	}
	seen := make(map[int]bool, n)
	for _, node := range tour {
		if node < 1 || node > n {
			t.Fatalf("node %d out of range 1..%d", node, n)
		}
		if seen[node] {
			t.Fatalf("node %d visited twice in %v", node, tour)
		}
		seen[node] = true
	}
}

func TestSolveVisitsEveryStopOnce(t *testing.T) {
	p := Problem{
		Costs: [][]int64{
			{0, 100, 200, 300, 400},
			{100, 0, 120, 250, 380},
			{200, 120, 0, 140, 260},
			{300, 250, 140, 0, 130},
			{400, 380, 260, 130, 0},
		},
		BudgetSeconds: 100000,
	}

	tour := solveOrFail(t, p)
	assertPermutation(t, tour, 4)
}

func TestSolveFindsChainOrder(t *testing.T) {
	// Stops laid out on a line: the only cheap open path is 1-2-3 (or the
	// depot-anchored variant of it).
	p := Problem{
		Costs: [][]int64{
			{0, 10, 500, 1000},
			{10, 0, 10, 500},
			{500, 10, 0, 10},
			{1000, 500, 10, 0},
		},
		BudgetSeconds: 100000,
	}

	tour := solveOrFail(t, p)
	want := []int{1, 2, 3}
	for i := range want {
		if tour[i] != want[i] {
			t.Fatalf("tour = %v, want %v", tour, want)
		}
	}
	if cost := tourCost(p.Costs, tour); cost != 30 {
		t.Fatalf("tour cost = %d, want 30", cost)
	}
}

func TestSolveBudgetInfeasible(t *testing.T) {
	p := Problem{
		Costs: [][]int64{
			{0, 600, 600},
			{600, 0, 600},
			{600, 600, 0},
		},
		BudgetSeconds: 100, // cheapest tour costs 1200
	}

	_, err := Solve(context.Background(), p, Options{TimeLimit: testTimeLimit})
	if !errors.Is(err, ErrNoFeasibleTour) {
		t.Fatalf("error = %v, want ErrNoFeasibleTour", err)
	}
}

func TestSolveRespectsPrecedence(t *testing.T) {
	// Symmetric costs make many orders equally cheap; precedence must still
	// hold in whichever the search settles on.
	p := Problem{
		Costs: [][]int64{
			{0, 100, 100, 100, 100},
			{100, 0, 100, 100, 100},
			{100, 100, 0, 100, 100},
			{100, 100, 100, 0, 100},
			{100, 100, 100, 100, 0},
		},
		BudgetSeconds: 100000,
		Precedence:    [][2]int{{3, 1}, {4, 2}},
	}

	tour := solveOrFail(t, p)
	assertPermutation(t, tour, 4)

	pos := make(map[int]int, len(tour))
	for i, node := range tour {
		pos[node] = i
	}
	if pos[3] > pos[1] {
		t.Fatalf("node 3 must precede node 1 in %v", tour)
	}
	if pos[4] > pos[2] {
		t.Fatalf("node 4 must precede node 2 in %v", tour)
	}
}

func TestSolveSingleStop(t *testing.T) {
	p := Problem{
		Costs: [][]int64{
			{0, 42},
			{42, 0},
		},
		BudgetSeconds: 60,
	}

	tour := solveOrFail(t, p)
	if len(tour) != 1 || tour[0] != 1 {
		t.Fatalf("tour = %v, want [1]", tour)
	}
}

func TestSolveRejectsEmptyMatrix(t *testing.T) {
	_, err := Solve(context.Background(), Problem{Costs: [][]int64{{0}}}, Options{TimeLimit: testTimeLimit})
	if err == nil {
		t.Fatal("expected error for matrix without stops")
	}
}

func TestSolveRejectsPrecedenceNodeOutOfRange(t *testing.T) {
	p := Problem{
		Costs: [][]int64{
			{0, 10},
			{10, 0},
		},
		BudgetSeconds: 1000,
		Precedence:    [][2]int{{1, 2}},
	}

	_, err := Solve(context.Background(), p, Options{TimeLimit: testTimeLimit})
	if err == nil || errors.Is(err, ErrNoFeasibleTour) {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestSolveDeterministicForFixedSeed(t *testing.T) {
	p := Problem{
		Costs: [][]int64{
			{0, 90, 210, 330, 150, 270},
			{90, 0, 130, 240, 110, 310},
			{210, 130, 0, 120, 170, 230},
			{330, 240, 120, 0, 280, 140},
			{150, 110, 170, 280, 0, 190},
			{270, 310, 230, 140, 190, 0},
		},
		BudgetSeconds: 100000,
	}

	first := solveOrFail(t, p)
	second := solveOrFail(t, p)
	if len(first) != len(second) {
		t.Fatalf("tour lengths differ: %v vs %v", first, second)
	}
	if c1, c2 := tourCost(p.Costs, first), tourCost(p.Costs, second); c1 != c2 {
		t.Fatalf("tour costs differ across runs: %d vs %d", c1, c2)
	}
}

func TestTourCostOpenPath(t *testing.T) {
	costs := [][]int64{
		{0, 10, 20},
		{10, 0, 5},
		{20, 5, 0},
	}

	// depot -> 1 -> 2, no return leg.
	if got := tourCost(costs, []int{1, 2}); got != 15 {
		t.Fatalf("tour cost = %d, want 15", got)
	}
	if got := tourCost(costs, nil); got != 0 {
		t.Fatalf("empty tour cost = %d, want 0", got)
	}
}
