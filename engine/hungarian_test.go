package engine

import "testing"

func assignmentCost(cost [][]float64, rowToCol []int) float64 {
	total := 0.0
	for i, j := range rowToCol {
		if j < 0 {
			continue
		}
		total += cost[i][j]
	}
	return total
}

func TestHungarianSolve_PicksMinimumCostAssignment(t *testing.T) {
	cost := [][]float64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}
	rowToCol := hungarianSolve(cost)
	if len(rowToCol) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(rowToCol))
	}
	seen := map[int]bool{}
	for _, j := range rowToCol {
		if j < 0 || j >= 3 || seen[j] {
			t.Fatalf("assignment is not a valid permutation: %v", rowToCol)
		}
		seen[j] = true
	}
	got := assignmentCost(cost, rowToCol)
	if got != 5 {
		t.Fatalf("expected optimal cost 5, got %v (assignment %v)", got, rowToCol)
	}
}

func TestHungarianSolve_EmptyMatrixReturnsNil(t *testing.T) {
	if got := hungarianSolve(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestHungarianSolve_SingleCell(t *testing.T) {
	got := hungarianSolve([][]float64{{7}})
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected [0], got %v", got)
	}
}

func TestSolveRectangular_MoreRowsThanColumnsLeavesExtraRowsUnassigned(t *testing.T) {
	cost := [][]float64{
		{1, 9},
		{9, 1},
		{5, 5},
	}
	result := solveRectangular(cost, 3, 2)
	if len(result) != 2 {
		t.Fatalf("expected exactly 2 assignments, got %d: %v", len(result), result)
	}
	cols := map[int]bool{}
	for _, j := range result {
		if cols[j] {
			t.Fatalf("column assigned twice: %v", result)
		}
		cols[j] = true
	}
}

func TestSolveRectangular_InfeasibleCellsAreNeverAssigned(t *testing.T) {
	cost := [][]float64{
		{hungarianBig, 0.2},
		{0.1, hungarianBig},
	}
	result := solveRectangular(cost, 2, 2)
	for i, j := range result {
		if cost[i][j] >= hungarianBig {
			t.Fatalf("infeasible cell (%d,%d) was assigned", i, j)
		}
	}
}

func TestSolveRectangular_EmptyInputReturnsEmptyMap(t *testing.T) {
	result := solveRectangular(nil, 0, 0)
	if len(result) != 0 {
		t.Fatalf("expected empty map, got %v", result)
	}
}
