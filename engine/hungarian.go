package engine

// hungarianBig stands in for "infeasible" in the cost matrix: large enough
// that the solver only picks such a cell when it has no other choice (the
// matrix is padded square), small enough relative to hungarianSolve's local
// inf sentinel that the potential-based arithmetic below never overflows.
const hungarianBig = 1e7

// hungarianSolve implements the classic O(n^3) Kuhn-Munkres algorithm (the
// shortest-augmenting-path formulation with row/column potentials) on a
// square cost matrix, returning rowToCol where rowToCol[i] is the column
// assigned to row i.
func hungarianSolve(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	const inf = 1e18

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := 0; j <= n; j++ {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, n)
	for i := range rowToCol {
		rowToCol[i] = -1
	}
	for j := 1; j <= n; j++ {
		if p[j] > 0 {
			rowToCol[p[j]-1] = j - 1
		}
	}
	return rowToCol
}

// solveRectangular pads an m×n cost matrix to square with zero-cost dummy
// cells, runs hungarianSolve, and returns only assignments between real rows
// and real columns whose original cost was below hungarianBig (i.e. was not
// marked infeasible).
func solveRectangular(cost [][]float64, m, n int) map[int]int {
	size := m
	if n > size {
		size = n
	}
	if size == 0 {
		return map[int]int{}
	}

	padded := make([][]float64, size)
	for i := 0; i < size; i++ {
		padded[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			switch {
			case i < m && j < n:
				padded[i][j] = cost[i][j]
			default:
				padded[i][j] = 0
			}
		}
	}

	rowToCol := hungarianSolve(padded)
	result := make(map[int]int)
	for i, j := range rowToCol {
		if i >= m || j < 0 || j >= n {
			continue
		}
		if cost[i][j] >= hungarianBig {
			continue
		}
		result[i] = j
	}
	return result
}
