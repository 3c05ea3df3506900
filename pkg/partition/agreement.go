package partition

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"
)

// Agreement computes the pairwise adjusted Rand index between every pair of
// partition columns, over the table's full node set. Entry (i, j) compares
// column i with column j; the diagonal is 1.
func Agreement(t *Table) (*mat.SymDense, error) {
	n := len(t.Columns)
	if n == 0 {
		return nil, fmt.Errorf("table has no partition columns")
	}

	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		m.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			m.SetSym(i, j, adjustedRandIndex(t.Columns[i].values, t.Columns[j].values))
		}
	}
	return m, nil
}

// adjustedRandIndex measures agreement between two cluster assignments of
// the same nodes, corrected for chance: 1 for identical partitions, ~0 for
// independent ones.
func adjustedRandIndex(a, b []int) float64 {
	contingency := make(map[[2]int]int)
	sizesA := make(map[int]int)
	sizesB := make(map[int]int)
	for i := range a {
		contingency[[2]int{a[i], b[i]}]++
		sizesA[a[i]]++
		sizesB[b[i]]++
	}

	var sumCells, sumA, sumB float64
	for _, count := range contingency {
		sumCells += pairs(count)
	}
	for _, count := range sizesA {
		sumA += pairs(count)
	}
	for _, count := range sizesB {
		sumB += pairs(count)
	}

	total := pairs(len(a))
	if total == 0 {
		return 1
	}
	expected := sumA * sumB / total
	maxIndex := (sumA + sumB) / 2
	if maxIndex == expected {
		// both partitions are trivial (all nodes together or all apart)
		return 1
	}
	return (sumCells - expected) / (maxIndex - expected)
}

func pairs(n int) float64 {
	if n < 2 {
		return 0
	}
	return float64(combin.Binomial(n, 2))
}
