package catalog

import (
	"math/rand/v2"
	"slices"
)

// randomValues produces a slice of small non-negative values. Values repeat
// on purpose so sorts and searches see duplicates at every benchmark size.
func randomValues(size int) []float64 {
	if size <= 0 {
		return nil
	}
	vals := make([]float64, size)
	for i := range vals {
		vals[i] = float64(rand.IntN(1000))
	}
	return vals
}

// sortedValues produces an ascending slice for algorithms that require
// ordered input.
func sortedValues(size int) []float64 {
	vals := randomValues(size)
	slices.Sort(vals)
	return vals
}
