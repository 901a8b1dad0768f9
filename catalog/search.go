package catalog

import (
	"fmt"
	"slices"

	"github.com/algoviz/runbox/trace"
)

// Searches pick their target from the input itself so that every trace and
// every benchmark iteration exercises a successful lookup: linear search
// targets the last element (full scan), binary search targets the maximum of
// the sorted copy (longest probe path toward the right).

func linearSearch() *Algorithm {
	return &Algorithm{
		ID:           "linear-search",
		Name:         "Linear Search",
		Category:     "searching",
		Complexity:   "O(n)",
		DefaultInput: defaultSortInput(),
		GenInput:     randomValues,
		Run:          linearSearchRun,
		Trace: func(rec *trace.Recorder, input []float64) {
			a := append([]float64(nil), input...)
			if len(a) == 0 {
				rec.Note(1, "empty array, nothing to search")
				return
			}
			target := a[len(a)-1]
			rec.Snapshot(1, fmt.Sprintf("search for target %v", target), a)
			for i := 0; i < len(a); i++ {
				rec.Snapshot(3, fmt.Sprintf("check a[%d]=%v", i, a[i]), a, i)
				if a[i] == target {
					rec.Snapshot(3, fmt.Sprintf("found target %v at index %d", target, i), a, i)
					return
				}
			}
			rec.Snapshot(4, fmt.Sprintf("target %v not found", target), a)
		},
	}
}

func linearSearchRun(a []float64) {
	if len(a) == 0 {
		return
	}
	target := a[len(a)-1]
	for i := 0; i < len(a); i++ {
		if a[i] == target {
			return
		}
	}
}

func binarySearch() *Algorithm {
	return &Algorithm{
		ID:           "binary-search",
		Name:         "Binary Search",
		Category:     "searching",
		Complexity:   "O(log n)",
		DefaultInput: defaultSortInput(),
		GenInput:     sortedValues,
		Run:          binarySearchRun,
		Trace: func(rec *trace.Recorder, input []float64) {
			a := append([]float64(nil), input...)
			if len(a) == 0 {
				rec.Note(1, "empty array, nothing to search")
				return
			}
			slices.Sort(a)
			target := a[len(a)-1]
			rec.Snapshot(1, fmt.Sprintf("search for target %v in sorted array", target), a)
			lo, hi := 0, len(a)-1
			for lo <= hi {
				mid := (lo + hi) / 2
				rec.Snapshot(3, fmt.Sprintf("probe middle a[%d]=%v", mid, a[mid]), a, lo, mid, hi)
				switch {
				case a[mid] == target:
					rec.Snapshot(4, fmt.Sprintf("found target %v at index %d", target, mid), a, mid)
					return
				case a[mid] < target:
					rec.Snapshot(5, fmt.Sprintf("a[%d]=%v below target, search right half", mid, a[mid]), a, mid)
					lo = mid + 1
				default:
					rec.Snapshot(6, fmt.Sprintf("a[%d]=%v above target, search left half", mid, a[mid]), a, mid)
					hi = mid - 1
				}
			}
			rec.Snapshot(7, fmt.Sprintf("target %v not found", target), a)
		},
	}
}

// binarySearchRun assumes a sorted input, which sortedValues guarantees for
// generated benchmark inputs.
func binarySearchRun(a []float64) {
	if len(a) == 0 {
		return
	}
	target := a[len(a)-1]
	lo, hi := 0, len(a)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case a[mid] == target:
			return
		case a[mid] < target:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
}
