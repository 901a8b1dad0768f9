package catalog

import (
	"fmt"

	"github.com/algoviz/runbox/trace"
)

// Step line numbers in this file refer to the canonical pseudocode listing a
// visualizer displays next to the trace, not to Go source lines.

func defaultSortInput() []float64 {
	return []float64{5, 1, 4, 2, 8, 3, 7, 6}
}

func bubbleSort() *Algorithm {
	return &Algorithm{
		ID:           "bubble-sort",
		Name:         "Bubble Sort",
		Category:     "sorting",
		Complexity:   "O(n^2)",
		DefaultInput: defaultSortInput(),
		GenInput:     randomValues,
		Run:          bubbleSortRun,
		Trace: func(rec *trace.Recorder, input []float64) {
			a := append([]float64(nil), input...)
			rec.Snapshot(1, "initial array", a)
			for i := 0; i < len(a); i++ {
				for j := 0; j < len(a)-i-1; j++ {
					rec.Snapshot(3, fmt.Sprintf("compare a[%d]=%v and a[%d]=%v", j, a[j], j+1, a[j+1]), a, j, j+1)
					if a[j] > a[j+1] {
						a[j], a[j+1] = a[j+1], a[j]
						rec.Snapshot(4, fmt.Sprintf("swap a[%d] and a[%d]", j, j+1), a, j, j+1)
					}
				}
			}
			rec.Snapshot(5, "array sorted", a)
		},
	}
}

func bubbleSortRun(a []float64) {
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(a)-i-1; j++ {
			if a[j] > a[j+1] {
				a[j], a[j+1] = a[j+1], a[j]
			}
		}
	}
}

func selectionSort() *Algorithm {
	return &Algorithm{
		ID:           "selection-sort",
		Name:         "Selection Sort",
		Category:     "sorting",
		Complexity:   "O(n^2)",
		DefaultInput: defaultSortInput(),
		GenInput:     randomValues,
		Run:          selectionSortRun,
		Trace: func(rec *trace.Recorder, input []float64) {
			a := append([]float64(nil), input...)
			rec.Snapshot(1, "initial array", a)
			for i := 0; i < len(a); i++ {
				min := i
				for j := i + 1; j < len(a); j++ {
					rec.Snapshot(4, fmt.Sprintf("compare a[%d]=%v with current minimum a[%d]=%v", j, a[j], min, a[min]), a, j, min)
					if a[j] < a[min] {
						min = j
					}
				}
				if min != i {
					a[i], a[min] = a[min], a[i]
					rec.Snapshot(5, fmt.Sprintf("swap a[%d] and a[%d]", i, min), a, i, min)
				}
			}
			rec.Snapshot(6, "array sorted", a)
		},
	}
}

func selectionSortRun(a []float64) {
	for i := 0; i < len(a); i++ {
		min := i
		for j := i + 1; j < len(a); j++ {
			if a[j] < a[min] {
				min = j
			}
		}
		a[i], a[min] = a[min], a[i]
	}
}

func insertionSort() *Algorithm {
	return &Algorithm{
		ID:           "insertion-sort",
		Name:         "Insertion Sort",
		Category:     "sorting",
		Complexity:   "O(n^2)",
		DefaultInput: defaultSortInput(),
		GenInput:     randomValues,
		Run:          insertionSortRun,
		Trace: func(rec *trace.Recorder, input []float64) {
			a := append([]float64(nil), input...)
			rec.Snapshot(1, "initial array", a)
			for i := 1; i < len(a); i++ {
				key := a[i]
				rec.Snapshot(2, fmt.Sprintf("pick key a[%d]=%v", i, key), a, i)
				j := i - 1
				for j >= 0 && a[j] > key {
					a[j+1] = a[j]
					rec.Snapshot(5, fmt.Sprintf("shift a[%d]=%v right", j, a[j]), a, j, j+1)
					j--
				}
				a[j+1] = key
				rec.Snapshot(6, fmt.Sprintf("place key %v at index %d", key, j+1), a, j+1)
			}
			rec.Snapshot(7, "array sorted", a)
		},
	}
}

func insertionSortRun(a []float64) {
	for i := 1; i < len(a); i++ {
		key := a[i]
		j := i - 1
		for j >= 0 && a[j] > key {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = key
	}
}

func mergeSort() *Algorithm {
	return &Algorithm{
		ID:           "merge-sort",
		Name:         "Merge Sort",
		Category:     "sorting",
		Complexity:   "O(n log n)",
		DefaultInput: defaultSortInput(),
		GenInput:     randomValues,
		Run:          mergeSortRun,
	}
}

func mergeSortRun(a []float64) {
	if len(a) < 2 {
		return
	}
	mid := len(a) / 2
	left := append([]float64(nil), a[:mid]...)
	right := append([]float64(nil), a[mid:]...)
	mergeSortRun(left)
	mergeSortRun(right)

	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			a[k] = left[i]
			i++
		} else {
			a[k] = right[j]
			j++
		}
		k++
	}
	for i < len(left) {
		a[k] = left[i]
		i++
		k++
	}
	for j < len(right) {
		a[k] = right[j]
		j++
		k++
	}
}

func quickSort() *Algorithm {
	return &Algorithm{
		ID:           "quick-sort",
		Name:         "Quick Sort",
		Category:     "sorting",
		Complexity:   "O(n log n)",
		DefaultInput: defaultSortInput(),
		GenInput:     randomValues,
		Run:          quickSortRun,
	}
}

func quickSortRun(a []float64) {
	if len(a) < 2 {
		return
	}
	pivot := a[len(a)/2]
	lo, hi := 0, len(a)-1
	for lo <= hi {
		for a[lo] < pivot {
			lo++
		}
		for a[hi] > pivot {
			hi--
		}
		if lo <= hi {
			a[lo], a[hi] = a[hi], a[lo]
			lo++
			hi--
		}
	}
	quickSortRun(a[:hi+1])
	quickSortRun(a[lo:])
}
