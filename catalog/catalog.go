package catalog

import (
	"github.com/algoviz/runbox/api"
	"github.com/algoviz/runbox/trace"
)

// Algorithm is one catalog entry. Trace emits visualization steps through a
// recorder and may be nil for entries that are benchmarked but not
// visualized. Run is the plain implementation used for timing; it may mutate
// the slice it receives, so callers hand it a scratch copy. GenInput builds
// a random instance of the given size.
type Algorithm struct {
	ID           string
	Name         string
	Category     string
	Complexity   string
	DefaultInput []float64
	Trace        func(rec *trace.Recorder, input []float64)
	Run          func(input []float64)
	GenInput     func(size int) []float64
}

// Registry holds the closed set of known algorithms, in registration order.
type Registry struct {
	byID  map[string]*Algorithm
	order []string
}

// New builds the registry with all built-in algorithms. The set is validated
// at startup: a duplicate or incomplete entry panics.
func New() *Registry {
	r := &Registry{byID: make(map[string]*Algorithm)}
	for _, alg := range builtins() {
		r.register(alg)
	}
	return r
}

func (r *Registry) register(alg *Algorithm) {
	if alg.ID == "" || alg.Run == nil || alg.GenInput == nil {
		panic("catalog: incomplete algorithm entry: " + alg.ID)
	}
	if _, exists := r.byID[alg.ID]; exists {
		panic("catalog: duplicate algorithm id: " + alg.ID)
	}
	r.byID[alg.ID] = alg
	r.order = append(r.order, alg.ID)
}

// Lookup returns the algorithm registered under id.
func (r *Registry) Lookup(id string) (*Algorithm, bool) {
	alg, ok := r.byID[id]
	return alg, ok
}

// IDs returns all algorithm identifiers in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// List returns listing metadata for every entry, in registration order.
func (r *Registry) List() []api.AlgorithmInfo {
	infos := make([]api.AlgorithmInfo, 0, len(r.order))
	for _, id := range r.order {
		alg := r.byID[id]
		infos = append(infos, api.AlgorithmInfo{
			ID:         alg.ID,
			Name:       alg.Name,
			Category:   alg.Category,
			Complexity: alg.Complexity,
			Traceable:  alg.Trace != nil,
		})
	}
	return infos
}

func builtins() []*Algorithm {
	return []*Algorithm{
		bubbleSort(),
		selectionSort(),
		insertionSort(),
		mergeSort(),
		quickSort(),
		linearSearch(),
		binarySearch(),
	}
}
