package trace

import (
	"strings"

	"github.com/algoviz/runbox/api"
)

// FromOutput derives a coarse trace from captured stdout: one step per
// printed line, in program order. The host runtime exposes no stepping hook,
// so this is the general-case fallback for arbitrary code; no array
// snapshots are promised and the source line is reported as 0 (unknown).
// Empty output yields an empty trace rather than an error.
func FromOutput(stdout string, maxSteps int) []api.TraceStep {
	if stdout == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	rec := NewRecorder(maxSteps)
	for _, line := range lines {
		rec.Note(0, line)
	}
	return rec.Steps()
}
