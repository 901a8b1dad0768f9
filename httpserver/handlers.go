package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/algoviz/runbox/api"
)

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req api.ExecutionRequest
	if apiErr := s.decodeBody(w, r, &req); apiErr != nil {
		s.writeJSON(w, apiErr.HTTPStatus(), api.ExecuteResponse{
			OK:      false,
			Error:   string(apiErr.Kind),
			Details: apiErr.WireDetails(),
		})
		return
	}

	result, warnings, execErr := s.engine.Execute(r.Context(), req)
	if execErr != nil {
		// Timed-out and faulted runs still carry a partial result next to
		// the error envelope.
		s.writeJSON(w, execErr.HTTPStatus(), api.ExecuteResponse{
			OK:       false,
			Result:   result,
			Warnings: warnings,
			Error:    string(execErr.Kind),
			Details:  execErr.WireDetails(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, api.ExecuteResponse{
		OK:       true,
		Result:   result,
		Warnings: warnings,
	})
}

func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	var req api.BenchmarkRequest
	if apiErr := s.decodeBody(w, r, &req); apiErr != nil {
		s.writeJSON(w, apiErr.HTTPStatus(), api.BenchmarkResponse{
			OK:      false,
			Error:   string(apiErr.Kind),
			Details: apiErr.WireDetails(),
		})
		return
	}

	summary, benchErr := s.engine.Benchmark(r.Context(), req)
	if benchErr != nil {
		s.writeJSON(w, benchErr.HTTPStatus(), api.BenchmarkResponse{
			OK:      false,
			Error:   string(benchErr.Kind),
			Details: benchErr.WireDetails(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, api.BenchmarkResponse{
		OK:     true,
		Result: summary,
	})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.AlgorithmsResponse{
		OK:         true,
		Algorithms: s.engine.Algorithms(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"languages": s.engine.Languages(),
	})
}

// decodeBody reads a JSON request body under the configured size cap. It
// returns nil on success.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) *api.Error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return api.NewValidationError("body",
				fmt.Sprintf("request body exceeds the %d byte limit", maxErr.Limit))
		}
		return api.NewValidationError("body", "request body is not valid JSON")
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}
