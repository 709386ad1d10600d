package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"dailyreader/internal/selector"
	"dailyreader/internal/source"
)

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.runner.Run(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, source.ErrSourceUnavailable):
			s.respondWithError(w, http.StatusBadGateway, err.Error())
		case errors.Is(err, selector.ErrNoCandidates):
			s.respondWithError(w, http.StatusConflict, err.Error())
		default:
			s.logger.Error("triggered run failed", zap.Error(err))
			s.respondWithError(w, http.StatusInternalServerError, "Digest run failed")
		}
		return
	}
	s.respondWithJSON(w, http.StatusOK, report)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Reset(r.Context()); err != nil {
		s.logger.Error("failed to reset tracker", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not reset tracker")
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]string{"message": "Tracker reset, all articles eligible again"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	// The archive has richer records when a backend is configured; the
	// tracker's own log is the fallback.
	entries, err := s.archive.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to read archive", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not read history")
		return
	}
	if len(entries) > 0 {
		s.respondWithJSON(w, http.StatusOK, entries)
		return
	}
	s.respondWithJSON(w, http.StatusOK, s.store.Load(r.Context()).History(limit))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	tracked := s.store.Load(r.Context())
	stats := map[string]interface{}{
		"total_sent": tracked.Len(),
	}
	if last, ok := tracked.LastSent(); ok {
		stats["last_sent"] = last
	}
	s.respondWithJSON(w, http.StatusOK, stats)
}

// pinger is implemented by store and archive backends with a live
// connection to check.
type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"tracker": "healthy"}
	healthy := true

	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			healthStatus["tracker"] = "unhealthy"
			healthy = false
			s.logger.Error("health check failed for tracker store", zap.Error(err))
		}
	}
	if p, ok := s.archive.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			healthStatus["archive"] = "unhealthy"
			healthy = false
			s.logger.Error("health check failed for archive", zap.Error(err))
		} else {
			healthStatus["archive"] = "healthy"
		}
	}

	if !healthy {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
