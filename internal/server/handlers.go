package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/meltforce/trainload/internal/models"
	"github.com/meltforce/trainload/internal/storage"
)

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload models.SessionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	created, err := s.store.CreateSession(r.Context(), payload)
	if err != nil {
		s.writeError(w, "create session", err)
		return
	}
	if s.metrics != nil {
		s.metrics.CounterSessionsCreated.Inc()
		s.metrics.CounterSetsCreated.Add(float64(len(created.Sets)))
	}
	s.log.Info("session created", "session_id", created.ID, "sets", len(created.Sets))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	var f models.SessionFilter
	var err error
	if f.BodyPartProfileID, err = optionalInt(r, "bodyPartProfileId"); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.store.ListSessions(r.Context(), f)
	if err != nil {
		s.writeError(w, "list sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleCreateWellness(w http.ResponseWriter, r *http.Request) {
	var in models.WellnessInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	created, err := s.store.CreateWellnessLog(r.Context(), in)
	if err != nil {
		s.writeError(w, "create wellness log", err)
		return
	}
	if s.metrics != nil {
		s.metrics.CounterWellnessLogs.Inc()
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListWellness(w http.ResponseWriter, r *http.Request) {
	f, err := parseWellnessFilter(r, "from", "to")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if limit, err := optionalInt(r, "limit"); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	} else if limit != nil {
		f.Limit = *limit
	}

	logs, err := s.store.ListWellnessLogs(r.Context(), f)
	if err != nil {
		s.writeError(w, "list wellness logs", err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// writeError maps storage errors onto status codes. Anything unexpected is
// logged and reported as 500.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		s.log.Error(op+" failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// optionalInt reads an integer query parameter. A missing parameter is nil.
func optionalInt(r *http.Request, name string) (*int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, v)
	}
	return &n, nil
}

// parseWellnessFilter reads bodyPartProfileId and an optional time range from
// the named query parameters.
func parseWellnessFilter(r *http.Request, fromParam, toParam string) (models.WellnessFilter, error) {
	var f models.WellnessFilter
	var err error
	if f.BodyPartProfileID, err = optionalInt(r, "bodyPartProfileId"); err != nil {
		return f, err
	}
	if f.From, err = parseTime(r.URL.Query().Get(fromParam), false); err != nil {
		return f, fmt.Errorf("invalid %s: %w", fromParam, err)
	}
	if f.To, err = parseTime(r.URL.Query().Get(toParam), true); err != nil {
		return f, fmt.Errorf("invalid %s: %w", toParam, err)
	}
	return f, nil
}

// parseTime accepts RFC 3339 instants or YYYY-MM-DD dates. A date used as
// an exclusive end is moved to the following midnight so the day is included.
func parseTime(v string, end bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		t, err = time.Parse("2006-01-02", v)
		if err != nil {
			return nil, err
		}
		if end {
			t = t.Add(24 * time.Hour)
		}
	}
	return &t, nil
}
