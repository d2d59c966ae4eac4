package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/trainload/internal/models"
)

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	// Active profiles by default; archived=all returns both.
	archived := new(bool)
	switch v := r.URL.Query().Get("archived"); v {
	case "", "false":
	case "true":
		*archived = true
	case "all":
		archived = nil
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "archived must be true, false or all"})
		return
	}

	profiles, err := s.store.ListBodyPartProfiles(r.Context(), archived)
	if err != nil {
		s.writeError(w, "list profiles", err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	p, err := s.store.GetProfile(r.Context(), id)
	if err != nil {
		s.writeError(w, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	p, err := s.store.CreateProfile(r.Context(), in)
	if err != nil {
		s.writeError(w, "create profile", err)
		return
	}
	s.countProfile("create")
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleArchiveProfile(w http.ResponseWriter, r *http.Request) {
	s.updateArchived(w, r, "archive", s.store.ArchiveProfile)
}

func (s *Server) handleUnarchiveProfile(w http.ResponseWriter, r *http.Request) {
	s.updateArchived(w, r, "unarchive", s.store.UnarchiveProfile)
}

func (s *Server) updateArchived(w http.ResponseWriter, r *http.Request, action string,
	fn func(ctx context.Context, id int) (models.BodyPartProfile, error)) {
	id, ok := profileID(w, r)
	if !ok {
		return
	}
	p, err := fn(r.Context(), id)
	if err != nil {
		s.writeError(w, action+" profile", err)
		return
	}
	s.countProfile(action)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) countProfile(action string) {
	if s.metrics != nil {
		s.metrics.CounterProfiles.WithLabelValues(action).Inc()
	}
}

func profileID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid profile ID"})
		return 0, false
	}
	return id, true
}
