package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/trainload/internal/analytics"
	"github.com/meltforce/trainload/internal/bucket"
	"github.com/meltforce/trainload/internal/category"
	"github.com/meltforce/trainload/internal/models"
)

// handleVolumeSeries serves the volume/intensity chart of one profile. Without
// a category it returns all four series keyed by category name.
func (s *Server) handleVolumeSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	g, err := bucket.ParseGranularity(q.Get("aggregation"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	pid, err := optionalInt(r, "profileId")
	if err != nil || pid == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "profileId parameter required"})
		return
	}
	var cat category.Category
	if v := q.Get("category"); v != "" {
		if cat, err = category.Parse(v); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	profile, err := s.store.GetProfile(r.Context(), *pid)
	if err != nil {
		s.writeError(w, "get profile", err)
		return
	}
	// Sets match by body part name, so the whole history is needed.
	apiSessions, err := s.store.ListSessions(r.Context(), models.SessionFilter{})
	if err != nil {
		s.writeError(w, "list sessions", err)
		return
	}
	sessions := models.SessionsToDomain(apiSessions)

	if cat != "" {
		points := analytics.AggregateVolume(s.cat, sessions, profile, cat, g)
		writeJSON(w, http.StatusOK, analytics.LimitFor(points, g))
		return
	}
	all := analytics.AggregateAll(s.cat, sessions, profile, g)
	out := make(map[string][]models.VolumeIntensityPoint, len(all))
	for c, points := range all {
		out[c.String()] = analytics.LimitFor(points, g)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleWellnessSeries serves the averaged pain or fatigue chart.
func (s *Server) handleWellnessSeries(w http.ResponseWriter, r *http.Request) {
	field, err := analytics.ParseWellnessField(chi.URLParam(r, "metric"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	g, err := bucket.ParseGranularity(r.URL.Query().Get("aggregation"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	f, err := parseWellnessFilter(r, "start", "end")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	logs, err := s.store.ListWellnessLogs(r.Context(), f)
	if err != nil {
		s.writeError(w, "list wellness logs", err)
		return
	}
	points := analytics.AggregateAvg(models.WellnessLogsToDomain(logs), field, g)
	writeJSON(w, http.StatusOK, analytics.LimitFor(points, g))
}
