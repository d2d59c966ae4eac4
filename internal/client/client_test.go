package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meltforce/trainload/internal/bucket"
	"github.com/meltforce/trainload/internal/catalog"
	"github.com/meltforce/trainload/internal/category"
	"github.com/meltforce/trainload/internal/models"
	"github.com/meltforce/trainload/internal/testutil"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestFetchCatalog verifies the catalog is decoded and validated.
func TestFetchCatalog(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/config": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, testutil.Catalog())
		},
	})
	defer ts.Close()

	cat, err := NewHTTPClient(ts.URL, "").FetchCatalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cat.Exercise("STR_BENCH"); !ok {
		t.Error("STR_BENCH missing from fetched catalog")
	}
	if c, _ := cat.CategoryOf("ISO_WALL_SIT"); c != category.Isometric {
		t.Errorf("ISO_WALL_SIT category = %q", c)
	}
}

// TestFetchCatalogInvalid verifies a catalog that fails validation is a LoadError.
func TestFetchCatalogInvalid(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/config": func(w http.ResponseWriter, r *http.Request) {
			bad := testutil.Catalog()
			bad.Exercises["STR_BAD"] = catalog.Exercise{Name: "Bad", Type: "unknown", BodyParts: []string{"knee"}}
			writeTestJSON(t, w, http.StatusOK, bad)
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "").FetchCatalog(context.Background())
	var loadErr *catalog.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("err = %v, want *catalog.LoadError", err)
	}
}

// TestFetchCatalogUnreachable verifies transport failures are a LoadError too.
func TestFetchCatalogUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	_, err := NewHTTPClient(ts.URL, "").FetchCatalog(context.Background())
	var loadErr *catalog.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("err = %v, want *catalog.LoadError", err)
	}
}

// TestCreateSession verifies the flattened payload and API key are sent and the
// snake_case response is mapped into the domain.
func TestCreateSession(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/sessions": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if got := r.Header.Get("X-API-Key"); got != "secret" {
				t.Errorf("api key = %q", got)
			}
			var raw map[string]any
			if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
				t.Fatal(err)
			}
			set := raw["sets"].([]any)[0].(map[string]any)
			if set["weight"] != 100.0 || set["exercise_code"] != "STR_BENCH" {
				t.Errorf("set = %v", set)
			}
			w8, reps, rpe := 100.0, 10.0, 8.0
			writeTestJSON(t, w, http.StatusCreated, models.APISession{
				ID:   7,
				Date: time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC),
				Sets: []models.APIExerciseSet{{ID: 1, ExerciseCode: "STR_BENCH", Weight: &w8, Reps: &reps, RPE: &rpe}},
			})
		},
	})
	defer ts.Close()

	payload := models.SessionPayload{
		Date: time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC),
		Sets: []models.SetPayload{{
			ExerciseCode: "STR_BENCH",
			Fields:       map[string]float64{"weight": 100, "reps": 10},
			RPE:          testutil.Float(8),
		}},
	}
	s, err := NewHTTPClient(ts.URL, "secret").CreateSession(context.Background(), payload)
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != "7" || len(s.Sets) != 1 {
		t.Fatalf("session = %+v", s)
	}
	if got := s.Sets[0].Field("weight"); got != 100 {
		t.Errorf("weight = %v, want 100", got)
	}
	if !s.Sets[0].Completed {
		t.Error("stored sets should be complete")
	}
}

// TestAPIError verifies that non-2xx responses carry the server's message.
func TestAPIError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/body-part-profiles/9": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusNotFound, map[string]string{"error": "profile 9: not found"})
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL, "").GetProfile(context.Background(), 9)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "profile 9: not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

// TestListSessionsFilter verifies the profile filter is sent as a query param.
func TestListSessionsFilter(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/sessions": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("bodyPartProfileId"); got != "3" {
				t.Errorf("bodyPartProfileId = %q, want 3", got)
			}
			writeTestJSON(t, w, http.StatusOK, []models.APISession{{ID: 1}, {ID: 2}})
		},
	})
	defer ts.Close()

	id := 3
	sessions, err := NewHTTPClient(ts.URL, "").ListSessions(context.Background(), models.SessionFilter{BodyPartProfileID: &id})
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 || sessions[1].ID != "2" {
		t.Errorf("sessions = %+v", sessions)
	}
}

// TestWellness verifies create validation happens before any request and that
// list parameters are encoded.
func TestWellness(t *testing.T) {
	knee := models.BodyPartProfile{ID: 1, BodyPartName: "knee", Side: models.SideLeft}
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/wellness": func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				writeTestJSON(t, w, http.StatusCreated, models.APIWellnessLog{ID: 1, PainScore: 4, BodyPartProfile: knee})
			default:
				q := r.URL.Query()
				if q.Get("from") != "2025-01-01T00:00:00Z" || q.Get("limit") != "10" {
					t.Errorf("query = %v", q)
				}
				writeTestJSON(t, w, http.StatusOK, []models.APIWellnessLog{{ID: 1, PainScore: 4, BodyPartProfile: knee}})
			}
		},
	})
	defer ts.Close()
	c := NewHTTPClient(ts.URL, "k")
	ctx := context.Background()

	if _, err := c.CreateWellnessLog(ctx, models.WellnessInput{BodyPartProfileID: 1, PainScore: 11}); err == nil {
		t.Error("expected validation error for pain 11")
	}
	log, err := c.CreateWellnessLog(ctx, models.WellnessInput{BodyPartProfileID: 1, PainScore: 4})
	if err != nil {
		t.Fatal(err)
	}
	if log.BodyPartProfile.BodyPartName != "knee" {
		t.Errorf("profile = %+v", log.BodyPartProfile)
	}

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	logs, err := c.ListWellnessLogs(ctx, models.WellnessFilter{From: &from, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].PainScore != 4 {
		t.Errorf("logs = %+v", logs)
	}
}

// TestListProfilesArchived verifies how the archived filter is encoded.
func TestListProfilesArchived(t *testing.T) {
	var got []string
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/body-part-profiles": func(w http.ResponseWriter, r *http.Request) {
			got = append(got, r.URL.Query().Get("archived"))
			writeTestJSON(t, w, http.StatusOK, []models.BodyPartProfile{})
		},
	})
	defer ts.Close()
	c := NewHTTPClient(ts.URL, "")

	archived := true
	for _, a := range []*bool{nil, &archived} {
		if _, err := c.ListBodyPartProfiles(context.Background(), a); err != nil {
			t.Fatal(err)
		}
	}
	if len(got) != 2 || got[0] != "all" || got[1] != "true" {
		t.Errorf("archived params = %v", got)
	}
}

// TestArchiveProfile verifies the PATCH route and API key.
func TestArchiveProfile(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/body-part-profiles/2/archive": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch || r.Header.Get("X-API-Key") != "k" {
				t.Errorf("method = %s, key = %q", r.Method, r.Header.Get("X-API-Key"))
			}
			writeTestJSON(t, w, http.StatusOK, models.BodyPartProfile{ID: 2, Archived: true})
		},
	})
	defer ts.Close()

	p, err := NewHTTPClient(ts.URL, "k").ArchiveProfile(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Archived {
		t.Error("profile should be archived")
	}
}

// TestSeries verifies the analytics query parameters.
func TestSeries(t *testing.T) {
	intensity := 7.5
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/analytics/volume": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("profileId") != "1" || q.Get("category") != "strength" || q.Get("aggregation") != "monthly" {
				t.Errorf("query = %v", q)
			}
			writeTestJSON(t, w, http.StatusOK, []models.VolumeIntensityPoint{{Date: "2025-01", Volume: 1800, Intensity: &intensity}})
		},
		"/api/wellness/pain/series": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("aggregation"); got != "daily" {
				t.Errorf("aggregation = %q", got)
			}
			writeTestJSON(t, w, http.StatusOK, []models.ChartPoint{{Date: "2025-01-06", Value: 3}})
		},
	})
	defer ts.Close()
	c := NewHTTPClient(ts.URL, "")
	ctx := context.Background()

	vol, err := c.VolumeSeries(ctx, 1, category.Strength, bucket.Monthly)
	if err != nil {
		t.Fatal(err)
	}
	if len(vol) != 1 || vol[0].Volume != 1800 || *vol[0].Intensity != 7.5 {
		t.Errorf("volume = %+v", vol)
	}

	pain, err := c.WellnessSeries(ctx, "pain", models.WellnessFilter{}, bucket.Daily)
	if err != nil {
		t.Fatal(err)
	}
	if len(pain) != 1 || pain[0].Value != 3 {
		t.Errorf("pain = %+v", pain)
	}
}
