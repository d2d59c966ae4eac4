// Package client talks to the trainload REST API. HTTPClient maps the
// backend's snake_case responses into domain types, so it can stand in for
// the local stores wherever the data lives on a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/trainload/internal/bucket"
	"github.com/meltforce/trainload/internal/catalog"
	"github.com/meltforce/trainload/internal/category"
	"github.com/meltforce/trainload/internal/models"
	"github.com/meltforce/trainload/internal/session"
)

// HTTPClient calls the trainload REST API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var (
	_ catalog.Provider = (*HTTPClient)(nil)
	_ session.Creator  = (*HTTPClient)(nil)
)

// APIError is a non-2xx response. Message is the server's error text.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("httpclient: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey is
// sent on write requests and may be empty for read-only use.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("httpclient: decode %s: %w", path, err)
		}
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a response body, falling back
// to the raw text.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

// FetchCatalog downloads and validates the catalog.
func (c *HTTPClient) FetchCatalog(ctx context.Context) (*catalog.Catalog, error) {
	var cat catalog.Catalog
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, nil, &cat); err != nil {
		return nil, &catalog.LoadError{Source: c.baseURL, Err: err}
	}
	if err := cat.Validate(); err != nil {
		return nil, &catalog.LoadError{Source: c.baseURL, Err: fmt.Errorf("catalog validation: %w", err)}
	}
	return &cat, nil
}

// CreateSession submits a finished session.
func (c *HTTPClient) CreateSession(ctx context.Context, payload models.SessionPayload) (models.Session, error) {
	var created models.APISession
	if err := c.do(ctx, http.MethodPost, "/api/sessions", nil, payload, &created); err != nil {
		return models.Session{}, err
	}
	return created.ToDomain(), nil
}

// ListSessions returns stored sessions, optionally narrowed to one profile.
func (c *HTTPClient) ListSessions(ctx context.Context, f models.SessionFilter) ([]models.Session, error) {
	params := url.Values{}
	if f.BodyPartProfileID != nil {
		params.Set("bodyPartProfileId", strconv.Itoa(*f.BodyPartProfileID))
	}
	var sessions []models.APISession
	if err := c.do(ctx, http.MethodGet, "/api/sessions", params, nil, &sessions); err != nil {
		return nil, err
	}
	return models.SessionsToDomain(sessions), nil
}

// CreateWellnessLog records a pain/fatigue entry.
func (c *HTTPClient) CreateWellnessLog(ctx context.Context, in models.WellnessInput) (models.WellnessLog, error) {
	if err := in.Validate(); err != nil {
		return models.WellnessLog{}, err
	}
	var created models.APIWellnessLog
	if err := c.do(ctx, http.MethodPost, "/api/wellness", nil, in, &created); err != nil {
		return models.WellnessLog{}, err
	}
	return created.ToDomain(), nil
}

// ListWellnessLogs returns wellness logs in ascending time order.
func (c *HTTPClient) ListWellnessLogs(ctx context.Context, f models.WellnessFilter) ([]models.WellnessLog, error) {
	params := wellnessParams(f, "from", "to")
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	var logs []models.APIWellnessLog
	if err := c.do(ctx, http.MethodGet, "/api/wellness", params, nil, &logs); err != nil {
		return nil, err
	}
	return models.WellnessLogsToDomain(logs), nil
}

func wellnessParams(f models.WellnessFilter, fromParam, toParam string) url.Values {
	params := url.Values{}
	if f.BodyPartProfileID != nil {
		params.Set("bodyPartProfileId", strconv.Itoa(*f.BodyPartProfileID))
	}
	if f.From != nil {
		params.Set(fromParam, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		params.Set(toParam, f.To.UTC().Format(time.RFC3339))
	}
	return params
}

// ListBodyPartProfiles lists profiles. A nil archived returns all of them.
func (c *HTTPClient) ListBodyPartProfiles(ctx context.Context, archived *bool) ([]models.BodyPartProfile, error) {
	params := url.Values{}
	if archived == nil {
		params.Set("archived", "all")
	} else {
		params.Set("archived", strconv.FormatBool(*archived))
	}
	var profiles []models.BodyPartProfile
	if err := c.do(ctx, http.MethodGet, "/body-part-profiles", params, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, id int) (models.BodyPartProfile, error) {
	var p models.BodyPartProfile
	err := c.do(ctx, http.MethodGet, "/body-part-profiles/"+strconv.Itoa(id), nil, nil, &p)
	return p, err
}

func (c *HTTPClient) CreateProfile(ctx context.Context, in models.ProfileInput) (models.BodyPartProfile, error) {
	var p models.BodyPartProfile
	err := c.do(ctx, http.MethodPost, "/body-part-profiles", nil, in, &p)
	return p, err
}

func (c *HTTPClient) ArchiveProfile(ctx context.Context, id int) (models.BodyPartProfile, error) {
	var p models.BodyPartProfile
	err := c.do(ctx, http.MethodPatch, "/body-part-profiles/"+strconv.Itoa(id)+"/archive", nil, nil, &p)
	return p, err
}

func (c *HTTPClient) UnarchiveProfile(ctx context.Context, id int) (models.BodyPartProfile, error) {
	var p models.BodyPartProfile
	err := c.do(ctx, http.MethodPatch, "/body-part-profiles/"+strconv.Itoa(id)+"/unarchive", nil, nil, &p)
	return p, err
}

// VolumeSeries fetches the trimmed volume/intensity series of one category.
func (c *HTTPClient) VolumeSeries(ctx context.Context, profileID int, cat category.Category, g bucket.Granularity) ([]models.VolumeIntensityPoint, error) {
	params := url.Values{}
	params.Set("profileId", strconv.Itoa(profileID))
	params.Set("category", cat.String())
	params.Set("aggregation", string(g))

	var points []models.VolumeIntensityPoint
	if err := c.do(ctx, http.MethodGet, "/api/analytics/volume", params, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// WellnessSeries fetches the trimmed average series of one wellness metric
// ("pain" or "fatigue").
func (c *HTTPClient) WellnessSeries(ctx context.Context, metric string, f models.WellnessFilter, g bucket.Granularity) ([]models.ChartPoint, error) {
	params := wellnessParams(f, "start", "end")
	params.Set("aggregation", string(g))

	var points []models.ChartPoint
	if err := c.do(ctx, http.MethodGet, "/api/wellness/"+url.PathEscape(metric)+"/series", params, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}
