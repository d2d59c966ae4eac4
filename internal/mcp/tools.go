package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/trainload/internal/analytics"
	"github.com/meltforce/trainload/internal/bucket"
	"github.com/meltforce/trainload/internal/category"
	"github.com/meltforce/trainload/internal/models"
)

// timeRange parses optional start/end bounds into a half-open range
// [start, end). A bare end date includes that whole day. A missing end is now
// and a missing start is defaultDays before the end; defaultDays 0 leaves it open.
func timeRange(startStr, endStr string, defaultDays int) (*time.Time, *time.Time, error) {
	end := time.Now()
	if endStr != "" {
		t, err := parseFlexTime(endStr, true)
		if err != nil {
			return nil, nil, err
		}
		end = t
	}

	var start *time.Time
	if startStr != "" {
		t, err := parseFlexTime(startStr, false)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	} else if defaultDays > 0 {
		t := end.AddDate(0, 0, -defaultDays)
		start = &t
	}
	return start, &end, nil
}

// parseFlexTime accepts RFC 3339 or a bare date. With upper set, a bare date
// moves to the following midnight so it works as an exclusive bound.
func parseFlexTime(s string, upper bool) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		t = t.Add(24 * time.Hour)
	}
	return t, nil
}

// --- Tool definitions ---

var aggregationParam = mcp.WithString("aggregation",
	mcp.Description("Bucket size. Defaults to weekly. Daily series keep the last 28 buckets, weekly and monthly the last 12."),
	mcp.Enum(string(bucket.Daily), string(bucket.Weekly), string(bucket.Monthly)))

var toolListProfiles = mcp.NewTool("list_profiles",
	mcp.WithDescription("List body-part profiles (a body part plus a side, e.g. knee/left). Profile IDs are needed by the series tools."),
	mcp.WithString("archived", mcp.Description("Which profiles to return. Defaults to active ones."), mcp.Enum("false", "true", "all")),
)

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List logged training sessions with their sets (exercise code, weight/reps/durationSeconds fields, RPE)."),
	mcp.WithNumber("profile_id", mcp.Description("Only sessions with sets assigned to this profile")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetVolumeSeries = mcp.NewTool("get_volume_series",
	mcp.WithDescription("Training volume and RPE-weighted intensity per time bucket for one profile. "+
		"Strength volume is weight x reps, plyometric is reps, isometric and cardio are seconds. "+
		"Sets count when their exercise targets the profile's body part."),
	mcp.WithNumber("profile_id", mcp.Required(), mcp.Description("Body-part profile ID")),
	mcp.WithString("category", mcp.Description("Load category. Omit for all four."),
		mcp.Enum(category.Strength.String(), category.Plyometric.String(), category.Isometric.String(), category.Cardio.String())),
	aggregationParam,
)

var toolGetWellnessSeries = mcp.NewTool("get_wellness_series",
	mcp.WithDescription("Average pain or fatigue score (0-10) per time bucket."),
	mcp.WithString("metric", mcp.Required(), mcp.Enum("pain", "fatigue")),
	mcp.WithNumber("profile_id", mcp.Description("Only logs for this profile")),
	mcp.WithString("start", mcp.Description("Start date. Defaults to all history.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	aggregationParam,
)

var toolGetCatalog = mcp.NewTool("get_catalog",
	mcp.WithDescription("The exercise catalog. With body_part set, only the exercises targeting it."),
	mcp.WithString("body_part", mcp.Description("Body part key (e.g. knee)")),
)

// --- Tool handlers ---

func (h *handlers) listProfiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	archived := new(bool)
	switch req.GetString("archived", "false") {
	case "false":
	case "true":
		*archived = true
	case "all":
		archived = nil
	default:
		return mcp.NewToolResultError("archived must be true, false or all"), nil
	}

	profiles, err := h.ds.ListBodyPartProfiles(ctx, archived)
	if err != nil {
		h.log.Error("mcp list_profiles", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(profiles)
}

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := timeRange(req.GetString("start", ""), req.GetString("end", ""), 30)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	var f models.SessionFilter
	if id := req.GetInt("profile_id", 0); id > 0 {
		f.BodyPartProfileID = &id
	}

	sessions, err := h.ds.ListSessions(ctx, f)
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	out := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Date.Before(*start) || !s.Date.Before(*end) {
			continue
		}
		out = append(out, s)
	}
	return jsonResult(out)
}

func (h *handlers) getVolumeSeries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("profile_id")
	if err != nil {
		return mcp.NewToolResultError("profile_id parameter is required"), nil
	}
	g, err := bucket.ParseGranularity(req.GetString("aggregation", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var c category.Category
	if v := req.GetString("category", ""); v != "" {
		if c, err = category.Parse(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	cat, err := h.ds.FetchCatalog(ctx)
	if err != nil {
		h.log.Error("mcp get_volume_series catalog", "error", err)
		return mcp.NewToolResultError("catalog unavailable: " + err.Error()), nil
	}
	profile, err := h.ds.GetProfile(ctx, id)
	if err != nil {
		return mcp.NewToolResultError("profile lookup failed: " + err.Error()), nil
	}
	sessions, err := h.ds.ListSessions(ctx, models.SessionFilter{})
	if err != nil {
		h.log.Error("mcp get_volume_series sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if c != "" {
		return jsonResult(analytics.LimitFor(analytics.AggregateVolume(cat, sessions, profile, c, g), g))
	}
	out := map[string][]models.VolumeIntensityPoint{}
	for k, points := range analytics.AggregateAll(cat, sessions, profile, g) {
		out[k.String()] = analytics.LimitFor(points, g)
	}
	return jsonResult(out)
}

func (h *handlers) getWellnessSeries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metric, err := req.RequireString("metric")
	if err != nil {
		return mcp.NewToolResultError("metric parameter is required"), nil
	}
	field, err := analytics.ParseWellnessField(metric)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := bucket.ParseGranularity(req.GetString("aggregation", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, end, err := timeRange(req.GetString("start", ""), req.GetString("end", ""), 0)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	f := models.WellnessFilter{From: start, To: end}
	if id := req.GetInt("profile_id", 0); id > 0 {
		f.BodyPartProfileID = &id
	}

	logs, err := h.ds.ListWellnessLogs(ctx, f)
	if err != nil {
		h.log.Error("mcp get_wellness_series", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(analytics.LimitFor(analytics.AggregateAvg(logs, field, g), g))
}

func (h *handlers) getCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat, err := h.ds.FetchCatalog(ctx)
	if err != nil {
		h.log.Error("mcp get_catalog", "error", err)
		return mcp.NewToolResultError("catalog unavailable: " + err.Error()), nil
	}
	if bp := req.GetString("body_part", ""); bp != "" {
		if _, ok := cat.BodyParts[bp]; !ok {
			return mcp.NewToolResultError("unknown body part " + bp), nil
		}
		return jsonResult(cat.ExercisesForBodyPart(bp))
	}
	return jsonResult(cat)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
