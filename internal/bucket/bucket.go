// Package bucket derives calendar bucket keys for daily, weekly and monthly
// aggregation. All keys use the UTC calendar of the instant and sort
// lexicographically in chronological order.
package bucket

import (
	"fmt"
	"time"
)

// Granularity is the time-alignment unit for a series.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// ParseGranularity accepts "daily", "weekly" or "monthly". An empty string
// means weekly, the default chart view.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Daily, Weekly, Monthly:
		return Granularity(s), nil
	case "":
		return Weekly, nil
	}
	return "", fmt.Errorf("invalid aggregation %q (want daily, weekly or monthly)", s)
}

// MaxPoints is the number of most recent points a chart shows.
func MaxPoints(g Granularity) int {
	if g == Daily {
		return 28
	}
	return 12
}

// DailyKey returns the UTC calendar date, "YYYY-MM-DD".
func DailyKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// WeeklyKey returns the UTC date of the Monday on or before t, "YYYY-MM-DD".
func WeeklyKey(t time.Time) string {
	u := t.UTC()
	// time.Weekday has Sunday=0; shift so Monday=0.
	shift := (int(u.Weekday()) + 6) % 7
	monday := time.Date(u.Year(), u.Month(), u.Day()-shift, 0, 0, 0, 0, time.UTC)
	return monday.Format(dayLayout)
}

// MonthlyKey returns the UTC calendar month, "YYYY-MM".
func MonthlyKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// Key returns the bucket key of t for g. Unknown granularities fall back to daily.
func Key(t time.Time, g Granularity) string {
	switch g {
	case Weekly:
		return WeeklyKey(t)
	case Monthly:
		return MonthlyKey(t)
	default:
		return DailyKey(t)
	}
}

// ParseKey is the inverse of Key: it returns the UTC start of the bucket.
func ParseKey(key string, g Granularity) (time.Time, error) {
	layout := dayLayout
	if g == Monthly {
		layout = monthLayout
	}
	t, err := time.ParseInLocation(layout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s bucket key %q: %w", g, key, err)
	}
	return t, nil
}
