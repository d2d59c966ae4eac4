package analytics

import "github.com/meltforce/trainload/internal/bucket"

// Limit returns the trailing maxPoints elements of series. The input is
// never modified; a shorter series is returned as is.
func Limit[T any](series []T, maxPoints int) []T {
	if maxPoints < 0 {
		maxPoints = 0
	}
	if len(series) <= maxPoints {
		return series
	}
	out := make([]T, maxPoints)
	copy(out, series[len(series)-maxPoints:])
	return out
}

// LimitFor trims series to the chart cap of granularity g.
func LimitFor[T any](series []T, g bucket.Granularity) []T {
	return Limit(series, bucket.MaxPoints(g))
}
