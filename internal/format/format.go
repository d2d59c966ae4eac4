// Package format renders bucket keys and numbers for chart axes and tables.
package format

import (
	"strconv"

	"github.com/meltforce/trainload/internal/bucket"
)

// Placeholder is shown for a missing value.
const Placeholder = "—"

// ChartDate renders a bucket key as an axis label: "Jan 2025" for monthly
// buckets and "Jan 6" for daily and weekly ones (weekly shows the Monday).
// A key that does not parse is returned unchanged.
func ChartDate(key string, g bucket.Granularity) string {
	t, err := bucket.ParseKey(key, g)
	if err != nil {
		return key
	}
	if g == bucket.Monthly {
		return t.Format("Jan 2006")
	}
	return t.Format("Jan 2")
}

// Number renders v with one decimal place, or Placeholder when v is nil.
func Number(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
