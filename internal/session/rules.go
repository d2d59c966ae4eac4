package session

import (
	"math"
	"strconv"
	"strings"

	"github.com/meltforce/trainload/internal/models"
)

// Bounds is an inclusive numeric range for user-entered values.
type Bounds struct {
	Min float64
	Max float64
}

var (
	// FieldBounds applies to set fields: non-negative, no upper bound.
	FieldBounds = Bounds{Min: 0, Max: math.Inf(1)}
	// RPEBounds applies to rate of perceived exertion.
	RPEBounds = Bounds{Min: 1, Max: 10}
)

// SanitizeNumber clamps v into b. Missing, NaN and infinite input becomes
// nil; invalid entry is dropped rather than rejected.
func SanitizeNumber(v *float64, b Bounds) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	out := math.Max(*v, b.Min)
	out = math.Min(out, b.Max)
	return &out
}

// ParseNumber reads user input. Empty or non-numeric text yields nil.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

// IsSetFieldsComplete reports whether every required field of the set holds a value.
func IsSetFieldsComplete(set models.ExerciseSet, completionRequires []string) bool {
	for _, name := range completionRequires {
		if set.Fields[name] == nil {
			return false
		}
	}
	return true
}
