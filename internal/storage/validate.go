package storage

import (
	"fmt"
	"math"
	"strings"

	"github.com/meltforce/trainload/internal/models"
)

// setColumns maps set field names onto session_sets columns. "duration" is
// accepted as an alias of durationSeconds.
var setColumns = map[string]string{
	models.FieldWeight:          "weight",
	models.FieldReps:            "reps",
	models.FieldDurationSeconds: "duration_seconds",
	"duration":                  "duration_seconds",
}

// ValidateProfile checks a create-profile request.
func ValidateProfile(in models.ProfileInput) error {
	if strings.TrimSpace(in.BodyPartName) == "" {
		return fmt.Errorf("%w: bodyPartName is required", ErrInvalid)
	}
	if _, err := models.ParseSide(string(in.Side)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ValidateWellness checks a create-wellness request.
func ValidateWellness(in models.WellnessInput) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ValidatePayload checks a create-session request: at least one set, every
// set names an exercise, fields are known, non-negative and finite, and rpe
// lies in 1..10.
func ValidatePayload(p models.SessionPayload) error {
	if p.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalid)
	}
	if len(p.Sets) == 0 {
		return fmt.Errorf("%w: session has no sets", ErrInvalid)
	}
	for i, s := range p.Sets {
		if strings.TrimSpace(s.ExerciseCode) == "" {
			return fmt.Errorf("%w: set %d: exercise_code is required", ErrInvalid, i)
		}
		for name, v := range s.Fields {
			if _, ok := setColumns[name]; !ok {
				return fmt.Errorf("%w: set %d: unsupported field %q", ErrInvalid, i, name)
			}
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: set %d: %s must be a non-negative number", ErrInvalid, i, name)
			}
		}
		if s.RPE != nil && (*s.RPE < 1 || *s.RPE > 10) {
			return fmt.Errorf("%w: set %d: rpe %v out of range 1-10", ErrInvalid, i, *s.RPE)
		}
	}
	return nil
}

// setValues returns the weight, reps and duration column values of a set.
func setValues(s models.SetPayload) (weight, reps, duration *float64) {
	for name, v := range s.Fields {
		switch setColumns[name] {
		case "weight":
			weight = &v
		case "reps":
			reps = &v
		case "duration_seconds":
			duration = &v
		}
	}
	return weight, reps, duration
}
