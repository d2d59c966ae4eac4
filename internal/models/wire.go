package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Field names shared by the catalog set types and the backend columns.
const (
	FieldWeight          = "weight"
	FieldReps            = "reps"
	FieldDurationSeconds = "durationSeconds"
)

// SessionPayload is the body of a create-session request.
type SessionPayload struct {
	Date time.Time    `json:"date"`
	Sets []SetPayload `json:"sets"`
}

// SetPayload is one submitted set. On the wire the fields are flattened
// next to exercise_code, rpe and body_part_profile_id:
//
//	{"exercise_code":"STR_BENCH","weight":100,"reps":10,"rpe":8}
type SetPayload struct {
	ExerciseCode      string
	Fields            map[string]float64
	RPE               *float64
	BodyPartProfileID *int
}

var reservedPayloadKeys = map[string]bool{
	"exercise_code":        true,
	"rpe":                  true,
	"body_part_profile_id": true,
}

// MarshalJSON flattens the set fields into the top-level object.
func (p SetPayload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	code, err := json.Marshal(p.ExerciseCode)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"exercise_code":`)
	buf.Write(code)

	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		if reservedPayloadKeys[name] {
			return nil, fmt.Errorf("set field %q collides with a reserved key", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		k, _ := json.Marshal(name)
		buf.WriteByte(',')
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(p.Fields[name], 'f', -1, 64))
	}

	if p.RPE != nil {
		buf.WriteString(`,"rpe":`)
		buf.WriteString(strconv.FormatFloat(*p.RPE, 'f', -1, 64))
	}
	if p.BodyPartProfileID != nil {
		buf.WriteString(`,"body_part_profile_id":`)
		buf.WriteString(strconv.Itoa(*p.BodyPartProfileID))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flattened set. Every key other than the reserved
// ones must hold a number or null; nulls are dropped.
func (p *SetPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := SetPayload{Fields: map[string]float64{}}
	for key, val := range raw {
		switch key {
		case "exercise_code":
			if err := json.Unmarshal(val, &out.ExerciseCode); err != nil {
				return fmt.Errorf("exercise_code: %w", err)
			}
		case "rpe":
			if err := json.Unmarshal(val, &out.RPE); err != nil {
				return fmt.Errorf("rpe: %w", err)
			}
		case "body_part_profile_id":
			if err := json.Unmarshal(val, &out.BodyPartProfileID); err != nil {
				return fmt.Errorf("body_part_profile_id: %w", err)
			}
		default:
			var v *float64
			if err := json.Unmarshal(val, &v); err != nil {
				return fmt.Errorf("field %s: %w", key, err)
			}
			if v != nil {
				out.Fields[key] = *v
			}
		}
	}
	*p = out
	return nil
}

// APIExerciseSet is a set as returned by the backend list endpoints.
type APIExerciseSet struct {
	ID                int      `json:"id"`
	ExerciseCode      string   `json:"exercise_code"`
	Reps              *float64 `json:"reps"`
	Weight            *float64 `json:"weight"`
	Duration          *float64 `json:"duration"`
	RPE               *float64 `json:"rpe"`
	BodyPartProfileID *int     `json:"body_part_profile_id"`
}

// ToDomain maps the backend shape into an ExerciseSet. Stored sets are
// always complete.
func (a APIExerciseSet) ToDomain() ExerciseSet {
	fields := map[string]*float64{}
	if a.Weight != nil {
		fields[FieldWeight] = cloneFloat(a.Weight)
	}
	if a.Reps != nil {
		fields[FieldReps] = cloneFloat(a.Reps)
	}
	if a.Duration != nil {
		fields[FieldDurationSeconds] = cloneFloat(a.Duration)
	}
	set := ExerciseSet{
		ID:           strconv.Itoa(a.ID),
		ExerciseCode: a.ExerciseCode,
		Fields:       fields,
		RPE:          cloneFloat(a.RPE),
		Completed:    true,
	}
	if a.BodyPartProfileID != nil {
		id := *a.BodyPartProfileID
		set.BodyPartProfileID = &id
	}
	return set
}

// APISession is a session as returned by the backend.
type APISession struct {
	ID   int              `json:"id"`
	Date time.Time        `json:"date"`
	Sets []APIExerciseSet `json:"sets"`
}

// ToDomain maps the backend shape into a Session.
func (a APISession) ToDomain() Session {
	s := Session{ID: strconv.Itoa(a.ID), Date: a.Date, Sets: make([]ExerciseSet, 0, len(a.Sets))}
	for _, set := range a.Sets {
		s.Sets = append(s.Sets, set.ToDomain())
	}
	return s
}

// SessionsToDomain maps a list response.
func SessionsToDomain(in []APISession) []Session {
	out := make([]Session, 0, len(in))
	for _, s := range in {
		out = append(out, s.ToDomain())
	}
	return out
}

// APIWellnessLog is a wellness log as returned by the backend. The nested
// profile is already camelCase.
type APIWellnessLog struct {
	ID              int             `json:"id"`
	LoggedAt        time.Time       `json:"logged_at"`
	PainScore       float64         `json:"pain_score"`
	FatigueScore    float64         `json:"fatigue_score"`
	BodyPartProfile BodyPartProfile `json:"bodyPartProfile"`
}

// ToDomain maps the backend shape into a WellnessLog.
func (a APIWellnessLog) ToDomain() WellnessLog {
	return WellnessLog{
		ID:              a.ID,
		LoggedAt:        a.LoggedAt,
		PainScore:       a.PainScore,
		FatigueScore:    a.FatigueScore,
		BodyPartProfile: a.BodyPartProfile,
	}
}

// WellnessLogsToDomain maps a list response.
func WellnessLogsToDomain(in []APIWellnessLog) []WellnessLog {
	out := make([]WellnessLog, 0, len(in))
	for _, l := range in {
		out = append(out, l.ToDomain())
	}
	return out
}

// WellnessLogToAPI is the inverse of APIWellnessLog.ToDomain.
func WellnessLogToAPI(l WellnessLog) APIWellnessLog {
	return APIWellnessLog{
		ID:              l.ID,
		LoggedAt:        l.LoggedAt,
		PainScore:       l.PainScore,
		FatigueScore:    l.FatigueScore,
		BodyPartProfile: l.BodyPartProfile,
	}
}
