package models

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the calendar-date format used for draft sessions and bucket keys.
const DateLayout = "2006-01-02"

// Side is the body side of a profile.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ParseSide validates a side string.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideLeft, SideRight:
		return Side(s), nil
	}
	return "", fmt.Errorf("invalid side %q (want left or right)", s)
}

// BodyPartProfile is a user-defined (body part, side) pairing that scopes
// history and analytics. Two profiles may share a body part name.
type BodyPartProfile struct {
	ID           int    `json:"id"`
	BodyPartName string `json:"bodyPartName"`
	Side         Side   `json:"side"`
	Archived     bool   `json:"archived"`
}

// ProfileInput is the payload for creating a profile.
type ProfileInput struct {
	BodyPartName string `json:"bodyPartName"`
	Side         Side   `json:"side"`
}

// ExerciseSet is one logged set. Fields holds exactly the set type's
// configured field names; a nil value means "not entered yet".
type ExerciseSet struct {
	ID                string              `json:"id"`
	ExerciseCode      string              `json:"exerciseCode"`
	Fields            map[string]*float64 `json:"fields"`
	RPE               *float64            `json:"rpe,omitempty"`
	Completed         bool                `json:"completed"`
	BodyPartProfileID *int                `json:"bodyPartProfileId,omitempty"`
}

// Field returns the value of a field, or 0 when it is absent.
func (s ExerciseSet) Field(name string) float64 {
	if v := s.Fields[name]; v != nil {
		return *v
	}
	return 0
}

// Clone returns a deep copy of the set.
func (s ExerciseSet) Clone() ExerciseSet {
	out := s
	out.Fields = make(map[string]*float64, len(s.Fields))
	for k, v := range s.Fields {
		out.Fields[k] = cloneFloat(v)
	}
	out.RPE = cloneFloat(s.RPE)
	if s.BodyPartProfileID != nil {
		id := *s.BodyPartProfileID
		out.BodyPartProfileID = &id
	}
	return out
}

// Session is a server-confirmed workout, read-only to the analytics code.
type Session struct {
	ID   string        `json:"id"`
	Date time.Time     `json:"date"`
	Sets []ExerciseSet `json:"sets"`
}

// SessionFilter narrows ListSessions.
type SessionFilter struct {
	BodyPartProfileID *int
}

// SessionState is the client-side draft of an in-progress session.
type SessionState struct {
	Date           string                   `json:"date"`
	SetsByExercise map[string][]ExerciseSet `json:"setsByExercise"`
}

// NewSessionState returns an empty draft for the given calendar date.
func NewSessionState(date string) *SessionState {
	return &SessionState{Date: date, SetsByExercise: map[string][]ExerciseSet{}}
}

// ExerciseCodes returns the draft's exercise codes in sorted order.
func (s *SessionState) ExerciseCodes() []string {
	codes := make([]string, 0, len(s.SetsByExercise))
	for code := range s.SetsByExercise {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// SetCount returns the number of sets across all exercises.
func (s *SessionState) SetCount() int {
	n := 0
	for _, sets := range s.SetsByExercise {
		n += len(sets)
	}
	return n
}

// Clone returns a deep copy of the draft.
func (s *SessionState) Clone() *SessionState {
	out := &SessionState{Date: s.Date, SetsByExercise: make(map[string][]ExerciseSet, len(s.SetsByExercise))}
	for code, sets := range s.SetsByExercise {
		cp := make([]ExerciseSet, len(sets))
		for i, set := range sets {
			cp[i] = set.Clone()
		}
		out.SetsByExercise[code] = cp
	}
	return out
}

// WellnessLog is an immutable pain/fatigue report against a profile.
type WellnessLog struct {
	ID              int             `json:"id"`
	LoggedAt        time.Time       `json:"loggedAt"`
	PainScore       float64         `json:"painScore"`
	FatigueScore    float64         `json:"fatigueScore"`
	BodyPartProfile BodyPartProfile `json:"bodyPartProfile"`
}

// WellnessInput is the payload for creating a wellness log.
type WellnessInput struct {
	BodyPartProfileID int        `json:"bodyPartProfileId"`
	PainScore         float64    `json:"painScore"`
	FatigueScore      float64    `json:"fatigueScore"`
	LoggedAt          *time.Time `json:"loggedAt,omitempty"`
}

// Validate checks the 0-10 score range.
func (in WellnessInput) Validate() error {
	if in.BodyPartProfileID <= 0 {
		return fmt.Errorf("bodyPartProfileId is required")
	}
	if in.PainScore < 0 || in.PainScore > 10 {
		return fmt.Errorf("painScore %v out of range 0-10", in.PainScore)
	}
	if in.FatigueScore < 0 || in.FatigueScore > 10 {
		return fmt.Errorf("fatigueScore %v out of range 0-10", in.FatigueScore)
	}
	return nil
}

// WellnessFilter narrows ListWellnessLogs. Zero values mean "no constraint".
type WellnessFilter struct {
	BodyPartProfileID *int
	From              *time.Time
	To                *time.Time
	Limit             int
}

// VolumeIntensityPoint is one bucket of a volume/intensity series.
// Intensity is nil when no set in the bucket carried an RPE.
type VolumeIntensityPoint struct {
	Date      string   `json:"date"`
	Volume    float64  `json:"volume"`
	Intensity *float64 `json:"intensity"`
}

// ChartPoint is one bucket of a simple averaged series.
type ChartPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
