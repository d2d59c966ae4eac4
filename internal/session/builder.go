// Package session builds a draft workout session against the exercise catalog,
// persists it after every change and submits it once every set is complete.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/trainload/internal/catalog"
	"github.com/meltforce/trainload/internal/models"
)

// DraftStore keeps the single in-progress draft. Load returns nil when no
// draft has been saved.
type DraftStore interface {
	Load(ctx context.Context) (*models.SessionState, error)
	Save(ctx context.Context, state *models.SessionState) error
	Clear(ctx context.Context) error
}

// Creator submits a finished session to the backend.
type Creator interface {
	CreateSession(ctx context.Context, payload models.SessionPayload) (models.Session, error)
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock overrides the clock used to date a fresh draft.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithIDGenerator overrides how new set ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(b *Builder) { b.newID = newID }
}

// Builder owns one draft session. It is not safe for concurrent use.
//
// Every mutation is applied to a copy that is saved to the DraftStore before
// it replaces the current state, so a failed save leaves the draft as it was.
type Builder struct {
	cat     *catalog.Catalog
	store   DraftStore
	creator Creator
	log     *slog.Logger
	now     func() time.Time
	newID   func() string
	state   *models.SessionState
}

// NewBuilder returns a builder holding an empty draft dated today (UTC).
// Call Restore to pick up a previously saved draft.
func NewBuilder(cat *catalog.Catalog, store DraftStore, creator Creator, log *slog.Logger, opts ...Option) *Builder {
	b := &Builder{
		cat:     cat,
		store:   store,
		creator: creator,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.state = models.NewSessionState(b.today())
	return b
}

func (b *Builder) today() string {
	return b.now().UTC().Format(models.DateLayout)
}

// State returns a copy of the current draft.
func (b *Builder) State() *models.SessionState {
	return b.state.Clone()
}

// Restore replaces the in-memory draft with the persisted one, if any.
// It reports whether a draft was found.
func (b *Builder) Restore(ctx context.Context) (bool, error) {
	saved, err := b.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("restoring draft: %w", err)
	}
	if saved == nil {
		return false, nil
	}
	if saved.SetsByExercise == nil {
		saved.SetsByExercise = map[string][]models.ExerciseSet{}
	}
	if saved.Date == "" {
		saved.Date = b.today()
	}
	b.state = saved
	return true, nil
}

// mutate applies fn to a copy of the draft. When fn reports a change the copy
// is persisted and becomes the current state.
func (b *Builder) mutate(ctx context.Context, fn func(s *models.SessionState) bool) error {
	next := b.state.Clone()
	if !fn(next) {
		return nil
	}
	if err := b.store.Save(ctx, next); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	b.state = next
	return nil
}

func findSet(sets []models.ExerciseSet, setID string) int {
	for i := range sets {
		if sets[i].ID == setID {
			return i
		}
	}
	return -1
}

// updateSet applies fn to one set. Unknown exercise codes and set ids are a no-op.
func (b *Builder) updateSet(ctx context.Context, code, setID string, fn func(set *models.ExerciseSet) bool) error {
	return b.mutate(ctx, func(s *models.SessionState) bool {
		sets := s.SetsByExercise[code]
		i := findSet(sets, setID)
		if i < 0 {
			return false
		}
		return fn(&sets[i])
	})
}

// SetDate changes the calendar date ("YYYY-MM-DD") of the draft.
func (b *Builder) SetDate(ctx context.Context, date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return fmt.Errorf("invalid session date %q: %w", date, err)
	}
	return b.mutate(ctx, func(s *models.SessionState) bool {
		if s.Date == date {
			return false
		}
		s.Date = date
		return true
	})
}

// AddExercise adds code with no sets. Adding an exercise twice is a no-op.
func (b *Builder) AddExercise(ctx context.Context, code string) error {
	return b.mutate(ctx, func(s *models.SessionState) bool {
		if _, ok := s.SetsByExercise[code]; ok {
			return false
		}
		s.SetsByExercise[code] = []models.ExerciseSet{}
		return true
	})
}

// RemoveExercise drops code and all its sets.
func (b *Builder) RemoveExercise(ctx context.Context, code string) error {
	return b.mutate(ctx, func(s *models.SessionState) bool {
		if _, ok := s.SetsByExercise[code]; !ok {
			return false
		}
		delete(s.SetsByExercise, code)
		return true
	})
}

// AddSet appends an empty set to code and returns it. The set carries
// exactly the fields of the exercise's set type, all unset.
func (b *Builder) AddSet(ctx context.Context, code string) (models.ExerciseSet, error) {
	st, err := b.cat.SetTypeFor(code)
	if err != nil {
		return models.ExerciseSet{}, fmt.Errorf("adding set: %w", err)
	}

	set := models.ExerciseSet{
		ID:           b.newID(),
		ExerciseCode: code,
		Fields:       make(map[string]*float64, len(st.Fields)),
	}
	for _, name := range st.FieldNames() {
		set.Fields[name] = nil
	}

	err = b.mutate(ctx, func(s *models.SessionState) bool {
		s.SetsByExercise[code] = append(s.SetsByExercise[code], set.Clone())
		return true
	})
	if err != nil {
		return models.ExerciseSet{}, err
	}
	return set, nil
}

// UpdateField sets one field of a set, clamped to zero or above. Fields
// outside the set type are ignored.
func (b *Builder) UpdateField(ctx context.Context, code, setID, field string, value *float64) error {
	return b.updateSet(ctx, code, setID, func(set *models.ExerciseSet) bool {
		if _, ok := set.Fields[field]; !ok {
			return false
		}
		set.Fields[field] = SanitizeNumber(value, FieldBounds)
		return true
	})
}

// UpdateRPE sets the RPE of a set, clamped to 1..10.
func (b *Builder) UpdateRPE(ctx context.Context, code, setID string, value *float64) error {
	return b.updateSet(ctx, code, setID, func(set *models.ExerciseSet) bool {
		set.RPE = SanitizeNumber(value, RPEBounds)
		return true
	})
}

// AssignProfile tags a set with a body-part profile, or clears the tag when
// profileID is nil.
func (b *Builder) AssignProfile(ctx context.Context, code, setID string, profileID *int) error {
	return b.updateSet(ctx, code, setID, func(set *models.ExerciseSet) bool {
		if profileID == nil {
			set.BodyPartProfileID = nil
			return true
		}
		id := *profileID
		set.BodyPartProfileID = &id
		return true
	})
}

// ToggleSetComplete sets the completed flag directly. It does not check
// IsSetComplete; only CompleteSession enforces the completion rules.
func (b *Builder) ToggleSetComplete(ctx context.Context, code, setID string, completed bool) error {
	return b.updateSet(ctx, code, setID, func(set *models.ExerciseSet) bool {
		set.Completed = completed
		return true
	})
}

// RemoveSet deletes a set. The exercise stays in the draft even when it has
// no sets left.
func (b *Builder) RemoveSet(ctx context.Context, code, setID string) error {
	return b.mutate(ctx, func(s *models.SessionState) bool {
		sets := s.SetsByExercise[code]
		i := findSet(sets, setID)
		if i < 0 {
			return false
		}
		s.SetsByExercise[code] = append(sets[:i], sets[i+1:]...)
		return true
	})
}

// IsSetComplete reports whether the set has every value its set type
// requires, an RPE, and is marked completed. Unknown exercises are never complete.
func (b *Builder) IsSetComplete(code string, set models.ExerciseSet) bool {
	st, err := b.cat.SetTypeFor(code)
	if err != nil {
		return false
	}
	return IsSetFieldsComplete(set, st.CompletionRequires) && set.RPE != nil && set.Completed
}

// CanCompleteSession reports whether the draft has at least one set and all
// sets are complete.
func (b *Builder) CanCompleteSession() bool {
	if b.state.SetCount() == 0 {
		return false
	}
	for code, sets := range b.state.SetsByExercise {
		for _, set := range sets {
			if !b.IsSetComplete(code, set) {
				return false
			}
		}
	}
	return true
}

// Payload builds the create-session request for the current draft. The date
// is midday UTC of the draft's calendar date so no timezone moves it to
// another day.
func (b *Builder) Payload() (models.SessionPayload, error) {
	day, err := time.Parse(models.DateLayout, b.state.Date)
	if err != nil {
		return models.SessionPayload{}, fmt.Errorf("invalid session date %q: %w", b.state.Date, err)
	}

	p := models.SessionPayload{
		Date: time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC),
		Sets: make([]models.SetPayload, 0, b.state.SetCount()),
	}
	for _, code := range b.state.ExerciseCodes() {
		for _, set := range b.state.SetsByExercise[code] {
			sp := models.SetPayload{ExerciseCode: code, Fields: map[string]float64{}}
			for name, v := range set.Fields {
				if v != nil {
					sp.Fields[name] = *v
				}
			}
			if set.RPE != nil {
				rpe := *set.RPE
				sp.RPE = &rpe
			}
			if set.BodyPartProfileID != nil {
				id := *set.BodyPartProfileID
				sp.BodyPartProfileID = &id
			}
			p.Sets = append(p.Sets, sp)
		}
	}
	return p, nil
}

// CompleteSession submits the draft. It returns ErrSessionIncomplete without
// side effects unless CanCompleteSession holds. On success the draft is reset
// to an empty session dated today and the saved copy is removed; on failure
// a *SubmissionError is returned and the draft is untouched.
func (b *Builder) CompleteSession(ctx context.Context) (models.Session, error) {
	if !b.CanCompleteSession() {
		return models.Session{}, ErrSessionIncomplete
	}
	payload, err := b.Payload()
	if err != nil {
		return models.Session{}, err
	}

	created, err := b.creator.CreateSession(ctx, payload)
	if err != nil {
		return models.Session{}, &SubmissionError{Err: err}
	}

	b.state = models.NewSessionState(b.today())
	if err := b.store.Clear(ctx); err != nil {
		// Already stored server-side, so this is not a submission failure.
		b.log.Warn("clearing submitted draft", "error", err)
	}
	b.log.Info("session submitted", "session_id", created.ID, "sets", len(payload.Sets))
	return created, nil
}

// Discard drops the draft without submitting it.
func (b *Builder) Discard(ctx context.Context) error {
	if err := b.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing draft: %w", err)
	}
	b.state = models.NewSessionState(b.today())
	return nil
}
