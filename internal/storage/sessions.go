package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/trainload/internal/models"
)

// CreateSession stores a session and its sets in one transaction and
// returns it in the list shape.
func (db *DB) CreateSession(ctx context.Context, p models.SessionPayload) (models.APISession, error) {
	if err := ValidatePayload(p); err != nil {
		return models.APISession{}, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return models.APISession{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	out := models.APISession{Date: p.Date.UTC(), Sets: make([]models.APIExerciseSet, 0, len(p.Sets))}
	if err := tx.QueryRow(ctx,
		`INSERT INTO sessions (date) VALUES ($1) RETURNING id`, p.Date.UTC()).Scan(&out.ID); err != nil {
		return models.APISession{}, fmt.Errorf("inserting session: %w", err)
	}

	batch := &pgx.Batch{}
	for i, s := range p.Sets {
		weight, reps, duration := setValues(s)
		out.Sets = append(out.Sets, models.APIExerciseSet{
			ExerciseCode:      s.ExerciseCode,
			Weight:            weight,
			Reps:              reps,
			Duration:          duration,
			RPE:               s.RPE,
			BodyPartProfileID: s.BodyPartProfileID,
		})
		batch.Queue(
			`INSERT INTO session_sets (session_id, position, exercise_code, weight, reps,
			 duration_seconds, rpe, body_part_profile_id)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
			out.ID, i, s.ExerciseCode, weight, reps, duration, s.RPE, s.BodyPartProfileID)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range out.Sets {
		if err := br.QueryRow().Scan(&out.Sets[i].ID); err != nil {
			br.Close()
			return models.APISession{}, classify(err, fmt.Sprintf("inserting set %d", i))
		}
	}
	if err := br.Close(); err != nil {
		return models.APISession{}, fmt.Errorf("closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.APISession{}, fmt.Errorf("committing session: %w", err)
	}
	return out, nil
}

// ListSessions returns sessions ordered by date. With a profile filter only
// sets tagged to that profile are returned, and sessions without such sets
// are left out.
func (db *DB) ListSessions(ctx context.Context, f models.SessionFilter) ([]models.APISession, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT s.id, s.date, ss.id, ss.exercise_code, ss.reps, ss.weight,
		 ss.duration_seconds, ss.rpe, ss.body_part_profile_id
		 FROM sessions s
		 JOIN session_sets ss ON ss.session_id = s.id
		 WHERE $1::integer IS NULL OR ss.body_part_profile_id = $1
		 ORDER BY s.date ASC, s.id ASC, ss.position ASC`, f.BodyPartProfileID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	result := []models.APISession{}
	for rows.Next() {
		var (
			sessionID int
			date      time.Time
			set       models.APIExerciseSet
		)
		if err := rows.Scan(&sessionID, &date, &set.ID, &set.ExerciseCode, &set.Reps, &set.Weight,
			&set.Duration, &set.RPE, &set.BodyPartProfileID); err != nil {
			return nil, fmt.Errorf("scanning session set: %w", err)
		}
		if n := len(result); n == 0 || result[n-1].ID != sessionID {
			result = append(result, models.APISession{ID: sessionID, Date: date.UTC()})
		}
		last := &result[len(result)-1]
		last.Sets = append(last.Sets, set)
	}
	return result, rows.Err()
}
