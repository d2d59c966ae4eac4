package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meltforce/trainload/internal/models"
)

// CreateWellnessLog stores a pain/fatigue report. LoggedAt defaults to now.
func (db *DB) CreateWellnessLog(ctx context.Context, in models.WellnessInput) (models.APIWellnessLog, error) {
	if err := ValidateWellness(in); err != nil {
		return models.APIWellnessLog{}, err
	}
	loggedAt := time.Now().UTC()
	if in.LoggedAt != nil {
		loggedAt = in.LoggedAt.UTC()
	}

	var out models.APIWellnessLog
	var side string
	err := db.Pool.QueryRow(ctx,
		`WITH ins AS (
			INSERT INTO wellness_logs (body_part_profile_id, logged_at, pain_score, fatigue_score)
			VALUES ($1, $2, $3, $4)
			RETURNING id, body_part_profile_id, logged_at, pain_score, fatigue_score
		 )
		 SELECT ins.id, ins.logged_at, ins.pain_score, ins.fatigue_score,
		        p.id, p.body_part_name, p.side, p.archived
		 FROM ins JOIN body_part_profiles p ON p.id = ins.body_part_profile_id`,
		in.BodyPartProfileID, loggedAt, in.PainScore, in.FatigueScore,
	).Scan(&out.ID, &out.LoggedAt, &out.PainScore, &out.FatigueScore,
		&out.BodyPartProfile.ID, &out.BodyPartProfile.BodyPartName, &side, &out.BodyPartProfile.Archived)
	if err != nil {
		return models.APIWellnessLog{}, classify(err, "inserting wellness log")
	}
	out.BodyPartProfile.Side = models.Side(side)
	out.LoggedAt = out.LoggedAt.UTC()
	return out, nil
}

// ListWellnessLogs returns logs ordered by logged_at ascending. From is
// inclusive, To exclusive. A positive Limit keeps the most recent logs.
func (db *DB) ListWellnessLogs(ctx context.Context, f models.WellnessFilter) ([]models.APIWellnessLog, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.BodyPartProfileID != nil {
		add("w.body_part_profile_id = $%d", *f.BodyPartProfileID)
	}
	if f.From != nil {
		add("w.logged_at >= $%d", f.From.UTC())
	}
	if f.To != nil {
		add("w.logged_at < $%d", f.To.UTC())
	}

	query := `SELECT w.id, w.logged_at, w.pain_score, w.fatigue_score,
		p.id, p.body_part_name, p.side, p.archived
		FROM wellness_logs w
		JOIN body_part_profiles p ON p.id = w.body_part_profile_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY w.logged_at DESC, w.id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying wellness logs: %w", err)
	}
	defer rows.Close()

	var desc []models.APIWellnessLog
	for rows.Next() {
		var l models.APIWellnessLog
		var side string
		if err := rows.Scan(&l.ID, &l.LoggedAt, &l.PainScore, &l.FatigueScore,
			&l.BodyPartProfile.ID, &l.BodyPartProfile.BodyPartName, &side, &l.BodyPartProfile.Archived); err != nil {
			return nil, fmt.Errorf("scanning wellness log: %w", err)
		}
		l.BodyPartProfile.Side = models.Side(side)
		l.LoggedAt = l.LoggedAt.UTC()
		desc = append(desc, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]models.APIWellnessLog, len(desc))
	for i, l := range desc {
		result[len(desc)-1-i] = l
	}
	return result, nil
}
