package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/trainload/internal/models"
)

const profileColumns = `id, body_part_name, side, archived`

func scanProfile(row pgx.Row) (models.BodyPartProfile, error) {
	var p models.BodyPartProfile
	var side string
	if err := row.Scan(&p.ID, &p.BodyPartName, &side, &p.Archived); err != nil {
		return p, err
	}
	p.Side = models.Side(side)
	return p, nil
}

// ListBodyPartProfiles returns profiles ordered by body part and side. A nil
// archived flag returns both active and archived profiles.
func (db *DB) ListBodyPartProfiles(ctx context.Context, archived *bool) ([]models.BodyPartProfile, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+profileColumns+` FROM body_part_profiles
		 WHERE $1::boolean IS NULL OR archived = $1
		 ORDER BY body_part_name, side, id`, archived)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	result := []models.BodyPartProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetProfile returns one profile or ErrNotFound.
func (db *DB) GetProfile(ctx context.Context, id int) (models.BodyPartProfile, error) {
	p, err := scanProfile(db.Pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM body_part_profiles WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return p, fmt.Errorf("profile %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("querying profile %d: %w", id, err)
	}
	return p, nil
}

// CreateProfile inserts a new active profile.
func (db *DB) CreateProfile(ctx context.Context, in models.ProfileInput) (models.BodyPartProfile, error) {
	if err := ValidateProfile(in); err != nil {
		return models.BodyPartProfile{}, err
	}
	p, err := scanProfile(db.Pool.QueryRow(ctx,
		`INSERT INTO body_part_profiles (body_part_name, side) VALUES ($1, $2)
		 RETURNING `+profileColumns, in.BodyPartName, string(in.Side)))
	if err != nil {
		return p, classify(err, "inserting profile")
	}
	return p, nil
}

// ArchiveProfile hides a profile from the active list.
func (db *DB) ArchiveProfile(ctx context.Context, id int) (models.BodyPartProfile, error) {
	return db.setArchived(ctx, id, true)
}

// UnarchiveProfile restores an archived profile.
func (db *DB) UnarchiveProfile(ctx context.Context, id int) (models.BodyPartProfile, error) {
	return db.setArchived(ctx, id, false)
}

func (db *DB) setArchived(ctx context.Context, id int, archived bool) (models.BodyPartProfile, error) {
	p, err := scanProfile(db.Pool.QueryRow(ctx,
		`UPDATE body_part_profiles SET archived = $2 WHERE id = $1
		 RETURNING `+profileColumns, id, archived))
	if errors.Is(err, pgx.ErrNoRows) {
		return p, fmt.Errorf("profile %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("updating profile %d: %w", id, err)
	}
	return p, nil
}
