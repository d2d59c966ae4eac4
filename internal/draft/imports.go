package draft

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// IsImported checks if a file has already been imported with the same hash.
func (s *Store) IsImported(ctx context.Context, path, hash string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imported_files WHERE path = ? AND hash = ?`,
		path, hash,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkImported records that a file was imported and how many sessions it produced.
func (s *Store) MarkImported(ctx context.Context, path, hash string, sessions int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO imported_files (path, hash, sessions) VALUES (?, ?, ?)`,
		path, hash, sessions,
	)
	return err
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
