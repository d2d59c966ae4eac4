package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/meltforce/trainload/internal/draft"
	"github.com/meltforce/trainload/internal/models"
	"github.com/meltforce/trainload/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const export = `
"Lower · Day 2 · Week 1";"2025-01-08 6:15 h";"0:58 hr"
"1. Back Squat · Barbell · 5 reps";"WU1 · 60 kg · 8 reps"
#;KG;REPS;RIR
1;120;5;2
2;120;5;1
"2. Nordic Curl · Bodyweight · 5 reps"
#;KG;REPS;RIR
1;+0;5;2

"Upper · Day 1 · Week 1";"2025-01-06 17:30 h";"1:05 hr"
"1. Bench Press · Barbell · 8 reps"
#;KG;REPS;RIR
1;82,5;8;2
`

type fakeCreator struct {
	payloads []models.SessionPayload
	err      error
}

func (f *fakeCreator) CreateSession(_ context.Context, p models.SessionPayload) (models.Session, error) {
	if f.err != nil {
		return models.Session{}, f.err
	}
	f.payloads = append(f.payloads, p)
	return models.Session{ID: strconv.Itoa(len(f.payloads)), Date: p.Date}, nil
}

func setup(t *testing.T) (dir string, ledger *draft.Store) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte(export), 0644))
	ledger, err := draft.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })
	return dir, ledger
}

func newImporter(creator *fakeCreator, ledger Ledger, opts Options) *Importer {
	return New(testutil.Catalog(), creator, ledger, slog.New(slog.NewTextHandler(io.Discard, nil)), opts)
}

// TestImportCreatesSessions verifies one session per exported workout, with
// warm-ups dropped and unknown exercises reported.
func TestImportCreatesSessions(t *testing.T) {
	dir, ledger := setup(t)
	creator := &fakeCreator{}
	profile := 2

	stats, err := newImporter(creator, ledger, Options{ProfileID: &profile}).Import(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesProcessed)
	assert.Equal(t, 2, stats.SessionsCreated)
	assert.Equal(t, 3, stats.SetsImported)
	assert.Equal(t, 1, stats.WarmupsSkipped)
	assert.Equal(t, []string{"Nordic Curl"}, stats.Unmatched)

	require.Len(t, creator.payloads, 2)
	squat := creator.payloads[0].Sets[0]
	assert.Equal(t, "STR_SQUAT", squat.ExerciseCode)
	require.NotNil(t, squat.BodyPartProfileID)
	assert.Equal(t, 2, *squat.BodyPartProfileID)
}

// TestImportSkipsKnownFiles verifies a second run over unchanged files creates
// nothing unless forced.
func TestImportSkipsKnownFiles(t *testing.T) {
	dir, ledger := setup(t)
	ctx := context.Background()

	_, err := newImporter(&fakeCreator{}, ledger, Options{}).Import(ctx, dir)
	require.NoError(t, err)

	again := &fakeCreator{}
	stats, err := newImporter(again, ledger, Options{}).Import(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Empty(t, again.payloads)

	forced := &fakeCreator{}
	stats, err = newImporter(forced, ledger, Options{Force: true}).Import(ctx, filepath.Join(dir, "alpha.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesSkipped)
	assert.Len(t, forced.payloads, 2)
}

// TestImportDryRun verifies a dry run counts sessions without creating or recording them.
func TestImportDryRun(t *testing.T) {
	dir, ledger := setup(t)
	ctx := context.Background()
	creator := &fakeCreator{}

	stats, err := newImporter(creator, ledger, Options{DryRun: true}).Import(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SessionsCreated)
	assert.Empty(t, creator.payloads)

	abs, _ := filepath.Abs(filepath.Join(dir, "alpha.txt"))
	hash, err := draft.HashFile(abs)
	require.NoError(t, err)
	done, err := ledger.IsImported(ctx, abs, hash)
	require.NoError(t, err)
	assert.False(t, done, "dry run must not mark the file")
}

// TestImportMalformedFile verifies a file that fails to parse is counted and skipped.
func TestImportMalformedFile(t *testing.T) {
	dir, ledger := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.csv"), []byte("1;120;5;2\n"), 0644))
	creator := &fakeCreator{}

	stats, err := newImporter(creator, ledger, Options{}).Import(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesErrored)
	assert.Equal(t, 1, stats.FilesProcessed)
	assert.Len(t, creator.payloads, 2)
}

// TestImportCreateFailure verifies a backend error stops the run and leaves the
// file unmarked so it is retried.
func TestImportCreateFailure(t *testing.T) {
	dir, ledger := setup(t)
	ctx := context.Background()
	boom := errors.New("backend down")

	_, err := newImporter(&fakeCreator{err: boom}, ledger, Options{}).Import(ctx, dir)
	require.ErrorIs(t, err, boom)

	retry := &fakeCreator{}
	stats, err := newImporter(retry, ledger, Options{}).Import(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesSkipped)
	assert.Len(t, retry.payloads, 2)
}

// TestImportMissingPath verifies a nonexistent path is an error.
func TestImportMissingPath(t *testing.T) {
	_, ledger := setup(t)
	_, err := newImporter(&fakeCreator{}, ledger, Options{}).Import(context.Background(), "/nonexistent/alpha.txt")
	require.Error(t, err)
}
