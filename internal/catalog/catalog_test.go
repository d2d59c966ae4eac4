package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/meltforce/trainload/internal/catalog"
	"github.com/meltforce/trainload/internal/category"
	"github.com/meltforce/trainload/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogJSON = `{
  "version": "3",
  "bodyParts": {"knee": "Knee"},
  "exerciseTypes": {"strength": "Strength"},
  "setTypes": {
    "weight_reps": {
      "fields": {"weight": {"type": "number", "required": true}, "reps": {"type": "number", "required": true}},
      "completionRequires": ["weight", "reps"]
    }
  },
  "setTypeByExerciseType": {"strength": "weight_reps"},
  "exercises": {"STR_SQUAT": {"name": "Back Squat", "type": "strength", "bodyParts": ["knee"]}}
}`

const catalogYAML = `
version: "3"
bodyParts:
  knee: Knee
exerciseTypes:
  isometric: Isometric
setTypes:
  duration:
    fields:
      durationSeconds: {type: number, required: true}
    completionRequires: [durationSeconds]
setTypeByExerciseType:
  isometric: duration
exercises:
  ISO_WALL_SIT:
    name: Wall Sit
    type: isometric
    bodyParts: [knee]
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	c, err := catalog.Load(writeTemp(t, "app-config.json", catalogJSON))
	require.NoError(t, err)

	assert.Equal(t, "3", c.Version)
	ex, ok := c.Exercise("STR_SQUAT")
	require.True(t, ok)
	assert.Equal(t, "Back Squat", ex.Name)

	st, err := c.SetTypeFor("STR_SQUAT")
	require.NoError(t, err)
	assert.Equal(t, []string{"weight", "reps"}, st.CompletionRequires)
	assert.Equal(t, []string{"reps", "weight"}, st.FieldNames())
}

func TestLoadYAML(t *testing.T) {
	c, err := catalog.Load(writeTemp(t, "catalog.yaml", catalogYAML))
	require.NoError(t, err)

	cat, ok := c.CategoryOf("ISO_WALL_SIT")
	require.True(t, ok)
	assert.Equal(t, category.Isometric, cat)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `{"exercises": `},
		{"no exercises", `{"version": "1"}`},
		{"unmapped exercise type", `{
			"setTypes": {"d": {"fields": {"durationSeconds": {"type": "number"}}}},
			"setTypeByExerciseType": {},
			"exercises": {"ISO_X": {"name": "X", "type": "isometric"}}}`},
		{"mapping to missing set type", `{
			"setTypes": {},
			"setTypeByExerciseType": {"isometric": "nope"},
			"exercises": {"ISO_X": {"name": "X", "type": "isometric"}}}`},
		{"completion requires undeclared field", `{
			"setTypes": {"d": {"fields": {"durationSeconds": {"type": "number"}}, "completionRequires": ["reps"]}},
			"setTypeByExerciseType": {"isometric": "d"},
			"exercises": {"ISO_X": {"name": "X", "type": "isometric"}}}`},
		{"unknown body part", `{
			"bodyParts": {},
			"setTypes": {"d": {"fields": {"durationSeconds": {"type": "number"}}}},
			"setTypeByExerciseType": {"isometric": "d"},
			"exercises": {"ISO_X": {"name": "X", "type": "isometric", "bodyParts": ["knee"]}}}`},
		{"prefix disagrees with type", `{
			"setTypes": {"d": {"fields": {"durationSeconds": {"type": "number"}}}},
			"setTypeByExerciseType": {"cardio": "d"},
			"exercises": {"ISO_X": {"name": "X", "type": "cardio"}}}`},
		{"field without a stored column", `{
			"setTypes": {"d": {"fields": {"distance": {"type": "number"}}}},
			"setTypeByExerciseType": {"isometric": "d"},
			"exercises": {"ISO_X": {"name": "X", "type": "isometric"}}}`},
		{"non-numeric field", `{
			"setTypes": {"d": {"fields": {"note": {"type": "text"}}}},
			"setTypeByExerciseType": {"isometric": "d"},
			"exercises": {"ISO_X": {"name": "X", "type": "isometric"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Load(writeTemp(t, "c.json", tt.content))
			require.Error(t, err)
			var le *catalog.LoadError
			assert.True(t, errors.As(err, &le), "want *LoadError, got %T", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := catalog.Load(filepath.Join(t.TempDir(), "missing.json"))
	var le *catalog.LoadError
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileProvider(t *testing.T) {
	p := catalog.FileProvider{Path: writeTemp(t, "app-config.json", catalogJSON)}
	c, err := p.FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, c.Exercises, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.FetchCatalog(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetTypeForUnknownExercise(t *testing.T) {
	c := testutil.Catalog()
	_, err := c.SetTypeFor("STR_NOPE")
	assert.ErrorIs(t, err, catalog.ErrUnknownExercise)
}

func TestCategoryOf(t *testing.T) {
	c := testutil.Catalog()

	cat, ok := c.CategoryOf("PLY_BOX_JUMP")
	assert.True(t, ok)
	assert.Equal(t, category.Plyometric, cat)

	_, ok = c.CategoryOf("MOB_HIP_CARS")
	assert.False(t, ok, "mobility is not a load category")

	_, ok = c.CategoryOf("STR_NOPE")
	assert.False(t, ok)
}

func TestExercisesForBodyPart(t *testing.T) {
	c := testutil.Catalog()

	got := c.ExercisesForBodyPart("knee")
	codes := make([]string, 0, len(got))
	for _, e := range got {
		codes = append(codes, e.Code)
	}
	assert.Equal(t, []string{"CAR_CYCLE", "ISO_WALL_SIT", "PLY_BOX_JUMP", "STR_SQUAT"}, codes)
	assert.Empty(t, c.ExercisesForBodyPart("elbow"))
}

func TestRepositoryCatalogFileIsValid(t *testing.T) {
	c, err := catalog.Load(filepath.Join("..", "..", "catalog.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, c.ExercisesForBodyPart("knee"))
}
