package analytics

import (
	"testing"
	"time"

	"github.com/meltforce/trainload/internal/bucket"
	"github.com/meltforce/trainload/internal/category"
	"github.com/meltforce/trainload/internal/models"
	"github.com/meltforce/trainload/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	leftKnee  = models.BodyPartProfile{ID: 1, BodyPartName: "knee", Side: models.SideLeft}
	rightKnee = models.BodyPartProfile{ID: 2, BodyPartName: "knee", Side: models.SideRight}
	chest     = models.BodyPartProfile{ID: 3, BodyPartName: "chest", Side: models.SideLeft}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func weightSet(code string, weight, reps float64, rpe *float64) models.ExerciseSet {
	return models.ExerciseSet{
		ExerciseCode: code,
		Fields:       map[string]*float64{"weight": testutil.Float(weight), "reps": testutil.Float(reps)},
		RPE:          rpe,
		Completed:    true,
	}
}

func durationSet(code string, seconds float64, rpe *float64) models.ExerciseSet {
	return models.ExerciseSet{
		ExerciseCode: code,
		Fields:       map[string]*float64{"durationSeconds": testutil.Float(seconds)},
		RPE:          rpe,
		Completed:    true,
	}
}

func benchSessions() []models.Session {
	return []models.Session{
		{ID: "1", Date: day(2025, 1, 6), Sets: []models.ExerciseSet{weightSet("STR_BENCH", 100, 10, testutil.Float(8))}},
		{ID: "2", Date: day(2025, 1, 8), Sets: []models.ExerciseSet{weightSet("STR_BENCH", 80, 10, testutil.Float(6))}},
	}
}

func TestBenchScenarioDaily(t *testing.T) {
	got := AggregateStrength(testutil.Catalog(), benchSessions(), chest, bucket.Daily)

	require.Len(t, got, 2)
	assert.Equal(t, "2025-01-06", got[0].Date)
	assert.Equal(t, 1000.0, got[0].Volume)
	require.NotNil(t, got[0].Intensity)
	assert.InDelta(t, 8.0, *got[0].Intensity, 1e-9)

	assert.Equal(t, "2025-01-08", got[1].Date)
	assert.Equal(t, 800.0, got[1].Volume)
	require.NotNil(t, got[1].Intensity)
	assert.InDelta(t, 6.0, *got[1].Intensity, 1e-9)
}

func TestBenchScenarioWeekly(t *testing.T) {
	got := AggregateStrength(testutil.Catalog(), benchSessions(), chest, bucket.Weekly)

	require.Len(t, got, 1)
	assert.Equal(t, "2025-01-06", got[0].Date)
	assert.Equal(t, 1800.0, got[0].Volume)
	require.NotNil(t, got[0].Intensity)
	assert.InDelta(t, (1000*8+800*6)/1800.0, *got[0].Intensity, 1e-9)
	assert.InDelta(t, 7.11, *got[0].Intensity, 0.005)
}

func TestBenchScenarioMonthly(t *testing.T) {
	got := AggregateStrength(testutil.Catalog(), benchSessions(), chest, bucket.Monthly)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-01", got[0].Date)
}

func TestZeroVolumeSetsExcluded(t *testing.T) {
	sessions := []models.Session{
		{Date: day(2025, 1, 6), Sets: []models.ExerciseSet{
			weightSet("STR_SQUAT", 0, 10, testutil.Float(9)),
			{ExerciseCode: "STR_SQUAT", Fields: map[string]*float64{"weight": testutil.Float(100), "reps": nil}},
		}},
		{Date: day(2025, 1, 8), Sets: []models.ExerciseSet{
			weightSet("STR_SQUAT", 100, 5, testutil.Float(7)),
			weightSet("STR_SQUAT", 0, 5, testutil.Float(10)),
		}},
	}
	got := AggregateStrength(testutil.Catalog(), sessions, leftKnee, bucket.Daily)

	require.Len(t, got, 1, "the bucket with only zero-volume sets must be absent")
	assert.Equal(t, "2025-01-08", got[0].Date)
	assert.Equal(t, 500.0, got[0].Volume)
	assert.InDelta(t, 7.0, *got[0].Intensity, 1e-9, "zero-volume set must not shift intensity")
}

func TestIntensityNilWithoutRPE(t *testing.T) {
	sessions := []models.Session{
		{Date: day(2025, 1, 6), Sets: []models.ExerciseSet{durationSet("ISO_WALL_SIT", 45, nil)}},
		{Date: day(2025, 1, 7), Sets: []models.ExerciseSet{
			durationSet("ISO_WALL_SIT", 30, nil),
			durationSet("ISO_WALL_SIT", 30, testutil.Float(5)),
		}},
	}
	got := AggregateIsometric(testutil.Catalog(), sessions, leftKnee, bucket.Daily)

	require.Len(t, got, 2)
	assert.Nil(t, got[0].Intensity)
	assert.Equal(t, 45.0, got[0].Volume)

	// Unrated volume still dilutes the weighted average.
	require.NotNil(t, got[1].Intensity)
	assert.InDelta(t, 2.5, *got[1].Intensity, 1e-9)
}

func TestCategoryAndBodyPartFiltering(t *testing.T) {
	sessions := []models.Session{{Date: day(2025, 1, 6), Sets: []models.ExerciseSet{
		weightSet("STR_BENCH", 50, 10, nil),    // chest, not knee
		weightSet("STR_SQUAT", 100, 5, nil),    // knee
		durationSet("CAR_CYCLE", 600, nil),     // knee, but cardio
		durationSet("MOB_HIP_CARS", 60, nil),   // not a load category
		weightSet("STR_REMOVED", 100, 10, nil), // no longer in catalog
		{ExerciseCode: "PLY_BOX_JUMP", Fields: map[string]*float64{"reps": testutil.Float(12)}},
	}}}
	cat := testutil.Catalog()

	strength := AggregateStrength(cat, sessions, leftKnee, bucket.Daily)
	require.Len(t, strength, 1)
	assert.Equal(t, 500.0, strength[0].Volume)

	ply := AggregatePlyometric(cat, sessions, leftKnee, bucket.Daily)
	require.Len(t, ply, 1)
	assert.Equal(t, 12.0, ply[0].Volume)

	cardio := AggregateCardio(cat, sessions, leftKnee, bucket.Daily)
	require.Len(t, cardio, 1)
	assert.Equal(t, 600.0, cardio[0].Volume)

	assert.Empty(t, AggregateIsometric(cat, sessions, leftKnee, bucket.Daily))
}

func TestProfileMatchesByBodyPartName(t *testing.T) {
	left := leftKnee.ID
	set := weightSet("STR_SQUAT", 100, 5, nil)
	set.BodyPartProfileID = &left
	sessions := []models.Session{{Date: day(2025, 1, 6), Sets: []models.ExerciseSet{set}}}

	// The set is tagged to the left knee, but both knee profiles see it.
	cat := testutil.Catalog()
	assert.Equal(t,
		AggregateStrength(cat, sessions, leftKnee, bucket.Daily),
		AggregateStrength(cat, sessions, rightKnee, bucket.Daily))
}

func TestAggregateAll(t *testing.T) {
	sessions := []models.Session{{Date: day(2025, 1, 6), Sets: []models.ExerciseSet{
		weightSet("STR_SQUAT", 100, 5, testutil.Float(8)),
		durationSet("ISO_WALL_SIT", 60, testutil.Float(6)),
	}}}
	got := AggregateAll(testutil.Catalog(), sessions, leftKnee, bucket.Weekly)

	require.Len(t, got, 4)
	assert.Len(t, got[category.Strength], 1)
	assert.Len(t, got[category.Isometric], 1)
	assert.Empty(t, got[category.Plyometric])
	assert.Empty(t, got[category.Cardio])
}

func TestAggregateVolumeEmpty(t *testing.T) {
	got := AggregateVolume(testutil.Catalog(), nil, leftKnee, category.Strength, bucket.Daily)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestVolumeFor(t *testing.T) {
	w := weightSet("STR_SQUAT", 60, 8, nil)
	assert.Equal(t, 480.0, VolumeFor(category.Strength)(w))
	assert.Equal(t, 8.0, VolumeFor(category.Plyometric)(w))
	assert.Equal(t, 0.0, VolumeFor(category.Isometric)(w))

	d := durationSet("CAR_CYCLE", 900, nil)
	assert.Equal(t, 900.0, VolumeFor(category.Cardio)(d))
	assert.Equal(t, 0.0, VolumeFor(category.Category("mobility"))(d))
}
