// Package analytics turns fetched session and wellness history into ordered
// chart series. Everything here is pure: callers fetch a consistent snapshot
// and the series are recomputed from scratch on each call.
package analytics

import (
	"sort"

	"github.com/meltforce/trainload/internal/bucket"
	"github.com/meltforce/trainload/internal/catalog"
	"github.com/meltforce/trainload/internal/category"
	"github.com/meltforce/trainload/internal/models"
)

// VolumeFunc computes the training quantity of a single set.
type VolumeFunc func(set models.ExerciseSet) float64

// VolumeFor returns the volume formula of a load category.
func VolumeFor(c category.Category) VolumeFunc {
	switch c {
	case category.Strength:
		return func(s models.ExerciseSet) float64 {
			return s.Field(models.FieldWeight) * s.Field(models.FieldReps)
		}
	case category.Plyometric:
		return func(s models.ExerciseSet) float64 { return s.Field(models.FieldReps) }
	case category.Isometric, category.Cardio:
		return func(s models.ExerciseSet) float64 { return s.Field(models.FieldDurationSeconds) }
	}
	return func(models.ExerciseSet) float64 { return 0 }
}

type volumeAcc struct {
	volume      float64
	weightedRPE float64
	rated       bool
}

// AggregateVolume buckets the sets of one load category that target the
// profile's body part and returns volume with RPE-weighted intensity per
// bucket, ascending by key.
//
// Sets match the profile by body part name, so a left-knee profile also
// picks up right-knee sets. Sets whose exercise is missing from the catalog
// and sets with volume <= 0 are skipped.
func AggregateVolume(cat *catalog.Catalog, sessions []models.Session, profile models.BodyPartProfile, c category.Category, g bucket.Granularity) []models.VolumeIntensityPoint {
	volume := VolumeFor(c)
	acc := map[string]*volumeAcc{}

	for _, sess := range sessions {
		key := bucket.Key(sess.Date, g)
		for _, set := range sess.Sets {
			ex, ok := cat.Exercise(set.ExerciseCode)
			if !ok {
				continue
			}
			if setCat, ok := cat.CategoryOf(set.ExerciseCode); !ok || setCat != c {
				continue
			}
			if !ex.TargetsBodyPart(profile.BodyPartName) {
				continue
			}
			v := volume(set)
			if v <= 0 {
				continue
			}

			a := acc[key]
			if a == nil {
				a = &volumeAcc{}
				acc[key] = a
			}
			a.volume += v
			if set.RPE != nil {
				a.weightedRPE += v * *set.RPE
				a.rated = true
			}
		}
	}

	points := make([]models.VolumeIntensityPoint, 0, len(acc))
	for key, a := range acc {
		if a.volume <= 0 {
			continue
		}
		p := models.VolumeIntensityPoint{Date: key, Volume: a.volume}
		if a.rated {
			intensity := a.weightedRPE / a.volume
			p.Intensity = &intensity
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// AggregateStrength is AggregateVolume for strength sets (weight × reps).
func AggregateStrength(cat *catalog.Catalog, sessions []models.Session, profile models.BodyPartProfile, g bucket.Granularity) []models.VolumeIntensityPoint {
	return AggregateVolume(cat, sessions, profile, category.Strength, g)
}

// AggregatePlyometric is AggregateVolume for plyometric sets (reps).
func AggregatePlyometric(cat *catalog.Catalog, sessions []models.Session, profile models.BodyPartProfile, g bucket.Granularity) []models.VolumeIntensityPoint {
	return AggregateVolume(cat, sessions, profile, category.Plyometric, g)
}

// AggregateIsometric is AggregateVolume for isometric sets (seconds held).
func AggregateIsometric(cat *catalog.Catalog, sessions []models.Session, profile models.BodyPartProfile, g bucket.Granularity) []models.VolumeIntensityPoint {
	return AggregateVolume(cat, sessions, profile, category.Isometric, g)
}

// AggregateCardio is AggregateVolume for cardio sets (seconds).
func AggregateCardio(cat *catalog.Catalog, sessions []models.Session, profile models.BodyPartProfile, g bucket.Granularity) []models.VolumeIntensityPoint {
	return AggregateVolume(cat, sessions, profile, category.Cardio, g)
}

// AggregateAll computes the series of every load category, as shown on the
// profile dashboard.
func AggregateAll(cat *catalog.Catalog, sessions []models.Session, profile models.BodyPartProfile, g bucket.Granularity) map[category.Category][]models.VolumeIntensityPoint {
	out := make(map[category.Category][]models.VolumeIntensityPoint, len(category.All()))
	for _, c := range category.All() {
		out[c] = AggregateVolume(cat, sessions, profile, c, g)
	}
	return out
}
