package analytics

import (
	"fmt"
	"sort"

	"github.com/meltforce/trainload/internal/bucket"
	"github.com/meltforce/trainload/internal/models"
)

// WellnessField selects the score averaged by AggregateAvg.
type WellnessField string

const (
	PainScore    WellnessField = "painScore"
	FatigueScore WellnessField = "fatigueScore"
)

// ParseWellnessField accepts the field names and the short series names
// ("pain", "fatigue") used in API paths.
func ParseWellnessField(s string) (WellnessField, error) {
	switch s {
	case string(PainScore), "pain":
		return PainScore, nil
	case string(FatigueScore), "fatigue":
		return FatigueScore, nil
	}
	return "", fmt.Errorf("invalid wellness field %q (want pain or fatigue)", s)
}

func (f WellnessField) value(l models.WellnessLog) float64 {
	if f == FatigueScore {
		return l.FatigueScore
	}
	return l.PainScore
}

// AggregateAvg averages one wellness score per bucket, ascending by key.
// Zero is a valid score and counts toward the average.
func AggregateAvg(logs []models.WellnessLog, field WellnessField, g bucket.Granularity) []models.ChartPoint {
	type avg struct {
		total float64
		count int
	}
	acc := map[string]*avg{}
	for _, l := range logs {
		key := bucket.Key(l.LoggedAt, g)
		a := acc[key]
		if a == nil {
			a = &avg{}
			acc[key] = a
		}
		a.total += field.value(l)
		a.count++
	}

	points := make([]models.ChartPoint, 0, len(acc))
	for key, a := range acc {
		points = append(points, models.ChartPoint{Date: key, Value: a.total / float64(a.count)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}
