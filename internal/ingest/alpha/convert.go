package alpha

import (
	"sort"
	"strings"
	"time"

	"github.com/meltforce/trainload/internal/catalog"
	"github.com/meltforce/trainload/internal/models"
	"github.com/meltforce/trainload/internal/session"
)

// Result is the outcome of converting an export.
type Result struct {
	Payloads       []models.SessionPayload
	Sets           int
	WarmupsSkipped int
	// Unmatched lists export exercise names with no usable catalog exercise, sorted.
	Unmatched []string
}

// Convert maps parsed sessions onto session payloads. Exercises are matched
// to catalog exercises by name, ignoring case; only exercises whose set type
// records reps can take Alpha sets. Warm-ups are dropped and RPE is derived
// as 10 - RIR. Sets are assigned to profileID when it is non-nil.
func Convert(cat *catalog.Catalog, sessions []Session, profileID *int) Result {
	byName := exerciseIndex(cat)
	unmatched := map[string]bool{}
	var res Result

	for _, s := range sessions {
		p := models.SessionPayload{
			Date: time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 12, 0, 0, 0, time.UTC),
		}
		for _, ex := range s.Exercises {
			m, ok := byName[strings.ToLower(ex.Name)]
			if !ok {
				unmatched[ex.Name] = true
				continue
			}
			for _, set := range ex.Sets {
				if set.IsWarmup {
					res.WarmupsSkipped++
					continue
				}
				sp := models.SetPayload{ExerciseCode: m.code, Fields: map[string]float64{}, RPE: rpeFromRIR(set.RIR)}
				sp.Fields[models.FieldReps] = float64(set.Reps)
				if m.weighted {
					sp.Fields[models.FieldWeight] = set.WeightKg
				}
				if profileID != nil {
					id := *profileID
					sp.BodyPartProfileID = &id
				}
				p.Sets = append(p.Sets, sp)
			}
		}
		if len(p.Sets) == 0 {
			continue
		}
		res.Sets += len(p.Sets)
		res.Payloads = append(res.Payloads, p)
	}

	for name := range unmatched {
		res.Unmatched = append(res.Unmatched, name)
	}
	sort.Strings(res.Unmatched)
	return res
}

type match struct {
	code     string
	weighted bool
}

// exerciseIndex keys usable exercises by lower-cased name. On duplicate
// names the lowest code wins.
func exerciseIndex(cat *catalog.Catalog) map[string]match {
	codes := make([]string, 0, len(cat.Exercises))
	for code := range cat.Exercises {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	idx := make(map[string]match, len(codes))
	for _, code := range codes {
		key := strings.ToLower(cat.Exercises[code].Name)
		if _, dup := idx[key]; dup {
			continue
		}
		st, err := cat.SetTypeFor(code)
		if err != nil {
			continue
		}
		if _, ok := st.Fields[models.FieldReps]; !ok {
			continue
		}
		_, weighted := st.Fields[models.FieldWeight]
		idx[key] = match{code: code, weighted: weighted}
	}
	return idx
}

// rpeFromRIR converts reps in reserve to RPE. A negative RIR means unrated.
func rpeFromRIR(rir float64) *float64 {
	if rir < 0 {
		return nil
	}
	rpe := 10 - rir
	return session.SanitizeNumber(&rpe, session.RPEBounds)
}
