// Package testutil provides shared fixtures for package tests.
package testutil

import "github.com/meltforce/trainload/internal/catalog"

// Catalog returns a small validated catalog covering all four load categories.
//
//	STR_BENCH    strength    chest, shoulder
//	STR_SQUAT    strength    knee, hip
//	PLY_BOX_JUMP plyometric  knee, ankle
//	ISO_WALL_SIT isometric   knee
//	CAR_CYCLE    cardio      knee, hip
//	MOB_HIP_CARS mobility    hip (not a load category)
func Catalog() *catalog.Catalog {
	num := catalog.SetField{Type: catalog.FieldTypeNumber, Required: true}
	c := &catalog.Catalog{
		Version: "test",
		BodyParts: map[string]string{
			"ankle": "Ankle", "chest": "Chest", "hip": "Hip", "knee": "Knee", "shoulder": "Shoulder",
		},
		ExerciseTypes: map[string]string{
			"strength": "Strength", "plyometric": "Plyometric", "isometric": "Isometric",
			"cardio": "Cardio", "mobility": "Mobility",
		},
		SetTypes: map[string]catalog.SetType{
			"weight_reps": {
				Fields:             map[string]catalog.SetField{"weight": num, "reps": num},
				CompletionRequires: []string{"weight", "reps"},
			},
			"reps_only": {
				Fields:             map[string]catalog.SetField{"reps": num},
				CompletionRequires: []string{"reps"},
			},
			"duration": {
				Fields:             map[string]catalog.SetField{"durationSeconds": num},
				CompletionRequires: []string{"durationSeconds"},
			},
		},
		SetTypeByExerciseType: map[string]string{
			"strength":   "weight_reps",
			"plyometric": "reps_only",
			"isometric":  "duration",
			"cardio":     "duration",
			"mobility":   "duration",
		},
		Exercises: map[string]catalog.Exercise{
			"STR_BENCH":    {Name: "Bench Press", Type: "strength", BodyParts: []string{"chest", "shoulder"}},
			"STR_SQUAT":    {Name: "Back Squat", Type: "strength", BodyParts: []string{"knee", "hip"}},
			"PLY_BOX_JUMP": {Name: "Box Jump", Type: "plyometric", BodyParts: []string{"knee", "ankle"}},
			"ISO_WALL_SIT": {Name: "Wall Sit", Type: "isometric", BodyParts: []string{"knee"}},
			"CAR_CYCLE":    {Name: "Cycling", Type: "cardio", BodyParts: []string{"knee", "hip"}},
			"MOB_HIP_CARS": {Name: "Hip CARs", Type: "mobility", BodyParts: []string{"hip"}},
		},
	}
	if err := c.Validate(); err != nil {
		panic("testutil: invalid fixture catalog: " + err.Error())
	}
	return c
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
