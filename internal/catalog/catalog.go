// Package catalog holds the static exercise catalog: body parts, exercises,
// set types and the field schema each set type requires. A Catalog is loaded
// once at startup and treated as read-only afterwards.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/meltforce/trainload/internal/category"
	"github.com/meltforce/trainload/internal/models"
)

// ErrUnknownExercise is returned when an exercise code has no catalog entry.
var ErrUnknownExercise = errors.New("unknown exercise")

// FieldTypeNumber is the only field type the catalog supports.
const FieldTypeNumber = "number"

// SetField describes one input field of a set type.
type SetField struct {
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
}

// Numeric reports whether the field holds a number. An omitted type defaults to number.
func (f SetField) Numeric() bool {
	return f.Type == "" || f.Type == FieldTypeNumber
}

// SetType is the field schema shared by all exercises of one exercise type.
type SetType struct {
	Fields             map[string]SetField `json:"fields" yaml:"fields"`
	CompletionRequires []string            `json:"completionRequires" yaml:"completionRequires"`
}

// FieldNames returns the set type's field names in sorted order.
func (s SetType) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exercise is a single catalog exercise.
type Exercise struct {
	Name      string   `json:"name" yaml:"name"`
	Type      string   `json:"type" yaml:"type"`
	BodyParts []string `json:"bodyParts" yaml:"bodyParts"`
}

// TargetsBodyPart reports whether the exercise lists bodyPart.
func (e Exercise) TargetsBodyPart(bodyPart string) bool {
	for _, bp := range e.BodyParts {
		if bp == bodyPart {
			return true
		}
	}
	return false
}

// ExerciseWithCode pairs an exercise with its catalog code.
type ExerciseWithCode struct {
	Code string `json:"code"`
	Exercise
}

// Catalog is the application configuration that drives session forms,
// validation and analytics.
type Catalog struct {
	Version               string              `json:"version" yaml:"version"`
	BodyParts             map[string]string   `json:"bodyParts" yaml:"bodyParts"`
	ExerciseTypes         map[string]string   `json:"exerciseTypes" yaml:"exerciseTypes"`
	SetTypes              map[string]SetType  `json:"setTypes" yaml:"setTypes"`
	SetTypeByExerciseType map[string]string   `json:"setTypeByExerciseType" yaml:"setTypeByExerciseType"`
	Exercises             map[string]Exercise `json:"exercises" yaml:"exercises"`
}

// Exercise looks up an exercise by code.
func (c *Catalog) Exercise(code string) (Exercise, bool) {
	ex, ok := c.Exercises[code]
	return ex, ok
}

// SetTypeFor resolves the set type used by the given exercise code.
func (c *Catalog) SetTypeFor(code string) (SetType, error) {
	ex, ok := c.Exercises[code]
	if !ok {
		return SetType{}, fmt.Errorf("%w: %s", ErrUnknownExercise, code)
	}
	st, ok := c.SetTypes[c.SetTypeByExerciseType[ex.Type]]
	if !ok {
		// Unreachable for a validated catalog.
		return SetType{}, fmt.Errorf("no set type for exercise type %q", ex.Type)
	}
	return st, nil
}

// CategoryOf returns the load category declared by the exercise's type.
// Unknown exercises and types that are not load categories report false.
func (c *Catalog) CategoryOf(code string) (category.Category, bool) {
	ex, ok := c.Exercises[code]
	if !ok {
		return "", false
	}
	cat := category.Category(ex.Type)
	return cat, cat.Valid()
}

// ExercisesForBodyPart lists the exercises that target bodyPart, sorted by code.
func (c *Catalog) ExercisesForBodyPart(bodyPart string) []ExerciseWithCode {
	var out []ExerciseWithCode
	for code, ex := range c.Exercises {
		if ex.TargetsBodyPart(bodyPart) {
			out = append(out, ExerciseWithCode{Code: code, Exercise: ex})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// storedFields are the set fields the backend has columns for.
var storedFields = map[string]bool{
	models.FieldWeight:          true,
	models.FieldReps:            true,
	models.FieldDurationSeconds: true,
}

// Validate checks the cross-references between catalog sections and that
// every set field can be stored by the backend.
func (c *Catalog) Validate() error {
	if len(c.Exercises) == 0 {
		return errors.New("catalog defines no exercises")
	}

	for code, st := range c.SetTypes {
		for name, f := range st.Fields {
			if !f.Numeric() {
				return fmt.Errorf("set type %q: field %q has unsupported type %q", code, name, f.Type)
			}
			if !storedFields[name] {
				return fmt.Errorf("set type %q: field %q is not one of weight, reps, durationSeconds", code, name)
			}
		}
		for _, name := range st.CompletionRequires {
			if _, ok := st.Fields[name]; !ok {
				return fmt.Errorf("set type %q: completionRequires names undeclared field %q", code, name)
			}
		}
	}

	for exType, stCode := range c.SetTypeByExerciseType {
		if _, ok := c.SetTypes[stCode]; !ok {
			return fmt.Errorf("exercise type %q maps to unknown set type %q", exType, stCode)
		}
	}

	codes := make([]string, 0, len(c.Exercises))
	for code := range c.Exercises {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		ex := c.Exercises[code]
		if _, ok := c.SetTypeByExerciseType[ex.Type]; !ok {
			return fmt.Errorf("exercise %q: type %q has no set type mapping", code, ex.Type)
		}
		for _, bp := range ex.BodyParts {
			if _, ok := c.BodyParts[bp]; !ok {
				return fmt.Errorf("exercise %q: unknown body part %q", code, bp)
			}
		}
		// The code prefix and the declared type must agree.
		if prefixed, ok := category.Classify(code); ok && string(prefixed) != ex.Type {
			return fmt.Errorf("exercise %q: code prefix implies %s but type is %q", code, prefixed, ex.Type)
		}
	}
	return nil
}
