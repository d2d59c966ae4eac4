package category

import (
	"fmt"
	"strings"
)

// Category is the load category of an exercise. It selects the volume formula.
type Category string

const (
	Strength   Category = "strength"
	Plyometric Category = "plyometric"
	Isometric  Category = "isometric"
	Cardio     Category = "cardio"
)

// prefixes maps the four-letter exercise code tags to their category.
var prefixes = map[string]Category{
	"STR_": Strength,
	"PLY_": Plyometric,
	"ISO_": Isometric,
	"CAR_": Cardio,
}

// All returns every category in display order.
func All() []Category {
	return []Category{Strength, Plyometric, Isometric, Cardio}
}

// Classify derives the category from the exercise code prefix (e.g. "STR_BENCH").
// Codes without a recognised prefix are not classified.
func Classify(exerciseCode string) (Category, bool) {
	if len(exerciseCode) < 4 {
		return "", false
	}
	c, ok := prefixes[exerciseCode[:4]]
	return c, ok
}

// Parse converts a category name such as "strength" into a Category.
func Parse(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown load category %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the four load categories.
func (c Category) Valid() bool {
	switch c {
	case Strength, Plyometric, Isometric, Cardio:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }
