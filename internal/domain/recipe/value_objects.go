package recipe

import "strings"

// Difficulty is the normalized effort level of a recipe
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// NormalizeDifficulty maps free text onto one of the three levels.
// Anything unrecognised is medium.
func NormalizeDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "beginner", "simple":
		return DifficultyEasy
	case "hard", "difficult", "advanced", "expert":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Source records how a recipe was produced
type Source string

const (
	SourceManual Source = "manual"
	SourceRule   Source = "rule"
	SourceAI     Source = "ai"
)

// Ingredient is one ingredient line of a stored recipe. It links to a
// catalog entry through IngredientID.
type Ingredient struct {
	IngredientID uint
	Name         string
	Category     string
	Quantity     float64
	Unit         string
	Preparation  string
	Optional     bool
	Order        int
}

// Validate validates the ingredient
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrIngredientNameNeeded
	}
	return nil
}
