// Package recipe contains the recipe aggregate and the typed records the
// parsers produce on the way to it.
package recipe

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recipe is a stored recipe with its ingredient lines
type Recipe struct {
	ID           uuid.UUID
	AuthorID     uuid.UUID
	Title        string
	Description  string
	Instructions string
	PrepMinutes  int
	CookMinutes  int
	Servings     int
	Difficulty   Difficulty
	Cuisine      string
	MealCategory string
	DietaryTags  []string
	Ingredients  []Ingredient
	Rating       float64
	RatingCount  int
	Source       Source
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewRecipe creates a recipe, applying defaults once at the boundary.
// Title and instructions are required; an empty ingredient list is allowed
// here because drafts are validated separately.
func NewRecipe(authorID uuid.UUID, title, instructions string) (*Recipe, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > 200 {
		return nil, ErrTitleTooLong
	}
	if strings.TrimSpace(instructions) == "" {
		return nil, ErrNoInstructions
	}

	now := time.Now().UTC()
	return &Recipe{
		ID:           uuid.New(),
		AuthorID:     authorID,
		Title:        title,
		Instructions: strings.TrimSpace(instructions),
		Servings:     1,
		Difficulty:   DifficultyMedium,
		DietaryTags:  []string{},
		Source:       SourceManual,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SetTimes sets prep and cook minutes
func (r *Recipe) SetTimes(prep, cook int) error {
	if prep < 0 || cook < 0 {
		return ErrNegativeTime
	}
	r.PrepMinutes = prep
	r.CookMinutes = cook
	r.touch()
	return nil
}

// SetServings sets the serving count
func (r *Recipe) SetServings(servings int) error {
	if servings < 1 {
		return ErrInvalidServings
	}
	r.Servings = servings
	r.touch()
	return nil
}

// AddIngredient appends an ingredient line, assigning its order
func (r *Recipe) AddIngredient(ing Ingredient) error {
	if err := ing.Validate(); err != nil {
		return err
	}
	ing.Name = strings.TrimSpace(ing.Name)
	ing.Order = len(r.Ingredients)
	r.Ingredients = append(r.Ingredients, ing)
	r.touch()
	return nil
}

// SetDietaryTags replaces the tag set, lowercased and deduplicated
func (r *Recipe) SetDietaryTags(tags []string) {
	r.DietaryTags = NormalizeTags(tags)
	r.touch()
}

// ValidateRating checks that one rating is between 1 and 5
func ValidateRating(value int) error {
	if value < 1 || value > 5 {
		return ErrInvalidRating
	}
	return nil
}

// RoundRating rounds an average rating to two decimals
func RoundRating(avg float64) float64 {
	return math.Round(avg*100) / 100
}

// AddRating folds one rating into the running average
func (r *Recipe) AddRating(value int) error {
	if err := ValidateRating(value); err != nil {
		return err
	}
	total := r.Rating*float64(r.RatingCount) + float64(value)
	r.RatingCount++
	r.Rating = RoundRating(total / float64(r.RatingCount))
	r.touch()
	return nil
}

// IsOwnedBy reports whether the user authored the recipe
func (r *Recipe) IsOwnedBy(userID uuid.UUID) bool {
	return r.AuthorID == userID
}

// TotalMinutes returns prep plus cook time
func (r *Recipe) TotalMinutes() int {
	return r.PrepMinutes + r.CookMinutes
}

// IngredientNames returns the lowercased ingredient names in order
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, strings.ToLower(strings.TrimSpace(ing.Name)))
	}
	return names
}

// HasTag reports whether the recipe carries the exact tag
func (r *Recipe) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range r.DietaryTags {
		if t == tag {
			return true
		}
	}
	return false
}

func (r *Recipe) touch() {
	r.UpdatedAt = time.Now().UTC()
}

// NormalizeTags lowercases, trims and deduplicates tags keeping first-seen order
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
