// Package ingredient defines the ingredient catalog entry
package ingredient

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNameRequired        = errors.New("ingredient name is required")
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrDuplicateIngredient = errors.New("ingredient with this name already exists")
	ErrIngredientInUse     = errors.New("ingredient is referenced by recipes or pantry items")
	ErrMergeIntoSelf       = errors.New("cannot merge an ingredient into itself")
)

// CategoryOther is used when no category is given
const CategoryOther = "other"

// Entry is one known ingredient in the catalog. Names are unique after
// normalization.
type Entry struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Substitutes []string  `json:"substitutes"`
	StorageTip  string    `json:"storage_tip"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEntry builds a catalog entry with a normalized name and a default category
func NewEntry(name, category string, substitutes []string, storageTip string) (*Entry, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = CategoryOther
	}
	if substitutes == nil {
		substitutes = []string{}
	}

	now := time.Now().UTC()
	return &Entry{
		Name:        name,
		Category:    category,
		Substitutes: substitutes,
		StorageTip:  strings.TrimSpace(storageTip),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NormalizeName trims, lowercases and collapses inner whitespace
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
