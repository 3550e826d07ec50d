package inbound

import (
	"context"

	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
)

// CatalogService manages the shared ingredient catalog
type CatalogService interface {
	CreateIngredient(ctx context.Context, cmd CreateIngredientCommand) (*ingredient.Entry, error)
	UpdateIngredient(ctx context.Context, cmd UpdateIngredientCommand) (*ingredient.Entry, error)
	DeleteIngredient(ctx context.Context, id uint) error
	MergeIngredients(ctx context.Context, sourceID, targetID uint) (*ingredient.Entry, error)

	GetIngredient(ctx context.Context, id uint) (*ingredient.Entry, error)
	ListIngredients(ctx context.Context) ([]ingredient.Entry, error)
	FindDuplicates(ctx context.Context, threshold float64) ([]DuplicatePair, error)
	SuggestIngredients(ctx context.Context, name string, topN int) ([]CandidateDTO, error)
}

// CreateIngredientCommand adds a catalog entry
type CreateIngredientCommand struct {
	Name        string
	Category    string
	Substitutes []string
	StorageTip  string
}

// UpdateIngredientCommand changes a catalog entry. Nil fields are kept.
type UpdateIngredientCommand struct {
	ID          uint
	Name        *string
	Category    *string
	Substitutes *[]string
	StorageTip  *string
}

// DuplicatePair is two catalog entries that look like the same ingredient
type DuplicatePair struct {
	First      ingredient.Entry `json:"first"`
	Second     ingredient.Entry `json:"second"`
	Similarity float64          `json:"similarity"`
	Reason     string           `json:"reason"`
}
