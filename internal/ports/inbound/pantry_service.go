package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PantryService tracks what a user has on hand
type PantryService interface {
	AddItem(ctx context.Context, cmd AddPantryItemCommand) (*PantryItemDTO, error)
	UpdateItem(ctx context.Context, cmd UpdatePantryItemCommand) (*PantryItemDTO, error)
	RemoveItem(ctx context.Context, itemID, ownerID uuid.UUID) error

	ListItems(ctx context.Context, ownerID uuid.UUID) ([]PantryItemDTO, error)
	ExpiringItems(ctx context.Context, ownerID uuid.UUID, within time.Duration) ([]PantryItemDTO, error)
	CookableRecipes(ctx context.Context, ownerID uuid.UUID) ([]CookableRecipeDTO, error)
}

// AddPantryItemCommand adds an item by ingredient name
type AddPantryItemCommand struct {
	OwnerID   uuid.UUID
	Name      string
	Quantity  float64
	Unit      string
	ExpiresAt *time.Time
}

// UpdatePantryItemCommand changes an item. Nil fields are kept.
type UpdatePantryItemCommand struct {
	ItemID      uuid.UUID
	OwnerID     uuid.UUID
	Quantity    *float64
	Unit        *string
	ExpiresAt   *time.Time
	ClearExpiry bool
}

// PantryItemDTO is the data transfer object for pantry items
type PantryItemDTO struct {
	ID           uuid.UUID  `json:"id"`
	IngredientID uint       `json:"ingredient_id"`
	Name         string     `json:"name"`
	Quantity     float64    `json:"quantity"`
	Unit         string     `json:"unit"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// CookableRecipeDTO is a recipe ranked by how much of it is in the pantry
type CookableRecipeDTO struct {
	Recipe   RecipeDTO `json:"recipe"`
	Coverage float64   `json:"coverage"`
	Missing  []string  `json:"missing"`
	Complete bool      `json:"complete"`
}
