package inbound

import (
	"context"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/collection"
	"github.com/google/uuid"
)

// CollectionService manages recipe collections and their shopping lists
type CollectionService interface {
	CreateCollection(ctx context.Context, cmd CreateCollectionCommand) (*CollectionDTO, error)
	DeleteCollection(ctx context.Context, collectionID, ownerID uuid.UUID) error
	AddRecipe(ctx context.Context, collectionID, ownerID, recipeID uuid.UUID) (*CollectionDTO, error)
	RemoveRecipe(ctx context.Context, collectionID, ownerID, recipeID uuid.UUID) (*CollectionDTO, error)

	GetCollection(ctx context.Context, collectionID, ownerID uuid.UUID) (*CollectionDTO, error)
	ListCollections(ctx context.Context, ownerID uuid.UUID) ([]CollectionDTO, error)
	ShoppingList(ctx context.Context, query ShoppingListQuery) (*ShoppingListDTO, error)
}

// CreateCollectionCommand creates an empty collection
type CreateCollectionCommand struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
}

// ShoppingListQuery builds the shopping list of a collection
type ShoppingListQuery struct {
	CollectionID  uuid.UUID
	OwnerID       uuid.UUID
	ExcludePantry bool
}

// CollectionDTO is the data transfer object for collections
type CollectionDTO struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	RecipeIDs   []uuid.UUID `json:"recipe_ids"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ShoppingListDTO is a consolidated shopping list
type ShoppingListDTO struct {
	CollectionID uuid.UUID                     `json:"collection_id"`
	Items        []collection.ShoppingListItem `json:"items"`
}
