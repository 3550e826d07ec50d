// Package collection defines recipe collections and the shopping list
// built from them.
package collection

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNameRequired        = errors.New("collection name is required")
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrNotOwner            = errors.New("only the collection owner can change it")
	ErrAlreadyInCollection = errors.New("recipe is already in the collection")
)

// Collection is an ordered, user-owned group of recipes
type Collection struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	RecipeIDs   []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCollection creates an empty collection
func NewCollection(ownerID uuid.UUID, name, description string) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := time.Now().UTC()
	return &Collection{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
		RecipeIDs:   []uuid.UUID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Contains reports whether the recipe is a member
func (c *Collection) Contains(recipeID uuid.UUID) bool {
	for _, id := range c.RecipeIDs {
		if id == recipeID {
			return true
		}
	}
	return false
}

// AddRecipe appends a recipe to the end of the collection
func (c *Collection) AddRecipe(recipeID uuid.UUID) error {
	if c.Contains(recipeID) {
		return ErrAlreadyInCollection
	}
	c.RecipeIDs = append(c.RecipeIDs, recipeID)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// RemoveRecipe drops a recipe, reporting whether it was a member
func (c *Collection) RemoveRecipe(recipeID uuid.UUID) bool {
	for i, id := range c.RecipeIDs {
		if id == recipeID {
			c.RecipeIDs = append(c.RecipeIDs[:i], c.RecipeIDs[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// ShoppingListItem is one consolidated line of a shopping list
type ShoppingListItem struct {
	IngredientName      string   `json:"ingredient_name"`
	TotalQuantity       float64  `json:"total_quantity"`
	Unit                string   `json:"unit"`
	ContributingRecipes []string `json:"contributing_recipe_names"`
	Category            string   `json:"category"`
}
