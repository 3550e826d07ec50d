package gorm

import (
	"sort"

	"github.com/google/uuid"

	"github.com/alchemorsel/recipebox/internal/domain/collection"
	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/domain/pantry"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/user"
)

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:                 u.ID(),
		Email:              u.Email(),
		Name:               u.Name(),
		PasswordHash:       u.PasswordHash(),
		DietaryPreferences: StringSlice(u.DietaryPreferences()),
		CreatedAt:          u.CreatedAt(),
		UpdatedAt:          u.UpdatedAt(),
		LastLoginAt:        u.LastLoginAt(),
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(m *UserModel) *user.User {
	return user.Reconstruct(
		m.ID,
		m.Email,
		m.Name,
		m.PasswordHash,
		nonNil(m.DietaryPreferences),
		m.CreatedAt,
		m.UpdatedAt,
		m.LastLoginAt,
	)
}

// RecipeToModel converts a domain recipe to a GORM model with its junction rows
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	rows := make([]RecipeIngredientModel, 0, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		rows = append(rows, RecipeIngredientModel{
			RecipeID:     r.ID,
			IngredientID: ing.IngredientID,
			Name:         ing.Name,
			Category:     ing.Category,
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
			Preparation:  ing.Preparation,
			Optional:     ing.Optional,
			Position:     i,
		})
	}

	return &RecipeModel{
		ID:            r.ID,
		AuthorID:      r.AuthorID,
		Title:         r.Title,
		Description:   r.Description,
		Instructions:  r.Instructions,
		PrepMinutes:   r.PrepMinutes,
		CookMinutes:   r.CookMinutes,
		Servings:      r.Servings,
		Difficulty:    string(r.Difficulty),
		Cuisine:       r.Cuisine,
		MealCategory:  r.MealCategory,
		DietaryTags:   StringSlice(r.DietaryTags),
		AverageRating: r.Rating,
		RatingCount:   r.RatingCount,
		Source:        string(r.Source),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Ingredients:   rows,
	}
}

// ModelToRecipe converts a GORM model to a domain recipe. Junction rows
// come back in their stored position.
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	rows := append([]RecipeIngredientModel(nil), m.Ingredients...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position < rows[j].Position })

	ingredients := make([]recipe.Ingredient, 0, len(rows))
	for _, row := range rows {
		ingredients = append(ingredients, recipe.Ingredient{
			IngredientID: row.IngredientID,
			Name:         row.Name,
			Category:     row.Category,
			Quantity:     row.Quantity,
			Unit:         row.Unit,
			Preparation:  row.Preparation,
			Optional:     row.Optional,
			Order:        row.Position,
		})
	}

	return &recipe.Recipe{
		ID:           m.ID,
		AuthorID:     m.AuthorID,
		Title:        m.Title,
		Description:  m.Description,
		Instructions: m.Instructions,
		PrepMinutes:  m.PrepMinutes,
		CookMinutes:  m.CookMinutes,
		Servings:     m.Servings,
		Difficulty:   recipe.Difficulty(m.Difficulty),
		Cuisine:      m.Cuisine,
		MealCategory: m.MealCategory,
		DietaryTags:  nonNil(m.DietaryTags),
		Ingredients:  ingredients,
		Rating:       recipe.RoundRating(m.AverageRating),
		RatingCount:  m.RatingCount,
		Source:       recipe.Source(m.Source),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// EntryToModel converts a catalog entry to a GORM model
func EntryToModel(e *ingredient.Entry) *IngredientModel {
	return &IngredientModel{
		ID:          e.ID,
		Name:        e.Name,
		Category:    e.Category,
		Substitutes: StringSlice(e.Substitutes),
		StorageTip:  e.StorageTip,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ModelToEntry converts a GORM model to a catalog entry
func ModelToEntry(m *IngredientModel) ingredient.Entry {
	return ingredient.Entry{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category,
		Substitutes: nonNil(m.Substitutes),
		StorageTip:  m.StorageTip,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CollectionToModel converts a collection and its ordered membership
func CollectionToModel(c *collection.Collection) *CollectionModel {
	members := make([]CollectionRecipeModel, 0, len(c.RecipeIDs))
	for i, id := range c.RecipeIDs {
		members = append(members, CollectionRecipeModel{CollectionID: c.ID, RecipeID: id, Position: i})
	}
	return &CollectionModel{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Recipes:     members,
	}
}

// ModelToCollection converts a GORM model to a collection
func ModelToCollection(m *CollectionModel) *collection.Collection {
	members := append([]CollectionRecipeModel(nil), m.Recipes...)
	sort.SliceStable(members, func(i, j int) bool { return members[i].Position < members[j].Position })

	c := &collection.Collection{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Description: m.Description,
		RecipeIDs:   make([]uuid.UUID, 0, len(members)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, member := range members {
		c.RecipeIDs = append(c.RecipeIDs, member.RecipeID)
	}
	return c
}

// PantryItemToModel converts a pantry item to a GORM model
func PantryItemToModel(it *pantry.Item) *PantryItemModel {
	return &PantryItemModel{
		ID:           it.ID,
		OwnerID:      it.OwnerID,
		IngredientID: it.IngredientID,
		Name:         it.Name,
		Quantity:     it.Quantity,
		Unit:         it.Unit,
		ExpiresAt:    it.ExpiresAt,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

// ModelToPantryItem converts a GORM model to a pantry item
func ModelToPantryItem(m *PantryItemModel) *pantry.Item {
	return &pantry.Item{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		IngredientID: m.IngredientID,
		Name:         m.Name,
		Quantity:     m.Quantity,
		Unit:         m.Unit,
		ExpiresAt:    m.ExpiresAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func nonNil(s StringSlice) []string {
	if s == nil {
		return []string{}
	}
	return []string(s)
}
