package recipe

import (
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
)

// ToRecipeDTO converts a domain recipe to its DTO
func ToRecipeDTO(r *recipe.Recipe) *inbound.RecipeDTO {
	ingredients := make([]inbound.IngredientDTO, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, inbound.IngredientDTO{
			IngredientID: ing.IngredientID,
			Name:         ing.Name,
			Category:     ing.Category,
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
			Preparation:  ing.Preparation,
			Optional:     ing.Optional,
			Order:        ing.Order,
		})
	}

	tags := r.DietaryTags
	if tags == nil {
		tags = []string{}
	}

	return &inbound.RecipeDTO{
		ID:           r.ID,
		AuthorID:     r.AuthorID,
		Title:        r.Title,
		Description:  r.Description,
		Instructions: r.Instructions,
		PrepMinutes:  r.PrepMinutes,
		CookMinutes:  r.CookMinutes,
		TotalMinutes: r.TotalMinutes(),
		Servings:     r.Servings,
		Difficulty:   r.Difficulty,
		Cuisine:      r.Cuisine,
		MealCategory: r.MealCategory,
		DietaryTags:  tags,
		Ingredients:  ingredients,
		Rating:       r.Rating,
		RatingCount:  r.RatingCount,
		Source:       r.Source,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
