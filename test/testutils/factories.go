// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	r recipe.Recipe
}

// NewRecipeBuilder creates a builder with faked but valid defaults
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())
	now := time.Now().UTC()

	return &RecipeBuilder{r: recipe.Recipe{
		ID:           uuid.New(),
		AuthorID:     uuid.New(),
		Title:        faker.Sentence(3),
		Description:  faker.Sentence(10),
		Instructions: faker.Paragraph(1, 3, 8, "\n"),
		PrepMinutes:  15,
		CookMinutes:  30,
		Servings:     4,
		Difficulty:   recipe.DifficultyMedium,
		DietaryTags:  []string{},
		Ingredients:  []recipe.Ingredient{},
		Source:       recipe.SourceManual,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}
}

// WithTitle sets the recipe title
func (b *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	b.r.Title = title
	return b
}

// WithAuthor sets the recipe author
func (b *RecipeBuilder) WithAuthor(authorID uuid.UUID) *RecipeBuilder {
	b.r.AuthorID = authorID
	return b
}

// WithTimes sets prep and cook minutes
func (b *RecipeBuilder) WithTimes(prep, cook int) *RecipeBuilder {
	b.r.PrepMinutes = prep
	b.r.CookMinutes = cook
	return b
}

// WithServings sets the serving count
func (b *RecipeBuilder) WithServings(servings int) *RecipeBuilder {
	b.r.Servings = servings
	return b
}

// WithCuisine sets the cuisine
func (b *RecipeBuilder) WithCuisine(cuisine string) *RecipeBuilder {
	b.r.Cuisine = cuisine
	return b
}

// WithTags sets the dietary tags
func (b *RecipeBuilder) WithTags(tags ...string) *RecipeBuilder {
	b.r.DietaryTags = recipe.NormalizeTags(tags)
	return b
}

// WithIngredient appends an ingredient line linked to a catalog entry
func (b *RecipeBuilder) WithIngredient(entry ingredient.Entry, quantity float64, unit string) *RecipeBuilder {
	b.r.Ingredients = append(b.r.Ingredients, recipe.Ingredient{
		IngredientID: entry.ID,
		Name:         entry.Name,
		Category:     entry.Category,
		Quantity:     quantity,
		Unit:         unit,
		Order:        len(b.r.Ingredients),
	})
	return b
}

// WithOptionalIngredient appends an optional ingredient line
func (b *RecipeBuilder) WithOptionalIngredient(entry ingredient.Entry, quantity float64, unit string) *RecipeBuilder {
	b.WithIngredient(entry, quantity, unit)
	b.r.Ingredients[len(b.r.Ingredients)-1].Optional = true
	return b
}

// Build returns the built recipe
func (b *RecipeBuilder) Build() *recipe.Recipe {
	r := b.r
	r.Ingredients = append([]recipe.Ingredient{}, b.r.Ingredients...)
	r.DietaryTags = append([]string{}, b.r.DietaryTags...)
	return &r
}

// CatalogEntries returns a small fixed catalog with stable names
func CatalogEntries() []ingredient.Entry {
	return []ingredient.Entry{
		{Name: "all-purpose flour", Category: "baking"},
		{Name: "sugar", Category: "baking"},
		{Name: "eggs", Category: "dairy"},
		{Name: "milk", Category: "dairy"},
		{Name: "butter", Category: "dairy"},
		{Name: "garlic", Category: "produce"},
		{Name: "onion", Category: "produce"},
		{Name: "olive oil", Category: "pantry"},
		{Name: "salt", Category: "spices"},
		{Name: "chicken breast", Category: "meat"},
	}
}

// FakeEmail returns a random valid email address
func FakeEmail() string {
	return gofakeit.Email()
}

// FakeName returns a random person name
func FakeName() string {
	return gofakeit.Name()
}

// FakePassword returns a random password long enough to be accepted
func FakePassword() string {
	return gofakeit.Password(true, true, true, false, false, 12)
}
