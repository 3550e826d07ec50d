// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/google/uuid"
)

// RecipeService defines the use cases for recipe management.
// Text import runs in explicit stages: ParseText, PrepareDraft,
// ValidateDraft and SaveDraft.
type RecipeService interface {
	// Import pipeline
	ParseText(ctx context.Context, cmd ParseTextCommand) (*ParseResult, error)
	PrepareDraft(ctx context.Context, parsed recipe.ParsedRecipe) (*Draft, error)
	ValidateDraft(draft Draft) ValidationResult
	SaveDraft(ctx context.Context, authorID uuid.UUID, draft Draft) (*SaveResult, error)

	// Commands
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*SaveResult, error)
	UpdateRecipe(ctx context.Context, cmd UpdateRecipeCommand) (*SaveResult, error)
	DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error
	RateRecipe(ctx context.Context, cmd RateRecipeCommand) (*RecipeDTO, error)

	// Queries
	GetRecipe(ctx context.Context, recipeID uuid.UUID) (*RecipeDTO, error)
	ListRecipes(ctx context.Context, query ListQuery) (*RecipeList, error)
	SearchRecipes(ctx context.Context, query SearchQuery) (*SearchResultList, error)
}

// ParseTextCommand asks for raw recipe text to be parsed
type ParseTextCommand struct {
	Text  string
	UseAI bool
}

// ParseResult is a parsed recipe plus what the ingredient list suggests
type ParseResult struct {
	Recipe        recipe.ParsedRecipe `json:"recipe"`
	ContainsMeat  bool                `json:"contains_meat"`
	ContainsDairy bool                `json:"contains_dairy"`
}

// CandidateDTO is one catalog suggestion for an ingredient line
type CandidateDTO struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Confidence   float64 `json:"confidence"`
}

// DraftIngredient is an ingredient line with its catalog assignment.
// Exactly one of IngredientID > 0 or CreateNew must hold before saving.
type DraftIngredient struct {
	OriginalText string         `json:"original_text"`
	Name         string         `json:"name"`
	Quantity     float64        `json:"quantity"`
	Unit         string         `json:"unit"`
	Preparation  string         `json:"preparation"`
	Optional     bool           `json:"optional"`
	Category     string         `json:"category,omitempty"`
	Candidates   []CandidateDTO `json:"candidates"`
	IngredientID uint           `json:"ingredient_id"`
	CreateNew    bool           `json:"create_new"`
}

// Draft is a recipe awaiting review and save
type Draft struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Instructions string            `json:"instructions"`
	PrepMinutes  int               `json:"prep_minutes"`
	CookMinutes  int               `json:"cook_minutes"`
	Servings     int               `json:"servings"`
	Difficulty   recipe.Difficulty `json:"difficulty"`
	Cuisine      string            `json:"cuisine"`
	MealCategory string            `json:"meal_category"`
	DietaryTags  []string          `json:"dietary_tags"`
	Source       recipe.Source     `json:"source"`
	Ingredients  []DraftIngredient `json:"ingredients"`
	Issues       []string          `json:"parsing_issues,omitempty"`
}

// ValidationResult reports per-field problems with a draft
type ValidationResult struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// SaveResult is the outcome of saving a draft. Recipe is nil when the
// draft failed validation.
type SaveResult struct {
	Recipe     *RecipeDTO       `json:"recipe,omitempty"`
	Validation ValidationResult `json:"validation"`
}

// IngredientLineCommand is one structured ingredient line
type IngredientLineCommand struct {
	IngredientID uint
	Name         string
	Category     string
	Quantity     float64
	Unit         string
	Preparation  string
	Optional     bool
}

// RecipeFields are the editable fields of a recipe
type RecipeFields struct {
	Title        string
	Description  string
	Instructions string
	PrepMinutes  int
	CookMinutes  int
	Servings     int
	Difficulty   string
	Cuisine      string
	MealCategory string
	DietaryTags  []string
	Ingredients  []IngredientLineCommand
}

// CreateRecipeCommand contains data for creating a new recipe
type CreateRecipeCommand struct {
	AuthorID uuid.UUID
	RecipeFields
}

// UpdateRecipeCommand replaces the editable fields of a recipe
type UpdateRecipeCommand struct {
	RecipeID uuid.UUID
	UserID   uuid.UUID
	RecipeFields
}

// RateRecipeCommand for rating a recipe
type RateRecipeCommand struct {
	RecipeID uuid.UUID
	UserID   uuid.UUID
	Rating   int
}

// ListQuery pages through recipes, optionally for one author
type ListQuery struct {
	AuthorID   *uuid.UUID
	Pagination PaginationParams
}

// RangeQuery is an optional inclusive bound
type RangeQuery struct {
	Min *int
	Max *int
}

// SearchQuery defines search parameters
type SearchQuery struct {
	Text                string
	Prep                RangeQuery
	Cook                RangeQuery
	Total               RangeQuery
	Servings            RangeQuery
	Cuisines            []string
	Categories          []string
	DietaryTags         []string
	InclusiveDietary    bool
	RequiredIngredients []string
	OptionalIngredients []string
	ExcludedIngredients []string
	Sort                string
	Pagination          PaginationParams
}

// PaginationParams for paginated queries
type PaginationParams struct {
	Page     int
	PageSize int
}

// Normalize applies the default page and page size
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
	return p
}

// Offset is the number of rows skipped for the page
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// RecipeDTO is the data transfer object for recipes
type RecipeDTO struct {
	ID           uuid.UUID         `json:"id"`
	AuthorID     uuid.UUID         `json:"author_id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Instructions string            `json:"instructions"`
	PrepMinutes  int               `json:"prep_minutes"`
	CookMinutes  int               `json:"cook_minutes"`
	TotalMinutes int               `json:"total_minutes"`
	Servings     int               `json:"servings"`
	Difficulty   recipe.Difficulty `json:"difficulty"`
	Cuisine      string            `json:"cuisine"`
	MealCategory string            `json:"meal_category"`
	DietaryTags  []string          `json:"dietary_tags"`
	Ingredients  []IngredientDTO   `json:"ingredients"`
	Rating       float64           `json:"rating"`
	RatingCount  int               `json:"rating_count"`
	Source       recipe.Source     `json:"source"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// IngredientDTO is one ingredient line of a recipe
type IngredientDTO struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Preparation  string  `json:"preparation,omitempty"`
	Optional     bool    `json:"optional"`
	Order        int     `json:"order"`
}

// RecipeList is a page of recipes
type RecipeList struct {
	Recipes  []RecipeDTO `json:"recipes"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// SearchHit is one ranked search result
type SearchHit struct {
	Recipe       RecipeDTO `json:"recipe"`
	Score        float64   `json:"score"`
	MatchedTerms []string  `json:"matched_terms"`
}

// SearchResultList is a page of ranked search results
type SearchResultList struct {
	Results  []SearchHit `json:"results"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
