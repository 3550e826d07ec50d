package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/response"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
)

// RecipeHandlers handles recipe import, CRUD and search requests
type RecipeHandlers struct {
	base
	recipes     inbound.RecipeService
	aiByDefault bool
}

// NewRecipeHandlers creates recipe handlers. aiByDefault decides the parser
// when a parse request does not say.
func NewRecipeHandlers(recipes inbound.RecipeService, aiByDefault bool, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{
		base:        base{logger: logger.Named("recipe-handlers")},
		recipes:     recipes,
		aiByDefault: aiByDefault,
	}
}

// ParseRequest is raw recipe text to structure
type ParseRequest struct {
	Text  string `json:"text" validate:"required,max=50000"`
	UseAI *bool  `json:"use_ai"`
}

// IngredientLineRequest is one structured ingredient line
type IngredientLineRequest struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name" validate:"required_without=IngredientID,max=200"`
	Category     string  `json:"category" validate:"max=50"`
	Quantity     float64 `json:"quantity" validate:"gte=0"`
	Unit         string  `json:"unit" validate:"max=30"`
	Preparation  string  `json:"preparation" validate:"max=200"`
	Optional     bool    `json:"optional"`
}

// RecipeRequest is the body of create and update
type RecipeRequest struct {
	Title        string                  `json:"title" validate:"required,max=200"`
	Description  string                  `json:"description" validate:"max=2000"`
	Instructions string                  `json:"instructions" validate:"required"`
	PrepMinutes  int                     `json:"prep_minutes" validate:"gte=0,lte=10080"`
	CookMinutes  int                     `json:"cook_minutes" validate:"gte=0,lte=10080"`
	Servings     int                     `json:"servings" validate:"gte=0,lte=1000"`
	Difficulty   string                  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Cuisine      string                  `json:"cuisine" validate:"max=50"`
	MealCategory string                  `json:"meal_category" validate:"max=50"`
	DietaryTags  []string                `json:"dietary_tags" validate:"max=20"`
	Ingredients  []IngredientLineRequest `json:"ingredients" validate:"required,min=1,dive"`
}

// RateRequest carries a 1-5 star rating
type RateRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

func (req RecipeRequest) fields() inbound.RecipeFields {
	lines := make([]inbound.IngredientLineCommand, 0, len(req.Ingredients))
	for _, l := range req.Ingredients {
		lines = append(lines, inbound.IngredientLineCommand{
			IngredientID: l.IngredientID,
			Name:         l.Name,
			Category:     l.Category,
			Quantity:     l.Quantity,
			Unit:         l.Unit,
			Preparation:  l.Preparation,
			Optional:     l.Optional,
		})
	}
	return inbound.RecipeFields{
		Title:        req.Title,
		Description:  req.Description,
		Instructions: req.Instructions,
		PrepMinutes:  req.PrepMinutes,
		CookMinutes:  req.CookMinutes,
		Servings:     req.Servings,
		Difficulty:   req.Difficulty,
		Cuisine:      req.Cuisine,
		MealCategory: req.MealCategory,
		DietaryTags:  req.DietaryTags,
		Ingredients:  lines,
	}
}

// Parse handles POST /api/v1/recipes/parse
func (h *RecipeHandlers) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !h.decode(w, r, &req) {
		return
	}

	useAI := h.aiByDefault
	if req.UseAI != nil {
		useAI = *req.UseAI
	}

	result, err := h.recipes.ParseText(r.Context(), inbound.ParseTextCommand{Text: req.Text, UseAI: useAI})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, result)
}

// PrepareDraft handles POST /api/v1/recipes/drafts/prepare. The body is a
// parsed recipe as returned by Parse.
func (h *RecipeHandlers) PrepareDraft(w http.ResponseWriter, r *http.Request) {
	var parsed recipe.ParsedRecipe
	if !h.decode(w, r, &parsed) {
		return
	}

	draft, err := h.recipes.PrepareDraft(r.Context(), parsed)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, draft)
}

// ValidateDraft handles POST /api/v1/recipes/drafts/validate
func (h *RecipeHandlers) ValidateDraft(w http.ResponseWriter, r *http.Request) {
	var draft inbound.Draft
	if !h.decode(w, r, &draft) {
		return
	}
	response.OK(w, http.StatusOK, h.recipes.ValidateDraft(draft))
}

// SaveDraft handles POST /api/v1/recipes/drafts
func (h *RecipeHandlers) SaveDraft(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var draft inbound.Draft
	if !h.decode(w, r, &draft) {
		return
	}

	result, err := h.recipes.SaveDraft(r.Context(), userID, draft)
	h.writeSave(w, r, result, err, http.StatusCreated)
}

// CreateRecipe handles POST /api/v1/recipes
func (h *RecipeHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req RecipeRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.recipes.CreateRecipe(r.Context(), inbound.CreateRecipeCommand{
		AuthorID:     userID,
		RecipeFields: req.fields(),
	})
	h.writeSave(w, r, result, err, http.StatusCreated)
}

// UpdateRecipe handles PUT /api/v1/recipes/{id}
func (h *RecipeHandlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	recipeID, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req RecipeRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.recipes.UpdateRecipe(r.Context(), inbound.UpdateRecipeCommand{
		RecipeID:     recipeID,
		UserID:       userID,
		RecipeFields: req.fields(),
	})
	h.writeSave(w, r, result, err, http.StatusOK)
}

// DeleteRecipe handles DELETE /api/v1/recipes/{id}
func (h *RecipeHandlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	recipeID, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.recipes.DeleteRecipe(r.Context(), recipeID, userID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RateRecipe handles POST /api/v1/recipes/{id}/rating
func (h *RecipeHandlers) RateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	recipeID, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req RateRequest
	if !h.decode(w, r, &req) {
		return
	}

	dto, err := h.recipes.RateRecipe(r.Context(), inbound.RateRecipeCommand{
		RecipeID: recipeID,
		UserID:   userID,
		Rating:   req.Rating,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, dto)
}

// GetRecipe handles GET /api/v1/recipes/{id}
func (h *RecipeHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	dto, err := h.recipes.GetRecipe(r.Context(), recipeID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, dto)
}

// ListRecipes handles GET /api/v1/recipes?author=&page=&page_size=
func (h *RecipeHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pagination, err := paginationFrom(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	query := inbound.ListQuery{Pagination: pagination}
	if raw := strings.TrimSpace(q.Get("author")); raw != "" {
		author, err := uuid.Parse(raw)
		if err != nil {
			h.fail(w, r, badQuery("author"))
			return
		}
		query.AuthorID = &author
	}

	list, err := h.recipes.ListRecipes(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list)
}

// SearchRecipes handles GET /api/v1/recipes/search
//
// Query parameters: q, prep_min, prep_max, cook_min, cook_max, total_min,
// total_max, servings_min, servings_max, cuisine, category, diet,
// diet_mode (inclusive by default, or exclusive), require, optional,
// exclude, sort, page, page_size. List parameters accept commas or
// repeated keys.
func (h *RecipeHandlers) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := searchQueryFrom(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	results, err := h.recipes.SearchRecipes(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, results)
}

// writeSave renders a SaveResult, turning a failed validation into a 422
func (h *RecipeHandlers) writeSave(w http.ResponseWriter, r *http.Request, result *inbound.SaveResult, err error, status int) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !result.Validation.Valid {
		response.Invalid(w, r, result.Validation.FieldErrors)
		return
	}
	response.OK(w, status, result.Recipe)
}
