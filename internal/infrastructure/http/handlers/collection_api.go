package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/http/response"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
)

// CollectionHandlers handles collection and shopping list requests. Every
// route acts on the caller's own collections.
type CollectionHandlers struct {
	base
	collections inbound.CollectionService
}

// NewCollectionHandlers creates collection handlers
func NewCollectionHandlers(collections inbound.CollectionService, logger *zap.Logger) *CollectionHandlers {
	return &CollectionHandlers{
		base:        base{logger: logger.Named("collection-handlers")},
		collections: collections,
	}
}

// CollectionRequest creates a collection
type CollectionRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// CollectionRecipeRequest adds a recipe to a collection
type CollectionRecipeRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" validate:"required"`
}

// CreateCollection handles POST /api/v1/collections
func (h *CollectionHandlers) CreateCollection(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req CollectionRequest
	if !h.decode(w, r, &req) {
		return
	}

	dto, err := h.collections.CreateCollection(r.Context(), inbound.CreateCollectionCommand{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, dto)
}

// ListCollections handles GET /api/v1/collections
func (h *CollectionHandlers) ListCollections(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	list, err := h.collections.ListCollections(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list)
}

// GetCollection handles GET /api/v1/collections/{id}
func (h *CollectionHandlers) GetCollection(w http.ResponseWriter, r *http.Request) {
	userID, collectionID, ok := h.ids(w, r)
	if !ok {
		return
	}

	dto, err := h.collections.GetCollection(r.Context(), collectionID, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, dto)
}

// DeleteCollection handles DELETE /api/v1/collections/{id}
func (h *CollectionHandlers) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	userID, collectionID, ok := h.ids(w, r)
	if !ok {
		return
	}

	if err := h.collections.DeleteCollection(r.Context(), collectionID, userID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddRecipe handles POST /api/v1/collections/{id}/recipes
func (h *CollectionHandlers) AddRecipe(w http.ResponseWriter, r *http.Request) {
	userID, collectionID, ok := h.ids(w, r)
	if !ok {
		return
	}
	var req CollectionRecipeRequest
	if !h.decode(w, r, &req) {
		return
	}

	dto, err := h.collections.AddRecipe(r.Context(), collectionID, userID, req.RecipeID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, dto)
}

// RemoveRecipe handles DELETE /api/v1/collections/{id}/recipes/{recipeID}
func (h *CollectionHandlers) RemoveRecipe(w http.ResponseWriter, r *http.Request) {
	userID, collectionID, ok := h.ids(w, r)
	if !ok {
		return
	}
	recipeID, err := uuidParam(r, "recipeID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	dto, err := h.collections.RemoveRecipe(r.Context(), collectionID, userID, recipeID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, dto)
}

// ShoppingList handles GET /api/v1/collections/{id}/shopping-list?exclude_pantry=true
func (h *CollectionHandlers) ShoppingList(w http.ResponseWriter, r *http.Request) {
	userID, collectionID, ok := h.ids(w, r)
	if !ok {
		return
	}
	excludePantry := false
	if raw := r.URL.Query().Get("exclude_pantry"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.fail(w, r, badQuery("exclude_pantry"))
			return
		}
		excludePantry = v
	}

	list, err := h.collections.ShoppingList(r.Context(), inbound.ShoppingListQuery{
		CollectionID:  collectionID,
		OwnerID:       userID,
		ExcludePantry: excludePantry,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, list)
}

// ids reads the caller and the {id} path parameter
func (h *CollectionHandlers) ids(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	collectionID, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, collectionID, true
}
