package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/http/response"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

const defaultSuggestions = 5

// CatalogHandlers handles ingredient catalog requests
type CatalogHandlers struct {
	base
	catalog inbound.CatalogService
}

// NewCatalogHandlers creates catalog handlers
func NewCatalogHandlers(catalog inbound.CatalogService, logger *zap.Logger) *CatalogHandlers {
	return &CatalogHandlers{
		base:    base{logger: logger.Named("catalog-handlers")},
		catalog: catalog,
	}
}

// IngredientRequest creates a catalog entry
type IngredientRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Category    string   `json:"category" validate:"max=50"`
	Substitutes []string `json:"substitutes" validate:"max=20,dive,max=200"`
	StorageTip  string   `json:"storage_tip" validate:"max=500"`
}

// IngredientPatchRequest changes a catalog entry. Absent fields are kept.
type IngredientPatchRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Category    *string   `json:"category" validate:"omitempty,max=50"`
	Substitutes *[]string `json:"substitutes" validate:"omitempty,max=20"`
	StorageTip  *string   `json:"storage_tip" validate:"omitempty,max=500"`
}

// MergeRequest names the entry that survives a merge
type MergeRequest struct {
	TargetID uint `json:"target_id" validate:"required,gt=0"`
}

// ListIngredients handles GET /api/v1/ingredients
func (h *CatalogHandlers) ListIngredients(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalog.ListIngredients(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, entries)
}

// CreateIngredient handles POST /api/v1/ingredients
func (h *CatalogHandlers) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req IngredientRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.catalog.CreateIngredient(r.Context(), inbound.CreateIngredientCommand{
		Name:        req.Name,
		Category:    req.Category,
		Substitutes: req.Substitutes,
		StorageTip:  req.StorageTip,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, entry)
}

// GetIngredient handles GET /api/v1/ingredients/{id}
func (h *CatalogHandlers) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	entry, err := h.catalog.GetIngredient(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, entry)
}

// UpdateIngredient handles PATCH /api/v1/ingredients/{id}
func (h *CatalogHandlers) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req IngredientPatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.catalog.UpdateIngredient(r.Context(), inbound.UpdateIngredientCommand{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Substitutes: req.Substitutes,
		StorageTip:  req.StorageTip,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, entry)
}

// DeleteIngredient handles DELETE /api/v1/ingredients/{id}
func (h *CatalogHandlers) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.catalog.DeleteIngredient(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MergeIngredient handles POST /api/v1/ingredients/{id}/merge. The entry
// in the path is folded into target_id and removed.
func (h *CatalogHandlers) MergeIngredient(w http.ResponseWriter, r *http.Request) {
	sourceID, err := uintParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req MergeRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := h.catalog.MergeIngredients(r.Context(), sourceID, req.TargetID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, entry)
}

// FindDuplicates handles GET /api/v1/ingredients/duplicates?threshold=
func (h *CatalogHandlers) FindDuplicates(w http.ResponseWriter, r *http.Request) {
	threshold, err := floatQueryOr(r.URL.Query(), "threshold", 0)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if threshold < 0 || threshold > 1 {
		h.fail(w, r, errors.NewBadRequestError("threshold must be between 0 and 1"))
		return
	}

	pairs, err := h.catalog.FindDuplicates(r.Context(), threshold)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, pairs)
}

// SuggestIngredients handles GET /api/v1/ingredients/suggest?name=&top=
func (h *CatalogHandlers) SuggestIngredients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		h.fail(w, r, errors.NewBadRequestError("name is required"))
		return
	}
	top, err := intQueryOr(q, "top", defaultSuggestions)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	candidates, err := h.catalog.SuggestIngredients(r.Context(), name, top)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, candidates)
}
