package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/http/response"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

const defaultExpiringDays = 3

// PantryHandlers handles the caller's pantry
type PantryHandlers struct {
	base
	pantry inbound.PantryService
}

// NewPantryHandlers creates pantry handlers
func NewPantryHandlers(pantry inbound.PantryService, logger *zap.Logger) *PantryHandlers {
	return &PantryHandlers{
		base:   base{logger: logger.Named("pantry-handlers")},
		pantry: pantry,
	}
}

// PantryItemRequest adds an item by ingredient name
type PantryItemRequest struct {
	Name      string     `json:"name" validate:"required,max=200"`
	Quantity  float64    `json:"quantity" validate:"gte=0"`
	Unit      string     `json:"unit" validate:"max=30"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// PantryPatchRequest changes an item. clear_expiry removes the expiry date.
type PantryPatchRequest struct {
	Quantity    *float64   `json:"quantity" validate:"omitempty,gte=0"`
	Unit        *string    `json:"unit" validate:"omitempty,max=30"`
	ExpiresAt   *time.Time `json:"expires_at"`
	ClearExpiry bool       `json:"clear_expiry"`
}

// ListItems handles GET /api/v1/pantry
func (h *PantryHandlers) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items, err := h.pantry.ListItems(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, items)
}

// AddItem handles POST /api/v1/pantry
func (h *PantryHandlers) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req PantryItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.pantry.AddItem(r.Context(), inbound.AddPantryItemCommand{
		OwnerID:   userID,
		Name:      req.Name,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, item)
}

// UpdateItem handles PATCH /api/v1/pantry/{id}
func (h *PantryHandlers) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	itemID, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req PantryPatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	item, err := h.pantry.UpdateItem(r.Context(), inbound.UpdatePantryItemCommand{
		ItemID:      itemID,
		OwnerID:     userID,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		ExpiresAt:   req.ExpiresAt,
		ClearExpiry: req.ClearExpiry,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, item)
}

// RemoveItem handles DELETE /api/v1/pantry/{id}
func (h *PantryHandlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	itemID, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.pantry.RemoveItem(r.Context(), itemID, userID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExpiringItems handles GET /api/v1/pantry/expiring?days=
func (h *PantryHandlers) ExpiringItems(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	days, err := intQueryOr(r.URL.Query(), "days", defaultExpiringDays)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if days < 0 {
		h.fail(w, r, errors.NewBadRequestError("days must not be negative"))
		return
	}

	items, err := h.pantry.ExpiringItems(r.Context(), userID, time.Duration(days)*24*time.Hour)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, items)
}

// CookableRecipes handles GET /api/v1/pantry/cookable
func (h *PantryHandlers) CookableRecipes(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	recipes, err := h.pantry.CookableRecipes(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, recipes)
}
