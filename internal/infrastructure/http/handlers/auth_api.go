package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/http/response"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
)

// AuthHandlers handles account and token requests
type AuthHandlers struct {
	base
	users inbound.UserService
}

// NewAuthHandlers creates authentication handlers
func NewAuthHandlers(users inbound.UserService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		base:  base{logger: logger.Named("auth-handlers")},
		users: users,
	}
}

// RegisterRequest represents user registration request
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ProfileRequest replaces the editable profile fields
type ProfileRequest struct {
	Name               string   `json:"name" validate:"required,min=2,max=100"`
	DietaryPreferences []string `json:"dietary_preferences" validate:"max=20,dive,max=50"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	dto, err := h.users.Register(r.Context(), inbound.RegisterCommand{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, dto)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	auth, err := h.users.Login(r.Context(), inbound.LoginCommand{Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, auth)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.decode(w, r, &req) {
		return
	}

	auth, err := h.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, auth)
}

// GetProfile handles GET /api/v1/auth/profile
func (h *AuthHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	dto, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, dto)
}

// UpdateProfile handles PUT /api/v1/auth/profile
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req ProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	dto, err := h.users.UpdateProfile(r.Context(), inbound.UpdateProfileCommand{
		UserID:             userID,
		Name:               req.Name,
		DietaryPreferences: req.DietaryPreferences,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, dto)
}
