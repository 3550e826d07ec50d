package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserService manages accounts and authentication
type UserService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*UserDTO, error)
	Login(ctx context.Context, cmd LoginCommand) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (*UserDTO, error)
}

// RegisterCommand contains user registration data
type RegisterCommand struct {
	Email    string
	Name     string
	Password string
}

// LoginCommand contains user login data
type LoginCommand struct {
	Email    string
	Password string
}

// UpdateProfileCommand replaces the user's name and dietary preferences
type UpdateProfileCommand struct {
	UserID             uuid.UUID
	Name               string
	DietaryPreferences []string
}

// UserDTO represents user data transfer object
type UserDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	DietaryPreferences []string   `json:"dietary_preferences"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
}

// AuthResponse contains authentication response data
type AuthResponse struct {
	User         UserDTO   `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}
