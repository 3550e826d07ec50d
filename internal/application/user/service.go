// Package user provides the application layer for user management
package user

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/user"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

const tokenTypeBearer = "Bearer"

// Service implements user management use cases
type Service struct {
	users      outbound.UserRepository
	tokens     outbound.TokenIssuer
	bcryptCost int
	logger     *zap.Logger
}

// NewService creates a new user service. bcryptCost 0 uses the bcrypt default.
func NewService(
	users outbound.UserRepository,
	tokens outbound.TokenIssuer,
	bcryptCost int,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger.Named("user-service"),
	}
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, cmd inbound.RegisterCommand) (*inbound.UserDTO, error) {
	s.logger.Info("Registering new user", zap.String("email", cmd.Email))

	u, err := user.NewUser(cmd.Email, cmd.Name, cmd.Password, s.bcryptCost)
	if err != nil {
		switch {
		case stderrors.Is(err, user.ErrInvalidEmail),
			stderrors.Is(err, user.ErrNameRequired),
			stderrors.Is(err, user.ErrPasswordTooWeak):
			return nil, errors.NewValidationError(err.Error())
		default:
			return nil, errors.NewInternalError("failed to hash password")
		}
	}

	if err := s.users.Create(ctx, u); err != nil {
		if stderrors.Is(err, user.ErrEmailTaken) {
			return nil, errors.NewEmailAlreadyExistsError(u.Email())
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, errors.NewDatabaseError("create user", err)
	}

	s.logger.Info("User registered successfully",
		zap.String("user_id", u.ID().String()),
		zap.String("email", u.Email()),
	)
	return toDTO(u), nil
}

// Login checks credentials and issues a token pair
func (s *Service) Login(ctx context.Context, cmd inbound.LoginCommand) (*inbound.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewInvalidCredentialsError()
		}
		return nil, errors.NewDatabaseError("find user", err)
	}
	if err := u.CheckPassword(cmd.Password); err != nil {
		s.logger.Warn("Failed login attempt", zap.String("user_id", u.ID().String()))
		return nil, errors.NewInvalidCredentialsError()
	}

	u.RecordLogin()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, errors.NewDatabaseError("record login", err)
	}

	return s.issue(u)
}

// Refresh exchanges a refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*inbound.AuthResponse, error) {
	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.NewUnauthorizedError("invalid refresh token")
	}
	u, err := s.find(ctx, userID)
	if err != nil {
		if errors.Is(err, errors.CodeUserNotFound) {
			return nil, errors.NewUnauthorizedError("invalid refresh token")
		}
		return nil, err
	}
	return s.issue(u)
}

// Profile returns the user's profile
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*inbound.UserDTO, error) {
	u, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTO(u), nil
}

// UpdateProfile replaces the name and dietary preferences
func (s *Service) UpdateProfile(ctx context.Context, cmd inbound.UpdateProfileCommand) (*inbound.UserDTO, error) {
	u, err := s.find(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := u.UpdateProfile(cmd.Name, recipe.NormalizeTags(cmd.DietaryPreferences)); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, errors.NewDatabaseError("update user", err)
	}
	return toDTO(u), nil
}

func (s *Service) issue(u *user.User) (*inbound.AuthResponse, error) {
	pair, err := s.tokens.IssueTokens(u.ID(), u.Email())
	if err != nil {
		s.logger.Error("Failed to issue tokens", zap.Error(err))
		return nil, errors.NewInternalError("failed to issue tokens")
	}
	return &inbound.AuthResponse{
		User:         *toDTO(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    tokenTypeBearer,
		ExpiresAt:    pair.ExpiresAt,
	}, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, user.ErrUserNotFound) {
			return nil, errors.NewUserNotFoundError(id.String())
		}
		return nil, errors.NewDatabaseError("find user", err)
	}
	return u, nil
}

func toDTO(u *user.User) *inbound.UserDTO {
	prefs := u.DietaryPreferences()
	if prefs == nil {
		prefs = []string{}
	}
	return &inbound.UserDTO{
		ID:                 u.ID(),
		Email:              u.Email(),
		Name:               u.Name(),
		DietaryPreferences: prefs,
		CreatedAt:          u.CreatedAt(),
		LastLoginAt:        u.LastLoginAt(),
	}
}
