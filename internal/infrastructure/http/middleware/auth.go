package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/http/response"
	"github.com/alchemorsel/recipebox/internal/infrastructure/security"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

// TokenValidator verifies bearer access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*security.Claims, error)
}

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	userEmailKey contextKey = "user_email"
)

// Authenticate rejects requests without a valid bearer access token and
// puts the caller's ID and email into the request context
func Authenticate(tokens TokenValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.Error(w, r, logger, errors.NewUnauthorizedError("Authorization header required"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				response.Error(w, r, logger, errors.NewUnauthorizedError("Invalid authorization header format"))
				return
			}

			claims, err := tokens.ValidateAccessToken(parts[1])
			if err != nil {
				response.Error(w, r, logger, errors.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				response.Error(w, r, logger, errors.NewUnauthorizedError("Invalid token subject"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID, claims.Email)))
		})
	}
}

// WithUser returns a context carrying the authenticated user
func WithUser(ctx context.Context, userID uuid.UUID, email string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userEmailKey, email)
}

// UserIDFromContext extracts the authenticated user ID
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// UserEmailFromContext extracts the authenticated user's email
func UserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailKey).(string)
	return email, ok
}
