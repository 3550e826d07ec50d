// Package security provides token based authentication
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
)

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const audience = "recipebox-api"

var (
	// ErrInvalidToken is returned for tokens that fail signature, expiry or claim checks
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenType is returned when a refresh token is used as an access token or vice versa
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims represents JWT claims structure
type Claims struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens
type TokenService struct {
	secret            []byte
	issuer            string
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	logger            *zap.Logger
	now               func() time.Time
}

var _ outbound.TokenIssuer = (*TokenService)(nil)

// NewTokenService creates a token service from the auth configuration
func NewTokenService(cfg config.AuthConfig, logger *zap.Logger) *TokenService {
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "recipebox"
	}
	return &TokenService{
		secret:            []byte(cfg.JWTSecret),
		issuer:            issuer,
		accessExpiration:  cfg.JWTExpiration,
		refreshExpiration: cfg.RefreshExpiration,
		logger:            logger.Named("token-service"),
		now:               time.Now,
	}
}

// IssueTokens creates an access and refresh token pair for the user
func (s *TokenService) IssueTokens(userID uuid.UUID, email string) (*outbound.TokenPair, error) {
	now := s.now()
	access, err := s.sign(userID, email, AccessToken, now, s.accessExpiration)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, "", RefreshToken, now, s.refreshExpiration)
	if err != nil {
		return nil, err
	}
	return &outbound.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.accessExpiration),
	}, nil
}

// ParseRefreshToken returns the user a valid refresh token was issued to
func (s *TokenService) ParseRefreshToken(token string) (uuid.UUID, error) {
	claims, err := s.ValidateToken(token, RefreshToken)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.UserID)
}

// ValidateAccessToken parses an access token presented on a request
func (s *TokenService) ValidateAccessToken(token string) (*Claims, error) {
	return s.ValidateToken(token, AccessToken)
}

// ValidateToken validates and parses a JWT token
func (s *TokenService) ValidateToken(tokenString string, expectedType TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.Debug("Token rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenType
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}

func (s *TokenService) sign(userID uuid.UUID, email string, kind TokenType, now time.Time, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:    userID.String(),
		Email:     email,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID.String(),
			Audience:  []string{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}
