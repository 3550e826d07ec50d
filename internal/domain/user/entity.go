// Package user defines the user domain entity
package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrNameRequired    = errors.New("name is required")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("user with this email already exists")
	ErrWrongPassword   = errors.New("password does not match")
)

// User represents an account holder. Fields are only reachable through
// accessors so the password hash never leaks into DTOs by accident.
type User struct {
	id                 uuid.UUID
	email              string
	name               string
	passwordHash       string
	dietaryPreferences []string
	createdAt          time.Time
	updatedAt          time.Time
	lastLoginAt        *time.Time
}

// NewUser creates a new user, hashing the password with the given bcrypt cost
func NewUser(email, name, password string, cost int) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooWeak
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		id:                 uuid.New(),
		email:              email,
		name:               name,
		passwordHash:       string(hash),
		dietaryPreferences: []string{},
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// Reconstruct rebuilds a user from persisted state
func Reconstruct(id uuid.UUID, email, name, passwordHash string, prefs []string, createdAt, updatedAt time.Time, lastLoginAt *time.Time) *User {
	return &User{
		id:                 id,
		email:              email,
		name:               name,
		passwordHash:       passwordHash,
		dietaryPreferences: prefs,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
		lastLoginAt:        lastLoginAt,
	}
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.lastLoginAt = &now
	u.updatedAt = now
}

// UpdateProfile changes the display name and dietary preferences
func (u *User) UpdateProfile(name string, prefs []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	u.name = name
	u.dietaryPreferences = prefs
	u.updatedAt = time.Now().UTC()
	return nil
}

func (u *User) ID() uuid.UUID                { return u.id }
func (u *User) Email() string                { return u.email }
func (u *User) Name() string                 { return u.name }
func (u *User) PasswordHash() string         { return u.passwordHash }
func (u *User) DietaryPreferences() []string { return u.dietaryPreferences }
func (u *User) CreatedAt() time.Time         { return u.createdAt }
func (u *User) UpdatedAt() time.Time         { return u.updatedAt }
func (u *User) LastLoginAt() *time.Time      { return u.lastLoginAt }
