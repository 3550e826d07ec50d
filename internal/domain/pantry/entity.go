// Package pantry defines items a user has on hand
package pantry

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound     = errors.New("pantry item not found")
	ErrNegativeQuantity = errors.New("pantry quantity cannot be negative")
	ErrNameRequired     = errors.New("pantry item name is required")
)

// Item is an ingredient in a user's pantry
type Item struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	IngredientID uint
	Name         string
	Quantity     float64
	Unit         string
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewItem creates a pantry item
func NewItem(ownerID uuid.UUID, ingredientID uint, name string, quantity float64, unit string, expiresAt *time.Time) (*Item, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrNameRequired
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	now := time.Now().UTC()
	return &Item{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		IngredientID: ingredientID,
		Name:         name,
		Quantity:     quantity,
		Unit:         strings.TrimSpace(unit),
		ExpiresAt:    expiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ExpiresWithin reports whether the item expires before now+d
func (i *Item) ExpiresWithin(now time.Time, d time.Duration) bool {
	return i.ExpiresAt != nil && !i.ExpiresAt.After(now.Add(d))
}
