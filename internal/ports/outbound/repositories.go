// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/recipebox/internal/domain/collection"
	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/domain/pantry"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/user"
	"github.com/google/uuid"
)

// ErrCacheMiss is returned by CacheRepository.Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// RecipeRepository defines the interface for recipe persistence.
// Save writes the recipe and its ingredient rows in one transaction.
type RecipeRepository interface {
	Save(ctx context.Context, r *recipe.Recipe) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error)
	List(ctx context.Context) ([]*recipe.Recipe, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// AddRating folds one rating into the stored average atomically and
	// returns the updated recipe
	AddRating(ctx context.Context, id uuid.UUID, value int) (*recipe.Recipe, error)
}

// IngredientRepository is the catalog provider.
// Create returns ingredient.ErrDuplicateIngredient when the name is taken.
type IngredientRepository interface {
	Create(ctx context.Context, entry *ingredient.Entry) error
	Update(ctx context.Context, entry *ingredient.Entry) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*ingredient.Entry, error)
	FindByName(ctx context.Context, name string) (*ingredient.Entry, error)
	List(ctx context.Context) ([]ingredient.Entry, error)

	// CountReferences counts recipe and pantry rows pointing at the entry
	CountReferences(ctx context.Context, id uint) (int64, error)
	// Merge repoints every reference from source to target and deletes source
	Merge(ctx context.Context, sourceID, targetID uint) error
}

// CollectionRepository defines the interface for collection persistence
type CollectionRepository interface {
	Save(ctx context.Context, c *collection.Collection) error
	FindByID(ctx context.Context, id uuid.UUID) (*collection.Collection, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*collection.Collection, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PantryRepository defines the interface for pantry persistence
type PantryRepository interface {
	Save(ctx context.Context, item *pantry.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*pantry.Item, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*pantry.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Update(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// TextCompleter is an external text-generation service
type TextCompleter interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// TokenPair is an access and refresh token issued together
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// TokenIssuer issues and checks authentication tokens
type TokenIssuer interface {
	IssueTokens(userID uuid.UUID, email string) (*TokenPair, error)
	ParseRefreshToken(token string) (uuid.UUID, error)
}
