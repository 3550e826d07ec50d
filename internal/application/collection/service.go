// Package collection provides the application layer for recipe collections
package collection

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/application/matching"
	"github.com/alchemorsel/recipebox/internal/domain/collection"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

// Service implements the collection use cases
type Service struct {
	collections outbound.CollectionRepository
	recipes     outbound.RecipeRepository
	pantry      outbound.PantryRepository
	catalog     *matching.CatalogCache
	logger      *zap.Logger
}

// NewService creates a new collection service
func NewService(
	collections outbound.CollectionRepository,
	recipes outbound.RecipeRepository,
	pantry outbound.PantryRepository,
	catalog *matching.CatalogCache,
	logger *zap.Logger,
) *Service {
	return &Service{
		collections: collections,
		recipes:     recipes,
		pantry:      pantry,
		catalog:     catalog,
		logger:      logger.Named("collection-service"),
	}
}

// CreateCollection creates an empty collection
func (s *Service) CreateCollection(ctx context.Context, cmd inbound.CreateCollectionCommand) (*inbound.CollectionDTO, error) {
	c, err := collection.NewCollection(cmd.OwnerID, cmd.Name, cmd.Description)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.collections.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save collection", zap.Error(err))
		return nil, errors.NewDatabaseError("save collection", err)
	}

	s.logger.Info("Collection created",
		zap.String("collection_id", c.ID.String()),
		zap.String("owner_id", c.OwnerID.String()),
	)
	return toDTO(c), nil
}

// DeleteCollection removes a collection. Member recipes are untouched.
func (s *Service) DeleteCollection(ctx context.Context, collectionID, ownerID uuid.UUID) error {
	if _, err := s.owned(ctx, collectionID, ownerID); err != nil {
		return err
	}
	if err := s.collections.Delete(ctx, collectionID); err != nil {
		return errors.NewDatabaseError("delete collection", err)
	}
	return nil
}

// AddRecipe appends an existing recipe to the collection
func (s *Service) AddRecipe(ctx context.Context, collectionID, ownerID, recipeID uuid.UUID) (*inbound.CollectionDTO, error) {
	c, err := s.owned(ctx, collectionID, ownerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.recipes.FindByID(ctx, recipeID); err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(recipeID.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}
	if err := c.AddRecipe(recipeID); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}
	if err := s.collections.Save(ctx, c); err != nil {
		return nil, errors.NewDatabaseError("save collection", err)
	}
	return toDTO(c), nil
}

// RemoveRecipe drops a recipe from the collection
func (s *Service) RemoveRecipe(ctx context.Context, collectionID, ownerID, recipeID uuid.UUID) (*inbound.CollectionDTO, error) {
	c, err := s.owned(ctx, collectionID, ownerID)
	if err != nil {
		return nil, err
	}
	if !c.RemoveRecipe(recipeID) {
		return nil, errors.NewRecipeNotFoundError(recipeID.String())
	}
	if err := s.collections.Save(ctx, c); err != nil {
		return nil, errors.NewDatabaseError("save collection", err)
	}
	return toDTO(c), nil
}

// GetCollection returns one collection of the owner
func (s *Service) GetCollection(ctx context.Context, collectionID, ownerID uuid.UUID) (*inbound.CollectionDTO, error) {
	c, err := s.owned(ctx, collectionID, ownerID)
	if err != nil {
		return nil, err
	}
	return toDTO(c), nil
}

// ListCollections returns the owner's collections
func (s *Service) ListCollections(ctx context.Context, ownerID uuid.UUID) ([]inbound.CollectionDTO, error) {
	list, err := s.collections.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.NewDatabaseError("list collections", err)
	}
	out := make([]inbound.CollectionDTO, 0, len(list))
	for _, c := range list {
		out = append(out, *toDTO(c))
	}
	return out, nil
}

// ShoppingList consolidates the ingredients of every recipe in the
// collection, optionally minus what the owner has in the pantry
func (s *Service) ShoppingList(ctx context.Context, query inbound.ShoppingListQuery) (*inbound.ShoppingListDTO, error) {
	c, err := s.owned(ctx, query.CollectionID, query.OwnerID)
	if err != nil {
		return nil, err
	}

	found, err := s.recipes.FindByIDs(ctx, c.RecipeIDs)
	if err != nil {
		return nil, errors.NewDatabaseError("load collection recipes", err)
	}
	// FindByIDs does not promise order
	byID := make(map[uuid.UUID]*recipe.Recipe, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	ordered := make([]*recipe.Recipe, 0, len(c.RecipeIDs))
	for _, id := range c.RecipeIDs {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}

	categories, err := s.categories(ctx)
	if err != nil {
		return nil, err
	}
	items := BuildShoppingList(ordered, categories)

	if query.ExcludePantry {
		stock, err := s.pantry.ListByOwner(ctx, query.OwnerID)
		if err != nil {
			return nil, errors.NewDatabaseError("list pantry", err)
		}
		items = SubtractPantry(items, stock)
	}

	s.logger.Debug("Shopping list built",
		zap.String("collection_id", c.ID.String()),
		zap.Int("recipes", len(ordered)),
		zap.Int("items", len(items)),
	)
	return &inbound.ShoppingListDTO{CollectionID: c.ID, Items: items}, nil
}

func (s *Service) categories(ctx context.Context) (map[uint]string, error) {
	entries, err := s.catalog.Entries(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("load ingredient catalog", err)
	}
	out := make(map[uint]string, len(entries))
	for _, e := range entries {
		out[e.ID] = e.Category
	}
	return out, nil
}

func (s *Service) owned(ctx context.Context, collectionID, ownerID uuid.UUID) (*collection.Collection, error) {
	c, err := s.collections.FindByID(ctx, collectionID)
	if err != nil {
		if stderrors.Is(err, collection.ErrCollectionNotFound) {
			return nil, errors.NewCollectionNotFoundError(collectionID.String())
		}
		return nil, errors.NewDatabaseError("find collection", err)
	}
	if c.OwnerID != ownerID {
		return nil, errors.NewForbiddenError("change this collection")
	}
	return c, nil
}

func toDTO(c *collection.Collection) *inbound.CollectionDTO {
	ids := append([]uuid.UUID{}, c.RecipeIDs...)
	return &inbound.CollectionDTO{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Description: c.Description,
		RecipeIDs:   ids,
		CreatedAt:   c.CreatedAt,
	}
}
