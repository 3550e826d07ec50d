// Package pantry provides the application layer for pantry tracking
package pantry

import (
	"context"
	stderrors "errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/application/matching"
	recipeapp "github.com/alchemorsel/recipebox/internal/application/recipe"
	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/domain/pantry"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

// Service implements the pantry use cases
type Service struct {
	items       outbound.PantryRepository
	recipes     outbound.RecipeRepository
	ingredients outbound.IngredientRepository
	cache       *matching.CatalogCache
	settings    *matching.Settings
	matcher     *matching.Matcher
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new pantry service
func NewService(
	items outbound.PantryRepository,
	recipes outbound.RecipeRepository,
	ingredients outbound.IngredientRepository,
	cache *matching.CatalogCache,
	settings *matching.Settings,
	logger *zap.Logger,
) *Service {
	return &Service{
		items:       items,
		recipes:     recipes,
		ingredients: ingredients,
		cache:       cache,
		settings:    settings,
		matcher:     matching.NewMatcher(),
		logger:      logger.Named("pantry-service"),
		now:         time.Now,
	}
}

// AddItem stores an item, linking it to the catalog entry that matches its
// name or to a new entry
func (s *Service) AddItem(ctx context.Context, cmd inbound.AddPantryItemCommand) (*inbound.PantryItemDTO, error) {
	entry, err := s.resolveEntry(ctx, cmd.Name)
	if err != nil {
		return nil, err
	}

	item, err := pantry.NewItem(cmd.OwnerID, entry.ID, entry.Name, cmd.Quantity, cmd.Unit, cmd.ExpiresAt)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.items.Save(ctx, item); err != nil {
		s.logger.Error("Failed to save pantry item", zap.Error(err))
		return nil, errors.NewDatabaseError("save pantry item", err)
	}

	s.logger.Info("Pantry item added",
		zap.String("owner_id", cmd.OwnerID.String()),
		zap.String("name", item.Name),
	)
	return toDTO(item), nil
}

// UpdateItem changes quantity, unit or expiry of an owned item
func (s *Service) UpdateItem(ctx context.Context, cmd inbound.UpdatePantryItemCommand) (*inbound.PantryItemDTO, error) {
	item, err := s.owned(ctx, cmd.ItemID, cmd.OwnerID)
	if err != nil {
		return nil, err
	}

	if cmd.Quantity != nil {
		if *cmd.Quantity < 0 {
			return nil, errors.NewValidationError(pantry.ErrNegativeQuantity.Error())
		}
		item.Quantity = *cmd.Quantity
	}
	if cmd.Unit != nil {
		item.Unit = *cmd.Unit
	}
	switch {
	case cmd.ClearExpiry:
		item.ExpiresAt = nil
	case cmd.ExpiresAt != nil:
		item.ExpiresAt = cmd.ExpiresAt
	}
	item.UpdatedAt = s.now().UTC()

	if err := s.items.Save(ctx, item); err != nil {
		return nil, errors.NewDatabaseError("update pantry item", err)
	}
	return toDTO(item), nil
}

// RemoveItem deletes an owned item
func (s *Service) RemoveItem(ctx context.Context, itemID, ownerID uuid.UUID) error {
	if _, err := s.owned(ctx, itemID, ownerID); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		return errors.NewDatabaseError("delete pantry item", err)
	}
	return nil
}

// ListItems returns the owner's pantry
func (s *Service) ListItems(ctx context.Context, ownerID uuid.UUID) ([]inbound.PantryItemDTO, error) {
	items, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.NewDatabaseError("list pantry", err)
	}
	return toDTOs(items), nil
}

// ExpiringItems returns items expiring within the window, soonest first
func (s *Service) ExpiringItems(ctx context.Context, ownerID uuid.UUID, within time.Duration) ([]inbound.PantryItemDTO, error) {
	items, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.NewDatabaseError("list pantry", err)
	}

	now := s.now()
	expiring := make([]*pantry.Item, 0)
	for _, it := range items {
		if it.ExpiresWithin(now, within) {
			expiring = append(expiring, it)
		}
	}
	sort.SliceStable(expiring, func(i, j int) bool {
		return expiring[i].ExpiresAt.Before(*expiring[j].ExpiresAt)
	})
	return toDTOs(expiring), nil
}

// CookableRecipes ranks recipes by the share of their required ingredients
// the owner has on hand. Recipes with nothing on hand are left out.
func (s *Service) CookableRecipes(ctx context.Context, ownerID uuid.UUID) ([]inbound.CookableRecipeDTO, error) {
	items, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.NewDatabaseError("list pantry", err)
	}
	all, err := s.recipes.List(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list recipes", err)
	}

	byID := make(map[uint]struct{}, len(items))
	byName := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.IngredientID != 0 {
			byID[it.IngredientID] = struct{}{}
		}
		byName[ingredient.NormalizeName(it.Name)] = struct{}{}
	}

	out := make([]inbound.CookableRecipeDTO, 0)
	for _, r := range all {
		coverage, missing, ok := cover(r, byID, byName)
		if !ok || coverage == 0 {
			continue
		}
		out = append(out, inbound.CookableRecipeDTO{
			Recipe:   *recipeapp.ToRecipeDTO(r),
			Coverage: coverage,
			Missing:  missing,
			Complete: len(missing) == 0,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Coverage > out[j].Coverage
	})
	return out, nil
}

// cover returns the fraction of non-optional lines on hand and the names
// still missing. ok is false for recipes with no required lines.
func cover(r *recipe.Recipe, byID map[uint]struct{}, byName map[string]struct{}) (float64, []string, bool) {
	required, present := 0, 0
	missing := []string{}
	for _, ing := range r.Ingredients {
		if ing.Optional {
			continue
		}
		required++
		_, idHit := byID[ing.IngredientID]
		_, nameHit := byName[ingredient.NormalizeName(ing.Name)]
		if (ing.IngredientID != 0 && idHit) || nameHit {
			present++
			continue
		}
		missing = append(missing, ingredient.NormalizeName(ing.Name))
	}
	if required == 0 {
		return 0, nil, false
	}
	coverage := math.Round(float64(present)/float64(required)*1000) / 1000
	return coverage, missing, true
}

func (s *Service) resolveEntry(ctx context.Context, name string) (*ingredient.Entry, error) {
	entries, err := s.cache.Entries(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("load ingredient catalog", err)
	}
	matches := s.matcher.SuggestMatches(name, entries, 1, s.settings.Get().AutoAssign)
	if len(matches) > 0 {
		entry := matches[0].Entry
		return &entry, nil
	}

	entry, err := ingredient.NewEntry(name, "", nil, "")
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	err = s.ingredients.Create(ctx, entry)
	switch {
	case err == nil:
		s.cache.Invalidate(ctx)
		return entry, nil
	case stderrors.Is(err, ingredient.ErrDuplicateIngredient):
		existing, findErr := s.ingredients.FindByName(ctx, entry.Name)
		if findErr != nil {
			return nil, errors.NewDatabaseError("find ingredient", findErr)
		}
		return existing, nil
	default:
		return nil, errors.NewDatabaseError("create ingredient", err)
	}
}

func (s *Service) owned(ctx context.Context, itemID, ownerID uuid.UUID) (*pantry.Item, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if stderrors.Is(err, pantry.ErrItemNotFound) {
			return nil, errors.NewNotFoundError("pantry item")
		}
		return nil, errors.NewDatabaseError("find pantry item", err)
	}
	if item.OwnerID != ownerID {
		return nil, errors.NewForbiddenError("change this pantry item")
	}
	return item, nil
}

func toDTO(it *pantry.Item) *inbound.PantryItemDTO {
	return &inbound.PantryItemDTO{
		ID:           it.ID,
		IngredientID: it.IngredientID,
		Name:         it.Name,
		Quantity:     it.Quantity,
		Unit:         it.Unit,
		ExpiresAt:    it.ExpiresAt,
	}
}

func toDTOs(items []*pantry.Item) []inbound.PantryItemDTO {
	out := make([]inbound.PantryItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, *toDTO(it))
	}
	return out
}
