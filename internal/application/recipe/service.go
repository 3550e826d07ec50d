// Package recipe provides the application layer for recipe management
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/application/matching"
	"github.com/alchemorsel/recipebox/internal/application/parsing"
	"github.com/alchemorsel/recipebox/internal/application/search"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

// Service implements the recipe use cases
type Service struct {
	recipes     outbound.RecipeRepository
	ingredients outbound.IngredientRepository
	cache       *matching.CatalogCache
	settings    *matching.Settings
	matcher     *matching.Matcher
	parser      *parsing.FieldParser
	aiParser    *parsing.AIParser
	engine      *search.Engine
	observer    parsing.Observer
	logger      *zap.Logger
}

// NewService creates a new recipe service. aiParser may be nil, in which case
// every parse uses the rule-based parser.
func NewService(
	recipes outbound.RecipeRepository,
	ingredients outbound.IngredientRepository,
	cache *matching.CatalogCache,
	settings *matching.Settings,
	aiParser *parsing.AIParser,
	observer parsing.Observer,
	logger *zap.Logger,
) *Service {
	if observer == nil {
		observer = parsing.NopObserver()
	}
	return &Service{
		recipes:     recipes,
		ingredients: ingredients,
		cache:       cache,
		settings:    settings,
		matcher:     matching.NewMatcher(),
		parser:      parsing.NewFieldParser(nil),
		aiParser:    aiParser,
		engine:      search.NewEngine(),
		observer:    observer,
		logger:      logger.Named("recipe-service"),
	}
}

// ParseText parses raw recipe text. Parsing is best-effort; the only failure
// is empty input.
func (s *Service) ParseText(ctx context.Context, cmd inbound.ParseTextCommand) (*inbound.ParseResult, error) {
	if strings.TrimSpace(cmd.Text) == "" {
		return nil, errors.NewValidationError("recipe text is required")
	}

	var parsed recipe.ParsedRecipe
	if cmd.UseAI && s.aiParser != nil {
		parsed = s.aiParser.Parse(ctx, cmd.Text)
	} else {
		parsed = s.parser.Extract(cmd.Text)
		s.observer.ObserveParse("rule", "ok")
	}

	analysis := parsing.AnalyzeIngredients(parsed.Ingredients)

	s.logger.Debug("Parsed recipe text",
		zap.String("source", string(parsed.Source)),
		zap.Int("ingredients", len(parsed.Ingredients)),
		zap.Int("issues", len(parsed.Issues)),
	)

	return &inbound.ParseResult{
		Recipe:        parsed,
		ContainsMeat:  analysis.ContainsMeat,
		ContainsDairy: analysis.ContainsDairy,
	}, nil
}

// SaveDraft validates a reviewed draft and stores it as a recipe. An invalid
// draft is not an error: the result carries the field errors and no recipe.
func (s *Service) SaveDraft(ctx context.Context, authorID uuid.UUID, draft inbound.Draft) (*inbound.SaveResult, error) {
	validation := s.ValidateDraft(draft)
	if !validation.Valid {
		return &inbound.SaveResult{Validation: validation}, nil
	}

	entity, err := s.buildRecipe(ctx, authorID, draft)
	if err != nil {
		return nil, err
	}

	if err := s.recipes.Save(ctx, entity); err != nil {
		s.logger.Error("Failed to save recipe", zap.Error(err))
		return nil, errors.NewDatabaseError("save recipe", err)
	}

	s.logger.Info("Recipe saved",
		zap.String("recipe_id", entity.ID.String()),
		zap.String("author_id", authorID.String()),
		zap.String("source", string(entity.Source)),
	)
	return &inbound.SaveResult{Recipe: ToRecipeDTO(entity), Validation: validation}, nil
}

// CreateRecipe stores a recipe entered as structured fields
func (s *Service) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.SaveResult, error) {
	draft := draftFromFields(cmd.RecipeFields, recipe.SourceManual)
	if err := s.assignUnlinked(ctx, &draft); err != nil {
		return nil, err
	}
	return s.SaveDraft(ctx, cmd.AuthorID, draft)
}

// UpdateRecipe replaces the editable fields of a recipe owned by the user
func (s *Service) UpdateRecipe(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*inbound.SaveResult, error) {
	existing, err := s.find(ctx, cmd.RecipeID)
	if err != nil {
		return nil, err
	}
	if !existing.IsOwnedBy(cmd.UserID) {
		return nil, errors.NewForbiddenError("update this recipe")
	}

	draft := draftFromFields(cmd.RecipeFields, existing.Source)
	if err := s.assignUnlinked(ctx, &draft); err != nil {
		return nil, err
	}
	validation := s.ValidateDraft(draft)
	if !validation.Valid {
		return &inbound.SaveResult{Validation: validation}, nil
	}

	updated, err := s.buildRecipe(ctx, existing.AuthorID, draft)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.Rating = existing.Rating
	updated.RatingCount = existing.RatingCount

	if err := s.recipes.Save(ctx, updated); err != nil {
		return nil, errors.NewDatabaseError("update recipe", err)
	}

	s.logger.Info("Recipe updated", zap.String("recipe_id", updated.ID.String()))
	return &inbound.SaveResult{Recipe: ToRecipeDTO(updated), Validation: validation}, nil
}

// DeleteRecipe removes a recipe owned by the user
func (s *Service) DeleteRecipe(ctx context.Context, recipeID, userID uuid.UUID) error {
	existing, err := s.find(ctx, recipeID)
	if err != nil {
		return err
	}
	if !existing.IsOwnedBy(userID) {
		return errors.NewForbiddenError("delete this recipe")
	}

	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		return errors.NewDatabaseError("delete recipe", err)
	}

	s.logger.Info("Recipe deleted", zap.String("recipe_id", recipeID.String()))
	return nil
}

// RateRecipe folds a 1-5 rating into the recipe's average
func (s *Service) RateRecipe(ctx context.Context, cmd inbound.RateRecipeCommand) (*inbound.RecipeDTO, error) {
	if err := recipe.ValidateRating(cmd.Rating); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	entity, err := s.recipes.AddRating(ctx, cmd.RecipeID, cmd.Rating)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(cmd.RecipeID.String())
		}
		return nil, errors.NewDatabaseError("rate recipe", err)
	}
	return ToRecipeDTO(entity), nil
}

// GetRecipe returns one recipe
func (s *Service) GetRecipe(ctx context.Context, id uuid.UUID) (*inbound.RecipeDTO, error) {
	entity, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToRecipeDTO(entity), nil
}

// ListRecipes pages through all recipes, or one author's recipes
func (s *Service) ListRecipes(ctx context.Context, query inbound.ListQuery) (*inbound.RecipeList, error) {
	page := query.Pagination.Normalize()

	var (
		items []*recipe.Recipe
		total int64
		err   error
	)
	if query.AuthorID != nil {
		items, total, err = s.recipes.ListByAuthor(ctx, *query.AuthorID, page.Offset(), page.PageSize)
		if err != nil {
			return nil, errors.NewDatabaseError("list recipes", err)
		}
	} else {
		all, listErr := s.recipes.List(ctx)
		if listErr != nil {
			return nil, errors.NewDatabaseError("list recipes", listErr)
		}
		total = int64(len(all))
		items = pageOf(all, page.Offset(), page.PageSize)
	}

	dtos := make([]inbound.RecipeDTO, 0, len(items))
	for _, r := range items {
		dtos = append(dtos, *ToRecipeDTO(r))
	}
	return &inbound.RecipeList{
		Recipes:  dtos,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

// SearchRecipes filters, scores and sorts the stored recipes
func (s *Service) SearchRecipes(ctx context.Context, query inbound.SearchQuery) (*inbound.SearchResultList, error) {
	page := query.Pagination.Normalize()

	all, err := s.recipes.List(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("search recipes", err)
	}

	results := s.engine.Search(all, toFilters(query), search.ParseSortOrder(query.Sort))
	paged := pageOf(results, page.Offset(), page.PageSize)

	hits := make([]inbound.SearchHit, 0, len(paged))
	for _, res := range paged {
		hits = append(hits, inbound.SearchHit{
			Recipe:       *ToRecipeDTO(res.Recipe),
			Score:        res.Score,
			MatchedTerms: res.MatchedTerms,
		})
	}

	s.logger.Debug("Recipe search",
		zap.String("query", query.Text),
		zap.Int("results", len(results)),
	)
	return &inbound.SearchResultList{
		Results:  hits,
		Total:    len(results),
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

func (s *Service) buildRecipe(ctx context.Context, authorID uuid.UUID, draft inbound.Draft) (*recipe.Recipe, error) {
	entity, err := recipe.NewRecipe(authorID, draft.Title, draft.Instructions)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	entity.Description = strings.TrimSpace(draft.Description)
	if err := entity.SetTimes(draft.PrepMinutes, draft.CookMinutes); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := entity.SetServings(draft.Servings); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	entity.Difficulty = recipe.NormalizeDifficulty(string(draft.Difficulty))
	entity.Cuisine = draft.Cuisine
	entity.MealCategory = draft.MealCategory
	entity.SetDietaryTags(draft.DietaryTags)
	if draft.Source != "" {
		entity.Source = draft.Source
	}

	lines, created, err := s.resolveIngredients(ctx, draft.Ingredients)
	if created {
		s.cache.Invalidate(ctx)
	}
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := entity.AddIngredient(line); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	return entity, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	entity, err := s.recipes.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, recipe.ErrRecipeNotFound) {
			return nil, errors.NewRecipeNotFoundError(id.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}
	return entity, nil
}

func toFilters(q inbound.SearchQuery) search.Filters {
	return search.Filters{
		Query:               q.Text,
		Prep:                toRange(q.Prep),
		Cook:                toRange(q.Cook),
		Total:               toRange(q.Total),
		Servings:            toRange(q.Servings),
		Cuisines:            q.Cuisines,
		Categories:          q.Categories,
		DietaryTags:         q.DietaryTags,
		InclusiveDietary:    q.InclusiveDietary,
		RequiredIngredients: q.RequiredIngredients,
		OptionalIngredients: q.OptionalIngredients,
		ExcludedIngredients: q.ExcludedIngredients,
	}
}

func toRange(r inbound.RangeQuery) search.IntRange {
	return search.IntRange{Min: r.Min, Max: r.Max}
}

func pageOf[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
