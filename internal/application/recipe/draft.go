package recipe

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/application/catalog"
	"github.com/alchemorsel/recipebox/internal/application/matching"
	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

// draftCandidates is how many catalog suggestions each draft line carries
const draftCandidates = 3

const maxTitleLength = 200

// PrepareDraft matches every parsed ingredient line against the catalog.
// The best candidate is assigned when it is confident enough; otherwise the
// line is marked to create a new catalog entry.
func (s *Service) PrepareDraft(ctx context.Context, parsed recipe.ParsedRecipe) (*inbound.Draft, error) {
	entries, err := s.cache.Entries(ctx)
	if err != nil {
		s.logger.Error("Failed to load catalog", zap.Error(err))
		return nil, errors.NewDatabaseError("load ingredient catalog", err)
	}
	thresholds := s.settings.Get()

	draft := &inbound.Draft{
		Title:        parsed.Title,
		Description:  parsed.Description,
		Instructions: parsed.Instructions,
		PrepMinutes:  parsed.PrepMinutes,
		CookMinutes:  parsed.CookMinutes,
		Servings:     parsed.Servings,
		Difficulty:   recipe.NormalizeDifficulty(string(parsed.Difficulty)),
		Cuisine:      parsed.Cuisine,
		MealCategory: parsed.MealCategory,
		DietaryTags:  recipe.NormalizeTags(parsed.DietaryTags),
		Source:       parsed.Source,
		Ingredients:  make([]inbound.DraftIngredient, 0, len(parsed.Ingredients)),
		Issues:       parsed.Issues,
	}

	for _, line := range parsed.Ingredients {
		item := inbound.DraftIngredient{
			OriginalText: line.OriginalText,
			Name:         line.Name,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			Preparation:  line.Preparation,
			Optional:     line.Optional,
		}
		s.assign(&item, entries, thresholds)
		draft.Ingredients = append(draft.Ingredients, item)
	}
	return draft, nil
}

func (s *Service) assign(item *inbound.DraftIngredient, entries []ingredient.Entry, thresholds matching.Thresholds) {
	matches := s.matcher.SuggestMatches(item.Name, entries, draftCandidates, thresholds.Suggest)
	item.Candidates = catalog.ToCandidateDTOs(matches)
	if len(matches) > 0 && matches[0].Confidence >= thresholds.AutoAssign {
		item.IngredientID = matches[0].Entry.ID
		item.Category = matches[0].Entry.Category
		item.CreateNew = false
		return
	}
	item.IngredientID = 0
	item.CreateNew = true
}

// ValidateDraft checks a draft field by field. It never fails; problems are
// reported in FieldErrors.
func (s *Service) ValidateDraft(draft inbound.Draft) inbound.ValidationResult {
	fieldErrors := map[string]string{}

	title := strings.TrimSpace(draft.Title)
	switch {
	case title == "":
		fieldErrors["title"] = "title is required"
	case len(title) > maxTitleLength:
		fieldErrors["title"] = fmt.Sprintf("title must be at most %d characters", maxTitleLength)
	}
	if strings.TrimSpace(draft.Instructions) == "" {
		fieldErrors["instructions"] = "instructions are required"
	}
	if len(draft.Ingredients) == 0 {
		fieldErrors["ingredients"] = "at least one ingredient is required"
	}
	if draft.Servings < 1 {
		fieldErrors["servings"] = "servings must be at least 1"
	}
	if draft.PrepMinutes < 0 {
		fieldErrors["prep_minutes"] = "prep time cannot be negative"
	}
	if draft.CookMinutes < 0 {
		fieldErrors["cook_minutes"] = "cook time cannot be negative"
	}

	for i, item := range draft.Ingredients {
		key := fmt.Sprintf("ingredients[%d]", i)
		switch {
		case strings.TrimSpace(item.Name) == "":
			fieldErrors[key+".name"] = "ingredient name is required"
		case item.Quantity < 0:
			fieldErrors[key+".quantity"] = "quantity cannot be negative"
		case item.IngredientID == 0 && !item.CreateNew:
			fieldErrors[key] = "choose a catalog ingredient or create a new one"
		}
	}

	if len(fieldErrors) == 0 {
		return inbound.ValidationResult{Valid: true}
	}
	return inbound.ValidationResult{Valid: false, FieldErrors: fieldErrors}
}

// resolveIngredients turns draft lines into recipe ingredients, creating
// catalog entries for CreateNew lines. It reports whether the catalog changed.
func (s *Service) resolveIngredients(ctx context.Context, items []inbound.DraftIngredient) ([]recipe.Ingredient, bool, error) {
	created := false
	out := make([]recipe.Ingredient, 0, len(items))

	for _, item := range items {
		var entry *ingredient.Entry
		var err error
		if item.CreateNew {
			var isNew bool
			entry, isNew, err = s.ensureEntry(ctx, item.Name, item.Category)
			created = created || isNew
		} else {
			entry, err = s.ingredients.FindByID(ctx, item.IngredientID)
			if stderrors.Is(err, ingredient.ErrIngredientNotFound) {
				return nil, created, errors.NewIngredientNotFoundError(item.IngredientID)
			}
		}
		if err != nil {
			var appErr *errors.AppError
			if stderrors.As(err, &appErr) {
				return nil, created, appErr
			}
			return nil, created, errors.NewDatabaseError("resolve ingredient", err)
		}

		out = append(out, recipe.Ingredient{
			IngredientID: entry.ID,
			Name:         item.Name,
			Category:     entry.Category,
			Quantity:     item.Quantity,
			Unit:         item.Unit,
			Preparation:  item.Preparation,
			Optional:     item.Optional,
		})
	}
	return out, created, nil
}

// ensureEntry creates a catalog entry, or returns the existing one when the
// name is already taken
func (s *Service) ensureEntry(ctx context.Context, name, category string) (*ingredient.Entry, bool, error) {
	entry, err := ingredient.NewEntry(name, category, nil, "")
	if err != nil {
		return nil, false, errors.NewValidationError(err.Error())
	}

	err = s.ingredients.Create(ctx, entry)
	if err == nil {
		s.logger.Debug("Created catalog entry from recipe", zap.String("name", entry.Name))
		return entry, true, nil
	}
	if !stderrors.Is(err, ingredient.ErrDuplicateIngredient) {
		return nil, false, err
	}

	existing, err := s.ingredients.FindByName(ctx, entry.Name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func draftFromFields(fields inbound.RecipeFields, source recipe.Source) inbound.Draft {
	draft := inbound.Draft{
		Title:        fields.Title,
		Description:  fields.Description,
		Instructions: fields.Instructions,
		PrepMinutes:  fields.PrepMinutes,
		CookMinutes:  fields.CookMinutes,
		Servings:     fields.Servings,
		Difficulty:   recipe.NormalizeDifficulty(fields.Difficulty),
		Cuisine:      strings.ToLower(strings.TrimSpace(fields.Cuisine)),
		MealCategory: strings.ToLower(strings.TrimSpace(fields.MealCategory)),
		DietaryTags:  recipe.NormalizeTags(fields.DietaryTags),
		Source:       source,
		Ingredients:  make([]inbound.DraftIngredient, 0, len(fields.Ingredients)),
	}
	if draft.Servings == 0 {
		draft.Servings = 1
	}
	for _, line := range fields.Ingredients {
		draft.Ingredients = append(draft.Ingredients, inbound.DraftIngredient{
			OriginalText: line.Name,
			Name:         strings.ToLower(strings.TrimSpace(line.Name)),
			Quantity:     line.Quantity,
			Unit:         strings.TrimSpace(line.Unit),
			Preparation:  strings.TrimSpace(line.Preparation),
			Optional:     line.Optional,
			Category:     line.Category,
			IngredientID: line.IngredientID,
		})
	}
	return draft
}

// assignUnlinked matches structured lines that came without a catalog ID
func (s *Service) assignUnlinked(ctx context.Context, draft *inbound.Draft) error {
	needsMatch := false
	for _, item := range draft.Ingredients {
		if item.IngredientID == 0 {
			needsMatch = true
			break
		}
	}
	if !needsMatch {
		return nil
	}

	entries, err := s.cache.Entries(ctx)
	if err != nil {
		return errors.NewDatabaseError("load ingredient catalog", err)
	}
	thresholds := s.settings.Get()
	for i := range draft.Ingredients {
		if draft.Ingredients[i].IngredientID != 0 {
			continue
		}
		category := draft.Ingredients[i].Category
		s.assign(&draft.Ingredients[i], entries, thresholds)
		if draft.Ingredients[i].CreateNew && category != "" {
			draft.Ingredients[i].Category = category
		}
	}
	return nil
}
