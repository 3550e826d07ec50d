// Package catalog provides the application layer for the ingredient catalog
package catalog

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/antzucaro/matchr"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/application/matching"
	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
)

// SpellingVariantThreshold is the Jaro-Winkler score above which two names
// are reported as spelling variants
const SpellingVariantThreshold = 0.93

const (
	reasonSimilar  = "similar"
	reasonSpelling = "spelling"
)

// Service implements the catalog use cases
type Service struct {
	repo     outbound.IngredientRepository
	cache    *matching.CatalogCache
	matcher  *matching.Matcher
	settings *matching.Settings
	logger   *zap.Logger
}

// NewService creates a new catalog service
func NewService(
	repo outbound.IngredientRepository,
	cache *matching.CatalogCache,
	settings *matching.Settings,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		matcher:  matching.NewMatcher(),
		settings: settings,
		logger:   logger.Named("catalog-service"),
	}
}

// CreateIngredient adds a catalog entry. A taken name is a conflict.
func (s *Service) CreateIngredient(ctx context.Context, cmd inbound.CreateIngredientCommand) (*ingredient.Entry, error) {
	entry, err := ingredient.NewEntry(cmd.Name, cmd.Category, cmd.Substitutes, cmd.StorageTip)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		if stderrors.Is(err, ingredient.ErrDuplicateIngredient) {
			return nil, errors.NewDuplicateIngredientError(entry.Name)
		}
		s.logger.Error("Failed to create ingredient", zap.String("name", entry.Name), zap.Error(err))
		return nil, errors.NewDatabaseError("create ingredient", err)
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("Ingredient created",
		zap.Uint("ingredient_id", entry.ID),
		zap.String("name", entry.Name),
	)
	return entry, nil
}

// UpdateIngredient changes the given fields of an entry
func (s *Service) UpdateIngredient(ctx context.Context, cmd inbound.UpdateIngredientCommand) (*ingredient.Entry, error) {
	entry, err := s.find(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		name := ingredient.NormalizeName(*cmd.Name)
		if name == "" {
			return nil, errors.NewValidationError(ingredient.ErrNameRequired.Error())
		}
		entry.Name = name
	}
	if cmd.Category != nil {
		entry.Category = strings.ToLower(strings.TrimSpace(*cmd.Category))
		if entry.Category == "" {
			entry.Category = ingredient.CategoryOther
		}
	}
	if cmd.Substitutes != nil {
		entry.Substitutes = *cmd.Substitutes
	}
	if cmd.StorageTip != nil {
		entry.StorageTip = strings.TrimSpace(*cmd.StorageTip)
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		if stderrors.Is(err, ingredient.ErrDuplicateIngredient) {
			return nil, errors.NewDuplicateIngredientError(entry.Name)
		}
		return nil, errors.NewDatabaseError("update ingredient", err)
	}
	s.cache.Invalidate(ctx)
	return entry, nil
}

// DeleteIngredient removes an unreferenced entry
func (s *Service) DeleteIngredient(ctx context.Context, id uint) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return errors.NewDatabaseError("count ingredient references", err)
	}
	if refs > 0 {
		return errors.NewIngredientInUseError(id, refs)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errors.NewDatabaseError("delete ingredient", err)
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("Ingredient deleted", zap.Uint("ingredient_id", id))
	return nil
}

// MergeIngredients moves every reference of source onto target and
// removes source
func (s *Service) MergeIngredients(ctx context.Context, sourceID, targetID uint) (*ingredient.Entry, error) {
	if sourceID == targetID {
		return nil, errors.NewBadRequestError(ingredient.ErrMergeIntoSelf.Error())
	}
	source, err := s.find(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := s.find(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Merge(ctx, sourceID, targetID); err != nil {
		s.logger.Error("Failed to merge ingredients",
			zap.Uint("source_id", sourceID),
			zap.Uint("target_id", targetID),
			zap.Error(err),
		)
		return nil, errors.NewDatabaseError("merge ingredients", err)
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("Ingredients merged",
		zap.String("source", source.Name),
		zap.String("target", target.Name),
	)
	return target, nil
}

// GetIngredient returns one entry
func (s *Service) GetIngredient(ctx context.Context, id uint) (*ingredient.Entry, error) {
	return s.find(ctx, id)
}

// ListIngredients returns the catalog in name order
func (s *Service) ListIngredients(ctx context.Context) ([]ingredient.Entry, error) {
	entries, err := s.cache.Entries(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list ingredients", err)
	}
	return entries, nil
}

// FindDuplicates reports entry pairs that look alike. threshold <= 0 uses
// the configured duplicate threshold.
func (s *Service) FindDuplicates(ctx context.Context, threshold float64) ([]inbound.DuplicatePair, error) {
	if threshold <= 0 {
		threshold = s.settings.Get().Duplicate
	}
	entries, err := s.cache.Entries(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list ingredients", err)
	}

	pairs := []inbound.DuplicatePair{}
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			if score := matching.Similarity(a.Name, b.Name); score >= threshold {
				pairs = append(pairs, inbound.DuplicatePair{First: a, Second: b, Similarity: score, Reason: reasonSimilar})
				continue
			}
			if score := matchr.JaroWinkler(a.Name, b.Name, false); score >= SpellingVariantThreshold {
				pairs = append(pairs, inbound.DuplicatePair{First: a, Second: b, Similarity: score, Reason: reasonSpelling})
			}
		}
	}
	return pairs, nil
}

// SuggestIngredients ranks catalog entries for a free-text name
func (s *Service) SuggestIngredients(ctx context.Context, name string, topN int) ([]inbound.CandidateDTO, error) {
	entries, err := s.cache.Entries(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list ingredients", err)
	}
	matches := s.matcher.SuggestMatches(name, entries, topN, s.settings.Get().Suggest)
	return ToCandidateDTOs(matches), nil
}

func (s *Service) find(ctx context.Context, id uint) (*ingredient.Entry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, ingredient.ErrIngredientNotFound) {
			return nil, errors.NewIngredientNotFoundError(id)
		}
		return nil, errors.NewDatabaseError("find ingredient", err)
	}
	return entry, nil
}

// ToCandidateDTOs converts matcher output for the inbound port
func ToCandidateDTOs(matches []matching.MatchCandidate) []inbound.CandidateDTO {
	out := make([]inbound.CandidateDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, inbound.CandidateDTO{
			IngredientID: m.Entry.ID,
			Name:         m.Entry.Name,
			Category:     m.Entry.Category,
			Confidence:   m.Confidence,
		})
	}
	return out
}
