package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Save upserts the recipe and replaces its ingredient rows in one transaction
func (r *RecipeRepository) Save(ctx context.Context, rec *recipe.Recipe) error {
	model := RecipeToModel(rec)
	rows := model.Ingredients
	model.Ingredients = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(model).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", model.ID).Delete(&RecipeIngredientModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.withIngredients(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model), nil
}

// FindByIDs returns the recipes that exist among ids, in no particular order
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	if len(ids) == 0 {
		return []*recipe.Recipe{}, nil
	}

	var models []RecipeModel
	if err := r.withIngredients(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return toRecipes(models), nil
}

// List returns every recipe, oldest first
func (r *RecipeRepository) List(ctx context.Context) ([]*recipe.Recipe, error) {
	var models []RecipeModel
	if err := r.withIngredients(ctx).Order("created_at ASC").Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return toRecipes(models), nil
}

// ListByAuthor returns one page of an author's recipes and the author's total
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]*recipe.Recipe, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where("author_id = ?", authorID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []RecipeModel
	if err := r.withIngredients(ctx).
		Where("author_id = ?", authorID).
		Order("created_at ASC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	return toRecipes(models), total, nil
}

// Delete removes a recipe with its ingredient rows and collection memberships
func (r *RecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&RecipeIngredientModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&CollectionRecipeModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&RecipeModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return recipe.ErrRecipeNotFound
		}
		return nil
	})
}

// AddRating updates the average and count in one statement, so concurrent
// ratings never overwrite each other
func (r *RecipeRepository) AddRating(ctx context.Context, id uuid.UUID, value int) (*recipe.Recipe, error) {
	var model RecipeModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&RecipeModel{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"average_rating": gorm.Expr("(average_rating * rating_count + ?) / (rating_count + 1)", float64(value)),
				"rating_count":   gorm.Expr("rating_count + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return recipe.ErrRecipeNotFound
		}
		return tx.Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).First(&model, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return ModelToRecipe(&model), nil
}

func (r *RecipeRepository) withIngredients(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func toRecipes(models []RecipeModel) []*recipe.Recipe {
	out := make([]*recipe.Recipe, 0, len(models))
	for i := range models {
		out = append(out, ModelToRecipe(&models[i]))
	}
	return out
}
