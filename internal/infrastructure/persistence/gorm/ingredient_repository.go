package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
)

// IngredientRepository implements the ingredient catalog using GORM
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *gorm.DB) outbound.IngredientRepository {
	return &IngredientRepository{db: db}
}

// Create inserts a catalog entry and sets its ID
func (r *IngredientRepository) Create(ctx context.Context, e *ingredient.Entry) error {
	model := EntryToModel(e)
	model.Name = ingredient.NormalizeName(model.Name)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicate(err) {
			return ingredient.ErrDuplicateIngredient
		}
		return err
	}

	e.ID = model.ID
	e.Name = model.Name
	e.CreatedAt = model.CreatedAt
	e.UpdatedAt = model.UpdatedAt
	return nil
}

// Update rewrites an existing entry
func (r *IngredientRepository) Update(ctx context.Context, e *ingredient.Entry) error {
	model := EntryToModel(e)
	model.Name = ingredient.NormalizeName(model.Name)

	result := r.db.WithContext(ctx).Model(&IngredientModel{}).
		Where("id = ?", model.ID).
		Select("name", "category", "substitutes", "storage_tip", "updated_at").
		Updates(model)
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return ingredient.ErrDuplicateIngredient
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ingredient.ErrIngredientNotFound
	}
	return nil
}

// Delete removes an entry by ID
func (r *IngredientRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&IngredientModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ingredient.ErrIngredientNotFound
	}
	return nil
}

// FindByID finds an entry by ID
func (r *IngredientRepository) FindByID(ctx context.Context, id uint) (*ingredient.Entry, error) {
	var model IngredientModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ingredient.ErrIngredientNotFound
		}
		return nil, err
	}
	entry := ModelToEntry(&model)
	return &entry, nil
}

// FindByName finds an entry by its normalized name
func (r *IngredientRepository) FindByName(ctx context.Context, name string) (*ingredient.Entry, error) {
	var model IngredientModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", ingredient.NormalizeName(name)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ingredient.ErrIngredientNotFound
		}
		return nil, err
	}
	entry := ModelToEntry(&model)
	return &entry, nil
}

// List returns the whole catalog ordered by name
func (r *IngredientRepository) List(ctx context.Context) ([]ingredient.Entry, error) {
	var models []IngredientModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]ingredient.Entry, 0, len(models))
	for i := range models {
		out = append(out, ModelToEntry(&models[i]))
	}
	return out, nil
}

// CountReferences counts recipe lines and pantry items that use the entry
func (r *IngredientRepository) CountReferences(ctx context.Context, id uint) (int64, error) {
	var lines, items int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&RecipeIngredientModel{}).Where("ingredient_id = ?", id).Count(&lines).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&PantryItemModel{}).Where("ingredient_id = ?", id).Count(&items).Error; err != nil {
		return 0, err
	}
	return lines + items, nil
}

// Merge repoints references from source to target and deletes source
func (r *IngredientRepository) Merge(ctx context.Context, sourceID, targetID uint) error {
	if sourceID == targetID {
		return ingredient.ErrMergeIntoSelf
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&IngredientModel{}).Where("id IN ?", []uint{sourceID, targetID}).Count(&found).Error; err != nil {
			return err
		}
		if found != 2 {
			return ingredient.ErrIngredientNotFound
		}

		if err := tx.Model(&RecipeIngredientModel{}).
			Where("ingredient_id = ?", sourceID).
			Update("ingredient_id", targetID).Error; err != nil {
			return err
		}
		if err := tx.Model(&PantryItemModel{}).
			Where("ingredient_id = ?", sourceID).
			Update("ingredient_id", targetID).Error; err != nil {
			return err
		}
		return tx.Delete(&IngredientModel{}, sourceID).Error
	})
}
