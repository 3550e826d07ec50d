package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alchemorsel/recipebox/internal/domain/pantry"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
)

// PantryRepository implements the pantry repository interface using GORM
type PantryRepository struct {
	db *gorm.DB
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *gorm.DB) outbound.PantryRepository {
	return &PantryRepository{db: db}
}

// Save upserts a pantry item
func (r *PantryRepository) Save(ctx context.Context, item *pantry.Item) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(PantryItemToModel(item)).Error
}

// FindByID finds a pantry item by ID
func (r *PantryRepository) FindByID(ctx context.Context, id uuid.UUID) (*pantry.Item, error) {
	var model PantryItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pantry.ErrItemNotFound
		}
		return nil, err
	}
	return ModelToPantryItem(&model), nil
}

// ListByOwner returns the owner's items ordered by name
func (r *PantryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*pantry.Item, error) {
	var models []PantryItemModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*pantry.Item, 0, len(models))
	for i := range models {
		out = append(out, ModelToPantryItem(&models[i]))
	}
	return out, nil
}

// Delete removes a pantry item
func (r *PantryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&PantryItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pantry.ErrItemNotFound
	}
	return nil
}
