package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alchemorsel/recipebox/internal/domain/collection"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
)

// CollectionRepository implements the collection repository interface using GORM
type CollectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *gorm.DB) outbound.CollectionRepository {
	return &CollectionRepository{db: db}
}

// Save upserts the collection and replaces its membership rows
func (r *CollectionRepository) Save(ctx context.Context, c *collection.Collection) error {
	model := CollectionToModel(c)
	members := model.Recipes
	model.Recipes = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(model).Error; err != nil {
			return err
		}
		if err := tx.Where("collection_id = ?", model.ID).Delete(&CollectionRecipeModel{}).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		return tx.Create(&members).Error
	})
}

// FindByID finds a collection with its ordered recipe IDs
func (r *CollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.Collection, error) {
	var model CollectionModel
	if err := r.db.WithContext(ctx).Preload("Recipes").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, collection.ErrCollectionNotFound
		}
		return nil, err
	}
	return ModelToCollection(&model), nil
}

// ListByOwner returns the owner's collections, oldest first
func (r *CollectionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*collection.Collection, error) {
	var models []CollectionModel
	if err := r.db.WithContext(ctx).Preload("Recipes").
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*collection.Collection, 0, len(models))
	for i := range models {
		out = append(out, ModelToCollection(&models[i]))
	}
	return out, nil
}

// Delete removes a collection and its membership rows
func (r *CollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&CollectionRecipeModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&CollectionModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return collection.ErrCollectionNotFound
		}
		return nil
	})
}
