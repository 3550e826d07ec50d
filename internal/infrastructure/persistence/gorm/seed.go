package gorm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
)

// DefaultCatalog is the starter ingredient catalog
func DefaultCatalog() []ingredient.Entry {
	return []ingredient.Entry{
		{Name: "all-purpose flour", Category: "baking", Substitutes: []string{"bread flour"}, StorageTip: "Keep airtight in a cool, dry place"},
		{Name: "sugar", Category: "baking", Substitutes: []string{"honey"}},
		{Name: "baking powder", Category: "baking"},
		{Name: "eggs", Category: "dairy", StorageTip: "Refrigerate in the carton"},
		{Name: "milk", Category: "dairy", Substitutes: []string{"oat milk"}},
		{Name: "butter", Category: "dairy", Substitutes: []string{"margarine"}},
		{Name: "parmesan", Category: "dairy"},
		{Name: "garlic", Category: "produce", StorageTip: "Store whole heads at room temperature"},
		{Name: "onion", Category: "produce"},
		{Name: "tomato", Category: "produce"},
		{Name: "basil", Category: "produce"},
		{Name: "lemon", Category: "produce"},
		{Name: "olive oil", Category: "pantry", Substitutes: []string{"vegetable oil"}},
		{Name: "spaghetti", Category: "pantry"},
		{Name: "rice", Category: "pantry"},
		{Name: "salt", Category: "spices"},
		{Name: "black pepper", Category: "spices"},
		{Name: "chicken breast", Category: "meat", StorageTip: "Refrigerate and use within two days"},
		{Name: "ground beef", Category: "meat"},
	}
}

// SeedCatalog inserts the default catalog when the ingredients table is empty
func SeedCatalog(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&IngredientModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count ingredients: %w", err)
	}
	if count > 0 {
		return nil // Already seeded
	}

	repo := NewIngredientRepository(db)
	for _, seed := range DefaultCatalog() {
		entry, err := ingredient.NewEntry(seed.Name, seed.Category, seed.Substitutes, seed.StorageTip)
		if err != nil {
			return err
		}
		if err := repo.Create(ctx, entry); err != nil {
			return fmt.Errorf("failed to seed ingredient %q: %w", seed.Name, err)
		}
	}

	log.Info("Ingredient catalog seeded", zap.Int("entries", len(DefaultCatalog())))
	return nil
}
