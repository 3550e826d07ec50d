// Package gorm provides GORM model definitions and repositories
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IngredientModel represents a catalog entry
type IngredientModel struct {
	ID          uint        `gorm:"primaryKey;autoIncrement"`
	Name        string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Category    string      `gorm:"type:varchar(50);index;default:'other'"`
	Substitutes StringSlice `gorm:"type:json"`
	StorageTip  string      `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeModel represents the GORM model for recipes
type RecipeModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	AuthorID     uuid.UUID `gorm:"type:char(36);not null;index"`
	Title        string    `gorm:"type:varchar(255);not null;index"`
	Description  string    `gorm:"type:text"`
	Instructions string    `gorm:"type:text;not null"`

	// Timing (stored in minutes)
	PrepMinutes int `gorm:"column:prep_time_minutes;default:0"`
	CookMinutes int `gorm:"column:cook_time_minutes;default:0"`
	Servings    int `gorm:"default:1"`

	// Categorization
	Difficulty   string      `gorm:"type:varchar(20);index"`
	Cuisine      string      `gorm:"type:varchar(50);index"`
	MealCategory string      `gorm:"type:varchar(50);index"`
	DietaryTags  StringSlice `gorm:"type:json"`

	AverageRating float64 `gorm:"column:average_rating;default:0"`
	RatingCount   int     `gorm:"column:rating_count;default:0"`
	Source        string  `gorm:"type:varchar(20)"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Ingredients []RecipeIngredientModel `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// RecipeIngredientModel is the junction row between a recipe and a catalog entry
type RecipeIngredientModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	RecipeID     uuid.UUID `gorm:"type:char(36);not null;index"`
	IngredientID uint      `gorm:"index"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Category     string    `gorm:"type:varchar(50)"`
	Quantity     float64   `gorm:"default:0"`
	Unit         string    `gorm:"type:varchar(50)"`
	Preparation  string    `gorm:"type:varchar(255)"`
	Optional     bool      `gorm:"default:false"`
	Position     int       `gorm:"not null;default:0"`
}

// CollectionModel represents the GORM model for recipe collections
type CollectionModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	OwnerID     uuid.UUID `gorm:"type:char(36);not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Recipes []CollectionRecipeModel `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE"`
}

// CollectionRecipeModel represents recipes in collections
type CollectionRecipeModel struct {
	CollectionID uuid.UUID `gorm:"type:char(36);primaryKey"`
	RecipeID     uuid.UUID `gorm:"type:char(36);primaryKey;index"`
	Position     int       `gorm:"not null;default:0"`
}

// PantryItemModel represents an ingredient a user has on hand
type PantryItemModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	OwnerID      uuid.UUID `gorm:"type:char(36);not null;index"`
	IngredientID uint      `gorm:"index"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Quantity     float64   `gorm:"default:0"`
	Unit         string    `gorm:"type:varchar(50)"`
	ExpiresAt    *time.Time `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserModel represents the GORM model for users
type UserModel struct {
	ID                 uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Email              string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name               string      `gorm:"type:varchar(255);not null"`
	PasswordHash       string      `gorm:"type:varchar(255);not null"`
	DietaryPreferences StringSlice `gorm:"type:json"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	LastLoginAt        *time.Time
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for CollectionModel
func (c *CollectionModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for PantryItemModel
func (p *PantryItemModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (IngredientModel) TableName() string {
	return "ingredients"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (RecipeIngredientModel) TableName() string {
	return "recipe_ingredients"
}

func (CollectionModel) TableName() string {
	return "collections"
}

func (CollectionRecipeModel) TableName() string {
	return "collection_recipes"
}

func (PantryItemModel) TableName() string {
	return "pantry_items"
}

func (UserModel) TableName() string {
	return "users"
}

// AllModels lists every model for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&IngredientModel{},
		&UserModel{},
		&RecipeModel{},
		&RecipeIngredientModel{},
		&CollectionModel{},
		&CollectionRecipeModel{},
		&PantryItemModel{},
	}
}

// AutoMigrate creates or updates the schema
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
