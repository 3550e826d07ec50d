package recipe

import "errors"

// Domain errors for recipe operations

var (
	ErrTitleRequired        = errors.New("recipe title is required")
	ErrTitleTooLong         = errors.New("recipe title must not exceed 200 characters")
	ErrNoIngredients        = errors.New("recipe must have at least one ingredient")
	ErrNoInstructions       = errors.New("recipe must have instructions")
	ErrInvalidServings      = errors.New("servings must be at least 1")
	ErrNegativeTime         = errors.New("prep and cook minutes cannot be negative")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrRecipeNotFound       = errors.New("recipe not found")
	ErrNotRecipeOwner       = errors.New("only recipe owner can perform this action")
	ErrIngredientNameNeeded = errors.New("ingredient name is required")
)
