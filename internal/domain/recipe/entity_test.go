package recipe

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for the Recipe entity
type RecipeTestSuite struct {
	suite.Suite
	authorID uuid.UUID
}

func (suite *RecipeTestSuite) SetupSuite() {
	suite.authorID = uuid.New()
}

func (suite *RecipeTestSuite) TestRecipeCreation() {
	suite.Run("ValidRecipe_ShouldApplyDefaults", func() {
		// Act
		r, err := NewRecipe(suite.authorID, "  Pancakes ", "Mix and fry.")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Pancakes", r.Title)
		assert.Equal(suite.T(), 1, r.Servings)
		assert.Equal(suite.T(), DifficultyMedium, r.Difficulty)
		assert.Equal(suite.T(), SourceManual, r.Source)
		assert.NotEqual(suite.T(), uuid.Nil, r.ID)
		assert.True(suite.T(), r.IsOwnedBy(suite.authorID))
	})

	suite.Run("EmptyTitle_ShouldReturnError", func() {
		r, err := NewRecipe(suite.authorID, "   ", "Mix.")
		assert.Nil(suite.T(), r)
		assert.Equal(suite.T(), ErrTitleRequired, err)
	})

	suite.Run("EmptyInstructions_ShouldReturnError", func() {
		r, err := NewRecipe(suite.authorID, "Toast", "")
		assert.Nil(suite.T(), r)
		assert.Equal(suite.T(), ErrNoInstructions, err)
	})
}

func (suite *RecipeTestSuite) TestIngredients() {
	r, err := NewRecipe(suite.authorID, "Omelette", "Whisk and cook.")
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), r.AddIngredient(Ingredient{Name: "Eggs", Quantity: 3}))
	require.NoError(suite.T(), r.AddIngredient(Ingredient{Name: " Butter ", Quantity: 1, Unit: "tablespoon"}))
	assert.Equal(suite.T(), ErrIngredientNameNeeded, r.AddIngredient(Ingredient{Name: " "}))

	assert.Equal(suite.T(), []string{"eggs", "butter"}, r.IngredientNames())
	assert.Equal(suite.T(), 1, r.Ingredients[1].Order)
}

func (suite *RecipeTestSuite) TestRatings() {
	r, err := NewRecipe(suite.authorID, "Soup", "Simmer.")
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), r.AddRating(5))
	require.NoError(suite.T(), r.AddRating(4))
	assert.Equal(suite.T(), ErrInvalidRating, r.AddRating(6))

	assert.InDelta(suite.T(), 4.5, r.Rating, 1e-9)
	assert.Equal(suite.T(), 2, r.RatingCount)
}

func (suite *RecipeTestSuite) TestTimesAndTags() {
	r, err := NewRecipe(suite.authorID, "Stew", "Braise.")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), ErrNegativeTime, r.SetTimes(-1, 10))
	require.NoError(suite.T(), r.SetTimes(15, 90))
	assert.Equal(suite.T(), 105, r.TotalMinutes())

	r.SetDietaryTags([]string{"Gluten-Free", "gluten-free", " ", "Dairy-Free"})
	assert.Equal(suite.T(), []string{"gluten-free", "dairy-free"}, r.DietaryTags)
	assert.True(suite.T(), r.HasTag("GLUTEN-FREE"))
	assert.False(suite.T(), r.HasTag("vegan"))
}

func (suite *RecipeTestSuite) TestParsedRecipeNormalize() {
	p := ParsedRecipe{
		Servings:    0,
		PrepMinutes: -5,
		Difficulty:  "Advanced",
		Ingredients: []ParsedIngredientLine{{Name: "a", Order: 7}, {Name: "b", Order: 7}},
	}

	p.Normalize()

	assert.Equal(suite.T(), 1, p.Servings)
	assert.Equal(suite.T(), 0, p.PrepMinutes)
	assert.Equal(suite.T(), DifficultyHard, p.Difficulty)
	assert.Equal(suite.T(), 0, p.Ingredients[0].Order)
	assert.Equal(suite.T(), 1, p.Ingredients[1].Order)
	assert.NotNil(suite.T(), p.DietaryTags)

	p.CheckServings(60)
	assert.Len(suite.T(), p.Issues, 1)
}

func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}
