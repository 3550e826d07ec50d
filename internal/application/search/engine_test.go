package search

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/alchemorsel/recipebox/internal/domain/recipe"
)

func newRecipe(title string, prep, cook int, tags []string, ingredients ...string) *recipe.Recipe {
	r := &recipe.Recipe{
		ID:          uuid.New(),
		Title:       title,
		PrepMinutes: prep,
		CookMinutes: cook,
		Servings:    4,
		DietaryTags: tags,
	}
	for i, name := range ingredients {
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{Name: name, Order: i})
	}
	return r
}

func titles(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Recipe.Title
	}
	return out
}

type EngineTestSuite struct {
	suite.Suite
	engine  *Engine
	recipes []*recipe.Recipe
}

func (suite *EngineTestSuite) SetupTest() {
	suite.engine = NewEngine()

	tofu := newRecipe("Tofu Stir Fry", 10, 15, []string{"vegan"}, "tofu", "soy sauce", "broccoli")
	tofu.Cuisine = "chinese"
	tofu.Rating = 4.5
	omelette := newRecipe("Cheese Omelette", 5, 5, []string{"vegetarian"}, "eggs", "cheese")
	omelette.MealCategory = "breakfast"
	omelette.Rating = 3.0
	chicken := newRecipe("Garlic Chicken", 15, 30, nil, "chicken", "garlic", "butter")
	chicken.Description = "Garlicky pan chicken"
	chicken.Rating = 4.5
	steak := newRecipe("Keto Steak", 5, 25, []string{"keto"}, "steak", "butter")

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, r := range []*recipe.Recipe{tofu, omelette, chicken, steak} {
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
	}
	suite.recipes = []*recipe.Recipe{tofu, omelette, chicken, steak}
}

func (suite *EngineTestSuite) TestRanges() {
	suite.Run("MaxBound_ShouldBeInclusive", func() {
		r := AtMost(30)
		assert.True(suite.T(), r.Contains(30))
		assert.False(suite.T(), r.Contains(31))
	})

	suite.Run("TotalTimeFilter_ShouldUseSum", func() {
		results := suite.engine.Search(suite.recipes, Filters{Total: Between(10, 30)}, SortTitleAsc)
		assert.Equal(suite.T(), []string{"Cheese Omelette", "Keto Steak", "Tofu Stir Fry"}, titles(results))
	})

	suite.Run("EmptyRange_ShouldContainEverything", func() {
		assert.True(suite.T(), IntRange{}.Contains(-100))
		assert.False(suite.T(), IntRange{}.IsSet())
	})
}

func (suite *EngineTestSuite) TestDietary() {
	suite.Run("Inclusive_ShouldAcceptStricterTag", func() {
		results := suite.engine.Search(suite.recipes, Filters{DietaryTags: []string{"vegetarian"}, InclusiveDietary: true}, SortTitleAsc)
		assert.Equal(suite.T(), []string{"Cheese Omelette", "Tofu Stir Fry"}, titles(results))
	})

	suite.Run("Exclusive_ShouldRequireExactTag", func() {
		results := suite.engine.Search(suite.recipes, Filters{DietaryTags: []string{"vegetarian"}}, SortTitleAsc)
		assert.Equal(suite.T(), []string{"Cheese Omelette"}, titles(results))
	})

	suite.Run("KetoImpliesLowCarb", func() {
		assert.True(suite.T(), SatisfiesDietary([]string{"Keto"}, []string{"low-carb"}, true))
		assert.False(suite.T(), SatisfiesDietary([]string{"keto"}, []string{"low-carb"}, false))
	})
}

func (suite *EngineTestSuite) TestIngredients() {
	suite.Run("Required_ShouldBeSubset", func() {
		results := suite.engine.Search(suite.recipes, Filters{RequiredIngredients: []string{"Butter ", "garlic"}}, SortRelevance)
		assert.Equal(suite.T(), []string{"Garlic Chicken"}, titles(results))
	})

	suite.Run("Optional_ShouldNeedOne", func() {
		results := suite.engine.Search(suite.recipes, Filters{OptionalIngredients: []string{"tofu", "steak"}}, SortRelevance)
		assert.Equal(suite.T(), []string{"Tofu Stir Fry", "Keto Steak"}, titles(results))
	})

	suite.Run("Excluded_ShouldBeDisjoint", func() {
		results := suite.engine.Search(suite.recipes, Filters{ExcludedIngredients: []string{"butter"}}, SortRelevance)
		assert.Equal(suite.T(), []string{"Tofu Stir Fry", "Cheese Omelette"}, titles(results))
	})
}

func (suite *EngineTestSuite) TestSets() {
	results := suite.engine.Search(suite.recipes, Filters{Cuisines: []string{"Chinese"}}, SortRelevance)
	assert.Equal(suite.T(), []string{"Tofu Stir Fry"}, titles(results))

	results = suite.engine.Search(suite.recipes, Filters{Categories: []string{"breakfast"}}, SortRelevance)
	assert.Equal(suite.T(), []string{"Cheese Omelette"}, titles(results))
}

func (suite *EngineTestSuite) TestRelevance() {
	suite.Run("TitleAndIngredientMatch_ShouldScoreWeighted", func() {
		// Arrange
		r := newRecipe("Garlic Chicken", 0, 0, nil, "garlic", "chicken")
		r.Description = "Garlicky"

		// Act
		score, matched := Score(r, "garlic", Tokenize("garlic"))

		// Assert: title 3.0 + partial description 1.0 + ingredient 2.5, then title boost
		assert.InDelta(suite.T(), (3.0+1.0+2.5)*1.5, score, 1e-9)
		assert.Equal(suite.T(), []string{"garlic"}, matched)
	})

	suite.Run("NoMatch_ShouldDropRecipe", func() {
		results := suite.engine.Search(suite.recipes, Filters{Query: "lasagna"}, SortRelevance)
		assert.Empty(suite.T(), results)
	})

	suite.Run("Query_ShouldRankBestFirst", func() {
		results := suite.engine.Search(suite.recipes, Filters{Query: "chicken"}, SortRelevance)
		require.NotEmpty(suite.T(), results)
		assert.Equal(suite.T(), "Garlic Chicken", results[0].Recipe.Title)
		assert.Equal(suite.T(), []string{"chicken"}, results[0].MatchedTerms)
	})
}

func (suite *EngineTestSuite) TestSortOrders() {
	suite.Run("RatingDesc_ShouldKeepInputOrderOnTies", func() {
		results := suite.engine.Search(suite.recipes, Filters{}, SortRatingDesc)
		assert.Equal(suite.T(), []string{"Tofu Stir Fry", "Garlic Chicken", "Cheese Omelette", "Keto Steak"}, titles(results))
	})

	suite.Run("CreatedDesc_ShouldReverseCreation", func() {
		results := suite.engine.Search(suite.recipes, Filters{}, SortCreatedDesc)
		assert.Equal(suite.T(), []string{"Keto Steak", "Garlic Chicken", "Cheese Omelette", "Tofu Stir Fry"}, titles(results))
	})

	suite.Run("CookAsc", func() {
		results := suite.engine.Search(suite.recipes, Filters{}, SortCookAsc)
		assert.Equal(suite.T(), []string{"Cheese Omelette", "Tofu Stir Fry", "Keto Steak", "Garlic Chicken"}, titles(results))
	})

	suite.Run("UnknownOrder_ShouldFallBackToRelevance", func() {
		assert.Equal(suite.T(), SortRelevance, ParseSortOrder("sideways"))
		assert.Equal(suite.T(), SortTitleDesc, ParseSortOrder(" TITLE_DESC "))
	})
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
