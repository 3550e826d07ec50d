package collection_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	collectionapp "github.com/alchemorsel/recipebox/internal/application/collection"
	"github.com/alchemorsel/recipebox/internal/application/matching"
	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/domain/pantry"
	"github.com/alchemorsel/recipebox/internal/domain/recipe"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/alchemorsel/recipebox/test/testutils"
)

func TestBuildShoppingList_ShouldMergeOnNameAndUnit(t *testing.T) {
	// Arrange
	garlic := ingredient.Entry{ID: 7, Name: "garlic", Category: "produce"}
	first := testutils.NewRecipeBuilder().WithTitle("Aglio e Olio").
		WithIngredient(garlic, 3, "cloves").Build()
	second := testutils.NewRecipeBuilder().WithTitle("Garlic Soup").
		WithIngredient(garlic, 4, "cloves").
		WithIngredient(garlic, 1, "head").Build()

	// Act
	items := collectionapp.BuildShoppingList([]*recipe.Recipe{first, second}, map[uint]string{7: "produce"})

	// Assert
	require.Len(t, items, 2)
	assert.Equal(t, "garlic", items[0].IngredientName)
	assert.Equal(t, "cloves", items[0].Unit)
	assert.InDelta(t, 7.0, items[0].TotalQuantity, 1e-9)
	assert.Equal(t, []string{"Aglio e Olio", "Garlic Soup"}, items[0].ContributingRecipes)
	assert.Equal(t, "produce", items[0].Category)
	assert.Equal(t, "head", items[1].Unit)
	assert.Equal(t, []string{"Garlic Soup"}, items[1].ContributingRecipes)
}

func TestBuildShoppingList_ShouldDeduplicateContributors(t *testing.T) {
	// Arrange
	salt := ingredient.Entry{ID: 1, Name: "salt", Category: "spices"}
	r := testutils.NewRecipeBuilder().WithTitle("Brine").
		WithIngredient(salt, 1, "tbsp").
		WithIngredient(salt, 2, "tbsp").Build()

	// Act
	items := collectionapp.BuildShoppingList([]*recipe.Recipe{r}, nil)

	// Assert
	require.Len(t, items, 1)
	assert.InDelta(t, 3.0, items[0].TotalQuantity, 1e-9)
	assert.Equal(t, []string{"Brine"}, items[0].ContributingRecipes)
	assert.Equal(t, "spices", items[0].Category)
}

func TestBuildShoppingList_SameTitleDifferentRecipes_ShouldListBoth(t *testing.T) {
	// Arrange
	rice := ingredient.Entry{ID: 3, Name: "rice", Category: "grains"}
	mine := testutils.NewRecipeBuilder().WithTitle("Fried Rice").WithIngredient(rice, 1, "cup").Build()
	theirs := testutils.NewRecipeBuilder().WithTitle("Fried Rice").WithIngredient(rice, 2, "cup").Build()
	require.NotEqual(t, mine.ID, theirs.ID)

	// Act
	items := collectionapp.BuildShoppingList([]*recipe.Recipe{mine, theirs}, nil)

	// Assert
	require.Len(t, items, 1)
	assert.InDelta(t, 3.0, items[0].TotalQuantity, 1e-9)
	assert.Equal(t, []string{"Fried Rice", "Fried Rice"}, items[0].ContributingRecipes)
}

func TestSubtractPantry_ShouldDropCoveredItems(t *testing.T) {
	// Arrange
	items := collectionapp.BuildShoppingList([]*recipe.Recipe{
		testutils.NewRecipeBuilder().WithTitle("Omelette").
			WithIngredient(ingredient.Entry{ID: 1, Name: "eggs"}, 3, "").
			WithIngredient(ingredient.Entry{ID: 2, Name: "milk"}, 100, "ml").Build(),
	}, nil)
	stock := []*pantry.Item{
		{Name: "eggs", Quantity: 6},
		{Name: "milk", Quantity: 1, Unit: "l"},
	}

	// Act
	out := collectionapp.SubtractPantry(items, stock)

	// Assert
	require.Len(t, out, 1)
	assert.Equal(t, "milk", out[0].IngredientName)
	assert.InDelta(t, 100.0, out[0].TotalQuantity, 1e-9)
}

type CollectionServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	recipes     *testutils.RecipeStore
	pantry      *testutils.PantryStore
	ingredients *testutils.IngredientStore
	service     *collectionapp.Service
	owner       uuid.UUID
}

func (suite *CollectionServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.recipes = testutils.NewRecipeStore()
	suite.pantry = testutils.NewPantryStore()
	suite.ingredients = testutils.NewIngredientStore(suite.recipes, suite.pantry, testutils.CatalogEntries()...)
	cache := matching.NewCatalogCache(suite.ingredients, nil, matching.CacheConfig{}, zap.NewNop())
	suite.service = collectionapp.NewService(
		testutils.NewCollectionStore(),
		suite.recipes,
		suite.pantry,
		cache,
		zap.NewNop(),
	)
	suite.owner = uuid.New()
}

func (suite *CollectionServiceTestSuite) entry(name string) ingredient.Entry {
	e, err := suite.ingredients.FindByName(suite.ctx, name)
	require.NoError(suite.T(), err)
	return *e
}

func (suite *CollectionServiceTestSuite) newCollection() *inbound.CollectionDTO {
	c, err := suite.service.CreateCollection(suite.ctx, inbound.CreateCollectionCommand{OwnerID: suite.owner, Name: "Weeknight"})
	require.NoError(suite.T(), err)
	return c
}

func (suite *CollectionServiceTestSuite) TestCreateCollection_EmptyName_ShouldFailValidation() {
	// Act
	_, err := suite.service.CreateCollection(suite.ctx, inbound.CreateCollectionCommand{OwnerID: suite.owner, Name: " "})

	// Assert
	testutils.AssertErrorCode(suite.T(), err, errors.CodeValidationFailed)
}

func (suite *CollectionServiceTestSuite) TestMembership() {
	c := suite.newCollection()
	r := testutils.NewRecipeBuilder().Build()
	require.NoError(suite.T(), suite.recipes.Save(suite.ctx, r))

	suite.Run("AddRecipe_ShouldAppend", func() {
		// Act
		dto, err := suite.service.AddRecipe(suite.ctx, c.ID, suite.owner, r.ID)

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), []uuid.UUID{r.ID}, dto.RecipeIDs)
	})

	suite.Run("AddTwice_ShouldConflict", func() {
		// Act
		_, err := suite.service.AddRecipe(suite.ctx, c.ID, suite.owner, r.ID)

		// Assert
		testutils.AssertErrorCode(suite.T(), err, errors.CodeConflict)
	})

	suite.Run("UnknownRecipe_ShouldReturnNotFound", func() {
		// Act
		_, err := suite.service.AddRecipe(suite.ctx, c.ID, suite.owner, uuid.New())

		// Assert
		testutils.AssertErrorCode(suite.T(), err, errors.CodeRecipeNotFound)
	})

	suite.Run("OtherUser_ShouldBeForbidden", func() {
		// Act
		_, err := suite.service.GetCollection(suite.ctx, c.ID, uuid.New())

		// Assert
		testutils.AssertErrorCode(suite.T(), err, errors.CodeForbidden)
	})

	suite.Run("RemoveRecipe_ShouldDrop", func() {
		// Act
		dto, err := suite.service.RemoveRecipe(suite.ctx, c.ID, suite.owner, r.ID)

		// Assert
		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), dto.RecipeIDs)
	})

	suite.Run("Delete_ShouldRemoveCollection", func() {
		// Act
		err := suite.service.DeleteCollection(suite.ctx, c.ID, suite.owner)

		// Assert
		require.NoError(suite.T(), err)
		_, err = suite.service.GetCollection(suite.ctx, c.ID, suite.owner)
		testutils.AssertErrorCode(suite.T(), err, errors.CodeCollectionNotFound)
	})
}

func (suite *CollectionServiceTestSuite) TestShoppingList() {
	// Arrange
	garlic := suite.entry("garlic")
	onion := suite.entry("onion")
	first := testutils.NewRecipeBuilder().WithTitle("Stir Fry").
		WithIngredient(garlic, 3, "cloves").
		WithIngredient(onion, 1, "").Build()
	second := testutils.NewRecipeBuilder().WithTitle("Roast").
		WithIngredient(garlic, 4, "cloves").Build()
	require.NoError(suite.T(), suite.recipes.Save(suite.ctx, first))
	require.NoError(suite.T(), suite.recipes.Save(suite.ctx, second))

	c := suite.newCollection()
	_, err := suite.service.AddRecipe(suite.ctx, c.ID, suite.owner, first.ID)
	require.NoError(suite.T(), err)
	_, err = suite.service.AddRecipe(suite.ctx, c.ID, suite.owner, second.ID)
	require.NoError(suite.T(), err)

	suite.Run("Full_ShouldSumInCollectionOrder", func() {
		// Act
		list, err := suite.service.ShoppingList(suite.ctx, inbound.ShoppingListQuery{CollectionID: c.ID, OwnerID: suite.owner})

		// Assert
		require.NoError(suite.T(), err)
		require.Len(suite.T(), list.Items, 2)
		assert.Equal(suite.T(), "garlic", list.Items[0].IngredientName)
		assert.InDelta(suite.T(), 7.0, list.Items[0].TotalQuantity, 1e-9)
		assert.Len(suite.T(), list.Items[0].ContributingRecipes, 2)
		assert.Equal(suite.T(), "produce", list.Items[0].Category)
		assert.Equal(suite.T(), "onion", list.Items[1].IngredientName)
	})

	suite.Run("ExcludePantry_ShouldSubtractStock", func() {
		// Arrange
		item, err := pantry.NewItem(suite.owner, onion.ID, "onion", 2, "", nil)
		require.NoError(suite.T(), err)
		require.NoError(suite.T(), suite.pantry.Save(suite.ctx, item))

		// Act
		list, err := suite.service.ShoppingList(suite.ctx, inbound.ShoppingListQuery{
			CollectionID:  c.ID,
			OwnerID:       suite.owner,
			ExcludePantry: true,
		})

		// Assert
		require.NoError(suite.T(), err)
		require.Len(suite.T(), list.Items, 1)
		assert.Equal(suite.T(), "garlic", list.Items[0].IngredientName)
	})
}

func TestCollectionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CollectionServiceTestSuite))
}
