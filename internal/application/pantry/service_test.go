package pantry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/alchemorsel/recipebox/internal/application/matching"
	"github.com/alchemorsel/recipebox/internal/domain/ingredient"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/alchemorsel/recipebox/test/testutils"
)

type PantryServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	recipes     *testutils.RecipeStore
	ingredients *testutils.IngredientStore
	service     *Service
	owner       uuid.UUID
	clock       time.Time
}

func (suite *PantryServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.recipes = testutils.NewRecipeStore()
	items := testutils.NewPantryStore()
	suite.ingredients = testutils.NewIngredientStore(suite.recipes, items, testutils.CatalogEntries()...)
	cache := matching.NewCatalogCache(suite.ingredients, nil, matching.CacheConfig{}, zap.NewNop())
	suite.service = NewService(
		items,
		suite.recipes,
		suite.ingredients,
		cache,
		matching.NewSettings(matching.DefaultThresholds()),
		zap.NewNop(),
	)
	suite.clock = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.clock }
	suite.owner = uuid.New()
}

func (suite *PantryServiceTestSuite) add(name string, qty float64, expires *time.Time) *inbound.PantryItemDTO {
	dto, err := suite.service.AddItem(suite.ctx, inbound.AddPantryItemCommand{
		OwnerID:   suite.owner,
		Name:      name,
		Quantity:  qty,
		ExpiresAt: expires,
	})
	require.NoError(suite.T(), err)
	return dto
}

func (suite *PantryServiceTestSuite) entry(name string) ingredient.Entry {
	e, err := suite.ingredients.FindByName(suite.ctx, name)
	require.NoError(suite.T(), err)
	return *e
}

func (suite *PantryServiceTestSuite) TestAddItem() {
	suite.Run("KnownName_ShouldLinkCatalogEntry", func() {
		// Act
		dto := suite.add("Garlic", 1, nil)

		// Assert
		assert.Equal(suite.T(), suite.entry("garlic").ID, dto.IngredientID)
		assert.Equal(suite.T(), "garlic", dto.Name)
	})

	suite.Run("UnknownName_ShouldCreateCatalogEntry", func() {
		// Act
		dto := suite.add("sumac", 50, nil)

		// Assert
		assert.Equal(suite.T(), suite.entry("sumac").ID, dto.IngredientID)
	})

	suite.Run("NegativeQuantity_ShouldFailValidation", func() {
		// Act
		_, err := suite.service.AddItem(suite.ctx, inbound.AddPantryItemCommand{OwnerID: suite.owner, Name: "salt", Quantity: -1})

		// Assert
		testutils.AssertErrorCode(suite.T(), err, errors.CodeValidationFailed)
	})
}

func (suite *PantryServiceTestSuite) TestUpdateItem() {
	expires := suite.clock.Add(48 * time.Hour)
	item := suite.add("milk", 1, &expires)

	suite.Run("OtherOwner_ShouldBeForbidden", func() {
		// Act
		_, err := suite.service.UpdateItem(suite.ctx, inbound.UpdatePantryItemCommand{ItemID: item.ID, OwnerID: uuid.New()})

		// Assert
		testutils.AssertErrorCode(suite.T(), err, errors.CodeForbidden)
	})

	suite.Run("ClearExpiry_ShouldDropDate", func() {
		// Arrange
		qty := 2.5

		// Act
		dto, err := suite.service.UpdateItem(suite.ctx, inbound.UpdatePantryItemCommand{
			ItemID:      item.ID,
			OwnerID:     suite.owner,
			Quantity:    &qty,
			ClearExpiry: true,
		})

		// Assert
		require.NoError(suite.T(), err)
		assert.InDelta(suite.T(), 2.5, dto.Quantity, 1e-9)
		assert.Nil(suite.T(), dto.ExpiresAt)
	})

	suite.Run("Remove_ShouldDeleteItem", func() {
		// Act
		err := suite.service.RemoveItem(suite.ctx, item.ID, suite.owner)

		// Assert
		require.NoError(suite.T(), err)
		items, err := suite.service.ListItems(suite.ctx, suite.owner)
		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), items)
	})
}

func (suite *PantryServiceTestSuite) TestExpiringItems_ShouldReturnWindowSoonestFirst() {
	// Arrange
	later := suite.clock.Add(48 * time.Hour)
	sooner := suite.clock.Add(12 * time.Hour)
	farOff := suite.clock.Add(10 * 24 * time.Hour)
	suite.add("milk", 1, &later)
	suite.add("eggs", 6, &sooner)
	suite.add("butter", 1, &farOff)
	suite.add("salt", 1, nil)

	// Act
	items, err := suite.service.ExpiringItems(suite.ctx, suite.owner, 72*time.Hour)

	// Assert
	require.NoError(suite.T(), err)
	require.Len(suite.T(), items, 2)
	assert.Equal(suite.T(), "eggs", items[0].Name)
	assert.Equal(suite.T(), "milk", items[1].Name)
}

func (suite *PantryServiceTestSuite) TestCookableRecipes_ShouldRankByCoverage() {
	// Arrange
	suite.add("garlic", 5, nil)
	suite.add("onion", 2, nil)

	partial := testutils.NewRecipeBuilder().WithTitle("Garlic Chicken").
		WithIngredient(suite.entry("garlic"), 3, "cloves").
		WithIngredient(suite.entry("chicken breast"), 2, "").
		WithOptionalIngredient(suite.entry("salt"), 1, "tsp").Build()
	complete := testutils.NewRecipeBuilder().WithTitle("Onion Jam").
		WithIngredient(suite.entry("onion"), 4, "").
		WithIngredient(suite.entry("garlic"), 1, "clove").Build()
	none := testutils.NewRecipeBuilder().WithTitle("Milkshake").
		WithIngredient(suite.entry("milk"), 1, "cup").Build()
	require.NoError(suite.T(), suite.recipes.Save(suite.ctx, partial))
	require.NoError(suite.T(), suite.recipes.Save(suite.ctx, complete))
	require.NoError(suite.T(), suite.recipes.Save(suite.ctx, none))

	// Act
	out, err := suite.service.CookableRecipes(suite.ctx, suite.owner)

	// Assert
	require.NoError(suite.T(), err)
	require.Len(suite.T(), out, 2)
	assert.Equal(suite.T(), "Onion Jam", out[0].Recipe.Title)
	assert.True(suite.T(), out[0].Complete)
	assert.InDelta(suite.T(), 1.0, out[0].Coverage, 1e-9)
	assert.Equal(suite.T(), "Garlic Chicken", out[1].Recipe.Title)
	assert.InDelta(suite.T(), 0.5, out[1].Coverage, 1e-9)
	assert.Equal(suite.T(), []string{"chicken breast"}, out[1].Missing)
}

func TestPantryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PantryServiceTestSuite))
}
