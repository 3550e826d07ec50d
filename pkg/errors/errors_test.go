package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AppErrorTestSuite struct {
	suite.Suite
}

func (suite *AppErrorTestSuite) TestStatusCode() {
	cases := map[*AppError]int{
		NewBadRequestError("bad"):            http.StatusBadRequest,
		NewValidationError("title required"): http.StatusUnprocessableEntity,
		NewInvalidCredentialsError():         http.StatusUnauthorized,
		NewForbiddenError("delete recipe"):   http.StatusForbidden,
		NewRecipeNotFoundError("42"):         http.StatusNotFound,
		NewIngredientNotFoundError(7):        http.StatusNotFound,
		NewDuplicateIngredientError("salt"):  http.StatusConflict,
		NewIngredientInUseError(3, 2):        http.StatusConflict,
		NewDatabaseError("save", nil):        http.StatusInternalServerError,
		NewExternalServiceError("ai", nil):   http.StatusBadGateway,
	}

	for err, status := range cases {
		assert.Equal(suite.T(), status, err.StatusCode(), string(err.Code))
	}
}

func (suite *AppErrorTestSuite) TestWrap() {
	suite.Run("Nil_ShouldReturnNil", func() {
		assert.Nil(suite.T(), Wrap(nil, "ignored"))
	})

	suite.Run("PlainError_ShouldBecomeInternal", func() {
		// Arrange
		cause := stderrors.New("boom")

		// Act
		wrapped := Wrap(cause, "failed")

		// Assert
		assert.Equal(suite.T(), CodeInternal, wrapped.Code)
		assert.True(suite.T(), stderrors.Is(wrapped, cause))
	})

	suite.Run("WrappedAppError_ShouldKeepCode", func() {
		// Arrange
		inner := NewRecipeNotFoundError("abc")
		outer := fmt.Errorf("loading: %w", inner)

		// Act
		wrapped := Wrap(outer, "failed")

		// Assert
		assert.Equal(suite.T(), CodeRecipeNotFound, wrapped.Code)
		assert.True(suite.T(), Is(outer, CodeRecipeNotFound))
		assert.Equal(suite.T(), CodeRecipeNotFound, GetCode(outer))
	})
}

func (suite *AppErrorTestSuite) TestNotFoundMessage() {
	err := NewNotFoundError("recipe")
	assert.Equal(suite.T(), "Recipe not found", err.Message)
}

func TestAppErrorTestSuite(t *testing.T) {
	suite.Run(t, new(AppErrorTestSuite))
}
