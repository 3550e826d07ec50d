package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userapp "github.com/alchemorsel/recipebox/internal/application/user"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	apperrors "github.com/alchemorsel/recipebox/pkg/errors"
	"github.com/alchemorsel/recipebox/test/testutils"
)

type UserServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	users   *testutils.UserStore
	tokens  *testutils.MockTokenIssuer
	service *userapp.Service
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.users = testutils.NewUserStore()
	suite.tokens = new(testutils.MockTokenIssuer)
	suite.service = userapp.NewService(suite.users, suite.tokens, bcrypt.MinCost, zap.NewNop())
}

func (suite *UserServiceTestSuite) register(email string) *inbound.UserDTO {
	dto, err := suite.service.Register(suite.ctx, inbound.RegisterCommand{
		Email:    email,
		Name:     testutils.FakeName(),
		Password: "correct-horse",
	})
	require.NoError(suite.T(), err)
	return dto
}

func (suite *UserServiceTestSuite) TestRegister() {
	suite.Run("Valid_ShouldNormalizeEmail", func() {
		// Act
		dto := suite.register("  Cook@Example.COM ")

		// Assert
		assert.Equal(suite.T(), "cook@example.com", dto.Email)
		assert.NotNil(suite.T(), dto.DietaryPreferences)
	})

	suite.Run("DuplicateEmail_ShouldConflict", func() {
		// Act
		_, err := suite.service.Register(suite.ctx, inbound.RegisterCommand{
			Email:    "cook@example.com",
			Name:     "Second",
			Password: "correct-horse",
		})

		// Assert
		testutils.AssertErrorCode(suite.T(), err, apperrors.CodeEmailAlreadyExists)
	})

	suite.Run("ShortPassword_ShouldFailValidation", func() {
		// Act
		_, err := suite.service.Register(suite.ctx, inbound.RegisterCommand{
			Email:    testutils.FakeEmail(),
			Name:     "Short",
			Password: "abc",
		})

		// Assert
		testutils.AssertErrorCode(suite.T(), err, apperrors.CodeValidationFailed)
	})
}

func (suite *UserServiceTestSuite) TestLogin() {
	registered := suite.register("chef@example.com")
	pair := &outbound.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Hour)}
	suite.tokens.On("IssueTokens", registered.ID, "chef@example.com").Return(pair, nil)

	suite.Run("CorrectPassword_ShouldIssueTokens", func() {
		// Act
		resp, err := suite.service.Login(suite.ctx, inbound.LoginCommand{Email: "Chef@example.com", Password: "correct-horse"})

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "access", resp.AccessToken)
		assert.Equal(suite.T(), "Bearer", resp.TokenType)
		assert.NotNil(suite.T(), resp.User.LastLoginAt)
	})

	suite.Run("WrongPassword_ShouldReturnInvalidCredentials", func() {
		// Act
		_, err := suite.service.Login(suite.ctx, inbound.LoginCommand{Email: "chef@example.com", Password: "wrong-horse"})

		// Assert
		testutils.AssertErrorCode(suite.T(), err, apperrors.CodeInvalidCredentials)
	})

	suite.Run("UnknownEmail_ShouldReturnInvalidCredentials", func() {
		// Act
		_, err := suite.service.Login(suite.ctx, inbound.LoginCommand{Email: "nobody@example.com", Password: "correct-horse"})

		// Assert
		testutils.AssertErrorCode(suite.T(), err, apperrors.CodeInvalidCredentials)
	})

	suite.tokens.AssertNumberOfCalls(suite.T(), "IssueTokens", 1)
}

func (suite *UserServiceTestSuite) TestRefresh() {
	registered := suite.register("baker@example.com")
	pair := &outbound.TokenPair{AccessToken: "next", RefreshToken: "next-refresh"}
	suite.tokens.On("ParseRefreshToken", "good").Return(registered.ID, nil)
	suite.tokens.On("ParseRefreshToken", "orphan").Return(uuid.New(), nil)
	suite.tokens.On("ParseRefreshToken", "bad").Return(uuid.Nil, errors.New("bad signature"))
	suite.tokens.On("IssueTokens", registered.ID, mock.Anything).Return(pair, nil)

	suite.Run("ValidToken_ShouldIssueNewPair", func() {
		// Act
		resp, err := suite.service.Refresh(suite.ctx, "good")

		// Assert
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "next", resp.AccessToken)
	})

	suite.Run("BadToken_ShouldBeUnauthorized", func() {
		// Act
		_, err := suite.service.Refresh(suite.ctx, "bad")

		// Assert
		testutils.AssertErrorCode(suite.T(), err, apperrors.CodeUnauthorized)
	})

	suite.Run("DeletedUser_ShouldBeUnauthorized", func() {
		// Act
		_, err := suite.service.Refresh(suite.ctx, "orphan")

		// Assert
		testutils.AssertErrorCode(suite.T(), err, apperrors.CodeUnauthorized)
	})
}

func (suite *UserServiceTestSuite) TestUpdateProfile_ShouldNormalizePreferences() {
	// Arrange
	registered := suite.register("vegan@example.com")

	// Act
	dto, err := suite.service.UpdateProfile(suite.ctx, inbound.UpdateProfileCommand{
		UserID:             registered.ID,
		Name:               "Plant Cook",
		DietaryPreferences: []string{" Vegan", "vegan", "Gluten-Free"},
	})

	// Assert
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Plant Cook", dto.Name)
	assert.ElementsMatch(suite.T(), []string{"vegan", "gluten-free"}, dto.DietaryPreferences)

	profile, err := suite.service.Profile(suite.ctx, registered.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), dto.DietaryPreferences, profile.DietaryPreferences)
}

func (suite *UserServiceTestSuite) TestProfile_UnknownUser_ShouldReturnNotFound() {
	// Act
	_, err := suite.service.Profile(suite.ctx, uuid.New())

	// Assert
	testutils.AssertErrorCode(suite.T(), err, apperrors.CodeUserNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
