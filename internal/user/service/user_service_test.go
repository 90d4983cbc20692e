package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/reelmetrics/reelmetrics/internal/user/service"
	"github.com/reelmetrics/reelmetrics/pkg/errors"
	"github.com/reelmetrics/reelmetrics/pkg/events"
	"github.com/reelmetrics/reelmetrics/pkg/logger"
	"github.com/reelmetrics/reelmetrics/test/mocks"
	"github.com/reelmetrics/reelmetrics/test/testutil"
)

type UserServiceTestSuite struct {
	suite.Suite

	ctx         context.Context
	mockRepo    *mocks.MockUserRepository
	userService *service.UserService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(mocks.MockUserRepository)

	suite.userService = service.NewUserService(
		suite.mockRepo,
		events.NewInMemoryEventBus(logger.NewNoop()),
		logger.NewNoop(),
	)
}

func (suite *UserServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegister_Success() {
	// Arrange
	suite.mockRepo.On("UserExists", suite.ctx, "cinephile", "fan@example.com").Return(false, nil)
	suite.mockRepo.On("CreateUser", suite.ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	// Act
	user, err := suite.userService.Register(suite.ctx, "Cinephile", "Fan@Example.com", "password123", "Movie Fan")

	// Assert
	suite.Require().NoError(err)
	suite.NotNil(user)
	suite.Equal("cinephile", user.Username)
	suite.Equal("fan@example.com", user.Email)
	suite.Equal("Movie Fan", user.DisplayName)
	suite.NotEqual(uuid.Nil, user.ID)
	suite.True(user.CheckPassword("password123"))
}

func (suite *UserServiceTestSuite) TestRegister_UserExists() {
	// Arrange
	suite.mockRepo.On("UserExists", suite.ctx, "cinephile", "fan@example.com").Return(true, nil)

	// Act
	user, err := suite.userService.Register(suite.ctx, "cinephile", "fan@example.com", "password123", "")

	// Assert
	suite.Require().Error(err)
	suite.Nil(user)
	suite.True(errors.IsConflict(err))
}

func (suite *UserServiceTestSuite) TestRegister_MissingFields() {
	// Act
	user, err := suite.userService.Register(suite.ctx, "", "", "", "")

	// Assert
	suite.Require().Error(err)
	suite.Nil(user)
	suite.True(errors.IsBadRequest(err))
}

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	// Arrange
	existing := testutil.CreateTestUser("cinephile", "fan@example.com")
	suite.mockRepo.On("GetUserByUsername", suite.ctx, "cinephile").Return(existing, nil)
	suite.mockRepo.On("UpdateUser", suite.ctx, existing).Return(nil)

	// Act
	user, err := suite.userService.Authenticate(suite.ctx, "cinephile", "testpass123")

	// Assert
	suite.Require().NoError(err)
	suite.NotNil(user)
	suite.NotNil(user.LastLoginAt)
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	// Arrange
	existing := testutil.CreateTestUser("cinephile", "fan@example.com")
	suite.mockRepo.On("GetUserByUsername", suite.ctx, "cinephile").Return(existing, nil)

	// Act
	user, err := suite.userService.Authenticate(suite.ctx, "cinephile", "wrong")

	// Assert
	suite.Require().Error(err)
	suite.Nil(user)
	suite.True(errors.IsUnauthorized(err))
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownUserIndistinguishable() {
	// Arrange: unknown users get the same error as a wrong password
	suite.mockRepo.On("GetUserByUsername", suite.ctx, "ghost").
		Return(nil, errors.NotFound("user not found"))

	// Act
	user, err := suite.userService.Authenticate(suite.ctx, "ghost", "whatever")

	// Assert
	suite.Require().Error(err)
	suite.Nil(user)
	suite.True(errors.IsUnauthorized(err))
}

func (suite *UserServiceTestSuite) TestAuthenticate_LoginTimeUpdateFailureIsNonFatal() {
	// Arrange
	existing := testutil.CreateTestUser("cinephile", "fan@example.com")
	suite.mockRepo.On("GetUserByUsername", suite.ctx, "cinephile").Return(existing, nil)
	suite.mockRepo.On("UpdateUser", suite.ctx, existing).
		Return(errors.Unavailable("db down", nil))

	// Act
	user, err := suite.userService.Authenticate(suite.ctx, "cinephile", "testpass123")

	// Assert
	suite.Require().NoError(err)
	suite.NotNil(user)
}

func (suite *UserServiceTestSuite) TestChangePassword_WrongOldPassword() {
	// Arrange
	existing := testutil.CreateTestUser("cinephile", "fan@example.com")
	suite.mockRepo.On("GetUser", suite.ctx, existing.ID).Return(existing, nil)

	// Act
	err := suite.userService.ChangePassword(suite.ctx, existing.ID, "wrong", "newpass456")

	// Assert
	suite.Require().Error(err)
	suite.True(errors.IsUnauthorized(err))
}

func (suite *UserServiceTestSuite) TestAddFavorite() {
	// Arrange
	userID := uuid.New()
	suite.mockRepo.On("AddFavorite", suite.ctx, userID, uint(7)).Return(nil)

	// Act
	err := suite.userService.AddFavorite(suite.ctx, userID, 7)

	// Assert
	suite.Require().NoError(err)
}

func (suite *UserServiceTestSuite) TestAddFavorite_MovieNotFound() {
	// Arrange
	userID := uuid.New()
	suite.mockRepo.On("AddFavorite", suite.ctx, userID, uint(999)).
		Return(errors.NotFound("movie not found"))

	// Act
	err := suite.userService.AddFavorite(suite.ctx, userID, 999)

	// Assert
	suite.Require().Error(err)
	suite.True(errors.IsNotFound(err))
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
