package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/core/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
	"github.com/tmtrack/time_tracker_app/internal/platform/config"
	"github.com/tmtrack/time_tracker_app/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo       *MockUserRepository
	mockOrgRepo        *MockOrganizationRepository
	mockInviteCodeRepo *MockInviteCodeRepository
	service            portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockInviteCodeRepo = new(MockInviteCodeRepository)
	suite.service = services.NewAuthService(suite.mockUserRepo, suite.mockOrgRepo, suite.mockInviteCodeRepo)
}

func (suite *AuthServiceTestSuite) TestSignup_BothOnboardingPathsRejected() {
	ctx := context.Background()
	req := dto.SignupRequest{
		Email:            "a@b.com",
		Password:         "password123",
		Name:             "A",
		InviteCode:       "ABCD2345",
		OrganizationName: "Acme",
	}

	user, err := suite.service.Signup(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestSignup_InviteCodePath() {
	ctx := context.Background()
	orgID := uuid.NewString()
	redeemed := &domain.InviteCode{
		InviteCodeID:   uuid.NewString(),
		Code:           "ABCD2345",
		OrganizationID: orgID,
		CurrentUses:    1,
		IsActive:       true,
	}
	req := dto.SignupRequest{
		Email:      "Staff@Example.com",
		Password:   "password123",
		Name:       "New Staff",
		InviteCode: "abcd2345",
	}

	suite.mockInviteCodeRepo.On("RedeemInviteCode", ctx, "ABCD2345", mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "staff@example.com" &&
			u.Role == domain.RoleStaff &&
			u.AuthProvider == "password" &&
			u.PasswordHash != "" &&
			u.PasswordHash != "password123"
	})).Return(redeemed, nil).Once()

	user, err := suite.service.Signup(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user.OrganizationID)
	suite.Equal(orgID, *user.OrganizationID)
	suite.Equal(domain.RoleStaff, user.Role)
	suite.mockInviteCodeRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestSignup_UnknownInviteCode() {
	ctx := context.Background()
	req := dto.SignupRequest{
		Email:      "a@b.com",
		Password:   "password123",
		Name:       "A",
		InviteCode: "NOPE2345",
	}

	suite.mockInviteCodeRepo.On("RedeemInviteCode", ctx, "NOPE2345", mock.AnythingOfType("domain.User")).Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.Signup(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrValidation)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal("Invalid or expired invite code", appErr.Message)
}

func (suite *AuthServiceTestSuite) TestSignup_ExhaustedInviteCodeMessage() {
	ctx := context.Background()
	req := dto.SignupRequest{
		Email:      "late@b.com",
		Password:   "password123",
		Name:       "Late Joiner",
		InviteCode: "ABCD2345",
	}

	// The repository reports a code past its usage limit as a validation
	// failure; the caller must still see the dedicated rejection message.
	suite.mockInviteCodeRepo.On("RedeemInviteCode", ctx, "ABCD2345", mock.AnythingOfType("domain.User")).
		Return(nil, fmt.Errorf("%w: invite code is not redeemable", apperrors.ErrValidation)).Once()

	user, err := suite.service.Signup(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)

	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal("Invalid or expired invite code", appErr.Message)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AuthServiceTestSuite) TestSignup_OrganizationPath() {
	ctx := context.Background()
	req := dto.SignupRequest{
		Email:            "founder@acme.com",
		Password:         "password123",
		Name:             "Founder",
		OrganizationName: "Acme Cleaning",
	}

	suite.mockOrgRepo.On("CreateOrganizationWithAdmin", ctx,
		mock.MatchedBy(func(org domain.Organization) bool {
			return org.Name == "Acme Cleaning" && org.OrganizationID != ""
		}),
		mock.MatchedBy(func(u domain.User) bool {
			return u.Role == domain.RoleAdmin && u.OrganizationID != nil
		}),
	).Return(nil).Once()

	user, err := suite.service.Signup(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, user.Role)
	suite.Require().NotNil(user.OrganizationID)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestSignup_NoOrganizationPath() {
	ctx := context.Background()
	req := dto.SignupRequest{
		Email:    "solo@b.com",
		Password: "password123",
		Name:     "Solo",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.OrganizationID == nil && u.Role == domain.RoleStaff
	})).Return(nil).Once()

	user, err := suite.service.Signup(ctx, req)

	suite.Require().NoError(err)
	suite.Nil(user.OrganizationID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestSignup_DuplicateEmail() {
	ctx := context.Background()
	req := dto.SignupRequest{
		Email:    "taken@b.com",
		Password: "password123",
		Name:     "Dupe",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.Signup(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AuthServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("password123")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: uuid.NewString(), Email: "a@b.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "a@b.com").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "A@B.com", "password123")

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
}

func (suite *AuthServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("password123")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: uuid.NewString(), Email: "a@b.com", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "a@b.com").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "a@b.com", "wrong-password")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestAuthenticateUser_UnknownEmailSameError() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "ghost@b.com").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.AuthenticateUser(ctx, "ghost@b.com", "password123")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestGetOrCreateGoogleUser_ExistingUserReturned() {
	ctx := context.Background()
	stored := &domain.User{UserID: uuid.NewString(), Email: "g@b.com", AuthProvider: "google"}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "g@b.com").Return(stored, nil).Once()

	user, err := suite.service.GetOrCreateGoogleUser(ctx, domain.GoogleUserInfo{ID: "123", Email: "G@b.com", Name: "G"}, "", "")

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestGetOrCreateGoogleUser_ProvisionsWithoutPassword() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "new@b.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.AuthProvider == "google" && u.ProviderUserID == "sub-1" && u.PasswordHash == ""
	})).Return(nil).Once()

	user, err := suite.service.GetOrCreateGoogleUser(ctx, domain.GoogleUserInfo{ID: "sub-1", Email: "new@b.com", Name: "New"}, "", "")

	suite.Require().NoError(err)
	suite.Equal("google", user.AuthProvider)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

// --- Token service ---

type TokenServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.TokenSvcFacade
	cfg          *config.Config
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.cfg = &config.Config{
		JWTSecret:                  "test-secret",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "ttr-test",
		RefreshTokenExpiryDuration: 24 * time.Hour,
	}
	userService := services.NewUserService(suite.mockUserRepo)
	suite.service = services.NewTokenService(suite.cfg, userService)
}

func (suite *TokenServiceTestSuite) TestGenerateAccessToken_SubjectIsUserID() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString()}

	token, expiresAt, err := suite.service.GenerateAccessToken(ctx, user)

	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.WithinDuration(time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, suite.cfg.JWTSecret)
	suite.Require().NoError(err)
	suite.Equal(user.UserID, claims.Subject)
}

func (suite *TokenServiceTestSuite) TestValidateRefreshToken_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	raw, _, err := suite.service.GenerateRefreshToken(ctx, &domain.User{UserID: userID})
	suite.Require().NoError(err)

	expiry := time.Now().Add(time.Hour)
	stored := &domain.User{
		UserID:                 userID,
		RefreshTokenHash:       utils.HashRefreshToken(raw),
		RefreshTokenExpiryTime: &expiry,
	}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Once()

	user, err := suite.service.ValidateAndParseRefreshToken(ctx, userID, raw)

	suite.Require().NoError(err)
	suite.Equal(userID, user.UserID)
}

func (suite *TokenServiceTestSuite) TestValidateRefreshToken_Expired() {
	ctx := context.Background()
	userID := uuid.NewString()
	raw, _, err := suite.service.GenerateRefreshToken(ctx, &domain.User{UserID: userID})
	suite.Require().NoError(err)

	expiry := time.Now().Add(-time.Minute)
	stored := &domain.User{
		UserID:                 userID,
		RefreshTokenHash:       utils.HashRefreshToken(raw),
		RefreshTokenExpiryTime: &expiry,
	}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Once()

	user, err := suite.service.ValidateAndParseRefreshToken(ctx, userID, raw)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrRefreshTokenExpired)
}

func (suite *TokenServiceTestSuite) TestValidateRefreshToken_Mismatch() {
	ctx := context.Background()
	userID := uuid.NewString()
	expiry := time.Now().Add(time.Hour)
	stored := &domain.User{
		UserID:                 userID,
		RefreshTokenHash:       utils.HashRefreshToken("some-other-token"),
		RefreshTokenExpiryTime: &expiry,
	}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Once()

	user, err := suite.service.ValidateAndParseRefreshToken(ctx, userID, "not-the-token")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
