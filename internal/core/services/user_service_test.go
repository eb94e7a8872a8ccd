package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/core/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade

	orgID string
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
	suite.orgID = uuid.NewString()
}

func (suite *UserServiceTestSuite) TestRequireCaller_UnknownUserIsUnauthorized() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	authorizer := suite.service.(portssvc.CallerAuthorizerSvc)
	user, err := authorizer.RequireCaller(ctx, userID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestRequireOrgAdmin_StaffForbidden() {
	ctx := context.Background()
	userID := uuid.NewString()
	staff := &domain.User{UserID: userID, Role: domain.RoleStaff, OrganizationID: &suite.orgID}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(staff, nil).Once()

	authorizer := suite.service.(portssvc.CallerAuthorizerSvc)
	user, err := authorizer.RequireOrgAdmin(ctx, userID, suite.orgID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestRequireOrgAdmin_AdminOfOtherOrgForbidden() {
	ctx := context.Background()
	userID := uuid.NewString()
	otherOrg := uuid.NewString()
	admin := &domain.User{UserID: userID, Role: domain.RoleAdmin, OrganizationID: &otherOrg}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(admin, nil).Once()

	authorizer := suite.service.(portssvc.CallerAuthorizerSvc)
	user, err := authorizer.RequireOrgAdmin(ctx, userID, suite.orgID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestAdminUpdateUser_CannotChangeOwnRole() {
	ctx := context.Background()
	adminID := uuid.NewString()
	admin := &domain.User{UserID: adminID, Role: domain.RoleAdmin, OrganizationID: &suite.orgID}
	staffRole := "staff"

	suite.mockUserRepo.On("FindUserByID", ctx, adminID).Return(admin, nil).Twice()

	user, err := suite.service.AdminUpdateUser(ctx, adminID, adminID, dto.AdminUpdateUserRequest{Role: &staffRole})

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAdminUpdateUser_PromotesStaff() {
	ctx := context.Background()
	adminID := uuid.NewString()
	staffID := uuid.NewString()
	admin := &domain.User{UserID: adminID, Role: domain.RoleAdmin, OrganizationID: &suite.orgID}
	staff := &domain.User{UserID: staffID, Role: domain.RoleStaff, OrganizationID: &suite.orgID}
	adminRole := "admin"

	suite.mockUserRepo.On("FindUserByID", ctx, staffID).Return(staff, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, adminID).Return(admin, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == staffID && u.Role == domain.RoleAdmin
	})).Return(nil).Once()

	user, err := suite.service.AdminUpdateUser(ctx, adminID, staffID, dto.AdminUpdateUserRequest{Role: &adminRole})

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, user.Role)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser_SelfDeleteForbidden() {
	ctx := context.Background()
	adminID := uuid.NewString()

	err := suite.service.DeleteUser(ctx, adminID, adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "DeleteUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeleteUser_Success() {
	ctx := context.Background()
	adminID := uuid.NewString()
	staffID := uuid.NewString()
	admin := &domain.User{UserID: adminID, Role: domain.RoleAdmin, OrganizationID: &suite.orgID}
	staff := &domain.User{UserID: staffID, Role: domain.RoleStaff, OrganizationID: &suite.orgID}

	suite.mockUserRepo.On("FindUserByID", ctx, staffID).Return(staff, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, adminID).Return(admin, nil).Once()
	suite.mockUserRepo.On("DeleteUser", ctx, *staff).Return(nil).Once()

	err := suite.service.DeleteUser(ctx, adminID, staffID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestListOrganizationUsers_NonMemberForbidden() {
	ctx := context.Background()
	userID := uuid.NewString()
	outsider := &domain.User{UserID: userID, Role: domain.RoleStaff}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(outsider, nil).Once()

	users, err := suite.service.ListOrganizationUsers(ctx, userID, suite.orgID)

	suite.Require().Error(err)
	suite.Nil(users)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestListOrganizationUsers_StaffMemberSeesRoster() {
	ctx := context.Background()
	userID := uuid.NewString()
	member := &domain.User{UserID: userID, Role: domain.RoleStaff, OrganizationID: &suite.orgID}
	roster := []domain.User{*member, {UserID: uuid.NewString(), OrganizationID: &suite.orgID}}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(member, nil).Once()
	suite.mockUserRepo.On("FindUsersByOrganization", ctx, suite.orgID).Return(roster, nil).Once()

	users, err := suite.service.ListOrganizationUsers(ctx, userID, suite.orgID)

	suite.Require().NoError(err)
	suite.Len(users, 2)
}

func (suite *UserServiceTestSuite) TestUpdateMyProfile_IgnoresRoleEscalation() {
	ctx := context.Background()
	userID := uuid.NewString()
	stored := &domain.User{UserID: userID, Name: "Old Name", Role: domain.RoleStaff, OrganizationID: &suite.orgID}
	name := "New Name"

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(stored, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == name && u.Role == domain.RoleStaff
	})).Return(nil).Once()

	user, err := suite.service.UpdateMyProfile(ctx, userID, dto.UpdateMyProfileRequest{Name: &name})

	suite.Require().NoError(err)
	suite.Equal(name, user.Name)
	suite.Equal(domain.RoleStaff, user.Role)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
