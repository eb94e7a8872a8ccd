package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUsersByOrganization(ctx context.Context, orgID string) ([]domain.User, error) {
	args := m.Called(ctx, orgID)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock OrganizationRepository ---

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	args := m.Called(ctx, orgID)
	var org *domain.Organization
	if args.Get(0) != nil {
		org = args.Get(0).(*domain.Organization)
	}
	return org, args.Error(1)
}

func (m *MockOrganizationRepository) CreateOrganizationWithAdmin(ctx context.Context, org domain.Organization, admin domain.User) error {
	args := m.Called(ctx, org, admin)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

// --- Mock ProjectRepository ---

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	var project *domain.Project
	if args.Get(0) != nil {
		project = args.Get(0).(*domain.Project)
	}
	return project, args.Error(1)
}

func (m *MockProjectRepository) ListProjectsByOrganization(ctx context.Context, orgID string) ([]domain.Project, error) {
	args := m.Called(ctx, orgID)
	var projects []domain.Project
	if args.Get(0) != nil {
		projects = args.Get(0).([]domain.Project)
	}
	return projects, args.Error(1)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) DeleteProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

// --- Mock TimesheetRepository ---

type MockTimesheetRepository struct {
	mock.Mock
}

func (m *MockTimesheetRepository) FindTimesheetByID(ctx context.Context, timesheetID string) (*domain.Timesheet, error) {
	args := m.Called(ctx, timesheetID)
	var ts *domain.Timesheet
	if args.Get(0) != nil {
		ts = args.Get(0).(*domain.Timesheet)
	}
	return ts, args.Error(1)
}

func (m *MockTimesheetRepository) ListTimesheetsByUser(ctx context.Context, userID string) ([]domain.Timesheet, error) {
	args := m.Called(ctx, userID)
	var timesheets []domain.Timesheet
	if args.Get(0) != nil {
		timesheets = args.Get(0).([]domain.Timesheet)
	}
	return timesheets, args.Error(1)
}

func (m *MockTimesheetRepository) ListTimesheetsByUsers(ctx context.Context, userIDs []string) ([]domain.Timesheet, error) {
	args := m.Called(ctx, userIDs)
	var timesheets []domain.Timesheet
	if args.Get(0) != nil {
		timesheets = args.Get(0).([]domain.Timesheet)
	}
	return timesheets, args.Error(1)
}

func (m *MockTimesheetRepository) SaveTimesheet(ctx context.Context, timesheet domain.Timesheet) error {
	args := m.Called(ctx, timesheet)
	return args.Error(0)
}

func (m *MockTimesheetRepository) UpdateTimesheet(ctx context.Context, timesheet domain.Timesheet) error {
	args := m.Called(ctx, timesheet)
	return args.Error(0)
}

func (m *MockTimesheetRepository) DeleteTimesheet(ctx context.Context, timesheet domain.Timesheet) error {
	args := m.Called(ctx, timesheet)
	return args.Error(0)
}

// --- Mock InviteCodeRepository ---

type MockInviteCodeRepository struct {
	mock.Mock
}

func (m *MockInviteCodeRepository) FindInviteCodeByID(ctx context.Context, inviteCodeID string) (*domain.InviteCode, error) {
	args := m.Called(ctx, inviteCodeID)
	var code *domain.InviteCode
	if args.Get(0) != nil {
		code = args.Get(0).(*domain.InviteCode)
	}
	return code, args.Error(1)
}

func (m *MockInviteCodeRepository) FindInviteCodeByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	args := m.Called(ctx, code)
	var ic *domain.InviteCode
	if args.Get(0) != nil {
		ic = args.Get(0).(*domain.InviteCode)
	}
	return ic, args.Error(1)
}

func (m *MockInviteCodeRepository) ListInviteCodesByOrganization(ctx context.Context, orgID string) ([]domain.InviteCode, error) {
	args := m.Called(ctx, orgID)
	var codes []domain.InviteCode
	if args.Get(0) != nil {
		codes = args.Get(0).([]domain.InviteCode)
	}
	return codes, args.Error(1)
}

func (m *MockInviteCodeRepository) SaveInviteCode(ctx context.Context, code domain.InviteCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockInviteCodeRepository) UpdateInviteCode(ctx context.Context, code domain.InviteCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockInviteCodeRepository) DeleteInviteCode(ctx context.Context, code domain.InviteCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockInviteCodeRepository) RedeemInviteCode(ctx context.Context, code string, newUser domain.User) (*domain.InviteCode, error) {
	args := m.Called(ctx, code, newUser)
	var ic *domain.InviteCode
	if args.Get(0) != nil {
		ic = args.Get(0).(*domain.InviteCode)
	}
	return ic, args.Error(1)
}

// --- Mock CallerAuthorizer ---

type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) RequireCaller(ctx context.Context, requestingUserID string) (*domain.User, error) {
	args := m.Called(ctx, requestingUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockAuthorizer) RequireOrgAdmin(ctx context.Context, requestingUserID, orgID string) (*domain.User, error) {
	args := m.Called(ctx, requestingUserID, orgID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}
