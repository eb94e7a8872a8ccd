package services_test

import (
	"context"
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
)

type TimesheetServiceTestSuite struct {
	suite.Suite
	mockTimesheetRepo *MockTimesheetRepository
	mockProjectRepo   *MockProjectRepository
	mockAuthorizer    *MockAuthorizer
	service           portssvc.TimesheetSvcFacade

	orgID     string
	userID    string
	projectID string
}

func (suite *TimesheetServiceTestSuite) SetupTest() {
	suite.mockTimesheetRepo = new(MockTimesheetRepository)
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockAuthorizer = new(MockAuthorizer)
	suite.service = services.NewTimesheetService(suite.mockTimesheetRepo, suite.mockProjectRepo, suite.mockAuthorizer)

	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.projectID = uuid.NewString()
}

func (suite *TimesheetServiceTestSuite) staff() *domain.User {
	return &domain.User{
		UserID:         suite.userID,
		Role:           domain.RoleStaff,
		OrganizationID: &suite.orgID,
	}
}

func (suite *TimesheetServiceTestSuite) project() *domain.Project {
	return &domain.Project{
		ProjectID:      suite.projectID,
		OrganizationID: suite.orgID,
		AssignedUsers:  []string{suite.userID},
	}
}

func (suite *TimesheetServiceTestSuite) createReq() dto.CreateTimesheetRequest {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return dto.CreateTimesheetRequest{
		ProjectID:       suite.projectID,
		TaskName:        "Window cleaning",
		StartTime:       start,
		EndTime:         start.Add(90 * time.Minute),
		DurationMinutes: 90,
	}
}

func (suite *TimesheetServiceTestSuite) TestCreateTimesheet_Success() {
	ctx := context.Background()
	req := suite.createReq()

	suite.mockAuthorizer.On("RequireCaller", ctx, suite.userID).Return(suite.staff(), nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(suite.project(), nil).Once()
	suite.mockTimesheetRepo.On("SaveTimesheet", ctx, mock.MatchedBy(func(ts domain.Timesheet) bool {
		return ts.UserID == suite.userID &&
			ts.ProjectID == suite.projectID &&
			ts.DurationMinutes == 90 &&
			ts.TimesheetID != ""
	})).Return(nil).Once()

	ts, err := suite.service.CreateTimesheet(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(ts)
	suite.Equal(suite.userID, ts.UserID)
	suite.Equal("Window cleaning", ts.TaskName)
	suite.mockTimesheetRepo.AssertExpectations(suite.T())
}

func (suite *TimesheetServiceTestSuite) TestCreateTimesheet_NonPositiveDuration() {
	ctx := context.Background()
	req := suite.createReq()
	req.DurationMinutes = 0

	suite.mockAuthorizer.On("RequireCaller", ctx, suite.userID).Return(suite.staff(), nil).Once()

	ts, err := suite.service.CreateTimesheet(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(ts)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTimesheetRepo.AssertNotCalled(suite.T(), "SaveTimesheet", mock.Anything, mock.Anything)
}

func (suite *TimesheetServiceTestSuite) TestCreateTimesheet_EndBeforeStart() {
	ctx := context.Background()
	req := suite.createReq()
	req.EndTime = req.StartTime.Add(-time.Minute)

	suite.mockAuthorizer.On("RequireCaller", ctx, suite.userID).Return(suite.staff(), nil).Once()

	ts, err := suite.service.CreateTimesheet(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(ts)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TimesheetServiceTestSuite) TestCreateTimesheet_ProjectInOtherOrg() {
	ctx := context.Background()
	req := suite.createReq()
	foreignProject := &domain.Project{
		ProjectID:      suite.projectID,
		OrganizationID: uuid.NewString(),
	}

	suite.mockAuthorizer.On("RequireCaller", ctx, suite.userID).Return(suite.staff(), nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(foreignProject, nil).Once()

	ts, err := suite.service.CreateTimesheet(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(ts)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TimesheetServiceTestSuite) TestGetTimesheet_OwnerSees() {
	ctx := context.Background()
	tsID := uuid.NewString()
	existing := &domain.Timesheet{TimesheetID: tsID, UserID: suite.userID, ProjectID: suite.projectID}

	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, tsID).Return(existing, nil).Once()

	ts, err := suite.service.GetTimesheet(ctx, suite.userID, tsID)

	suite.Require().NoError(err)
	suite.Equal(tsID, ts.TimesheetID)
	suite.mockAuthorizer.AssertNotCalled(suite.T(), "RequireCaller", mock.Anything, mock.Anything)
}

func (suite *TimesheetServiceTestSuite) TestGetTimesheet_OrgAdminSees() {
	ctx := context.Background()
	tsID := uuid.NewString()
	adminID := uuid.NewString()
	admin := &domain.User{UserID: adminID, Role: domain.RoleAdmin, OrganizationID: &suite.orgID}
	existing := &domain.Timesheet{TimesheetID: tsID, UserID: suite.userID, ProjectID: suite.projectID}

	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, tsID).Return(existing, nil).Once()
	suite.mockAuthorizer.On("RequireCaller", ctx, adminID).Return(admin, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(suite.project(), nil).Once()

	ts, err := suite.service.GetTimesheet(ctx, adminID, tsID)

	suite.Require().NoError(err)
	suite.Equal(tsID, ts.TimesheetID)
}

func (suite *TimesheetServiceTestSuite) TestGetTimesheet_OtherStaffForbidden() {
	ctx := context.Background()
	tsID := uuid.NewString()
	otherID := uuid.NewString()
	other := &domain.User{UserID: otherID, Role: domain.RoleStaff, OrganizationID: &suite.orgID}
	existing := &domain.Timesheet{TimesheetID: tsID, UserID: suite.userID, ProjectID: suite.projectID}

	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, tsID).Return(existing, nil).Once()
	suite.mockAuthorizer.On("RequireCaller", ctx, otherID).Return(other, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(suite.project(), nil).Once()

	ts, err := suite.service.GetTimesheet(ctx, otherID, tsID)

	suite.Require().Error(err)
	suite.Nil(ts)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TimesheetServiceTestSuite) TestUpdateTimesheet_RecomputesDuration() {
	ctx := context.Background()
	tsID := uuid.NewString()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	existing := &domain.Timesheet{
		TimesheetID:     tsID,
		UserID:          suite.userID,
		ProjectID:       suite.projectID,
		StartTime:       start,
		EndTime:         start.Add(60 * time.Minute),
		DurationMinutes: 60,
	}
	newEnd := start.Add(145 * time.Minute)

	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, tsID).Return(existing, nil).Once()
	suite.mockTimesheetRepo.On("UpdateTimesheet", ctx, mock.MatchedBy(func(ts domain.Timesheet) bool {
		return ts.DurationMinutes == 145 && ts.EndTime.Equal(newEnd)
	})).Return(nil).Once()

	ts, err := suite.service.UpdateTimesheet(ctx, suite.userID, tsID, dto.UpdateTimesheetRequest{EndTime: &newEnd})

	suite.Require().NoError(err)
	suite.Equal(145, ts.DurationMinutes)
	suite.mockTimesheetRepo.AssertExpectations(suite.T())
}

func (suite *TimesheetServiceTestSuite) TestUpdateTimesheet_NotOwnerForbidden() {
	ctx := context.Background()
	tsID := uuid.NewString()
	otherID := uuid.NewString()
	existing := &domain.Timesheet{TimesheetID: tsID, UserID: suite.userID}
	name := "Repainting"

	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, tsID).Return(existing, nil).Once()

	ts, err := suite.service.UpdateTimesheet(ctx, otherID, tsID, dto.UpdateTimesheetRequest{TaskName: &name})

	suite.Require().Error(err)
	suite.Nil(ts)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTimesheetRepo.AssertNotCalled(suite.T(), "UpdateTimesheet", mock.Anything, mock.Anything)
}

func (suite *TimesheetServiceTestSuite) TestDeleteTimesheet_NotOwnerForbidden() {
	ctx := context.Background()
	tsID := uuid.NewString()
	otherID := uuid.NewString()
	existing := &domain.Timesheet{TimesheetID: tsID, UserID: suite.userID}

	suite.mockTimesheetRepo.On("FindTimesheetByID", ctx, tsID).Return(existing, nil).Once()

	err := suite.service.DeleteTimesheet(ctx, otherID, tsID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTimesheetRepo.AssertNotCalled(suite.T(), "DeleteTimesheet", mock.Anything, mock.Anything)
}

func (suite *TimesheetServiceTestSuite) TestListMyTimesheets_FiltersAndSortsNewestFirst() {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	otherProject := uuid.NewString()
	entries := []domain.Timesheet{
		{TimesheetID: "a", UserID: suite.userID, ProjectID: suite.projectID, StartTime: base},
		{TimesheetID: "b", UserID: suite.userID, ProjectID: suite.projectID, StartTime: base.Add(48 * time.Hour)},
		{TimesheetID: "c", UserID: suite.userID, ProjectID: otherProject, StartTime: base.Add(24 * time.Hour)},
	}

	suite.mockTimesheetRepo.On("ListTimesheetsByUser", ctx, suite.userID).Return(entries, nil).Once()

	got, err := suite.service.ListMyTimesheets(ctx, suite.userID, dto.TimesheetFilter{ProjectID: suite.projectID})

	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Equal("b", got[0].TimesheetID)
	suite.Equal("a", got[1].TimesheetID)
}

func (suite *TimesheetServiceTestSuite) TestListMyTimesheets_DateRange() {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	from := base.Add(12 * time.Hour)
	entries := []domain.Timesheet{
		{TimesheetID: "old", UserID: suite.userID, StartTime: base},
		{TimesheetID: "new", UserID: suite.userID, StartTime: base.Add(24 * time.Hour)},
	}

	suite.mockTimesheetRepo.On("ListTimesheetsByUser", ctx, suite.userID).Return(entries, nil).Once()

	got, err := suite.service.ListMyTimesheets(ctx, suite.userID, dto.TimesheetFilter{StartDate: &from})

	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal("new", got[0].TimesheetID)
}

func TestTimesheetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TimesheetServiceTestSuite))
}
