package kvstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	"github.com/tmtrack/time_tracker_app/internal/platform/kv"
	"github.com/tmtrack/time_tracker_app/internal/repositories/kvstore"
)

type TimesheetRepositoryTestSuite struct {
	suite.Suite
	repos portsrepo.RepositoryProvider
	ctx   context.Context
}

func (suite *TimesheetRepositoryTestSuite) SetupTest() {
	suite.repos = kvstore.NewRepositoryProvider(kv.NewMemoryStore())
	suite.ctx = context.Background()
}

func (suite *TimesheetRepositoryTestSuite) newTimesheet(userID string) domain.Timesheet {
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	return domain.Timesheet{
		TimesheetID:     uuid.NewString(),
		UserID:          userID,
		ProjectID:       uuid.NewString(),
		TaskName:        "Fence repair",
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: 90,
	}
}

func (suite *TimesheetRepositoryTestSuite) TestSaveAndFindTimesheet() {
	ts := suite.newTimesheet(uuid.NewString())
	suite.Require().NoError(suite.repos.TimesheetRepo.SaveTimesheet(suite.ctx, ts))

	found, err := suite.repos.TimesheetRepo.FindTimesheetByID(suite.ctx, ts.TimesheetID)
	suite.Require().NoError(err)
	suite.Equal(ts.TaskName, found.TaskName)
	suite.Equal(90, found.DurationMinutes)
	suite.True(found.StartTime.Equal(ts.StartTime))
}

func (suite *TimesheetRepositoryTestSuite) TestFindTimesheetByID_NotFound() {
	_, err := suite.repos.TimesheetRepo.FindTimesheetByID(suite.ctx, uuid.NewString())
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TimesheetRepositoryTestSuite) TestListTimesheetsByUser_OnlyOwnEntries() {
	owner := uuid.NewString()
	other := uuid.NewString()
	a := suite.newTimesheet(owner)
	b := suite.newTimesheet(owner)
	c := suite.newTimesheet(other)
	suite.Require().NoError(suite.repos.TimesheetRepo.SaveTimesheet(suite.ctx, a))
	suite.Require().NoError(suite.repos.TimesheetRepo.SaveTimesheet(suite.ctx, b))
	suite.Require().NoError(suite.repos.TimesheetRepo.SaveTimesheet(suite.ctx, c))

	timesheets, err := suite.repos.TimesheetRepo.ListTimesheetsByUser(suite.ctx, owner)
	suite.Require().NoError(err)
	suite.Require().Len(timesheets, 2)
	suite.Equal(a.TimesheetID, timesheets[0].TimesheetID)
	suite.Equal(b.TimesheetID, timesheets[1].TimesheetID)
}

func (suite *TimesheetRepositoryTestSuite) TestListTimesheetsByUsers_FansOut() {
	alice := uuid.NewString()
	bob := uuid.NewString()
	a := suite.newTimesheet(alice)
	b := suite.newTimesheet(bob)
	suite.Require().NoError(suite.repos.TimesheetRepo.SaveTimesheet(suite.ctx, a))
	suite.Require().NoError(suite.repos.TimesheetRepo.SaveTimesheet(suite.ctx, b))

	timesheets, err := suite.repos.TimesheetRepo.ListTimesheetsByUsers(suite.ctx, []string{alice, bob})
	suite.Require().NoError(err)
	suite.Len(timesheets, 2)
}

func (suite *TimesheetRepositoryTestSuite) TestListTimesheetsByUsers_Empty() {
	timesheets, err := suite.repos.TimesheetRepo.ListTimesheetsByUsers(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.Empty(timesheets)
}

func (suite *TimesheetRepositoryTestSuite) TestUpdateTimesheet() {
	ts := suite.newTimesheet(uuid.NewString())
	suite.Require().NoError(suite.repos.TimesheetRepo.SaveTimesheet(suite.ctx, ts))

	ts.TaskName = "Gate install"
	ts.DurationMinutes = 120
	suite.Require().NoError(suite.repos.TimesheetRepo.UpdateTimesheet(suite.ctx, ts))

	found, err := suite.repos.TimesheetRepo.FindTimesheetByID(suite.ctx, ts.TimesheetID)
	suite.Require().NoError(err)
	suite.Equal("Gate install", found.TaskName)
	suite.Equal(120, found.DurationMinutes)
}

func (suite *TimesheetRepositoryTestSuite) TestDeleteTimesheet_RemovesIndexEntry() {
	owner := uuid.NewString()
	keep := suite.newTimesheet(owner)
	gone := suite.newTimesheet(owner)
	suite.Require().NoError(suite.repos.TimesheetRepo.SaveTimesheet(suite.ctx, keep))
	suite.Require().NoError(suite.repos.TimesheetRepo.SaveTimesheet(suite.ctx, gone))

	suite.Require().NoError(suite.repos.TimesheetRepo.DeleteTimesheet(suite.ctx, gone))

	_, err := suite.repos.TimesheetRepo.FindTimesheetByID(suite.ctx, gone.TimesheetID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	timesheets, err := suite.repos.TimesheetRepo.ListTimesheetsByUser(suite.ctx, owner)
	suite.Require().NoError(err)
	suite.Require().Len(timesheets, 1)
	suite.Equal(keep.TimesheetID, timesheets[0].TimesheetID)
}

func TestTimesheetRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TimesheetRepositoryTestSuite))
}
