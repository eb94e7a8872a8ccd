package repositories

import (
	"context"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// TimesheetReader defines read operations for timesheet data.
type TimesheetReader interface {
	// FindTimesheetByID retrieves a specific timesheet entry by its ID.
	FindTimesheetByID(ctx context.Context, timesheetID string) (*domain.Timesheet, error)

	// ListTimesheetsByUser retrieves all entries of one user, in index order.
	ListTimesheetsByUser(ctx context.Context, userID string) ([]domain.Timesheet, error)

	// ListTimesheetsByUsers fans out over several users' indexes and batch
	// fetches every entry. This is the backing read for organization reports.
	ListTimesheetsByUsers(ctx context.Context, userIDs []string) ([]domain.Timesheet, error)
}

// TimesheetWriter defines write operations for timesheet data.
type TimesheetWriter interface {
	// SaveTimesheet persists a new entry and appends it to the owner's
	// timesheet index, atomically.
	SaveTimesheet(ctx context.Context, timesheet domain.Timesheet) error

	// UpdateTimesheet overwrites an existing entry record.
	UpdateTimesheet(ctx context.Context, timesheet domain.Timesheet) error

	// DeleteTimesheet removes the entry record and its index entry, atomically.
	DeleteTimesheet(ctx context.Context, timesheet domain.Timesheet) error
}

// TimesheetRepositoryFacade combines all timesheet repository interfaces.
type TimesheetRepositoryFacade interface {
	TimesheetReader
	TimesheetWriter
}
