package services

import (
	"context"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	"github.com/tmtrack/time_tracker_app/internal/dto"
)

// TimesheetSvcFacade defines timesheet operations.
type TimesheetSvcFacade interface {
	// CreateTimesheet records a new entry owned by the caller.
	CreateTimesheet(ctx context.Context, requestingUserID string, req dto.CreateTimesheetRequest) (*domain.Timesheet, error)

	// ListMyTimesheets lists the caller's own entries, newest first,
	// restricted by the filter.
	ListMyTimesheets(ctx context.Context, requestingUserID string, filter dto.TimesheetFilter) ([]domain.Timesheet, error)

	// GetTimesheet retrieves one entry. Owner or org admin only.
	GetTimesheet(ctx context.Context, requestingUserID, timesheetID string) (*domain.Timesheet, error)

	// UpdateTimesheet applies a partial update to an entry owned by the
	// caller. The owning user never changes.
	UpdateTimesheet(ctx context.Context, requestingUserID, timesheetID string, req dto.UpdateTimesheetRequest) (*domain.Timesheet, error)

	// DeleteTimesheet removes an entry owned by the caller.
	DeleteTimesheet(ctx context.Context, requestingUserID, timesheetID string) error
}
