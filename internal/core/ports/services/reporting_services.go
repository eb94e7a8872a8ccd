package services

import (
	"context"

	"github.com/tmtrack/time_tracker_app/internal/dto"
)

// ReportingSvcFacade defines organization-wide reporting operations.
type ReportingSvcFacade interface {
	// OrganizationTimesheetReport aggregates timesheet entries across the
	// organization's members. Admin only.
	OrganizationTimesheetReport(ctx context.Context, requestingUserID, orgID string, filter dto.TimesheetFilter) (*dto.OrgTimesheetReport, error)

	// OrganizationTimesheetCSV exports the filtered entries as CSV.
	// Admin only.
	OrganizationTimesheetCSV(ctx context.Context, requestingUserID, orgID string, filter dto.TimesheetFilter) ([]byte, error)
}
