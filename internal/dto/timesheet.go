package dto

import (
	"time"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// CreateTimesheetRequest creates a timesheet entry for the caller.
// Duration is caller-supplied on create (the clients compute it when the
// entry is stopped); it is validated to be positive but not recomputed.
type CreateTimesheetRequest struct {
	ProjectID       string    `json:"projectId" binding:"required"`
	TaskName        string    `json:"taskName" binding:"required"`
	StartTime       time.Time `json:"startTime" binding:"required"`
	EndTime         time.Time `json:"endTime" binding:"required"`
	DurationMinutes int       `json:"duration" binding:"required"`
	Notes           string    `json:"notes"`
	BeforePhotoURL  *string   `json:"beforePhotoUrl"`
	AfterPhotoURL   *string   `json:"afterPhotoUrl"`
}

// UpdateTimesheetRequest updates an entry. The owning user never changes.
// Duration is recomputed server-side from the effective start/end times.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateTimesheetRequest struct {
	ProjectID      *string    `json:"projectId"`
	TaskName       *string    `json:"taskName"`
	StartTime      *time.Time `json:"startTime"`
	EndTime        *time.Time `json:"endTime"`
	Notes          *string    `json:"notes"`
	BeforePhotoURL *string    `json:"beforePhotoUrl"`
	AfterPhotoURL  *string    `json:"afterPhotoUrl"`
}

// TimesheetFilter narrows timesheet listings and reports. Zero values mean
// "no constraint"; filtering happens in memory after the batch fetch.
type TimesheetFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	ProjectID string
	UserID    string
}

// Matches reports whether an entry passes the filter.
func (f TimesheetFilter) Matches(ts *domain.Timesheet) bool {
	if f.StartDate != nil && ts.StartTime.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && ts.StartTime.After(*f.EndDate) {
		return false
	}
	if f.ProjectID != "" && ts.ProjectID != f.ProjectID {
		return false
	}
	if f.UserID != "" && ts.UserID != f.UserID {
		return false
	}
	return true
}

// TimesheetResponse is the API shape of a timesheet entry.
type TimesheetResponse struct {
	TimesheetID     string    `json:"timesheetID"`
	UserID          string    `json:"userID"`
	ProjectID       string    `json:"projectID"`
	TaskName        string    `json:"taskName"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"duration"`
	Notes           string    `json:"notes"`
	BeforePhotoURL  *string   `json:"beforePhotoUrl"`
	AfterPhotoURL   *string   `json:"afterPhotoUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToTimesheetResponse converts a domain.Timesheet to its API shape.
func ToTimesheetResponse(ts *domain.Timesheet) TimesheetResponse {
	return TimesheetResponse{
		TimesheetID:     ts.TimesheetID,
		UserID:          ts.UserID,
		ProjectID:       ts.ProjectID,
		TaskName:        ts.TaskName,
		StartTime:       ts.StartTime,
		EndTime:         ts.EndTime,
		DurationMinutes: ts.DurationMinutes,
		Notes:           ts.Notes,
		BeforePhotoURL:  ts.BeforePhotoURL,
		AfterPhotoURL:   ts.AfterPhotoURL,
		CreatedAt:       ts.CreatedAt,
	}
}

// ListTimesheetsResponse wraps the list of timesheet entries.
type ListTimesheetsResponse struct {
	Timesheets []TimesheetResponse `json:"timesheets"`
}

// ToListTimesheetsResponse converts a slice of domain.Timesheet to ListTimesheetsResponse.
func ToListTimesheetsResponse(timesheets []domain.Timesheet) ListTimesheetsResponse {
	out := make([]TimesheetResponse, len(timesheets))
	for i := range timesheets {
		out[i] = ToTimesheetResponse(&timesheets[i])
	}
	return ListTimesheetsResponse{Timesheets: out}
}
