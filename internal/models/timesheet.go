package models

import "time"

// Timesheet is the stored shape of the "timesheets:{id}" document.
type Timesheet struct {
	TimesheetID     string    `json:"id"`
	UserID          string    `json:"userId"`
	ProjectID       string    `json:"projectId"`
	TaskName        string    `json:"taskName"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"duration"`
	Notes           string    `json:"notes"`
	BeforePhotoURL  *string   `json:"beforePhotoUrl"`
	AfterPhotoURL   *string   `json:"afterPhotoUrl"`
	AuditFields
}
