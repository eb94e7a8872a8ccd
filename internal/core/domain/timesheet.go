package domain

import "time"

// Timesheet is a single tracked entry of work on a project task, optionally
// documented with before/after photos. UserID never changes after creation.
type Timesheet struct {
	TimesheetID     string     `json:"timesheetID"` // Primary Key
	UserID          string     `json:"userID"`
	ProjectID       string     `json:"projectID"`
	TaskName        string     `json:"taskName"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         time.Time  `json:"endTime"`
	DurationMinutes int        `json:"duration"` // minutes
	Notes           string     `json:"notes"`
	BeforePhotoURL  *string    `json:"beforePhotoUrl"`
	AfterPhotoURL   *string    `json:"afterPhotoUrl"`
	AuditFields
}

// ComputeDurationMinutes derives the entry duration from its start and end
// times, truncated to whole minutes.
func (t *Timesheet) ComputeDurationMinutes() int {
	return int(t.EndTime.Sub(t.StartTime) / time.Minute)
}
