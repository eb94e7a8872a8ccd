package dto

import (
	"github.com/shopspring/decimal"
)

// UserTimesheetTotal aggregates one member's filtered entries.
type UserTimesheetTotal struct {
	UserID       string          `json:"userID"`
	UserName     string          `json:"userName"`
	EntryCount   int             `json:"entryCount"`
	TotalMinutes int             `json:"totalMinutes"`
	TotalHours   decimal.Decimal `json:"totalHours"`
}

// ProjectTimesheetTotal aggregates one project's filtered entries.
type ProjectTimesheetTotal struct {
	ProjectID    string          `json:"projectID"`
	ProjectName  string          `json:"projectName"`
	EntryCount   int             `json:"entryCount"`
	TotalMinutes int             `json:"totalMinutes"`
	TotalHours   decimal.Decimal `json:"totalHours"`
}

// OrgTimesheetReport is the admin report over an organization's entries.
// Every request recomputes the totals from the raw entries.
type OrgTimesheetReport struct {
	OrganizationID string                  `json:"organizationID"`
	Timesheets     []TimesheetResponse     `json:"timesheets"`
	UserTotals     []UserTimesheetTotal    `json:"userTotals"`
	ProjectTotals  []ProjectTimesheetTotal `json:"projectTotals"`
	TotalMinutes   int                     `json:"totalMinutes"`
	TotalHours     decimal.Decimal         `json:"totalHours"`
}
