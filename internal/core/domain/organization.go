package domain

// Organization is the tenant boundary: users, projects, timesheets and invite
// codes all hang off one organization.
type Organization struct {
	OrganizationID string `json:"organizationID"` // Primary Key (generated opaque string)
	Name           string `json:"name"`
	AuditFields
}
