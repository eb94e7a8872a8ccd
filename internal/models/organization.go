package models

// Organization is the stored shape of the "organizations:{id}" document.
type Organization struct {
	OrganizationID string `json:"id"`
	Name           string `json:"name"`
	AuditFields
}
