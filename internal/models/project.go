package models

// Project is the stored shape of the "projects:{id}" document.
type Project struct {
	ProjectID      string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	OrganizationID string   `json:"orgId"`
	AssignedUsers  []string `json:"assignedUsers"`
	AuditFields
}
