package domain

// Project is a unit of work within an organization. Staff users only see
// projects where their id appears in AssignedUsers; admins see the whole org.
type Project struct {
	ProjectID      string   `json:"projectID"` // Primary Key
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	OrganizationID string   `json:"organizationID"`
	AssignedUsers  []string `json:"assignedUsers"` // UserID references
	AuditFields
}

// IsAssigned reports whether the given user appears in AssignedUsers.
func (p *Project) IsAssigned(userID string) bool {
	for _, id := range p.AssignedUsers {
		if id == userID {
			return true
		}
	}
	return false
}
