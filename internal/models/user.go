package models

import "time"

// User is the stored shape of the "users:{id}" document. Credential fields
// live here, on the record, and are stripped before anything reaches the API
// surface.
type User struct {
	UserID         string  `json:"id"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Role           string  `json:"role"` // "admin" or "staff"
	OrganizationID *string `json:"orgId"`
	AuditFields

	PasswordHash           string     `json:"passwordHash,omitempty"`
	RefreshTokenHash       string     `json:"refreshTokenHash,omitempty"`
	RefreshTokenExpiryTime *time.Time `json:"refreshTokenExpiryTime,omitempty"`
	AuthProvider           string     `json:"authProvider,omitempty"`
	ProviderUserID         string     `json:"providerUserId,omitempty"`
}
