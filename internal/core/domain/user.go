package domain

import "time"

// UserRole defines the role a user holds within their organization.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

// IsValid reports whether the role is one of the known values.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User represents a user of the application in the domain.
// OrganizationID is nil for users who signed up without an organization and
// have not redeemed an invite code yet.
type User struct {
	UserID         string   `json:"userID"` // Primary Key (identity provider subject)
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	Role           UserRole `json:"role"`
	OrganizationID *string  `json:"organizationID"`
	AuditFields

	// Credential fields live on the stored record and never serialize into
	// API responses.
	PasswordHash           string     `json:"-"`
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
	AuthProvider           string     `json:"-"` // "password" or "google"
	ProviderUserID         string     `json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BelongsTo reports whether the user is a member of the given organization.
func (u *User) BelongsTo(orgID string) bool {
	return u.OrganizationID != nil && *u.OrganizationID == orgID
}

// GoogleUserInfo mirrors the user info payload returned by Google's userinfo
// endpoint during the OAuth flow.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
