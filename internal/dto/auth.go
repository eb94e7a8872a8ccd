package dto

import (
	"time"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// SignupRequest is the public signup payload. Exactly one onboarding path is
// taken: an invite code (joins that organization as staff), an organization
// name (founds a new organization as admin), or neither (organization-less
// user).
type SignupRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	Name             string `json:"name" binding:"required"`
	OrganizationName string `json:"organizationName"`
	InviteCode       string `json:"inviteCode" binding:"omitempty,invitecode"`
	Role             string `json:"role"` // only honored on the no-org path
}

// LoginRequest carries email/password credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleTokenRequest carries a Google ID token for token-based sign-in.
// The onboarding fields matter only when the token belongs to a user we have
// not seen before.
type GoogleTokenRequest struct {
	IDToken          string `json:"idToken" binding:"required"`
	InviteCode       string `json:"inviteCode" binding:"omitempty,invitecode"`
	OrganizationName string `json:"organizationName"`
}

// AuthResponse is returned by signup, login and refresh. The refresh token
// itself travels in an HTTP-only cookie, not in the body.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// ToAuthResponse builds an AuthResponse from a user and a signed token.
func ToAuthResponse(user *domain.User, accessToken string, expiresAt time.Time) AuthResponse {
	return AuthResponse{
		User:        ToUserResponse(user),
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}
}
