package dto

import (
	"time"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// CreateInviteCodeRequest issues a new invite code for the caller's
// organization. Nil ExpiresAt means the code never expires; nil MaxUses means
// unlimited redemptions.
type CreateInviteCodeRequest struct {
	ExpiresAt *time.Time `json:"expiresAt"`
	MaxUses   *int       `json:"maxUses" binding:"omitempty,gt=0"`
}

// VerifyInviteCodeRequest is the POST body variant of the public validity check.
type VerifyInviteCodeRequest struct {
	Code string `json:"code" binding:"required,invitecode"`
}

// InviteCodeResponse is the API shape of an invite code.
type InviteCodeResponse struct {
	InviteCodeID   string     `json:"inviteCodeID"`
	Code           string     `json:"code"`
	OrganizationID string     `json:"organizationID"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	MaxUses        *int       `json:"maxUses"`
	CurrentUses    int        `json:"currentUses"`
	IsActive       bool       `json:"isActive"`
}

// ToInviteCodeResponse converts a domain.InviteCode to its API shape.
func ToInviteCodeResponse(code *domain.InviteCode) InviteCodeResponse {
	return InviteCodeResponse{
		InviteCodeID:   code.InviteCodeID,
		Code:           code.Code,
		OrganizationID: code.OrganizationID,
		CreatedBy:      code.CreatedBy,
		CreatedAt:      code.CreatedAt,
		ExpiresAt:      code.ExpiresAt,
		MaxUses:        code.MaxUses,
		CurrentUses:    code.CurrentUses,
		IsActive:       code.IsActive,
	}
}

// ListInviteCodesResponse wraps the list of invite codes.
type ListInviteCodesResponse struct {
	InviteCodes []InviteCodeResponse `json:"inviteCodes"`
}

// ToListInviteCodesResponse converts a slice of domain.InviteCode to ListInviteCodesResponse.
func ToListInviteCodesResponse(codes []domain.InviteCode) ListInviteCodesResponse {
	out := make([]InviteCodeResponse, len(codes))
	for i := range codes {
		out[i] = ToInviteCodeResponse(&codes[i])
	}
	return ListInviteCodesResponse{InviteCodes: out}
}

// VerifyInviteCodeResponse is returned by the public validity check. The org
// name is only disclosed for codes that are currently redeemable.
type VerifyInviteCodeResponse struct {
	Valid            bool   `json:"valid"`
	OrganizationName string `json:"organizationName,omitempty"`
}
