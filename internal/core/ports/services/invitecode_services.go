package services

import (
	"context"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	"github.com/tmtrack/time_tracker_app/internal/dto"
)

// InviteCodeSvcFacade defines invite code operations.
type InviteCodeSvcFacade interface {
	// CreateInviteCode mints a new invite code for the admin's organization.
	CreateInviteCode(ctx context.Context, requestingUserID string, req dto.CreateInviteCodeRequest) (*domain.InviteCode, error)

	// ListInviteCodes lists an organization's codes. Admin only.
	ListInviteCodes(ctx context.Context, requestingUserID, orgID string) ([]domain.InviteCode, error)

	// ToggleInviteCode sets a code active or inactive. Admin only.
	ToggleInviteCode(ctx context.Context, requestingUserID, codeID string, isActive bool) (*domain.InviteCode, error)

	// DeleteInviteCode removes a code. Admin only.
	DeleteInviteCode(ctx context.Context, requestingUserID, codeID string) error

	// VerifyInviteCode checks whether a code is redeemable. Public.
	VerifyInviteCode(ctx context.Context, code string) (*dto.VerifyInviteCodeResponse, error)
}
