package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
	"github.com/tmtrack/time_tracker_app/internal/utils"
)

// codeGenerationAttempts bounds retries when a freshly generated code
// collides with an existing one.
const codeGenerationAttempts = 5

// inviteCodeService implements the InviteCodeSvcFacade interface
type inviteCodeService struct {
	BaseService
	inviteCodeRepo portsrepo.InviteCodeRepositoryFacade
	orgRepo        portsrepo.OrganizationReader
	authorizer     portssvc.CallerAuthorizerSvc
}

// NewInviteCodeService creates a new invite code service with the provided dependencies
func NewInviteCodeService(
	inviteCodeRepo portsrepo.InviteCodeRepositoryFacade,
	orgRepo portsrepo.OrganizationReader,
	authorizer portssvc.CallerAuthorizerSvc,
) portssvc.InviteCodeSvcFacade {
	return &inviteCodeService{
		inviteCodeRepo: inviteCodeRepo,
		orgRepo:        orgRepo,
		authorizer:     authorizer,
	}
}

// Ensure inviteCodeService implements the InviteCodeSvcFacade interface
var _ portssvc.InviteCodeSvcFacade = (*inviteCodeService)(nil)

// CreateInviteCode mints a new invite code for the admin's organization.
// Code uniqueness is enforced by the repository; on collision a fresh code
// is generated and the save retried.
func (s *inviteCodeService) CreateInviteCode(ctx context.Context, requestingUserID string, req dto.CreateInviteCodeRequest) (*domain.InviteCode, error) {
	caller, err := s.authorizer.RequireCaller(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if caller.OrganizationID == nil || !caller.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		codeStr, err := utils.GenerateInviteCode()
		if err != nil {
			return nil, err
		}

		code := domain.InviteCode{
			InviteCodeID:   uuid.NewString(),
			Code:           codeStr,
			OrganizationID: *caller.OrganizationID,
			CreatedBy:      requestingUserID,
			CreatedAt:      time.Now(),
			ExpiresAt:      req.ExpiresAt,
			MaxUses:        req.MaxUses,
			CurrentUses:    0,
			IsActive:       true,
		}

		err = s.inviteCodeRepo.SaveInviteCode(ctx, code)
		if errors.Is(err, apperrors.ErrDuplicate) {
			continue
		}
		if err != nil {
			s.LogError(ctx, err, "Failed to save invite code",
				slog.String("invite_code_id", code.InviteCodeID))
			return nil, err
		}

		s.LogInfo(ctx, "Invite code created",
			slog.String("invite_code_id", code.InviteCodeID),
			slog.String("organization_id", code.OrganizationID))
		return &code, nil
	}

	return nil, errors.New("failed to generate a unique invite code")
}

// ListInviteCodes lists an organization's codes. Admin only.
func (s *inviteCodeService) ListInviteCodes(ctx context.Context, requestingUserID, orgID string) ([]domain.InviteCode, error) {
	if _, err := s.authorizer.RequireOrgAdmin(ctx, requestingUserID, orgID); err != nil {
		return nil, err
	}

	codes, err := s.inviteCodeRepo.ListInviteCodesByOrganization(ctx, orgID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invite codes",
			slog.String("organization_id", orgID))
		return nil, err
	}
	if codes == nil {
		return []domain.InviteCode{}, nil
	}
	return codes, nil
}

// ToggleInviteCode sets a code active or inactive. Setting the current state
// again is a no-op, not an error.
func (s *inviteCodeService) ToggleInviteCode(ctx context.Context, requestingUserID, codeID string, isActive bool) (*domain.InviteCode, error) {
	code, err := s.inviteCodeRepo.FindInviteCodeByID(ctx, codeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizer.RequireOrgAdmin(ctx, requestingUserID, code.OrganizationID); err != nil {
		return nil, err
	}

	if code.IsActive == isActive {
		return code, nil
	}

	code.IsActive = isActive
	if err := s.inviteCodeRepo.UpdateInviteCode(ctx, *code); err != nil {
		s.LogError(ctx, err, "Failed to toggle invite code",
			slog.String("invite_code_id", codeID))
		return nil, err
	}

	s.LogInfo(ctx, "Invite code toggled",
		slog.String("invite_code_id", codeID),
		slog.Bool("is_active", isActive))
	return code, nil
}

// DeleteInviteCode removes a code. Admin only. Past redemptions are
// unaffected.
func (s *inviteCodeService) DeleteInviteCode(ctx context.Context, requestingUserID, codeID string) error {
	code, err := s.inviteCodeRepo.FindInviteCodeByID(ctx, codeID)
	if err != nil {
		return err
	}
	if _, err := s.authorizer.RequireOrgAdmin(ctx, requestingUserID, code.OrganizationID); err != nil {
		return err
	}

	if err := s.inviteCodeRepo.DeleteInviteCode(ctx, *code); err != nil {
		s.LogError(ctx, err, "Failed to delete invite code",
			slog.String("invite_code_id", codeID))
		return err
	}

	s.LogInfo(ctx, "Invite code deleted", slog.String("invite_code_id", codeID))
	return nil
}

// VerifyInviteCode checks whether a code is redeemable. Public; the response
// never distinguishes unknown codes from exhausted or inactive ones.
func (s *inviteCodeService) VerifyInviteCode(ctx context.Context, code string) (*dto.VerifyInviteCodeResponse, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return &dto.VerifyInviteCodeResponse{Valid: false}, nil
	}

	ic, err := s.inviteCodeRepo.FindInviteCodeByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &dto.VerifyInviteCodeResponse{Valid: false}, nil
		}
		return nil, err
	}
	if !ic.CanRedeem(time.Now()) {
		return &dto.VerifyInviteCodeResponse{Valid: false}, nil
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, ic.OrganizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve organization for invite code",
			slog.String("invite_code_id", ic.InviteCodeID))
		return nil, err
	}

	return &dto.VerifyInviteCodeResponse{
		Valid:            true,
		OrganizationName: org.Name,
	}, nil
}
