package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
)

// organizationService implements the OrganizationSvcFacade interface
type organizationService struct {
	BaseService
	orgRepo    portsrepo.OrganizationRepositoryFacade
	authorizer portssvc.CallerAuthorizerSvc
}

// NewOrganizationService creates a new organization service with the provided dependencies
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryFacade, authorizer portssvc.CallerAuthorizerSvc) portssvc.OrganizationSvcFacade {
	return &organizationService{orgRepo: orgRepo, authorizer: authorizer}
}

// Ensure organizationService implements the OrganizationSvcFacade interface
var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// GetOrganization retrieves an organization for one of its members.
func (s *organizationService) GetOrganization(ctx context.Context, requestingUserID, orgID string) (*domain.Organization, error) {
	caller, err := s.authorizer.RequireCaller(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !caller.BelongsTo(orgID) {
		return nil, apperrors.ErrForbidden
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, orgID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find organization",
				slog.String("organization_id", orgID))
		}
		return nil, err
	}
	return org, nil
}
