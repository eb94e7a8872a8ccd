package services

import (
	"context"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// OrganizationSvcFacade defines organization operations.
type OrganizationSvcFacade interface {
	// GetOrganization retrieves an organization. The caller must be a member.
	GetOrganization(ctx context.Context, requestingUserID, orgID string) (*domain.Organization, error)
}
