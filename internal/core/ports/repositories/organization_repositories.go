package repositories

import (
	"context"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// OrganizationReader defines read operations for organization data.
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization by its ID.
	FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data.
type OrganizationWriter interface {
	// CreateOrganizationWithAdmin persists a new organization together with
	// its founding admin user and the membership bookkeeping, atomically.
	CreateOrganizationWithAdmin(ctx context.Context, org domain.Organization, admin domain.User) error

	// UpdateOrganization overwrites an existing organization record.
	UpdateOrganization(ctx context.Context, org domain.Organization) error
}

// OrganizationRepositoryFacade combines all organization repository interfaces.
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}
