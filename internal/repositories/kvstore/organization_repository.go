package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	"github.com/tmtrack/time_tracker_app/internal/models"
	"github.com/tmtrack/time_tracker_app/internal/platform/kv"
)

type KVOrganizationRepository struct {
	baseRepository
}

func newKVOrganizationRepository(store kv.Store) portsrepo.OrganizationRepositoryFacade {
	return &KVOrganizationRepository{baseRepository{store: store}}
}

var _ portsrepo.OrganizationRepositoryFacade = (*KVOrganizationRepository)(nil)

func toModelOrganization(d domain.Organization) models.Organization {
	return models.Organization{
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainOrganization(m models.Organization) domain.Organization {
	return domain.Organization{
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// CreateOrganizationWithAdmin writes the organization record and its founding
// admin (user record, org-users index, user-org mapping, email lookup) in one
// transaction, so a failed signup never leaves a member-less organization or
// an organization-less admin.
func (r *KVOrganizationRepository) CreateOrganizationWithAdmin(ctx context.Context, org domain.Organization, admin domain.User) error {
	return r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		if err := tx.Set(ctx, orgKey(org.OrganizationID), toModelOrganization(org)); err != nil {
			return fmt.Errorf("failed to save organization: %w", err)
		}
		return createUserInTxn(ctx, tx, admin)
	})
}

func (r *KVOrganizationRepository) FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	var m models.Organization
	if err := r.store.Get(ctx, orgKey(orgID), &m); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find organization by ID %s: %w", orgID, err)
	}
	org := toDomainOrganization(m)
	return &org, nil
}

func (r *KVOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	if err := r.store.Set(ctx, orgKey(org.OrganizationID), toModelOrganization(org)); err != nil {
		return fmt.Errorf("failed to update organization %s: %w", org.OrganizationID, err)
	}
	return nil
}
