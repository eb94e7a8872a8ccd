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

type KVProjectRepository struct {
	baseRepository
}

func newKVProjectRepository(store kv.Store) portsrepo.ProjectRepositoryFacade {
	return &KVProjectRepository{baseRepository{store: store}}
}

var _ portsrepo.ProjectRepositoryFacade = (*KVProjectRepository)(nil)

func toModelProject(d domain.Project) models.Project {
	assigned := d.AssignedUsers
	if assigned == nil {
		assigned = []string{}
	}
	return models.Project{
		ProjectID:      d.ProjectID,
		Name:           d.Name,
		Description:    d.Description,
		OrganizationID: d.OrganizationID,
		AssignedUsers:  assigned,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainProject(m models.Project) domain.Project {
	return domain.Project{
		ProjectID:      m.ProjectID,
		Name:           m.Name,
		Description:    m.Description,
		OrganizationID: m.OrganizationID,
		AssignedUsers:  m.AssignedUsers,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func (r *KVProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	return r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		if err := tx.Set(ctx, projectKey(project.ProjectID), toModelProject(project)); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}
		if err := appendToIndex(ctx, tx, orgProjectsIndexKey(project.OrganizationID), project.ProjectID); err != nil {
			return fmt.Errorf("failed to update org project index: %w", err)
		}
		return nil
	})
}

func (r *KVProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	var m models.Project
	if err := r.store.Get(ctx, projectKey(projectID), &m); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project by ID %s: %w", projectID, err)
	}
	project := toDomainProject(m)
	return &project, nil
}

func (r *KVProjectRepository) ListProjectsByOrganization(ctx context.Context, orgID string) ([]domain.Project, error) {
	ids, err := r.readIndex(ctx, orgProjectsIndexKey(orgID))
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = projectKey(id)
	}
	raw, err := r.store.MultiGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to batch get projects: %w", err)
	}

	projects := make([]domain.Project, 0, len(ids))
	for _, id := range ids {
		doc, ok := raw[projectKey(id)]
		if !ok {
			continue
		}
		var m models.Project
		if err := jsonUnmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
		}
		projects = append(projects, toDomainProject(m))
	}
	return projects, nil
}

func (r *KVProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	if err := r.store.Set(ctx, projectKey(project.ProjectID), toModelProject(project)); err != nil {
		return fmt.Errorf("failed to update project %s: %w", project.ProjectID, err)
	}
	return nil
}

func (r *KVProjectRepository) DeleteProject(ctx context.Context, project domain.Project) error {
	return r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		if err := tx.Delete(ctx, projectKey(project.ProjectID)); err != nil {
			return fmt.Errorf("failed to delete project %s: %w", project.ProjectID, err)
		}
		if err := removeFromIndex(ctx, tx, orgProjectsIndexKey(project.OrganizationID), project.ProjectID); err != nil {
			return fmt.Errorf("failed to update org project index: %w", err)
		}
		return nil
	})
}
