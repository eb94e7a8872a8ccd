package repositories

import (
	"context"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// ProjectReader defines read operations for project data.
type ProjectReader interface {
	// FindProjectByID retrieves a specific project by its ID.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// ListProjectsByOrganization retrieves all projects owned by an
	// organization, in index order.
	ListProjectsByOrganization(ctx context.Context, orgID string) ([]domain.Project, error)
}

// ProjectWriter defines write operations for project data.
type ProjectWriter interface {
	// SaveProject persists a new project and appends it to the owning
	// organization's project index, atomically.
	SaveProject(ctx context.Context, project domain.Project) error

	// UpdateProject overwrites an existing project record.
	UpdateProject(ctx context.Context, project domain.Project) error

	// DeleteProject removes the project record and its index entry, atomically.
	DeleteProject(ctx context.Context, project domain.Project) error
}

// ProjectRepositoryFacade combines all project repository interfaces.
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}
