package services

import (
	"context"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	"github.com/tmtrack/time_tracker_app/internal/dto"
)

// ProjectSvcFacade defines project operations.
type ProjectSvcFacade interface {
	// CreateProject creates a project in the caller's organization.
	// Admin only.
	CreateProject(ctx context.Context, requestingUserID string, req dto.CreateProjectRequest) (*domain.Project, error)

	// ListProjects lists the caller's organization's projects. Admins see
	// every project, staff only those they are assigned to.
	ListProjects(ctx context.Context, requestingUserID string) ([]domain.Project, error)

	// GetProject retrieves one project visible to the caller.
	GetProject(ctx context.Context, requestingUserID, projectID string) (*domain.Project, error)

	// UpdateProject applies a partial update. Admin only.
	UpdateProject(ctx context.Context, requestingUserID, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error)

	// DeleteProject removes a project. Admin only. Timesheets keep their
	// project reference.
	DeleteProject(ctx context.Context, requestingUserID, projectID string) error
}
