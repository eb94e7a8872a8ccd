package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
)

// projectService implements the ProjectSvcFacade interface
type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepositoryFacade
	authorizer  portssvc.CallerAuthorizerSvc
}

// NewProjectService creates a new project service with the provided dependencies
func NewProjectService(projectRepo portsrepo.ProjectRepositoryFacade, authorizer portssvc.CallerAuthorizerSvc) portssvc.ProjectSvcFacade {
	return &projectService{projectRepo: projectRepo, authorizer: authorizer}
}

// Ensure projectService implements the ProjectSvcFacade interface
var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// CreateProject creates a new project in the caller's organization.
// Admin only.
func (s *projectService) CreateProject(ctx context.Context, requestingUserID string, req dto.CreateProjectRequest) (*domain.Project, error) {
	caller, err := s.authorizer.RequireCaller(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if caller.OrganizationID == nil || !caller.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	now := time.Now()
	project := domain.Project{
		ProjectID:      uuid.NewString(),
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: *caller.OrganizationID,
		AssignedUsers:  req.AssignedUsers,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}
	if project.AssignedUsers == nil {
		project.AssignedUsers = []string{}
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		s.LogError(ctx, err, "Failed to save project",
			slog.String("project_id", project.ProjectID))
		return nil, err
	}

	s.LogInfo(ctx, "Project created",
		slog.String("project_id", project.ProjectID),
		slog.String("organization_id", project.OrganizationID))
	return &project, nil
}

// ListProjects lists the caller's organization's projects. Admins see every
// project, staff only the ones they are assigned to.
func (s *projectService) ListProjects(ctx context.Context, requestingUserID string) ([]domain.Project, error) {
	caller, err := s.authorizer.RequireCaller(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if caller.OrganizationID == nil {
		return nil, apperrors.ErrForbidden
	}

	projects, err := s.projectRepo.ListProjectsByOrganization(ctx, *caller.OrganizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects",
			slog.String("organization_id", *caller.OrganizationID))
		return nil, err
	}

	if caller.IsAdmin() {
		if projects == nil {
			return []domain.Project{}, nil
		}
		return projects, nil
	}

	visible := make([]domain.Project, 0, len(projects))
	for i := range projects {
		if projects[i].IsAssigned(requestingUserID) {
			visible = append(visible, projects[i])
		}
	}
	return visible, nil
}

// GetProject retrieves one project visible to the caller.
func (s *projectService) GetProject(ctx context.Context, requestingUserID, projectID string) (*domain.Project, error) {
	caller, err := s.authorizer.RequireCaller(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find project",
				slog.String("project_id", projectID))
		}
		return nil, err
	}

	if !caller.BelongsTo(project.OrganizationID) {
		return nil, apperrors.ErrForbidden
	}
	if !caller.IsAdmin() && !project.IsAssigned(requestingUserID) {
		return nil, apperrors.ErrForbidden
	}
	return project, nil
}

// UpdateProject applies a partial update. Admin only.
func (s *projectService) UpdateProject(ctx context.Context, requestingUserID, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizer.RequireOrgAdmin(ctx, requestingUserID, project.OrganizationID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.AssignedUsers != nil {
		project.AssignedUsers = *req.AssignedUsers
		if project.AssignedUsers == nil {
			project.AssignedUsers = []string{}
		}
	}
	project.LastUpdatedAt = time.Now()
	project.LastUpdatedBy = requestingUserID

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		s.LogError(ctx, err, "Failed to update project",
			slog.String("project_id", projectID))
		return nil, err
	}

	s.LogInfo(ctx, "Project updated", slog.String("project_id", projectID))
	return project, nil
}

// DeleteProject removes a project. Admin only. Existing timesheet entries
// keep their project reference; listings tolerate the dangling ID.
func (s *projectService) DeleteProject(ctx context.Context, requestingUserID, projectID string) error {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	if _, err := s.authorizer.RequireOrgAdmin(ctx, requestingUserID, project.OrganizationID); err != nil {
		return err
	}

	if err := s.projectRepo.DeleteProject(ctx, *project); err != nil {
		s.LogError(ctx, err, "Failed to delete project",
			slog.String("project_id", projectID))
		return err
	}

	s.LogInfo(ctx, "Project deleted", slog.String("project_id", projectID))
	return nil
}
