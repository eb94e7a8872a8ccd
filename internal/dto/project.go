package dto

import (
	"time"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// CreateProjectRequest creates a project in the caller's organization.
type CreateProjectRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	AssignedUsers []string `json:"assignedUsers"`
}

// UpdateProjectRequest updates a project.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateProjectRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	AssignedUsers *[]string `json:"assignedUsers"`
}

// ProjectResponse is the API shape of a project.
type ProjectResponse struct {
	ProjectID      string    `json:"projectID"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	OrganizationID string    `json:"organizationID"`
	AssignedUsers  []string  `json:"assignedUsers"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
}

// ToProjectResponse converts a domain.Project to its API shape.
func ToProjectResponse(project *domain.Project) ProjectResponse {
	assigned := project.AssignedUsers
	if assigned == nil {
		assigned = []string{}
	}
	return ProjectResponse{
		ProjectID:      project.ProjectID,
		Name:           project.Name,
		Description:    project.Description,
		OrganizationID: project.OrganizationID,
		AssignedUsers:  assigned,
		CreatedAt:      project.CreatedAt,
		CreatedBy:      project.CreatedBy,
	}
}

// ListProjectsResponse wraps the list of projects.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// ToListProjectsResponse converts a slice of domain.Project to ListProjectsResponse.
func ToListProjectsResponse(projects []domain.Project) ListProjectsResponse {
	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = ToProjectResponse(&projects[i])
	}
	return ListProjectsResponse{Projects: out}
}
