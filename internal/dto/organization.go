package dto

import (
	"time"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// OrganizationResponse is the API shape of an organization.
type OrganizationResponse struct {
	OrganizationID string    `json:"organizationID"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
}

// ToOrganizationResponse converts a domain.Organization to its API shape.
func ToOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: org.OrganizationID,
		Name:           org.Name,
		CreatedAt:      org.CreatedAt,
		CreatedBy:      org.CreatedBy,
	}
}
