package dto

import (
	"time"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// UserResponse is the API shape of a user; credential fields never appear.
type UserResponse struct {
	UserID         string    `json:"userID"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	OrganizationID *string   `json:"organizationID"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to its API shape.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:         user.UserID,
		Email:          user.Email,
		Name:           user.Name,
		Role:           string(user.Role),
		OrganizationID: user.OrganizationID,
		CreatedAt:      user.CreatedAt,
	}
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: userResponses}
}

// UpdateMyProfileRequest is the self-service profile update. Role and
// organization are not accepted here; whatever a client smuggles into the
// payload is overwritten from the stored record.
type UpdateMyProfileRequest struct {
	Name *string `json:"name"`
}

// AdminUpdateUserRequest is the admin-side user update.
// Using pointers to differentiate between omitted fields and zero-value fields.
type AdminUpdateUserRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role" binding:"omitempty,oneof=admin staff"`
}
