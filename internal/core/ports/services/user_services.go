package services

import (
	"context"
	"time"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	"github.com/tmtrack/time_tracker_app/internal/dto"
)

// UserReaderSvc defines read operations for user data.
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListOrganizationUsers retrieves all members of an organization. The
	// caller must belong to the organization.
	ListOrganizationUsers(ctx context.Context, requestingUserID, orgID string) ([]domain.User, error)
}

// UserWriterSvc defines write operations for user data.
type UserWriterSvc interface {
	// UpdateMyProfile applies a self-service profile update. Role and
	// organization are force-overwritten from the stored record.
	UpdateMyProfile(ctx context.Context, userID string, req dto.UpdateMyProfileRequest) (*domain.User, error)

	// AdminUpdateUser applies an admin-side update to another member of the
	// admin's organization. Changing one's own role is refused.
	AdminUpdateUser(ctx context.Context, requestingUserID, targetUserID string, req dto.AdminUpdateUserRequest) (*domain.User, error)

	// UpdateRefreshToken stores the hashed refresh token for a user.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the refresh token for a user.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserLifecycleSvc defines operations for removing users.
type UserLifecycleSvc interface {
	// DeleteUser removes a member from the admin's organization. Deleting
	// one's own record is refused.
	DeleteUser(ctx context.Context, requestingUserID, targetUserID string) error
}

// CallerAuthorizerSvc resolves the acting user for per-route authorization.
// The stored record is fetched fresh on every request; role claims embedded
// in tokens are never trusted.
type CallerAuthorizerSvc interface {
	// RequireCaller loads the caller's stored user record.
	// Returns apperrors.ErrUnauthorized when the record is gone.
	RequireCaller(ctx context.Context, userID string) (*domain.User, error)

	// RequireOrgAdmin loads the caller and checks admin role plus membership
	// of the given organization. Returns apperrors.ErrForbidden on role or
	// org mismatch.
	RequireOrgAdmin(ctx context.Context, userID, orgID string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	CallerAuthorizerSvc
}
