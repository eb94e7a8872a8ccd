package repositories

import (
	"context"
	"time"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user via the email lookup key.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsersByOrganization retrieves all members of an organization, in
	// index order.
	FindUsersByOrganization(ctx context.Context, orgID string) ([]domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user and, when the user has an organization,
	// the membership index entries. Fails with ErrDuplicate when the email is
	// already taken.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser overwrites an existing user record. Index entries are not
	// touched; organization membership never changes through this path.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateRefreshToken stores the hashed refresh token for a user.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken removes the stored refresh token for a user.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserLifecycleManager defines operations for removing users.
type UserLifecycleManager interface {
	// DeleteUser removes the user record together with its membership index
	// entry, email lookup and timesheet index, atomically.
	DeleteUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLifecycleManager
}
