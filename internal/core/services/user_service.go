package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service with the provided dependencies
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

// Ensure userService implements the UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID retrieves a user by their ID
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID",
				slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by email")
		}
		return nil, err
	}
	return user, nil
}

// ListOrganizationUsers retrieves all members of the organization. The
// caller must belong to it; admins and staff may both list members.
func (s *userService) ListOrganizationUsers(ctx context.Context, requestingUserID, orgID string) ([]domain.User, error) {
	caller, err := s.RequireCaller(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !caller.BelongsTo(orgID) {
		return nil, apperrors.ErrForbidden
	}

	users, err := s.userRepo.FindUsersByOrganization(ctx, orgID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organization users",
			slog.String("organization_id", orgID))
		return nil, err
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// UpdateMyProfile applies a self-service profile update. Role and
// organization always come from the stored record, never the request.
func (s *userService) UpdateMyProfile(ctx context.Context, userID string, req dto.UpdateMyProfileRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = userID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user profile",
			slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "User profile updated", slog.String("user_id", userID))
	return user, nil
}

// AdminUpdateUser applies an admin-side update to a member of the admin's
// organization. Admins cannot change their own role.
func (s *userService) AdminUpdateUser(ctx context.Context, requestingUserID, targetUserID string, req dto.AdminUpdateUserRequest) (*domain.User, error) {
	target, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target.OrganizationID == nil {
		return nil, apperrors.ErrForbidden
	}
	caller, err := s.RequireOrgAdmin(ctx, requestingUserID, *target.OrganizationID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if caller.UserID == target.UserID {
			return nil, apperrors.NewAppError(http.StatusForbidden, "admins cannot change their own role", apperrors.ErrForbidden)
		}
		role := domain.UserRole(*req.Role)
		if !role.IsValid() {
			return nil, apperrors.ErrValidation
		}
		target.Role = role
	}
	if req.Name != nil {
		target.Name = *req.Name
	}
	target.LastUpdatedAt = time.Now()
	target.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *target); err != nil {
		s.LogError(ctx, err, "Failed to update user",
			slog.String("user_id", targetUserID))
		return nil, err
	}

	s.LogInfo(ctx, "User updated by admin",
		slog.String("user_id", targetUserID),
		slog.String("admin_id", requestingUserID))
	return target, nil
}

// UpdateRefreshToken stores the hashed refresh token for a user
func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
}

// ClearRefreshToken clears the refresh token for a user
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.ClearRefreshToken(ctx, userID)
}

// DeleteUser removes a member from the admin's organization. Admins cannot
// delete themselves, so an organization always keeps at least one admin.
func (s *userService) DeleteUser(ctx context.Context, requestingUserID, targetUserID string) error {
	if requestingUserID == targetUserID {
		return apperrors.NewAppError(http.StatusForbidden, "admins cannot delete their own account", apperrors.ErrForbidden)
	}

	target, err := s.userRepo.FindUserByID(ctx, targetUserID)
	if err != nil {
		return err
	}
	if target.OrganizationID == nil {
		return apperrors.ErrForbidden
	}
	if _, err := s.RequireOrgAdmin(ctx, requestingUserID, *target.OrganizationID); err != nil {
		return err
	}

	if err := s.userRepo.DeleteUser(ctx, *target); err != nil {
		s.LogError(ctx, err, "Failed to delete user",
			slog.String("user_id", targetUserID))
		return err
	}

	s.LogInfo(ctx, "User deleted",
		slog.String("user_id", targetUserID),
		slog.String("admin_id", requestingUserID))
	return nil
}

// RequireCaller loads the caller's stored record. Token claims only carry
// the user ID; everything else is read fresh here.
func (s *userService) RequireCaller(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// RequireOrgAdmin loads the caller and checks admin role plus membership of
// the given organization
func (s *userService) RequireOrgAdmin(ctx context.Context, userID, orgID string) (*domain.User, error) {
	caller, err := s.RequireCaller(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() || !caller.BelongsTo(orgID) {
		return nil, apperrors.ErrForbidden
	}
	return caller, nil
}
