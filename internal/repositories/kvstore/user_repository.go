package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	"github.com/tmtrack/time_tracker_app/internal/models"
	"github.com/tmtrack/time_tracker_app/internal/platform/kv"
)

type KVUserRepository struct {
	baseRepository
}

func newKVUserRepository(store kv.Store) portsrepo.UserRepositoryFacade {
	return &KVUserRepository{baseRepository{store: store}}
}

var _ portsrepo.UserRepositoryFacade = (*KVUserRepository)(nil)

// Helper to convert domain.User to models.User
func toModelUser(d domain.User) models.User {
	return models.User{
		UserID:         d.UserID,
		Email:          d.Email,
		Name:           d.Name,
		Role:           string(d.Role),
		OrganizationID: d.OrganizationID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
		PasswordHash:           d.PasswordHash,
		RefreshTokenHash:       d.RefreshTokenHash,
		RefreshTokenExpiryTime: d.RefreshTokenExpiryTime,
		AuthProvider:           d.AuthProvider,
		ProviderUserID:         d.ProviderUserID,
	}
}

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:         m.UserID,
		Email:          m.Email,
		Name:           m.Name,
		Role:           domain.UserRole(m.Role),
		OrganizationID: m.OrganizationID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
		PasswordHash:           m.PasswordHash,
		RefreshTokenHash:       m.RefreshTokenHash,
		RefreshTokenExpiryTime: m.RefreshTokenExpiryTime,
		AuthProvider:           m.AuthProvider,
		ProviderUserID:         m.ProviderUserID,
	}
}

// createUserInTxn writes the user record plus every secondary key: email
// lookup, and when the user belongs to an organization, the org-users index
// entry and the user-org mapping. Shared by SaveUser, organization creation
// and invite redemption.
func createUserInTxn(ctx context.Context, tx kv.Txn, user domain.User) error {
	emailKey := userEmailLookupKey(user.Email)
	var existingID string
	err := tx.Get(ctx, emailKey, &existingID)
	if err == nil {
		return fmt.Errorf("%w: email %s already registered", apperrors.ErrDuplicate, user.Email)
	}
	if !errors.Is(err, kv.ErrKeyNotFound) {
		return fmt.Errorf("failed to check email lookup: %w", err)
	}

	if err := tx.Set(ctx, userKey(user.UserID), toModelUser(user)); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	if err := tx.Set(ctx, emailKey, user.UserID); err != nil {
		return fmt.Errorf("failed to save email lookup: %w", err)
	}
	if user.OrganizationID != nil {
		if err := appendToIndex(ctx, tx, orgUsersIndexKey(*user.OrganizationID), user.UserID); err != nil {
			return fmt.Errorf("failed to update org membership index: %w", err)
		}
		if err := tx.Set(ctx, userOrgKey(user.UserID), *user.OrganizationID); err != nil {
			return fmt.Errorf("failed to save user-org mapping: %w", err)
		}
	}
	return nil
}

func (r *KVUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		return createUserInTxn(ctx, tx, user)
	})
}

func (r *KVUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var modelUser models.User
	if err := r.store.Get(ctx, userKey(userID), &modelUser); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	domainUser := toDomainUser(modelUser)
	return &domainUser, nil
}

func (r *KVUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var userID string
	if err := r.store.Get(ctx, userEmailLookupKey(email), &userID); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}
	return r.FindUserByID(ctx, userID)
}

func (r *KVUserRepository) FindUsersByOrganization(ctx context.Context, orgID string) ([]domain.User, error) {
	ids, err := r.readIndex(ctx, orgUsersIndexKey(orgID))
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}
	raw, err := r.store.MultiGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to batch get org users: %w", err)
	}

	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		doc, ok := raw[userKey(id)]
		if !ok {
			// Dangling index entry; skip rather than fail the whole listing.
			continue
		}
		var m models.User
		if err := jsonUnmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", id, err)
		}
		users = append(users, toDomainUser(m))
	}
	return users, nil
}

func (r *KVUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	if err := r.store.Set(ctx, userKey(user.UserID), toModelUser(user)); err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	return nil
}

func (r *KVUserRepository) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		var m models.User
		if err := tx.Get(ctx, userKey(userID), &m); err != nil {
			if errors.Is(err, kv.ErrKeyNotFound) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to load user %s: %w", userID, err)
		}
		m.RefreshTokenHash = refreshTokenHash
		m.RefreshTokenExpiryTime = &refreshTokenExpiryTime
		return tx.Set(ctx, userKey(userID), m)
	})
}

func (r *KVUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	return r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		var m models.User
		if err := tx.Get(ctx, userKey(userID), &m); err != nil {
			if errors.Is(err, kv.ErrKeyNotFound) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to load user %s: %w", userID, err)
		}
		m.RefreshTokenHash = ""
		m.RefreshTokenExpiryTime = nil
		return tx.Set(ctx, userKey(userID), m)
	})
}

func (r *KVUserRepository) DeleteUser(ctx context.Context, user domain.User) error {
	return r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		if err := tx.Delete(ctx, userKey(user.UserID)); err != nil {
			return fmt.Errorf("failed to delete user %s: %w", user.UserID, err)
		}
		if err := tx.Delete(ctx, userEmailLookupKey(user.Email)); err != nil {
			return fmt.Errorf("failed to delete email lookup: %w", err)
		}
		if err := tx.Delete(ctx, userTimesheetsIndexKey(user.UserID)); err != nil {
			return fmt.Errorf("failed to delete timesheet index: %w", err)
		}
		if user.OrganizationID != nil {
			if err := removeFromIndex(ctx, tx, orgUsersIndexKey(*user.OrganizationID), user.UserID); err != nil {
				return fmt.Errorf("failed to update org membership index: %w", err)
			}
			if err := tx.Delete(ctx, userOrgKey(user.UserID)); err != nil {
				return fmt.Errorf("failed to delete user-org mapping: %w", err)
			}
		}
		return nil
	})
}
