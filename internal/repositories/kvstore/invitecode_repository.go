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

type KVInviteCodeRepository struct {
	baseRepository
}

func newKVInviteCodeRepository(store kv.Store) portsrepo.InviteCodeRepositoryFacade {
	return &KVInviteCodeRepository{baseRepository{store: store}}
}

var _ portsrepo.InviteCodeRepositoryFacade = (*KVInviteCodeRepository)(nil)

func toModelInviteCode(d domain.InviteCode) models.InviteCode {
	return models.InviteCode{
		InviteCodeID:   d.InviteCodeID,
		Code:           d.Code,
		OrganizationID: d.OrganizationID,
		CreatedBy:      d.CreatedBy,
		CreatedAt:      d.CreatedAt,
		ExpiresAt:      d.ExpiresAt,
		MaxUses:        d.MaxUses,
		CurrentUses:    d.CurrentUses,
		IsActive:       d.IsActive,
	}
}

func toDomainInviteCode(m models.InviteCode) domain.InviteCode {
	return domain.InviteCode{
		InviteCodeID:   m.InviteCodeID,
		Code:           m.Code,
		OrganizationID: m.OrganizationID,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
		ExpiresAt:      m.ExpiresAt,
		MaxUses:        m.MaxUses,
		CurrentUses:    m.CurrentUses,
		IsActive:       m.IsActive,
	}
}

func (r *KVInviteCodeRepository) SaveInviteCode(ctx context.Context, code domain.InviteCode) error {
	return r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		lookupKey := inviteCodeLookupKey(code.Code)
		var existingID string
		err := tx.Get(ctx, lookupKey, &existingID)
		if err == nil {
			return fmt.Errorf("%w: invite code %s already exists", apperrors.ErrDuplicate, code.Code)
		}
		if !errors.Is(err, kv.ErrKeyNotFound) {
			return fmt.Errorf("failed to check invite code lookup: %w", err)
		}

		if err := tx.Set(ctx, inviteCodeKey(code.InviteCodeID), toModelInviteCode(code)); err != nil {
			return fmt.Errorf("failed to save invite code: %w", err)
		}
		if err := tx.Set(ctx, lookupKey, code.InviteCodeID); err != nil {
			return fmt.Errorf("failed to save invite code lookup: %w", err)
		}
		if err := appendToIndex(ctx, tx, orgInviteCodesIndexKey(code.OrganizationID), code.InviteCodeID); err != nil {
			return fmt.Errorf("failed to update org invite code index: %w", err)
		}
		return nil
	})
}

func (r *KVInviteCodeRepository) FindInviteCodeByID(ctx context.Context, inviteCodeID string) (*domain.InviteCode, error) {
	var m models.InviteCode
	if err := r.store.Get(ctx, inviteCodeKey(inviteCodeID), &m); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invite code by ID %s: %w", inviteCodeID, err)
	}
	code := toDomainInviteCode(m)
	return &code, nil
}

func (r *KVInviteCodeRepository) FindInviteCodeByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	var codeID string
	if err := r.store.Get(ctx, inviteCodeLookupKey(code), &codeID); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}
	return r.FindInviteCodeByID(ctx, codeID)
}

func (r *KVInviteCodeRepository) ListInviteCodesByOrganization(ctx context.Context, orgID string) ([]domain.InviteCode, error) {
	ids, err := r.readIndex(ctx, orgInviteCodesIndexKey(orgID))
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = inviteCodeKey(id)
	}
	raw, err := r.store.MultiGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to batch get invite codes: %w", err)
	}

	codes := make([]domain.InviteCode, 0, len(ids))
	for _, id := range ids {
		doc, ok := raw[inviteCodeKey(id)]
		if !ok {
			continue
		}
		var m models.InviteCode
		if err := jsonUnmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("failed to decode invite code %s: %w", id, err)
		}
		codes = append(codes, toDomainInviteCode(m))
	}
	return codes, nil
}

func (r *KVInviteCodeRepository) UpdateInviteCode(ctx context.Context, code domain.InviteCode) error {
	if err := r.store.Set(ctx, inviteCodeKey(code.InviteCodeID), toModelInviteCode(code)); err != nil {
		return fmt.Errorf("failed to update invite code %s: %w", code.InviteCodeID, err)
	}
	return nil
}

func (r *KVInviteCodeRepository) DeleteInviteCode(ctx context.Context, code domain.InviteCode) error {
	return r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		if err := tx.Delete(ctx, inviteCodeKey(code.InviteCodeID)); err != nil {
			return fmt.Errorf("failed to delete invite code %s: %w", code.InviteCodeID, err)
		}
		if err := tx.Delete(ctx, inviteCodeLookupKey(code.Code)); err != nil {
			return fmt.Errorf("failed to delete invite code lookup: %w", err)
		}
		if err := removeFromIndex(ctx, tx, orgInviteCodesIndexKey(code.OrganizationID), code.InviteCodeID); err != nil {
			return fmt.Errorf("failed to update org invite code index: %w", err)
		}
		return nil
	})
}

// RedeemInviteCode performs the whole redemption in one transaction: the code
// is re-read under the transaction, so two redemptions racing at the
// maxUses boundary cannot both commit an increment past the limit.
func (r *KVInviteCodeRepository) RedeemInviteCode(ctx context.Context, code string, newUser domain.User) (*domain.InviteCode, error) {
	var redeemed domain.InviteCode
	err := r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		var codeID string
		if err := tx.Get(ctx, inviteCodeLookupKey(code), &codeID); err != nil {
			if errors.Is(err, kv.ErrKeyNotFound) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to look up invite code: %w", err)
		}
		var m models.InviteCode
		if err := tx.Get(ctx, inviteCodeKey(codeID), &m); err != nil {
			if errors.Is(err, kv.ErrKeyNotFound) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to load invite code %s: %w", codeID, err)
		}

		current := toDomainInviteCode(m)
		if !current.CanRedeem(time.Now()) {
			return fmt.Errorf("%w: invite code is not redeemable", apperrors.ErrValidation)
		}

		current.CurrentUses++
		if err := tx.Set(ctx, inviteCodeKey(codeID), toModelInviteCode(current)); err != nil {
			return fmt.Errorf("failed to increment invite code uses: %w", err)
		}

		orgID := current.OrganizationID
		newUser.OrganizationID = &orgID
		if err := createUserInTxn(ctx, tx, newUser); err != nil {
			return err
		}

		redeemed = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &redeemed, nil
}
