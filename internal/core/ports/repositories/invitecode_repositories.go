package repositories

import (
	"context"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
)

// InviteCodeReader defines read operations for invite-code data.
type InviteCodeReader interface {
	// FindInviteCodeByID retrieves a specific invite code by its ID.
	FindInviteCodeByID(ctx context.Context, inviteCodeID string) (*domain.InviteCode, error)

	// FindInviteCodeByCode retrieves an invite code via the code lookup key.
	FindInviteCodeByCode(ctx context.Context, code string) (*domain.InviteCode, error)

	// ListInviteCodesByOrganization retrieves all codes an organization has
	// issued, in index order.
	ListInviteCodesByOrganization(ctx context.Context, orgID string) ([]domain.InviteCode, error)
}

// InviteCodeWriter defines write operations for invite-code data.
type InviteCodeWriter interface {
	// SaveInviteCode persists a new code, its org index entry and the code
	// lookup key, atomically. Fails with ErrDuplicate when the code string is
	// already taken.
	SaveInviteCode(ctx context.Context, code domain.InviteCode) error

	// UpdateInviteCode overwrites an existing code record (toggle etc.).
	UpdateInviteCode(ctx context.Context, code domain.InviteCode) error

	// DeleteInviteCode removes the code record, its index entry and the code
	// lookup key, atomically.
	DeleteInviteCode(ctx context.Context, code domain.InviteCode) error
}

// InviteCodeRedeemer performs the redemption read-modify-write.
type InviteCodeRedeemer interface {
	// RedeemInviteCode re-reads the code, checks it is still redeemable,
	// then increments its use counter and creates the new member user in one
	// transaction, so concurrent redemptions at the limit boundary cannot
	// both succeed. Returns the code after the increment.
	// Fails with ErrValidation when the code is exhausted, expired or
	// inactive, ErrNotFound when it does not exist, and ErrDuplicate when the
	// new user's email is taken.
	RedeemInviteCode(ctx context.Context, code string, newUser domain.User) (*domain.InviteCode, error)
}

// InviteCodeRepositoryFacade combines all invite-code repository interfaces.
type InviteCodeRepositoryFacade interface {
	InviteCodeReader
	InviteCodeWriter
	InviteCodeRedeemer
}
