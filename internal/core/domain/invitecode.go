package domain

import "time"

// InviteCode lets an organization admin onboard staff: a signup presenting a
// valid code joins the code's organization with the staff role.
//
// A code starts active with zero uses. It stops being redeemable once any of
// the terminal conditions holds: uses exhausted, expiry passed, or toggled
// inactive by an admin. The conditions are independent in storage; a code can
// be expired and inactive at the same time.
type InviteCode struct {
	InviteCodeID   string     `json:"inviteCodeID"` // Primary Key
	Code           string     `json:"code"`         // 8-char redemption code
	OrganizationID string     `json:"organizationID"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiresAt      *time.Time `json:"expiresAt"` // nil = never expires
	MaxUses        *int       `json:"maxUses"`   // nil = unlimited
	CurrentUses    int        `json:"currentUses"`
	IsActive       bool       `json:"isActive"`
}

// CanRedeem reports whether the code is redeemable at the given instant.
// Redemption requires ALL of: active, not expired, uses remaining.
func (c *InviteCode) CanRedeem(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return false
	}
	return true
}
