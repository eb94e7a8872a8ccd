package models

import "time"

// InviteCode is the stored shape of the "invite-codes:{id}" document.
type InviteCode struct {
	InviteCodeID   string     `json:"id"`
	Code           string     `json:"code"`
	OrganizationID string     `json:"orgId"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiresAt      *time.Time `json:"expiresAt"`
	MaxUses        *int       `json:"maxUses"`
	CurrentUses    int        `json:"currentUses"`
	IsActive       bool       `json:"isActive"`
}
