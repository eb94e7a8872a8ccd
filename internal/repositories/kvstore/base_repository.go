package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmtrack/time_tracker_app/internal/platform/kv"
)

// jsonUnmarshal exists so repository files don't each import encoding/json
// just to decode MultiGet results.
func jsonUnmarshal(data json.RawMessage, dest any) error {
	return json.Unmarshal(data, dest)
}

// Key namespaces. Every entity lives under "<type>:<id>"; each one-to-many
// relationship is a separate list-valued key holding an ordered id slice.
const (
	orgKeyPrefix        = "organizations:"
	userKeyPrefix       = "users:"
	projectKeyPrefix    = "projects:"
	timesheetKeyPrefix  = "timesheets:"
	inviteCodeKeyPrefix = "invite-codes:"

	orgUsersIndexPrefix       = "org-users:"
	orgProjectsIndexPrefix    = "org-projects:"
	orgInviteCodesIndexPrefix = "org-invite-codes:"
	userTimesheetsIndexPrefix = "user-timesheets:"
	userOrgKeyPrefix          = "user-org:"

	inviteCodeLookupPrefix = "invite-code-lookup:"
	userEmailLookupPrefix  = "user-email-lookup:"
)

func orgKey(id string) string        { return orgKeyPrefix + id }
func userKey(id string) string       { return userKeyPrefix + id }
func projectKey(id string) string    { return projectKeyPrefix + id }
func timesheetKey(id string) string  { return timesheetKeyPrefix + id }
func inviteCodeKey(id string) string { return inviteCodeKeyPrefix + id }

func orgUsersIndexKey(orgID string) string        { return orgUsersIndexPrefix + orgID }
func orgProjectsIndexKey(orgID string) string     { return orgProjectsIndexPrefix + orgID }
func orgInviteCodesIndexKey(orgID string) string  { return orgInviteCodesIndexPrefix + orgID }
func userTimesheetsIndexKey(userID string) string { return userTimesheetsIndexPrefix + userID }
func userOrgKey(userID string) string             { return userOrgKeyPrefix + userID }

func inviteCodeLookupKey(code string) string {
	return inviteCodeLookupPrefix + strings.ToUpper(strings.TrimSpace(code))
}

func userEmailLookupKey(email string) string {
	return userEmailLookupPrefix + strings.ToLower(strings.TrimSpace(email))
}

// baseRepository carries the shared store handle and the index list helpers.
type baseRepository struct {
	store kv.Store
}

// readIndex loads an id-list key outside a transaction. An absent key is an
// empty index, not an error.
func (r *baseRepository) readIndex(ctx context.Context, key string) ([]string, error) {
	var ids []string
	if err := r.store.Get(ctx, key, &ids); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read index %s: %w", key, err)
	}
	return ids, nil
}

// readIndexTxn is readIndex against a transaction handle.
func readIndexTxn(ctx context.Context, tx kv.Txn, key string) ([]string, error) {
	var ids []string
	if err := tx.Get(ctx, key, &ids); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read index %s: %w", key, err)
	}
	return ids, nil
}

// appendToIndex adds id at the end of the list key, keeping the invariant
// that an id appears at most once per index.
func appendToIndex(ctx context.Context, tx kv.Txn, key, id string) error {
	ids, err := readIndexTxn(ctx, tx, key)
	if err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	return tx.Set(ctx, key, append(ids, id))
}

// removeFromIndex filters id out of the list key. Removing an id that is not
// present is a no-op.
func removeFromIndex(ctx context.Context, tx kv.Txn, key, id string) error {
	ids, err := readIndexTxn(ctx, tx, key)
	if err != nil {
		return err
	}
	filtered := ids[:0]
	for _, existing := range ids {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}
	if len(filtered) == len(ids) {
		return nil
	}
	return tx.Set(ctx, key, filtered)
}
