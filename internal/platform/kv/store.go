package kv

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrKeyNotFound is returned by Get when no document exists under the key.
// Repositories translate this into apperrors.ErrNotFound.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is a generic key-value document store. Keys are namespaced strings
// ("users:abc"), values are JSON documents. The store has no schema and no
// native secondary indexes; index lists are maintained by the repositories on
// top of it.
type Store interface {
	// Get unmarshals the document under key into dest. Returns ErrKeyNotFound
	// when the key is absent.
	Get(ctx context.Context, key string, dest any) error

	// Set marshals value and writes it under key, overwriting any previous
	// document (full-record overwrite, not a field-level patch).
	Set(ctx context.Context, key string, value any) error

	// Delete removes the document under key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// MultiGet fetches several keys at once. Missing keys are simply absent
	// from the result map.
	MultiGet(ctx context.Context, keys []string) (map[string]json.RawMessage, error)

	// ScanPrefix returns all documents whose key starts with prefix.
	ScanPrefix(ctx context.Context, prefix string) (map[string]json.RawMessage, error)

	// RunInTxn executes fn atomically: either every Set/Delete issued through
	// the Txn commits, or none do. Multi-key updates (entity record + its
	// owning index) must go through here so the two writes cannot diverge.
	RunInTxn(ctx context.Context, fn func(ctx context.Context, tx Txn) error) error
}

// Txn is the handle passed to RunInTxn callbacks. Reads through a Txn observe
// writes made earlier in the same transaction, and lock the document against
// concurrent transactions until commit, so read-modify-write cycles (the
// invite redemption counter) serialize instead of racing.
type Txn interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}
