package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxStore implements Store on a single jsonb table. Transactions map
// straight onto database transactions, which is what makes the record+index
// bookkeeping atomic.
type PgxStore struct {
	db *pgxpool.Pool
}

// NewPgxStore creates a Store backed by the given connection pool.
// The kv_store table is created by the migrations at startup.
func NewPgxStore(db *pgxpool.Pool) *PgxStore {
	return &PgxStore{db: db}
}

var _ Store = (*PgxStore)(nil)

// execer and rowQuerier abstract pgxpool.Pool and pgx.Tx so the same
// read/write helpers serve both paths.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getDoc(ctx context.Context, q rowQuerier, key string, query string, dest any) error {
	var raw []byte
	err := q.QueryRow(ctx, query, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to decode document at key %s: %w", key, err)
	}
	return nil
}

const (
	getQuery = `SELECT v FROM kv_store WHERE k = $1;`

	// Transactional reads lock the row. The transactions here always write
	// back what they read (record plus index), so a plain snapshot read
	// would let two concurrent read-modify-write cycles both commit from
	// the same stale document under READ COMMITTED.
	getForUpdateQuery = `SELECT v FROM kv_store WHERE k = $1 FOR UPDATE;`
)

func setDoc(ctx context.Context, q execer, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode document for key %s: %w", key, err)
	}
	query := `
		INSERT INTO kv_store (k, v, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (k) DO UPDATE SET
			v = EXCLUDED.v,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := q.Exec(ctx, query, key, raw); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func deleteDoc(ctx context.Context, q execer, key string) error {
	if _, err := q.Exec(ctx, `DELETE FROM kv_store WHERE k = $1;`, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *PgxStore) Get(ctx context.Context, key string, dest any) error {
	return getDoc(ctx, s.db, key, getQuery, dest)
}

func (s *PgxStore) Set(ctx context.Context, key string, value any) error {
	return setDoc(ctx, s.db, key, value)
}

func (s *PgxStore) Delete(ctx context.Context, key string) error {
	return deleteDoc(ctx, s.db, key)
}

func (s *PgxStore) MultiGet(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	if len(keys) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	rows, err := s.db.Query(ctx, `SELECT k, v FROM kv_store WHERE k = ANY($1);`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to multi-get keys: %w", err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage, len(keys))
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan multi-get row: %w", err)
		}
		out[k] = json.RawMessage(v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read multi-get rows: %w", err)
	}
	return out, nil
}

func (s *PgxStore) ScanPrefix(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	rows, err := s.db.Query(ctx, `SELECT k, v FROM kv_store WHERE k LIKE $1 || '%' ORDER BY k;`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan prefix %s: %w", prefix, err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan prefix row: %w", err)
		}
		out[k] = json.RawMessage(v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prefix rows: %w", err)
	}
	return out, nil
}

func (s *PgxStore) RunInTxn(ctx context.Context, fn func(ctx context.Context, tx Txn) error) error {
	dbTx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin kv transaction: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(ctx, &pgxTxn{tx: dbTx}); err != nil {
		return err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit kv transaction: %w", err)
	}
	return nil
}

type pgxTxn struct {
	tx pgx.Tx
}

var _ Txn = (*pgxTxn)(nil)

func (t *pgxTxn) Get(ctx context.Context, key string, dest any) error {
	return getDoc(ctx, t.tx, key, getForUpdateQuery, dest)
}

func (t *pgxTxn) Set(ctx context.Context, key string, value any) error {
	return setDoc(ctx, t.tx, key, value)
}

func (t *pgxTxn) Delete(ctx context.Context, key string) error {
	return deleteDoc(ctx, t.tx, key)
}
