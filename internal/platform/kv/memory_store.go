package kv

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store used by tests. A single mutex stands in
// for the database transaction: RunInTxn callbacks run under the lock and
// their writes are buffered until the callback returns without error.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]json.RawMessage)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(ctx context.Context, key string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getFromMap(s.data, key, dest)
}

func (s *MemoryStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) MultiGet(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := s.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *MemoryStore) ScanPrefix(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]json.RawMessage)
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out, nil
}

func (s *MemoryStore) RunInTxn(ctx context.Context, fn func(ctx context.Context, tx Txn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTxn{
		base:    s.data,
		writes:  make(map[string]json.RawMessage),
		deletes: make(map[string]bool),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for k := range tx.deletes {
		delete(s.data, k)
	}
	for k, v := range tx.writes {
		s.data[k] = v
	}
	return nil
}

type memoryTxn struct {
	base    map[string]json.RawMessage
	writes  map[string]json.RawMessage
	deletes map[string]bool
}

var _ Txn = (*memoryTxn)(nil)

func (t *memoryTxn) Get(ctx context.Context, key string, dest any) error {
	if t.deletes[key] {
		return ErrKeyNotFound
	}
	if v, ok := t.writes[key]; ok {
		return json.Unmarshal(v, dest)
	}
	return getFromMap(t.base, key, dest)
}

func (t *memoryTxn) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	delete(t.deletes, key)
	t.writes[key] = raw
	return nil
}

func (t *memoryTxn) Delete(ctx context.Context, key string) error {
	delete(t.writes, key)
	t.deletes[key] = true
	return nil
}

func getFromMap(m map[string]json.RawMessage, key string, dest any) error {
	v, ok := m[key]
	if !ok {
		return ErrKeyNotFound
	}
	return json.Unmarshal(v, dest)
}
