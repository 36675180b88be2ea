package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// MemoryStore is an in-process store backed by badger running in memory mode.
// Badger stores expiry in whole Unix seconds, so entries may outlive their
// TTL by up to a second but never expire before it.
type MemoryStore struct {
	db *badger.DB
}

func NewMemoryStore() (*MemoryStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory badger: %w", err)
	}
	return &MemoryStore{db: db}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		e.ExpiresAt = expiresAt(time.Now(), ttl)
		return txn.SetEntry(e)
	})
}

// expiresAt returns the first whole second at or after now+ttl has fully
// elapsed. Badger treats an entry as expired once ExpiresAt <= now.Unix().
func expiresAt(now time.Time, ttl time.Duration) uint64 {
	return uint64(now.Add(ttl).Unix()) + 1
}

func (s *MemoryStore) Close() error {
	return s.db.Close()
}
