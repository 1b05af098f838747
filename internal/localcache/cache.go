// Package localcache is the on-disk key/value store that keeps the trainer
// profile available when the remote store is not.
package localcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/sirupsen/logrus"
)

// DefaultMaxBytes caps the stored payload when no limit is configured.
const DefaultMaxBytes int64 = 5 * 1024 * 1024

var (
	// ErrUnavailable is returned by every operation of a cache that could not be opened.
	ErrUnavailable = errors.New("Armazenamento local não disponível.")
	// ErrQuotaExceeded is returned when a write would grow the cache past its limit.
	ErrQuotaExceeded = errors.New("Armazenamento local cheio. Limpe alguns dados e tente novamente.")
	// ErrNotFound is returned for missing keys.
	ErrNotFound = errors.New("chave não encontrada")
)

// Error wraps an underlying store failure with the message shown to the trainer.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// Options configure Open.
type Options struct {
	Dir      string
	InMemory bool
	MaxBytes int64
}

// Cache is safe for concurrent use. A nil *Cache behaves as an unavailable
// store so callers never need to check whether opening succeeded.
type Cache struct {
	db       *badger.DB
	maxBytes int64
	// mu serializes writes so the quota check and the write are atomic.
	mu sync.Mutex
}

// Open opens or creates the cache.
func Open(opts Options) (*Cache, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, ErrUnavailable
		}
		bopts = badger.DefaultOptions(opts.Dir)
	}
	db, err := badger.Open(bopts.WithLogger(nil))
	if err != nil {
		return nil, &Error{Message: ErrUnavailable.Error(), Err: err}
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Cache{db: db, maxBytes: maxBytes}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Check reports whether the cache accepts writes.
func (c *Cache) Check() error {
	if c == nil || c.db == nil {
		return ErrUnavailable
	}
	used, err := c.Usage()
	if err != nil {
		return err
	}
	if used >= c.maxBytes {
		return ErrQuotaExceeded
	}
	return nil
}

// Set stores value under key.
func (c *Cache) Set(key string, value []byte) error {
	if c == nil || c.db == nil {
		return ErrUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.db.Update(func(txn *badger.Txn) error {
		used, err := usage(txn)
		if err != nil {
			return err
		}
		if item, err := txn.Get([]byte(key)); err == nil {
			used -= int64(len(key)) + item.ValueSize()
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if used+int64(len(key)+len(value)) > c.maxBytes {
			return ErrQuotaExceeded
		}
		return txn.Set([]byte(key), value)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrQuotaExceeded), errors.Is(err, badger.ErrTxnTooBig):
		return ErrQuotaExceeded
	default:
		logrus.WithField("key", key).Warnf("local cache write failed: %v", err)
		return &Error{Message: "Erro ao salvar no armazenamento local.", Err: err}
	}
}

// Get returns the value stored under key, or ErrNotFound.
func (c *Cache) Get(key string) ([]byte, error) {
	if c == nil || c.db == nil {
		return nil, ErrUnavailable
	}
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Message: "Erro ao ler do armazenamento local.", Err: err}
	}
	return value, nil
}

// Remove deletes key. Removing a missing key is not an error.
func (c *Cache) Remove(key string) error {
	if c == nil || c.db == nil {
		return ErrUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return &Error{Message: "Erro ao remover do armazenamento local.", Err: err}
	}
	return nil
}

// SetJSON stores v encoded as JSON.
func (c *Cache) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Set(key, data)
}

// GetJSON decodes the value under key into v.
func (c *Cache) GetJSON(key string, v any) error {
	data, err := c.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Message: "Erro ao ler do armazenamento local.", Err: err}
	}
	return nil
}

// Usage returns the approximate number of stored bytes, keys included.
func (c *Cache) Usage() (int64, error) {
	if c == nil || c.db == nil {
		return 0, ErrUnavailable
	}
	var used int64
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		used, err = usage(txn)
		return err
	})
	return used, err
}

// MaxBytes returns the configured limit.
func (c *Cache) MaxBytes() int64 {
	if c == nil {
		return 0
	}
	return c.maxBytes
}

func usage(txn *badger.Txn) (int64, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var total int64
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		total += int64(len(item.Key())) + item.ValueSize()
	}
	return total, nil
}

// ProfileKey is the cache key of a trainer profile.
func ProfileKey(userID string) string {
	return "trainer_profile_" + userID
}
