package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	KVStore
	HashStore
	SortedSetStore
	Locker
	Transactor
	Scanner
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// HashStore provides hash-based operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	// HMGetMulti fetches the same field subset from many hashes in one
	// pipelined round-trip. Missing fields come back as empty strings.
	HMGetMulti(ctx context.Context, keys []string, fields []string) ([][]string, error)
}

// SortedSetStore provides sorted-set operations.
type SortedSetStore interface {
	ZAdd(ctx context.Context, key string, score float64, member string) error
	// ZRevRange returns members ordered by descending score, then reverse
	// lexical order for equal scores. stop=-1 means the full set.
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZCard(ctx context.Context, key string) (int64, error)
	ZRem(ctx context.Context, key string, member string) error
}

// Locker provides the primitives for advisory locks.
type Locker interface {
	// SetNX sets key=value with a TTL only when the key is absent.
	// Returns true when the key was set.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// DelEqual deletes key only when its current value equals value
	// (compare-and-delete, atomic server-side). Returns true when deleted.
	DelEqual(ctx context.Context, key, value string) (bool, error)
}

// Transactor applies a batch of writes atomically (all-or-nothing).
type Transactor interface {
	Tx(ctx context.Context, ops []TxOp) error
}

// Scanner walks the keyspace in pages so consumers stay memory-bounded.
type Scanner interface {
	// ScanPage returns one SCAN page of keys matching pattern, plus the next
	// cursor. A returned cursor of 0 means the iteration is complete.
	ScanPage(ctx context.Context, cursor uint64, pattern string, count int64) ([]string, uint64, error)
}
