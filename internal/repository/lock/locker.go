package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/marketlens/internal/domain"
	"github.com/kailas-cloud/marketlens/internal/logger"
)

const keyPrefix = domain.KeyPrefix + "lock:"

// store is the consumer interface for advisory locks (ISP).
type store interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	DelEqual(ctx context.Context, key, value string) (bool, error)
}

// Locker hands out per-slug advisory locks so at most one analysis runs per
// market at a time. Each lock carries a random token; Release only removes a
// lock this process still owns, so an expired lock taken over by another
// runner is never deleted from under it.
type Locker struct {
	store    store
	ttl      time.Duration
	wait     time.Duration
	pollStep time.Duration
}

// Lock is a held advisory lock.
type Lock struct {
	key   string
	token string
}

// New creates a locker. ttl bounds how long a crashed holder can block a
// slug; wait bounds how long Acquire polls for a busy slug.
func New(s store, ttl, wait time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Locker{
		store:    s,
		ttl:      ttl,
		wait:     wait,
		pollStep: 100 * time.Millisecond,
	}
}

// Acquire takes the lock for a slug, polling until the wait budget or the
// context runs out. A busy slug past the budget yields ErrLockNotAcquired.
func (l *Locker) Acquire(ctx context.Context, slug string) (*Lock, error) {
	key := keyPrefix + slug
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.store.SetNX(ctx, key, token, l.ttl)
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", slug, err)
		}
		if ok {
			return &Lock{key: key, token: token}, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("market %s is busy: %w", slug, domain.ErrLockNotAcquired)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.pollStep):
		}
	}
}

// Release frees a held lock. Losing the race against TTL expiry is logged and
// swallowed: the lock is already gone and the work it guarded is done.
func (l *Locker) Release(ctx context.Context, lk *Lock) {
	ok, err := l.store.DelEqual(ctx, lk.key, lk.token)
	if err != nil {
		logger.FromContext(ctx).Warn("lock release failed", zap.String("key", lk.key), zap.Error(err))
		return
	}
	if !ok {
		logger.FromContext(ctx).Warn("lock expired before release", zap.String("key", lk.key))
	}
}
