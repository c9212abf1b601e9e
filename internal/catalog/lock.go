package catalog

import (
	"context"
	"time"

	pkgerrors "github.com/storekeeper/connector/pkg/errors"
)

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RunLock serializes reconciliation runs per store. The key encodes store
// and entity type; the TTL bounds how long a crashed run can hold the lock.
type RunLock struct {
	store lockStore
	key   string
	owner string
	ttl   time.Duration
}

// NewRunLock builds a lock handle for one run. Owner should be unique per
// process attempt so Release never frees someone else's lock.
func NewRunLock(store lockStore, key, owner string, ttl time.Duration) *RunLock {
	return &RunLock{store: store, key: key, owner: owner, ttl: ttl}
}

// Acquire takes the lock or returns CodeConflict when another run holds it.
func (l *RunLock) Acquire(ctx context.Context) error {
	ok, err := l.store.SetNX(ctx, l.key, l.owner, l.ttl)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "acquiring run lock")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "a reconciliation run is already active for this store")
	}
	return nil
}

// Release frees the lock if this handle still owns it. A lock that expired
// and was re-acquired by another run is left alone.
func (l *RunLock) Release(ctx context.Context) error {
	holder, err := l.store.Get(ctx, l.key)
	if err != nil {
		return nil
	}
	if holder != l.owner {
		return nil
	}
	return l.store.Del(ctx, l.key)
}
