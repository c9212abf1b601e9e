package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/redis"
)

type sessionBackend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	CheckoutSessionKey(sessionID string) string
}

// SessionStore keeps the shopper's checkout session in Redis: one key per
// session pointing at the active quote. ReplaceQuote is the rollback hook
// that puts a restored quote back in front of the shopper.
type SessionStore struct {
	backend sessionBackend
	ttl     time.Duration
}

// NewSessionStore binds the session store to a redis backend.
func NewSessionStore(backend sessionBackend, ttl time.Duration) (*SessionStore, error) {
	if backend == nil {
		return nil, fmt.Errorf("session backend required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &SessionStore{backend: backend, ttl: ttl}, nil
}

// ActiveQuote returns the quote the session currently points at.
func (s *SessionStore) ActiveQuote(ctx context.Context, sessionID string) (uuid.UUID, error) {
	value, err := s.backend.Get(ctx, s.backend.CheckoutSessionKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading checkout session")
	}
	quoteID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout session holds an invalid quote id")
	}
	return quoteID, nil
}

// ReplaceQuote points the session at a quote, refreshing the TTL.
func (s *SessionStore) ReplaceQuote(ctx context.Context, sessionID string, quoteID uuid.UUID) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	key := s.backend.CheckoutSessionKey(sessionID)
	if err := s.backend.Set(ctx, key, quoteID.String(), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing session quote")
	}
	return nil
}
