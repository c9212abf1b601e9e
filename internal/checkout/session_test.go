package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/storekeeper/connector/pkg/errors"
)

type memBackend struct {
	values map[string]string
	ttls   map[string]time.Duration
	nilErr error
}

func newMemBackend() *memBackend {
	return &memBackend{
		values: map[string]string{},
		ttls:   map[string]time.Duration{},
		nilErr: errors.New("redis: nil"),
	}
}

func (m *memBackend) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *memBackend) Get(_ context.Context, key string) (string, error) {
	if value, ok := m.values[key]; ok {
		return value, nil
	}
	return "", m.nilErr
}

func (m *memBackend) CheckoutSessionKey(sessionID string) string {
	return "sk:checkout_session:" + sessionID
}

func TestSessionReplaceAndReadBack(t *testing.T) {
	backend := newMemBackend()
	store, err := NewSessionStore(backend, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	quoteID := uuid.New()

	if err := store.ReplaceQuote(context.Background(), "sess-1", quoteID); err != nil {
		t.Fatalf("ReplaceQuote: %v", err)
	}
	got, err := store.ActiveQuote(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("ActiveQuote: %v", err)
	}
	if got != quoteID {
		t.Fatalf("expected %s, got %s", quoteID, got)
	}
	if backend.ttls["sk:checkout_session:sess-1"] != time.Hour {
		t.Fatalf("ttl not applied: %v", backend.ttls)
	}
}

func TestSessionMissingIsInternalNotNil(t *testing.T) {
	backend := newMemBackend()
	store, err := NewSessionStore(backend, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}

	_, err = store.ActiveQuote(context.Background(), "unknown")
	if err == nil {
		t.Fatal("expected error for unknown session")
	}
	// The stub's sentinel is not redis.Nil, so this maps to internal.
	if pkgerrors.CodeOf(err) != pkgerrors.CodeInternal {
		t.Fatalf("unexpected code %s", pkgerrors.CodeOf(err))
	}
}

func TestSessionReplaceRequiresID(t *testing.T) {
	store, err := NewSessionStore(newMemBackend(), time.Hour)
	if err != nil {
		t.Fatalf("NewSessionStore: %v", err)
	}
	err = store.ReplaceQuote(context.Background(), "", uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
