package connection

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/storekeeper/connector/pkg/db/models"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/logger"
)

type stubRepo struct {
	conns   map[uuid.UUID]*models.StoreConnection
	cleared []uuid.UUID
}

func newStubRepo() *stubRepo {
	return &stubRepo{conns: map[uuid.UUID]*models.StoreConnection{}}
}

func (s *stubRepo) FindByStore(ctx context.Context, storeID uuid.UUID) (*models.StoreConnection, error) {
	conn, ok := s.conns[storeID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store is not connected")
	}
	copied := *conn
	return &copied, nil
}

func (s *stubRepo) Upsert(ctx context.Context, conn *models.StoreConnection) error {
	copied := *conn
	s.conns[conn.StoreID] = &copied
	return nil
}

func (s *stubRepo) ClearCredentials(ctx context.Context, storeID uuid.UUID) error {
	if conn, ok := s.conns[storeID]; ok {
		conn.SyncAuth = ""
		conn.GuestAuth = ""
		conn.ShopID = nil
		conn.ShopName = ""
		conn.Enabled = false
	}
	s.cleared = append(s.cleared, storeID)
	return nil
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	svc, err := NewService(repo, logger.New(logger.Options{ServiceName: "test", Output: discard{}}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

const validAuth = `{"account":"acme","subaccount":"s","user":"sync","apikey":"k"}`

func TestConnectThenShopModule(t *testing.T) {
	svc, repo := newTestService(t)
	storeID := uuid.New()

	if err := svc.Connect(context.Background(), storeID, validAuth, "", 12, "Acme Shop"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	conn := repo.conns[storeID]
	if conn == nil || !conn.Enabled {
		t.Fatal("expected enabled connection row")
	}
	if conn.SecurityToken == "" {
		t.Fatal("expected generated security token")
	}

	if _, err := svc.ShopModule(context.Background(), storeID); err != nil {
		t.Fatalf("ShopModule: %v", err)
	}

	connected, err := svc.IsConnected(context.Background(), storeID)
	if err != nil || !connected {
		t.Fatalf("expected connected store, got %v %v", connected, err)
	}
}

func TestConnectRejectsBadBlob(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Connect(context.Background(), uuid.New(), `{"account":""}`, "", 1, "x")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestShopModuleForUnknownStore(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ShopModule(context.Background(), uuid.New())
	if !pkgerrors.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestDisconnectClearsCredentials(t *testing.T) {
	svc, repo := newTestService(t)
	storeID := uuid.New()
	if err := svc.Connect(context.Background(), storeID, validAuth, "", 12, "Acme Shop"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	token := repo.conns[storeID].SecurityToken

	if err := svc.Disconnect(context.Background(), storeID); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if len(repo.cleared) != 1 {
		t.Fatal("expected credentials cleared")
	}
	// The token row survives a disconnect so a reconnect keeps its identity.
	if repo.conns[storeID].SecurityToken != token {
		t.Fatal("security token must survive disconnect")
	}

	connected, err := svc.IsConnected(context.Background(), storeID)
	if err != nil || connected {
		t.Fatalf("expected disconnected store, got %v %v", connected, err)
	}
}
