package connection

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/storekeeper/connector/pkg/db/models"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/logger"
	"github.com/storekeeper/connector/pkg/storekeeper"
)

const securityTokenBytes = 32

type connectionStore interface {
	FindByStore(ctx context.Context, storeID uuid.UUID) (*models.StoreConnection, error)
	Upsert(ctx context.Context, conn *models.StoreConnection) error
	ClearCredentials(ctx context.Context, storeID uuid.UUID) error
}

// Service exposes per-store credential handling and builds remote module
// handles. A new client is constructed for every operation; nothing is
// cached across calls.
type Service struct {
	repo   connectionStore
	logger *logger.Logger
}

// NewService builds the connection service.
func NewService(repo connectionStore, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("connection repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{repo: repo, logger: logg}, nil
}

// ShopModule returns a freshly constructed shop module handle for the store.
func (s *Service) ShopModule(ctx context.Context, storeID uuid.UUID) (*storekeeper.ShopModule, error) {
	conn, err := s.repo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !conn.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store connection is disabled")
	}
	auth, err := storekeeper.ParseAuth(conn.SyncAuth)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "store has no usable credentials")
	}
	client, err := storekeeper.NewClient(auth, s.logger)
	if err != nil {
		return nil, err
	}
	return client.ShopModule(), nil
}

// Connect stores the credential blob and shop metadata for a store and
// enables syncing.
func (s *Service) Connect(ctx context.Context, storeID uuid.UUID, syncAuth, guestAuth string, shopID int64, shopName string) error {
	if _, err := storekeeper.ParseAuth(syncAuth); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "sync credentials rejected")
	}

	conn, err := s.repo.FindByStore(ctx, storeID)
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			return err
		}
		conn = &models.StoreConnection{StoreID: storeID}
	}

	conn.SyncAuth = syncAuth
	conn.GuestAuth = guestAuth
	conn.ShopID = &shopID
	conn.ShopName = shopName
	conn.Enabled = true
	if conn.SecurityToken == "" {
		token, err := generateToken()
		if err != nil {
			return err
		}
		conn.SecurityToken = token
	}

	if err := s.repo.Upsert(ctx, conn); err != nil {
		return err
	}

	ctx = s.logger.WithStoreID(ctx, storeID.String())
	s.logger.Info(ctx, "store connected")
	return nil
}

// Disconnect wipes the store credentials. Sync and payment operations fail
// with not-found afterwards.
func (s *Service) Disconnect(ctx context.Context, storeID uuid.UUID) error {
	if _, err := s.repo.FindByStore(ctx, storeID); err != nil {
		return err
	}
	if err := s.repo.ClearCredentials(ctx, storeID); err != nil {
		return err
	}
	ctx = s.logger.WithStoreID(ctx, storeID.String())
	s.logger.Info(ctx, "store disconnected")
	return nil
}

// IsConnected reports whether the store has usable credentials.
func (s *Service) IsConnected(ctx context.Context, storeID uuid.UUID) (bool, error) {
	conn, err := s.repo.FindByStore(ctx, storeID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return conn.Enabled && conn.SyncAuth != "", nil
}

// SecurityToken returns the webhook/admin token for a store.
func (s *Service) SecurityToken(ctx context.Context, storeID uuid.UUID) (string, error) {
	conn, err := s.repo.FindByStore(ctx, storeID)
	if err != nil {
		return "", err
	}
	if conn.SecurityToken == "" {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "store has no security token")
	}
	return conn.SecurityToken, nil
}

func generateToken() (string, error) {
	buf := make([]byte, securityTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating security token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
