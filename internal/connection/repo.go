package connection

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storekeeper/connector/pkg/db"
	"github.com/storekeeper/connector/pkg/db/models"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
)

// Repository handles store connection persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to connection operations.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// FindByStore loads the connection row for a store.
func (r *Repository) FindByStore(ctx context.Context, storeID uuid.UUID) (*models.StoreConnection, error) {
	var conn models.StoreConnection
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&conn).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store is not connected")
		}
		return nil, err
	}
	return &conn, nil
}

// Upsert creates or replaces the connection row for a store.
func (r *Repository) Upsert(ctx context.Context, conn *models.StoreConnection) error {
	return r.db.WithContext(ctx).Save(conn).Error
}

// ClearCredentials wipes the credential blob and shop metadata but keeps the
// row so the security token survives a reconnect.
func (r *Repository) ClearCredentials(ctx context.Context, storeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.StoreConnection{}).
		Where("store_id = ?", storeID).
		Updates(map[string]any{
			"sync_auth":  "",
			"guest_auth": "",
			"shop_id":    nil,
			"shop_name":  "",
			"enabled":    false,
		}).Error
}
