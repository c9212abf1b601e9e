package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storekeeper/connector/pkg/db"
	"github.com/storekeeper/connector/pkg/db/models"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
)

// Repository handles order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to order operations.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// FindByID loads one order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return &order, nil
}

// FindByIncrementID loads one order by its storefront increment id.
func (r *Repository) FindByIncrementID(ctx context.Context, storeID uuid.UUID, incrementID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("store_id = ? AND increment_id = ?", storeID, incrementID).
		First(&order).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return &order, nil
}

// SetPaymentID writes the remote payment reference exactly once. A second
// write for the same order is a conflict, never an overwrite.
func (r *Repository) SetPaymentID(ctx context.Context, orderID uuid.UUID, paymentID int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND storekeeper_payment_id IS NULL", orderID).
		Update("storekeeper_payment_id", paymentID)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "writing payment reference")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "order already carries a payment reference")
	}
	return nil
}

// SetRelationDataID links the order to the remote customer relation.
func (r *Repository) SetRelationDataID(ctx context.Context, orderID uuid.UUID, relationID int64) error {
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("relation_data_id", relationID).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing relation reference")
	}
	return nil
}
