package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storekeeper/connector/pkg/db"
	"github.com/storekeeper/connector/pkg/db/models"
)

// CategoryRepository handles local category persistence.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository binds a GORM DB to category operations.
func NewCategoryRepository(gdb *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: gdb}
}

// FindByRemoteID looks up the local twin for a remote id within one store.
// The boolean reports whether a twin exists; absence is not an error.
func (r *CategoryRepository) FindByRemoteID(ctx context.Context, storeID uuid.UUID, remoteID int64) (*models.Category, bool, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND storekeeper_id = ?", storeID, remoteID).
		First(&category).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &category, true, nil
}

// Create inserts a new category row. The unique index on
// (store_id, storekeeper_id) rejects duplicates.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// UpdateFields writes only the provided columns of one category row.
func (r *CategoryRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(fields).Error
}
