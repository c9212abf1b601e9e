package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the local twin of a remote catalog category. The unique index
// on (store_id, storekeeper_id) enforces at most one local row per remote id
// per store and arbitrates concurrent create races.
type Category struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID  `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_categories_store_remote"`
	StorekeeperID int64      `gorm:"column:storekeeper_id;not null;uniqueIndex:idx_categories_store_remote"`
	ParentID      *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	Title         string     `gorm:"column:title;not null"`
	Slug          string     `gorm:"column:slug"`
	Description   string     `gorm:"column:description"`
	Path          string     `gorm:"column:path"`
	Position      int        `gorm:"column:position;not null;default:0"`
	Published     bool       `gorm:"column:published;not null;default:false"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
