package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreConnection holds the per-store link to the remote platform. SyncAuth
// is an opaque credential blob; the connector never interprets it beyond
// handing it to the remote client.
type StoreConnection struct {
	StoreID       uuid.UUID `gorm:"column:store_id;type:uuid;primaryKey"`
	SyncAuth      string    `gorm:"column:sync_auth"`
	GuestAuth     string    `gorm:"column:guest_auth"`
	ShopID        *int64    `gorm:"column:shop_id"`
	ShopName      string    `gorm:"column:shop_name"`
	SecurityToken string    `gorm:"column:security_token"`
	Enabled       bool      `gorm:"column:enabled;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
