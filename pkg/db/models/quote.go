package models

import (
	"time"

	"github.com/google/uuid"
)

// Quote is the pre-checkout shopping cart. Placing an order deactivates it
// and records the reserved order increment id; the compensating rollback
// reactivates it and clears the reservation.
type Quote struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID         uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	Active          bool      `gorm:"column:active;not null;default:true"`
	ReservedOrderID *string   `gorm:"column:reserved_order_id"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
