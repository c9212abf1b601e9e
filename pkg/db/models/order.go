package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storekeeper/connector/pkg/types"
)

// Order is a finalized storefront order awaiting (or past) remote payment.
type Order struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID              uuid.UUID           `gorm:"column:store_id;type:uuid;not null"`
	IncrementID          string              `gorm:"column:increment_id;not null;uniqueIndex"`
	QuoteID              uuid.UUID           `gorm:"column:quote_id;type:uuid;not null"`
	CustomerEmail        string              `gorm:"column:customer_email"`
	CustomerFirstname    string              `gorm:"column:customer_firstname"`
	CustomerMiddlename   string              `gorm:"column:customer_middlename"`
	CustomerLastname     string              `gorm:"column:customer_lastname"`
	CustomerIsGuest      bool                `gorm:"column:customer_is_guest;not null;default:false"`
	RelationDataID       *int64              `gorm:"column:relation_data_id"`
	StorekeeperPaymentID *int64              `gorm:"column:storekeeper_payment_id"`
	GrandTotal           decimal.Decimal     `gorm:"column:grand_total;type:numeric(12,4);not null"`
	BillingAddress       types.OrderAddress  `gorm:"embedded;embeddedPrefix:billing_"`
	ShippingAddress      *types.OrderAddress `gorm:"embedded;embeddedPrefix:shipping_"`
	Items                []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
