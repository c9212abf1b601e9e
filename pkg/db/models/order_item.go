package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storekeeper/connector/pkg/enums"
)

// OrderItem is one line of an order; Role marks it as a product, shipping,
// payment-surcharge, or discount line.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	SKU              string          `gorm:"column:sku;not null"`
	Name             string          `gorm:"column:name;not null"`
	UnitPriceWithTax decimal.Decimal `gorm:"column:unit_price_with_tax;type:numeric(12,4);not null"`
	Qty              int             `gorm:"column:qty;not null"`
	Role             enums.ItemRole  `gorm:"column:role;not null;default:'product'"`
}
