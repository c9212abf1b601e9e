package payment

import (
	"fmt"

	"github.com/storekeeper/connector/pkg/db/models"
	"github.com/storekeeper/connector/pkg/enums"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/storekeeper"
	"github.com/storekeeper/connector/pkg/types"
)

// OrderPayload is the remote-facing projection of one local order, ready to
// be priced and attached to a payment session.
type OrderPayload struct {
	RelationDataID int64
	Title          string
	Products       []storekeeper.PaymentProduct
	Relation       storekeeper.RelationSnapshot
}

// Builder turns a local order into the payload the remote checkout expects.
// Building is pure: same order in, same payload out, no I/O.
type Builder struct{}

// NewBuilder returns a payload builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build validates and projects the order. An order without a relation id
// cannot be paid remotely and fails with a validation error.
func (b *Builder) Build(order *models.Order) (*OrderPayload, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	if order.RelationDataID == nil || *order.RelationDataID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no remote relation id")
	}
	if len(order.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}

	products := make([]storekeeper.PaymentProduct, 0, len(order.Items))
	for _, item := range order.Items {
		product, err := productFromItem(item)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	address := b.payableAddress(order)
	streetName, streetNumber := types.SplitStreet(address.Street)
	return &OrderPayload{
		RelationDataID: *order.RelationDataID,
		Title:          fmt.Sprintf("Order: %s", order.IncrementID),
		Products:       products,
		Relation: storekeeper.RelationSnapshot{
			Name: address.ContactName(),
			ContactAddress: &storekeeper.AddressSnapshot{
				Name:         address.ContactName(),
				City:         address.City,
				Zipcode:      address.Postcode,
				Street:       streetName,
				Streetnumber: streetNumber,
				CountryISO2:  address.CountryISO2,
			},
		},
	}, nil
}

// payableAddress prefers billing; an order that only carries a shipping
// address falls back to it.
func (b *Builder) payableAddress(order *models.Order) types.OrderAddress {
	if order.BillingAddress.IsZero() && order.ShippingAddress != nil {
		return *order.ShippingAddress
	}
	return order.BillingAddress
}

// productFromItem maps the line role onto the remote's exclusive flag set.
func productFromItem(item models.OrderItem) (storekeeper.PaymentProduct, error) {
	product := storekeeper.PaymentProduct{
		SKU:        item.SKU,
		Name:       item.Name,
		PPUWithTax: item.UnitPriceWithTax,
		Quantity:   item.Qty,
	}
	switch item.Role {
	case enums.ItemRoleProduct:
	case enums.ItemRoleShipping:
		product.IsShipping = true
	case enums.ItemRolePayment:
		product.IsPayment = true
	case enums.ItemRoleDiscount:
		product.IsDiscount = true
	default:
		return storekeeper.PaymentProduct{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("order item %s has unknown role %q", item.SKU, item.Role))
	}
	return product, nil
}
