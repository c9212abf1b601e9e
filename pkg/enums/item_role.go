package enums

import "fmt"

// ItemRole classifies an order line. A line has exactly one role: a physical
// product, a shipping fee, a payment surcharge, or a discount.
type ItemRole string

const (
	ItemRoleProduct  ItemRole = "product"
	ItemRoleShipping ItemRole = "shipping"
	ItemRolePayment  ItemRole = "payment"
	ItemRoleDiscount ItemRole = "discount"
)

var validItemRoles = []ItemRole{
	ItemRoleProduct,
	ItemRoleShipping,
	ItemRolePayment,
	ItemRoleDiscount,
}

// String implements fmt.Stringer.
func (r ItemRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ItemRole.
func (r ItemRole) IsValid() bool {
	for _, candidate := range validItemRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseItemRole converts raw input into an ItemRole.
func ParseItemRole(value string) (ItemRole, error) {
	for _, candidate := range validItemRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item role %q", value)
}
