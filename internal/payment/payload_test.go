package payment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storekeeper/connector/pkg/db/models"
	"github.com/storekeeper/connector/pkg/enums"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/types"
)

func relationID(id int64) *int64 {
	return &id
}

func paidOrder() *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		StoreID:        uuid.New(),
		IncrementID:    "100000017",
		QuoteID:        uuid.New(),
		RelationDataID: relationID(4242),
		CustomerEmail:  "jan.bakker@example.nl",
		BillingAddress: types.OrderAddress{
			Firstname:   "Jan",
			Lastname:    "Bakker",
			Street:      "Hoofdstraat 12",
			City:        "Zwolle",
			Postcode:    "8011 AA",
			CountryISO2: "NL",
		},
		Items: []models.OrderItem{
			{SKU: "SKU-1", Name: "Widget", UnitPriceWithTax: decimal.RequireFromString("19.99"), Qty: 2, Role: enums.ItemRoleProduct},
			{SKU: "shipping", Name: "Flat Rate", UnitPriceWithTax: decimal.RequireFromString("4.95"), Qty: 1, Role: enums.ItemRoleShipping},
			{SKU: "discount", Name: "Spring Sale", UnitPriceWithTax: decimal.RequireFromString("-5.00"), Qty: 1, Role: enums.ItemRoleDiscount},
		},
	}
}

func TestBuildPayload(t *testing.T) {
	payload, err := NewBuilder().Build(paidOrder())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if payload.Title != "Order: 100000017" {
		t.Fatalf("unexpected title %q", payload.Title)
	}
	if payload.RelationDataID != 4242 {
		t.Fatalf("unexpected relation id %d", payload.RelationDataID)
	}
	if payload.Relation.Name != "Jan Bakker" {
		t.Fatalf("unexpected contact name %q", payload.Relation.Name)
	}
	address := payload.Relation.ContactAddress
	if address == nil || address.Street != "Hoofdstraat" || address.Streetnumber != "12" {
		t.Fatalf("street not split: %+v", address)
	}
	if len(payload.Products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(payload.Products))
	}
}

func TestBuildPayloadRoleFlagsAreExclusive(t *testing.T) {
	payload, err := NewBuilder().Build(paidOrder())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, product := range payload.Products {
		flags := 0
		for _, set := range []bool{product.IsShipping, product.IsPayment, product.IsDiscount} {
			if set {
				flags++
			}
		}
		if flags > 1 {
			t.Fatalf("product %s carries multiple role flags: %+v", product.SKU, product)
		}
	}
	if payload.Products[0].IsShipping || payload.Products[0].IsPayment || payload.Products[0].IsDiscount {
		t.Fatalf("plain product line has a role flag set: %+v", payload.Products[0])
	}
	if !payload.Products[1].IsShipping {
		t.Fatal("shipping line not flagged")
	}
	if !payload.Products[2].IsDiscount {
		t.Fatal("discount line not flagged")
	}
}

func TestBuildPayloadNameSkipsEmptyInfix(t *testing.T) {
	order := paidOrder()
	order.BillingAddress.Middlename = ""
	payload, err := NewBuilder().Build(order)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if payload.Relation.Name != "Jan Bakker" {
		t.Fatalf("expected single-space name, got %q", payload.Relation.Name)
	}
}

func TestBuildPayloadPrefersBusinessName(t *testing.T) {
	order := paidOrder()
	order.BillingAddress.Company = "Bakker BV"
	payload, err := NewBuilder().Build(order)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if payload.Relation.Name != "Bakker BV" {
		t.Fatalf("expected business name, got %q", payload.Relation.Name)
	}
}

func TestBuildPayloadFallsBackToShippingAddress(t *testing.T) {
	order := paidOrder()
	shipping := types.OrderAddress{
		Firstname: "Piet", Lastname: "Visser",
		Street: "Dorpsweg 1-3", City: "Urk", Postcode: "8321 AB", CountryISO2: "NL",
	}
	order.BillingAddress = types.OrderAddress{}
	order.ShippingAddress = &shipping

	payload, err := NewBuilder().Build(order)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if payload.Relation.Name != "Piet Visser" {
		t.Fatalf("expected shipping fallback, got %q", payload.Relation.Name)
	}
	if payload.Relation.ContactAddress.Streetnumber != "1-3" {
		t.Fatalf("ranged street number lost: %+v", payload.Relation.ContactAddress)
	}
}

func TestBuildPayloadRequiresRelationID(t *testing.T) {
	order := paidOrder()
	order.RelationDataID = nil
	_, err := NewBuilder().Build(order)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildPayloadRequiresItems(t *testing.T) {
	order := paidOrder()
	order.Items = nil
	_, err := NewBuilder().Build(order)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
