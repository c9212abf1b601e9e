package storekeeper

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/storekeeper/connector/pkg/errors"
)

const shopModuleName = "ShopModule"

// ShopModule groups the shop-scoped remote operations the connector uses.
type ShopModule struct {
	client *Client
}

// ListTranslatedCategories fetches one page of the category listing.
func (m *ShopModule) ListTranslatedCategories(ctx context.Context, offset, limit int, sorts []Sort, filters []Filter) (*CategoryPage, error) {
	if sorts == nil {
		sorts = []Sort{}
	}
	if filters == nil {
		filters = []Filter{}
	}
	var page CategoryPage
	err := m.client.Call(ctx, shopModuleName, "listTranslatedCategoryForHooks",
		[]any{0, offset, limit, sorts, filters}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

type volatileOrder struct {
	ValueWt decimal.Decimal `json:"value_wt"`
}

// NewVolatileOrder prices an item set remotely without creating an order.
// The remote side is authoritative for tax and rounding.
func (m *ShopModule) NewVolatileOrder(ctx context.Context, products []PaymentProduct) (decimal.Decimal, error) {
	payload := map[string]any{"order_items": products}
	var order volatileOrder
	if err := m.client.Call(ctx, shopModuleName, "newVolatileShopOrder", []any{payload}, &order); err != nil {
		return decimal.Zero, err
	}
	return order.ValueWt, nil
}

// NewWebShopPayment opens a remote payment session and returns its id and
// the hosted payment page URL.
func (m *ShopModule) NewWebShopPayment(ctx context.Context, params PaymentParams) (*PaymentSession, error) {
	var session PaymentSession
	if err := m.client.Call(ctx, shopModuleName, "newLinkWebShopPaymentForHookWithReturn", []any{params}, &session); err != nil {
		return nil, err
	}
	if session.ID == 0 || session.PaymentURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeRemote, "payment session response missing id or url")
	}
	if session.TotalAmount.IsZero() {
		session.TotalAmount = params.Amount
	}
	return &session, nil
}

// FindShopCustomerBySubuserEmail resolves the relation data id for an email.
// Returns CodeNotFound when the remote side has no such customer.
func (m *ShopModule) FindShopCustomerBySubuserEmail(ctx context.Context, email string) (int64, error) {
	var customer struct {
		ID json.Number `json:"id"`
	}
	err := m.client.Call(ctx, shopModuleName, "findShopCustomerBySubuserEmail",
		[]any{map[string]string{"email": email}}, &customer)
	if err != nil {
		return 0, err
	}
	id, convErr := customer.ID.Int64()
	if convErr != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeRemote, "customer response missing id")
	}
	return id, nil
}

// NewShopCustomer creates a remote relation and returns its id.
func (m *ShopModule) NewShopCustomer(ctx context.Context, payload RelationPayload) (int64, error) {
	var id int64
	if err := m.client.Call(ctx, shopModuleName, "newShopCustomer", []any{payload}, &id); err != nil {
		return 0, err
	}
	return id, nil
}
