package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/storekeeper/connector/pkg/db/models"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/logger"
	"github.com/storekeeper/connector/pkg/metrics"
	"github.com/storekeeper/connector/pkg/storekeeper"
)

// sagaState tracks how far a redirect attempt got before an exit.
type sagaState int

const (
	stateBuilt sagaState = iota
	statePriced
	stateSessionOpened
	statePersisted
)

func (s sagaState) String() string {
	switch s {
	case stateBuilt:
		return "built"
	case statePriced:
		return "priced"
	case stateSessionOpened:
		return "session_opened"
	case statePersisted:
		return "persisted"
	}
	return "unknown"
}

// RemoteCheckout is the remote surface the orchestrator consumes.
type RemoteCheckout interface {
	NewVolatileOrder(ctx context.Context, items []storekeeper.PaymentProduct) (decimal.Decimal, error)
	NewWebShopPayment(ctx context.Context, params storekeeper.PaymentParams) (*storekeeper.PaymentSession, error)
}

// ModuleSource hands out a remote checkout handle per store.
type ModuleSource interface {
	CheckoutModule(ctx context.Context, storeID uuid.UUID) (RemoteCheckout, error)
}

type quoteStore interface {
	Restore(ctx context.Context, quoteID uuid.UUID) error
}

type orderStore interface {
	SetPaymentID(ctx context.Context, orderID uuid.UUID, paymentID int64) error
	SetRelationDataID(ctx context.Context, orderID uuid.UUID, relationID int64) error
}

// relationResolver maps an order's customer onto a remote relation.
type relationResolver interface {
	FindRelationDataIDByEmail(ctx context.Context, storeID uuid.UUID, email string) (int64, error)
	CreateFromOrder(ctx context.Context, order *models.Order) (int64, error)
}

type sessionStore interface {
	ReplaceQuote(ctx context.Context, sessionID string, quoteID uuid.UUID) error
}

// RedirectOptions carries per-request context for one redirect attempt.
type RedirectOptions struct {
	// SessionID identifies the shopper's checkout session; rollback points
	// it back at the restored quote. Empty for headless callers.
	SessionID string
	// EndUserIP is forwarded to the payment provider when known.
	EndUserIP string
}

// Orchestrator runs the checkout redirect saga: build, price remotely, open
// the payment session, persist the reference. Any non-success exit restores
// the shopper's quote so the cart is never left dead.
type Orchestrator struct {
	builder   *Builder
	modules   ModuleSource
	relations relationResolver
	quotes    quoteStore
	orders    orderStore
	sessions  sessionStore
	finishURL string
	logger    *logger.Logger
	metrics   *metrics.PaymentMetrics
}

// NewOrchestrator wires the redirect saga.
func NewOrchestrator(modules ModuleSource, relations relationResolver, quotes quoteStore, orders orderStore, sessions sessionStore, finishURL string, logg *logger.Logger, paymentMetrics *metrics.PaymentMetrics) (*Orchestrator, error) {
	if modules == nil || relations == nil || quotes == nil || orders == nil {
		return nil, fmt.Errorf("modules, relation resolver, quote store and order store are required")
	}
	if finishURL == "" {
		return nil, fmt.Errorf("finish page url required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Orchestrator{
		builder:   NewBuilder(),
		modules:   modules,
		relations: relations,
		quotes:    quotes,
		orders:    orders,
		sessions:  sessions,
		finishURL: finishURL,
		logger:    logg,
		metrics:   paymentMetrics,
	}, nil
}

// RedirectToPayment runs the saga for one order and returns the remote
// payment session whose URL the shopper is redirected to. On failure the
// quote is reactivated, its reservation cleared, and the checkout session
// pointed back at it; rollback errors are joined onto the causing error.
func (o *Orchestrator) RedirectToPayment(ctx context.Context, order *models.Order, opts RedirectOptions) (_ *storekeeper.PaymentSession, err error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	ctx = o.logger.WithOrderID(ctx, order.ID.String())
	ctx = o.logger.WithStoreID(ctx, order.StoreID.String())

	state := stateBuilt
	defer func() {
		if err == nil {
			o.metrics.IncRedirect("success")
			return
		}
		o.metrics.IncRedirect("failure")
		o.logger.Warn(o.logger.WithField(ctx, "failed_state", state.String()), "payment redirect failed, rolling back")
		if rollbackErr := o.rollback(ctx, order, opts); rollbackErr != nil {
			err = multierr.Append(err, rollbackErr)
		}
	}()

	if err = o.ensureRelation(ctx, order); err != nil {
		return nil, err
	}

	payload, err := o.builder.Build(order)
	if err != nil {
		return nil, err
	}

	remote, err := o.modules.CheckoutModule(ctx, order.StoreID)
	if err != nil {
		return nil, err
	}

	// The remote owns pricing; local amounts are never summed into the
	// session total.
	total, err := remote.NewVolatileOrder(ctx, payload.Products)
	if err != nil {
		return nil, err
	}
	state = statePriced

	session, err := remote.NewWebShopPayment(ctx, storekeeper.PaymentParams{
		RedirectURL:          fmt.Sprintf("%s?trx={{trx}}&orderId=%s", o.finishURL, order.IncrementID),
		Amount:               total,
		Title:                payload.Title,
		RelationDataID:       payload.RelationDataID,
		RelationDataSnapshot: payload.Relation,
		EndUserIP:            opts.EndUserIP,
		Products:             payload.Products,
	})
	if err != nil {
		return nil, err
	}
	state = stateSessionOpened

	if persistErr := o.orders.SetPaymentID(ctx, order.ID, session.ID); persistErr != nil {
		// The remote session exists but the local order does not reference
		// it. This needs an operator, not a retry.
		o.metrics.IncInconsistency()
		o.logger.Error(o.logger.WithField(ctx, "storekeeper_payment_id", session.ID),
			"payment session opened but reference not persisted", persistErr)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInconsistency, persistErr,
			fmt.Sprintf("payment session %d opened but not linked to order %s", session.ID, order.IncrementID))
	}
	state = statePersisted

	o.logger.Info(o.logger.WithField(ctx, "storekeeper_payment_id", session.ID), "payment redirect prepared")
	return session, nil
}

// ensureRelation fills in the order's remote relation before the payload is
// built. An existing relation id is kept; otherwise the customer is looked up
// by email and created remotely when unknown, and the resolved id is written
// back onto the order row.
func (o *Orchestrator) ensureRelation(ctx context.Context, order *models.Order) error {
	if order.RelationDataID != nil && *order.RelationDataID != 0 {
		return nil
	}

	relationID, err := o.relations.FindRelationDataIDByEmail(ctx, order.StoreID, order.CustomerEmail)
	if err != nil {
		return err
	}
	if relationID == 0 {
		relationID, err = o.relations.CreateFromOrder(ctx, order)
		if err != nil {
			return err
		}
	}

	if err := o.orders.SetRelationDataID(ctx, order.ID, relationID); err != nil {
		return err
	}
	order.RelationDataID = &relationID
	return nil
}

// rollback restores the shopper's cart after a failed attempt: the quote is
// reactivated, the reserved order id cleared, and the checkout session
// pointed back at the quote.
func (o *Orchestrator) rollback(ctx context.Context, order *models.Order, opts RedirectOptions) error {
	var combined error

	if err := o.quotes.Restore(ctx, order.QuoteID); err != nil {
		combined = multierr.Append(combined, fmt.Errorf("restoring quote: %w", err))
	}

	if o.sessions != nil && opts.SessionID != "" {
		if err := o.sessions.ReplaceQuote(ctx, opts.SessionID, order.QuoteID); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("replacing session quote: %w", err))
		}
	}

	if combined != nil {
		o.logger.Error(ctx, "checkout rollback incomplete", combined)
	} else {
		o.logger.Info(ctx, "checkout rolled back, quote restored")
	}
	return combined
}
