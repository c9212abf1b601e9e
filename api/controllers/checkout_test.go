package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storekeeper/connector/internal/payment"
	"github.com/storekeeper/connector/pkg/db/models"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/logger"
	"github.com/storekeeper/connector/pkg/storekeeper"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

type stubOrderLoader struct {
	order *models.Order
	err   error
}

func (s *stubOrderLoader) FindByID(context.Context, uuid.UUID) (*models.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

type stubRedirector struct {
	session *storekeeper.PaymentSession
	err     error
	opts    payment.RedirectOptions
}

func (s *stubRedirector) RedirectToPayment(_ context.Context, _ *models.Order, opts payment.RedirectOptions) (*storekeeper.PaymentSession, error) {
	s.opts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func checkoutRequest(t *testing.T, orderID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/checkout/redirect/"+orderID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderID", orderID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCheckoutRedirectSuccess(t *testing.T) {
	order := &models.Order{ID: uuid.New()}
	redirector := &stubRedirector{session: &storekeeper.PaymentSession{
		ID: 9001, PaymentURL: "https://pay.example/session/9001",
	}}
	handler := CheckoutRedirect(&stubOrderLoader{order: order}, redirector, "/checkout/cart", testLogger())

	req := checkoutRequest(t, order.ID.String())
	req.AddCookie(&http.Cookie{Name: checkoutSessionCookie, Value: "sess-9"})
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://pay.example/session/9001" {
		t.Fatalf("unexpected location %q", loc)
	}
	if redirector.opts.SessionID != "sess-9" {
		t.Fatalf("session id not forwarded: %+v", redirector.opts)
	}
	if redirector.opts.EndUserIP != "203.0.113.9" {
		t.Fatalf("client ip not extracted: %+v", redirector.opts)
	}
}

func TestCheckoutRedirectFailureGoesBackToCart(t *testing.T) {
	order := &models.Order{ID: uuid.New()}
	redirector := &stubRedirector{err: pkgerrors.New(pkgerrors.CodeRemote, "provider down")}
	handler := CheckoutRedirect(&stubOrderLoader{order: order}, redirector, "/checkout/cart", testLogger())

	rec := httptest.NewRecorder()
	handler(rec, checkoutRequest(t, order.ID.String()))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "/checkout/cart?notice=remote+service+unavailable" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestCheckoutRedirectUnknownOrder(t *testing.T) {
	loader := &stubOrderLoader{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := CheckoutRedirect(loader, &stubRedirector{}, "/checkout/cart", testLogger())

	rec := httptest.NewRecorder()
	handler(rec, checkoutRequest(t, uuid.NewString()))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/checkout/cart?notice=resource+not+found" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestCheckoutRedirectBadOrderID(t *testing.T) {
	handler := CheckoutRedirect(&stubOrderLoader{}, &stubRedirector{}, "/checkout/cart", testLogger())

	rec := httptest.NewRecorder()
	handler(rec, checkoutRequest(t, "not-a-uuid"))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/checkout/cart?notice=invalid+order+reference" {
		t.Fatalf("unexpected location %q", loc)
	}
}
