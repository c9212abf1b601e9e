package controllers

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/storekeeper/connector/internal/payment"
	"github.com/storekeeper/connector/pkg/db/models"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/logger"
	"github.com/storekeeper/connector/pkg/storekeeper"
)

const checkoutSessionCookie = "checkout_session"

// OrderLoader loads the order a shopper is paying for.
type OrderLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// PaymentRedirector runs the redirect saga for one order.
type PaymentRedirector interface {
	RedirectToPayment(ctx context.Context, order *models.Order, opts payment.RedirectOptions) (*storekeeper.PaymentSession, error)
}

// CheckoutRedirect sends the shopper to the remote payment page. Any
// failure sends them back to the cart with the public message; the cart
// itself has already been restored by the saga's rollback.
func CheckoutRedirect(orders OrderLoader, redirector PaymentRedirector, cartURL string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			backToCart(w, r, cartURL, "invalid order reference")
			return
		}
		ctx = logg.WithOrderID(ctx, orderID.String())

		order, err := orders.FindByID(ctx, orderID)
		if err != nil {
			logg.Error(ctx, "checkout.order_load_failed", err)
			backToCart(w, r, cartURL, publicMessage(err))
			return
		}

		session, err := redirector.RedirectToPayment(ctx, order, payment.RedirectOptions{
			SessionID: sessionID(r),
			EndUserIP: clientIP(r),
		})
		if err != nil {
			logg.Error(ctx, "checkout.redirect_failed", err)
			backToCart(w, r, cartURL, publicMessage(err))
			return
		}

		http.Redirect(w, r, session.PaymentURL, http.StatusFound)
	}
}

func backToCart(w http.ResponseWriter, r *http.Request, cartURL, notice string) {
	target := cartURL
	if notice != "" {
		target = cartURL + "?notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func publicMessage(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage
	}
	return pkgerrors.MetadataFor(typed.Code()).PublicMessage
}

func sessionID(r *http.Request) string {
	if cookie, err := r.Cookie(checkoutSessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.URL.Query().Get("session_id")
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
