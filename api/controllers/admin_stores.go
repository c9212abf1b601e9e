package controllers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/storekeeper/connector/api/responses"
	"github.com/storekeeper/connector/api/validators"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/logger"
)

const storeTokenHeader = "X-StoreKeeper-Token"

// StoreAdmin is the connection management surface for back-office calls.
type StoreAdmin interface {
	Connect(ctx context.Context, storeID uuid.UUID, syncAuth, guestAuth string, shopID int64, shopName string) error
	Disconnect(ctx context.Context, storeID uuid.UUID) error
	IsConnected(ctx context.Context, storeID uuid.UUID) (bool, error)
	SecurityToken(ctx context.Context, storeID uuid.UUID) (string, error)
}

type connectStoreRequest struct {
	SyncAuth  string `json:"sync_auth" validate:"required"`
	GuestAuth string `json:"guest_auth"`
	ShopID    int64  `json:"shop_id" validate:"required"`
	ShopName  string `json:"shop_name" validate:"required"`
}

// AdminConnectStore stores the credential blob the back office hands out
// and enables syncing for the store.
func AdminConnectStore(admin StoreAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		storeID, err := uuid.Parse(chi.URLParam(r, "storeID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id"))
			return
		}

		var req connectStoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}
		if err := validators.Struct(req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := admin.Connect(ctx, storeID, req.SyncAuth, req.GuestAuth, req.ShopID, req.ShopName); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "connected"})
	}
}

// AdminDisconnectStore wipes the store credentials. The caller must present
// the store's security token.
func AdminDisconnectStore(admin StoreAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		storeID, err := uuid.Parse(chi.URLParam(r, "storeID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id"))
			return
		}

		if err := guardStoreToken(ctx, admin, storeID, r.Header.Get(storeTokenHeader)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := admin.Disconnect(ctx, storeID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "disconnected"})
	}
}

// AdminStoreStatus reports whether the store has usable credentials.
func AdminStoreStatus(admin StoreAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		storeID, err := uuid.Parse(chi.URLParam(r, "storeID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid store id"))
			return
		}

		connected, err := admin.IsConnected(ctx, storeID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"connected": connected})
	}
}

func guardStoreToken(ctx context.Context, admin StoreAdmin, storeID uuid.UUID, presented string) error {
	token, err := admin.SecurityToken(ctx, storeID)
	if err != nil {
		return err
	}
	if presented == "" || subtle.ConstantTimeCompare([]byte(token), []byte(presented)) != 1 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid store token")
	}
	return nil
}
