package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storekeeper/connector/api/controllers"
	"github.com/storekeeper/connector/api/middleware"
	"github.com/storekeeper/connector/pkg/config"
	"github.com/storekeeper/connector/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         controllers.Pinger
	Redis      controllers.Pinger
	Orders     controllers.OrderLoader
	Redirector controllers.PaymentRedirector
	StoreAdmin controllers.StoreAdmin
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Logger, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/checkout/redirect/{orderID}", controllers.CheckoutRedirect(
		deps.Orders, deps.Redirector, deps.Config.Checkout.CartURL, deps.Logger))

	r.Route("/api/admin/v1/stores/{storeID}", func(r chi.Router) {
		r.Post("/connect", controllers.AdminConnectStore(deps.StoreAdmin, deps.Logger))
		r.Post("/disconnect", controllers.AdminDisconnectStore(deps.StoreAdmin, deps.Logger))
		r.Get("/status", controllers.AdminStoreStatus(deps.StoreAdmin, deps.Logger))
	})

	return r
}
