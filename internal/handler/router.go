package handler

import (
	"net/http"

	"storefront-be/internal/auth"
	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"

	"github.com/gorilla/mux"
)

type Deps struct {
	Carts         cart.Service
	Orders        order.Service
	Verifier      auth.Verifier
	Limiter       *middleware.RateLimiter
	Metrics       *metrics.Checkout
	AllowedOrigin string
}

type healthResponse struct {
	Status   string                    `json:"status"`
	Checkout *metrics.CheckoutSnapshot `json:"checkout,omitempty"`
}

// NewRouter mounts the REST API under /api. The middleware wraps the whole
// mux so preflight requests are answered even though no route matches them.
func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Status: "ok"}
		if d.Metrics != nil {
			snap := d.Metrics.Snapshot()
			resp.Checkout = &snap
		}
		writeJSON(w, http.StatusOK, resp)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	NewCartHandler(d.Carts).Register(api)
	NewOrderHandler(d.Orders).Register(api)

	var h http.Handler = r
	if d.Limiter != nil {
		h = d.Limiter.Middleware(h)
	}
	h = middleware.Auth(d.Verifier)(h)
	h = middleware.CORS(d.AllowedOrigin)(h)
	h = logger.LoggingMiddleware(h)
	return logger.RequestIDMiddleware(h)
}
