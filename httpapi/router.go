// Package httpapi exposes the storefront over HTTP/JSON.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"goflare.io/atelier"
	"goflare.io/atelier/metrics"
)

type Options struct {
	AdminToken string
	// AdminEmail and AdminPassword enable POST /api/v1/admin/login, which
	// trades them for AdminToken. Empty disables sign-in.
	AdminEmail     string
	AdminPassword  string
	RequestTimeout time.Duration
	Metrics        *metrics.ServerMetrics
	Logger         *zap.Logger
}

type handler struct {
	svc     atelier.Service
	admin   adminAccount
	metrics *metrics.ServerMetrics
	logger  *zap.Logger
}

func NewRouter(svc atelier.Service, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handler{
		svc: svc,
		admin: adminAccount{
			email:    opts.AdminEmail,
			password: opts.AdminPassword,
			token:    opts.AdminToken,
		},
		metrics: opts.Metrics,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger, opts.Metrics))
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/testimonials", h.listTestimonials)

		r.Group(func(r chi.Router) {
			r.Use(withSession)

			r.Get("/cart", h.getCart)
			r.Delete("/cart", h.clearCart)
			r.Post("/cart/items", h.addItem)
			r.Post("/cart/custom", h.addCustomPiece)
			r.Put("/cart/items/{product_id}", h.updateQuantity)
			r.Delete("/cart/items/{product_id}", h.removeItem)
			r.Post("/checkout", h.checkout)
			r.Post("/session/signout", h.signOut)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.adminLogin)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin(opts.AdminToken))

				r.Get("/products", h.adminListProducts)
				r.Post("/products", h.adminCreateProduct)
				r.Put("/products/{id}", h.adminUpdateProduct)
				r.Delete("/products/{id}", h.adminDeleteProduct)
				r.Post("/products/{id}/toggle", h.adminToggleProduct)

				r.Get("/testimonials", h.adminListTestimonials)
				r.Post("/testimonials", h.adminCreateTestimonial)
				r.Put("/testimonials/{id}", h.adminUpdateTestimonial)
				r.Delete("/testimonials/{id}", h.adminDeleteTestimonial)
				r.Post("/testimonials/{id}/toggle", h.adminToggleTestimonial)

				r.Get("/email-templates", h.adminListEmailTemplates)
				r.Put("/email-templates/{type}", h.adminUpdateEmailTemplate)

				r.Get("/orders", h.adminDashboard)
			})
		})
	})

	return r
}
