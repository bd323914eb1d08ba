package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshfold/freshfold-backend/api/controllers"
	webhookcontrollers "github.com/freshfold/freshfold-backend/api/controllers/webhooks"
	"github.com/freshfold/freshfold-backend/api/middleware"
	"github.com/freshfold/freshfold-backend/internal/catalog"
	"github.com/freshfold/freshfold-backend/internal/confirmation"
	"github.com/freshfold/freshfold-backend/internal/orders"
	"github.com/freshfold/freshfold-backend/internal/payments"
	squarewebhook "github.com/freshfold/freshfold-backend/internal/webhooks/square"
	"github.com/freshfold/freshfold-backend/pkg/config"
	"github.com/freshfold/freshfold-backend/pkg/db"
	"github.com/freshfold/freshfold-backend/pkg/logger"
	"github.com/freshfold/freshfold-backend/pkg/redis"
	"github.com/freshfold/freshfold-backend/pkg/square"
)

type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *db.Client
	Redis        *redis.Client
	Catalog      *catalog.Provider
	Orders       orders.Service
	Payments     payments.Service
	Confirmation confirmation.Service
	Square       *square.Client
	Webhooks     webhookcontrollers.SquareWebhookService
	WebhookGuard *squarewebhook.IdempotencyGuard
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, params.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/square", webhookcontrollers.SquareWebhook(params.Webhooks, params.Square, params.WebhookGuard, logg))
	})

	// Storefront wire format is fixed on this one; it dispatches OPTIONS/POST
	// itself and carries its own CORS headers.
	r.HandleFunc("/api/v1/payment-sessions", controllers.PaymentSessions(params.Payments, logg))

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/services", controllers.CatalogServices(params.Catalog, logg))
		r.Get("/services/{service}/categories", controllers.CatalogCategories(params.Catalog, logg))
		r.Get("/categories/{categoryId}/items", controllers.CatalogItems(params.Catalog, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(params.Redis, logg))
		r.Post("/api/v1/orders", controllers.CreateOrder(params.Confirmation, logg))
		r.Get("/api/v1/orders/{orderNumber}", controllers.OrderDetail(params.Orders, logg))
		r.Post("/api/v1/orders/{orderNumber}/pay", controllers.PayOrder(params.Confirmation, logg))
	})

	return r
}
