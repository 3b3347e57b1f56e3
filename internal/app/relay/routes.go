// Package relay собирает HTTP-сервер relay: маршруты, зависимости и корректную остановку.
package relay

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация swagger-спецификации для /docs.
	_ "github.com/magabrotheeeer/checkout-handshake/docs"
	"github.com/magabrotheeeer/checkout-handshake/internal/http/handlers/health"
	"github.com/magabrotheeeer/checkout-handshake/internal/http/handlers/payment/paymentconfig"
	"github.com/magabrotheeeer/checkout-handshake/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/checkout-handshake/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/checkout-handshake/internal/http/handlers/payment/paymentstatus"
	"github.com/magabrotheeeer/checkout-handshake/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/checkout-handshake/internal/http/middlewarectx"
	"github.com/magabrotheeeer/checkout-handshake/internal/metrics"
)

// Routes зависимости маршрутов. Webhooks и Events nil, если журнал событий не настроен.
type Routes struct {
	Intents        IntentService
	Webhooks       paymentwebhook.Service
	Events         paymentlist.EventService
	Pingers        map[string]health.Pinger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	PublishableKey string
	RateLimit      float64
	RateBurst      int
}

// IntentService бизнес-логика намерений для обработчиков create-intent и confirm-status.
type IntentService interface {
	paymentcreate.Service
	paymentstatus.Service
}

// RegisterRoutes регистрирует все маршруты relay.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Routes) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.With(middlewarectx.RateLimitMiddleware(logger, deps.RateLimit, deps.RateBurst)).
		Post("/create-intent", paymentcreate.New(logger, deps.Intents).ServeHTTP)
	r.Post("/confirm-status", paymentstatus.New(logger, deps.Intents).ServeHTTP)
	r.Get("/config", paymentconfig.New(logger, deps.PublishableKey).ServeHTTP)
	r.Get("/health", health.New(logger, deps.Pingers).ServeHTTP)

	// Журнал событий процессора
	if deps.Webhooks != nil {
		r.Post("/webhook", paymentwebhook.New(logger, deps.Webhooks).ServeHTTP)
	}
	if deps.Events != nil {
		r.Get("/payment-intents/{id}/events", paymentlist.New(logger, deps.Events).ServeHTTP)
	}

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
