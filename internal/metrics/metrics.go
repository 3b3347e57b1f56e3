// Package metrics prometheus-метрики relay.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Результаты создания намерения.
const (
	ResultOK             = "ok"
	ResultValidation     = "validation"
	ResultCard           = "card"
	ResultInvalidRequest = "invalid_request"
	ResultProcessor      = "processor"
)

// Источники ответа на запрос статуса.
const (
	SourceCache     = "cache"
	SourceProcessor = "processor"
)

// Результаты обработки webhook.
const (
	WebhookRecorded  = "recorded"
	WebhookDuplicate = "duplicate"
	WebhookRejected  = "rejected"
	WebhookFailed    = "failed"
)

// Metrics коллекторы relay.
type Metrics struct {
	IntentsCreated *prometheus.CounterVec
	StatusLookups  *prometheus.CounterVec
	WebhookEvents  *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IntentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "intents_created_total",
			Help:      "Payment intent creation attempts by result.",
		}, []string{"result"}),
		StatusLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "status_lookups_total",
			Help:      "Payment intent status lookups by source.",
		}, []string{"source"}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "webhook_events_total",
			Help:      "Processor webhook deliveries by result.",
		}, []string{"result"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "checkout",
			Name:      "http_request_duration_seconds",
			Help:      "Relay HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
	reg.MustRegister(m.IntentsCreated, m.StatusLookups, m.WebhookEvents, m.HTTPDuration)
	return m
}

// Middleware пишет длительность запроса с шаблоном маршрута chi в метке route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
