package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/checkout-handshake/internal/cache"
	"github.com/magabrotheeeer/checkout-handshake/internal/config"
	"github.com/magabrotheeeer/checkout-handshake/internal/http/handlers/health"
	"github.com/magabrotheeeer/checkout-handshake/internal/lib/sl"
	"github.com/magabrotheeeer/checkout-handshake/internal/metrics"
	"github.com/magabrotheeeer/checkout-handshake/internal/migrations"
	"github.com/magabrotheeeer/checkout-handshake/internal/paymentprovider"
	"github.com/magabrotheeeer/checkout-handshake/internal/rabbitmq"
	"github.com/magabrotheeeer/checkout-handshake/internal/services/intent"
	"github.com/magabrotheeeer/checkout-handshake/internal/services/webhook"
	"github.com/magabrotheeeer/checkout-handshake/internal/storage/repository"
)

const (
	shutdownTimeout = 15 * time.Second
	rabbitRetries   = 5
	rabbitDelay     = 2 * time.Second
)

// App relay со всеми подключениями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []io.Closer
}

// New создаёт relay. Redis, PostgreSQL и RabbitMQ подключаются, только если настроены:
// без redis статус всегда читается у процессора, без PostgreSQL webhook отключён.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.relay.New"

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("%s: processor secret key is not configured", op)
	}

	app := &App{logger: logger}
	fail := func(err error) (*App, error) {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	pingers := make(map[string]health.Pinger)

	var statusCache intent.StatusCache
	if cfg.AddressRedis != "" {
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return fail(err)
		}
		app.closers = append(app.closers, cacheRedis)
		pingers["redis"] = cacheRedis
		statusCache = cacheRedis
	} else {
		logger.Warn("redis is not configured, status cache disabled")
	}

	processor := paymentprovider.NewClient(cfg.SecretKey, cfg.APIURL, logger)
	intentService := intent.NewService(processor, statusCache, m, cfg.MinAmount, cfg.StatusCacheTTL, logger)

	deps := Routes{
		Intents:        intentService,
		Pingers:        pingers,
		Metrics:        m,
		Gatherer:       reg,
		PublishableKey: cfg.PublishableKey,
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
	}

	if cfg.StorageConnectionString != "" {
		db, err := repository.New(ctx, cfg.StorageConnectionString)
		if err != nil {
			return fail(err)
		}
		app.closers = append(app.closers, db)
		if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return fail(err)
		}
		if err = repository.CheckDatabaseReady(ctx, db); err != nil {
			return fail(err)
		}
		pingers["postgres"] = db
		deps.Events = db

		var publisher webhook.Publisher
		if cfg.RabbitMQURL != "" {
			conn, err := rabbitmq.Connect(cfg.RabbitMQURL, rabbitRetries, rabbitDelay)
			if err != nil {
				return fail(err)
			}
			app.closers = append(app.closers, conn)
			ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.PaymentQueues())
			if err != nil {
				return fail(err)
			}
			publisher = rabbitmq.NewPublisher(ch, cfg.Exchange)
		} else {
			logger.Warn("rabbitmq is not configured, webhook events are only recorded")
		}

		if cfg.WebhookSecret != "" {
			deps.Webhooks = webhook.NewService(cfg.WebhookSecret, db, publisher, intentService, m, logger)
		} else {
			logger.Warn("webhook secret is not configured, /webhook disabled")
		}
	} else {
		logger.Warn("storage is not configured, webhook event log disabled")
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, deps)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close закрывает подключения в обратном порядке.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
