// Package intent бизнес-логика relay: создание платёжного намерения
// и чтение его статуса через кэш терминальных статусов.
package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/checkout-handshake/internal/lib/sl"
	"github.com/magabrotheeeer/checkout-handshake/internal/metrics"
	"github.com/magabrotheeeer/checkout-handshake/internal/models"
	"github.com/magabrotheeeer/checkout-handshake/internal/paymentprovider"
)

// Processor серверная часть процессора.
type Processor interface {
	CreateIntent(ctx context.Context, money models.Money, idempotencyKey string) (models.PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (models.PaymentIntent, error)
}

// StatusCache хранилище терминальных статусов.
type StatusCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service создаёт намерения и отдаёт их статус.
type Service struct {
	processor Processor
	cache     StatusCache
	metrics   *metrics.Metrics
	minAmount int64
	ttl       time.Duration
	log       *slog.Logger
}

// NewService создаёт Service. cache может быть nil, тогда статус всегда читается у процессора.
func NewService(processor Processor, cache StatusCache, m *metrics.Metrics, minAmount int64, ttl time.Duration, log *slog.Logger) *Service {
	if minAmount <= 0 {
		minAmount = models.MinAmount
	}
	return &Service{
		processor: processor,
		cache:     cache,
		metrics:   m,
		minAmount: minAmount,
		ttl:       ttl,
		log:       log,
	}
}

// StatusKey ключ кэша для статуса намерения.
func StatusKey(intentID string) string {
	return "intent:status:" + intentID
}

// CreateIntent проверяет сумму и создаёт намерение у процессора.
// Ошибка валидации возвращается без обёртки: её текст уходит клиенту как есть.
func (s *Service) CreateIntent(ctx context.Context, money models.Money) (models.IntentHandle, error) {
	const op = "services.intent.CreateIntent"

	if err := money.Validate(s.minAmount); err != nil {
		s.metrics.IntentsCreated.WithLabelValues(metrics.ResultValidation).Inc()
		return models.IntentHandle{}, err
	}

	pi, err := s.processor.CreateIntent(ctx, money, uuid.NewString())
	if err != nil {
		s.metrics.IntentsCreated.WithLabelValues(resultOf(err)).Inc()
		return models.IntentHandle{}, fmt.Errorf("%s: %w", op, err)
	}
	if pi.ID == "" || pi.ClientSecret == "" {
		s.metrics.IntentsCreated.WithLabelValues(metrics.ResultProcessor).Inc()
		return models.IntentHandle{}, fmt.Errorf("%s: processor returned an intent without id or client secret", op)
	}

	s.metrics.IntentsCreated.WithLabelValues(metrics.ResultOK).Inc()
	s.log.Info("payment intent created",
		slog.String("op", op),
		slog.Any("handle", pi.Handle()),
		slog.String("amount", money.String()),
	)
	return pi.Handle(), nil
}

// Status возвращает статус намерения. Терминальный статус больше не меняется,
// поэтому он кэшируется; промежуточные всегда читаются у процессора.
func (s *Service) Status(ctx context.Context, intentID string) (models.ConfirmStatusResponse, error) {
	const op = "services.intent.Status"
	log := s.log.With(slog.String("op", op), slog.String("intent_id", intentID))

	if s.cache != nil {
		var cached models.ConfirmStatusResponse
		found, err := s.cache.Get(ctx, StatusKey(intentID), &cached)
		if err != nil {
			log.Warn("status cache read failed", sl.Err(err))
		}
		if found {
			s.metrics.StatusLookups.WithLabelValues(metrics.SourceCache).Inc()
			return cached, nil
		}
	}

	pi, err := s.processor.GetIntent(ctx, intentID)
	if err != nil {
		return models.ConfirmStatusResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.StatusLookups.WithLabelValues(metrics.SourceProcessor).Inc()

	resp := models.NewConfirmStatusResponse(pi)
	if s.cache != nil && pi.Status.IsTerminal() {
		if err := s.cache.Set(ctx, StatusKey(intentID), resp, s.ttl); err != nil {
			log.Warn("status cache write failed", sl.Err(err))
		}
	}
	return resp, nil
}

// InvalidateStatus удаляет статус из кэша после события процессора.
func (s *Service) InvalidateStatus(ctx context.Context, intentID string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, StatusKey(intentID)); err != nil {
		return fmt.Errorf("services.intent.InvalidateStatus: %w", err)
	}
	return nil
}

func resultOf(err error) string {
	var pErr *paymentprovider.ProcessorError
	if !errors.As(err, &pErr) {
		return metrics.ResultProcessor
	}
	switch pErr.Kind {
	case paymentprovider.KindCard:
		return metrics.ResultCard
	case paymentprovider.KindInvalidRequest:
		return metrics.ResultInvalidRequest
	default:
		return metrics.ResultProcessor
	}
}
