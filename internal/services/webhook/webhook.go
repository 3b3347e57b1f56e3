// Package webhook принимает события процессора: проверяет подпись,
// записывает событие один раз и публикует его в брокер.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	stripewebhook "github.com/stripe/stripe-go/v76/webhook"

	"github.com/magabrotheeeer/checkout-handshake/internal/lib/sl"
	"github.com/magabrotheeeer/checkout-handshake/internal/metrics"
	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

// SignatureHeader заголовок с подписью события.
const SignatureHeader = "Stripe-Signature"

const intentEventPrefix = "payment_intent."

// ErrInvalidSignature подпись не совпала или событие не разобралось.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// EventLog журнал событий с дедупликацией по id.
type EventLog interface {
	RecordEvent(ctx context.Context, ev models.WebhookEvent, publish func(context.Context) error) (duplicate bool, err error)
}

// Publisher отправляет событие в брокер.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// StatusInvalidator сбрасывает закэшированный статус намерения.
type StatusInvalidator interface {
	InvalidateStatus(ctx context.Context, intentID string) error
}

// Service обрабатывает доставки webhook.
type Service struct {
	secret      string
	events      EventLog
	publisher   Publisher
	invalidator StatusInvalidator
	metrics     *metrics.Metrics
	log         *slog.Logger
	now         func() time.Time
}

// NewService создаёт Service. publisher и invalidator могут быть nil.
func NewService(secret string, events EventLog, publisher Publisher, invalidator StatusInvalidator, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		secret:      secret,
		events:      events,
		publisher:   publisher,
		invalidator: invalidator,
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

// Handle проверяет подпись payload и обрабатывает событие.
// Возвращает true, если событие уже было обработано раньше.
func (s *Service) Handle(ctx context.Context, payload []byte, signature string) (bool, error) {
	const op = "services.webhook.Handle"

	event, err := stripewebhook.ConstructEventWithOptions(payload, signature, s.secret,
		stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues(metrics.WebhookRejected).Inc()
		return false, fmt.Errorf("%s: %w: %w", op, ErrInvalidSignature, err)
	}

	ev, err := s.toEvent(event, payload)
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues(metrics.WebhookRejected).Inc()
		return false, fmt.Errorf("%s: %w: %w", op, ErrInvalidSignature, err)
	}
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", ev.ID),
		slog.String("event_type", ev.Type),
		slog.String("intent_id", ev.PaymentIntentID),
	)

	duplicate, err := s.events.RecordEvent(ctx, ev, func(ctx context.Context) error {
		if s.publisher == nil {
			return nil
		}
		return s.publisher.Publish(ctx, ev.Type, ev)
	})
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues(metrics.WebhookFailed).Inc()
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if duplicate {
		s.metrics.WebhookEvents.WithLabelValues(metrics.WebhookDuplicate).Inc()
		log.Info("duplicate webhook event skipped")
		return true, nil
	}

	if s.invalidator != nil && ev.PaymentIntentID != "" {
		if err := s.invalidator.InvalidateStatus(ctx, ev.PaymentIntentID); err != nil {
			log.Warn("failed to invalidate cached status", sl.Err(err))
		}
	}

	s.metrics.WebhookEvents.WithLabelValues(metrics.WebhookRecorded).Inc()
	log.Info("webhook event recorded", slog.String("status", string(ev.Status)))
	return false, nil
}

func (s *Service) toEvent(event stripe.Event, payload []byte) (models.WebhookEvent, error) {
	ev := models.WebhookEvent{
		ID:         event.ID,
		Type:       string(event.Type),
		ReceivedAt: s.now().UTC(),
	}
	if ev.ID == "" {
		return ev, errors.New("event without id")
	}
	redacted, err := redactSecret(payload)
	if err != nil {
		return ev, err
	}
	ev.Payload = redacted
	if !strings.HasPrefix(ev.Type, intentEventPrefix) || event.Data == nil {
		return ev, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return ev, fmt.Errorf("decode payment intent: %w", err)
	}
	ev.PaymentIntentID = pi.ID
	ev.Status = models.IntentStatus(pi.Status)
	return ev, nil
}

// redactSecret убирает client_secret из объекта события: payload сохраняется и публикуется.
func redactSecret(payload []byte) (json.RawMessage, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if data, ok := doc["data"].(map[string]any); ok {
		if object, ok := data["object"].(map[string]any); ok {
			delete(object, "client_secret")
		}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return out, nil
}
