// Package paymentprovider адаптеры платёжного процессора (Stripe):
// Client для relay с секретным ключом и Widget для клиента с публичным ключом.
package paymentprovider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

const defaultTimeout = 10 * time.Second

// Client серверная часть процессора. Держит секретный ключ.
type Client struct {
	intents paymentintent.Client
	log     *slog.Logger
}

// NewClient создаёт клиент Stripe. Пустой apiURL означает боевой API.
func NewClient(secretKey, apiURL string, log *slog.Logger) *Client {
	return &Client{
		intents: paymentintent.Client{B: newBackend(apiURL, log), Key: secretKey},
		log:     log,
	}
}

// newBackend backend без автоматических повторов: каждый вызов делается ровно один раз.
func newBackend(apiURL string, log *slog.Logger) stripe.Backend {
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: defaultTimeout},
		LeveledLogger:     NewLogger(log),
		MaxNetworkRetries: stripe.Int64(0),
	}
	if apiURL != "" {
		cfg.URL = stripe.String(apiURL)
	}
	return stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
}

// CreateIntent создаёт намерение на сумму money с автоматическим выбором способов оплаты.
func (c *Client) CreateIntent(ctx context.Context, money models.Money, idempotencyKey string) (models.PaymentIntent, error) {
	const op = "paymentprovider.CreateIntent"

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(money.Amount),
		Currency: stripe.String(money.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey)
	}

	pi, err := c.intents.New(params)
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("%s: %w", op, toProcessorError(err))
	}
	return toModel(pi), nil
}

// GetIntent читает намерение по id.
func (c *Client) GetIntent(ctx context.Context, id string) (models.PaymentIntent, error) {
	const op = "paymentprovider.GetIntent"

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := c.intents.Get(id, params)
	if err != nil {
		return models.PaymentIntent{}, fmt.Errorf("%s: %w", op, toProcessorError(err))
	}
	return toModel(pi), nil
}

func toModel(pi *stripe.PaymentIntent) models.PaymentIntent {
	out := models.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       models.IntentStatus(pi.Status),
		Money: models.Money{
			Amount:   pi.Amount,
			Currency: string(pi.Currency),
		},
	}
	if pi.LastPaymentError != nil {
		out.LastError = pi.LastPaymentError.Msg
	}
	return out
}
