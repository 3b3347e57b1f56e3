package paymentprovider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"github.com/magabrotheeeer/checkout-handshake/internal/checkout"
	"github.com/magabrotheeeer/checkout-handshake/internal/lib/sl"
	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

// Widget клиентская часть процессора: подтверждает намерение по client secret
// с публичным ключом, как это делает браузерный SDK.
type Widget struct {
	intents paymentintent.Client
	log     *slog.Logger
}

// NewWidget создаёт Widget. Секретный ключ ему не нужен.
func NewWidget(publishableKey, apiURL string, log *slog.Logger) *Widget {
	return &Widget{
		intents: paymentintent.Client{B: newBackend(apiURL, log), Key: publishableKey},
		log:     log,
	}
}

// Confirm подтверждает намерение. payment это id способа оплаты, например "pm_card_visa".
// Отказ процессора возвращается в WidgetResult.ErrorMessage, ошибка только для транспорта.
func (w *Widget) Confirm(ctx context.Context, clientSecret string, payment checkout.WidgetState, returnURL string) (checkout.WidgetResult, error) {
	const op = "paymentprovider.Confirm"

	paymentMethod, ok := payment.(string)
	if !ok || paymentMethod == "" {
		return checkout.WidgetResult{}, fmt.Errorf("%s: unsupported payment method data %T", op, payment)
	}
	intentID, err := IntentIDFromSecret(clientSecret)
	if err != nil {
		return checkout.WidgetResult{}, fmt.Errorf("%s: %w", op, err)
	}

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethod),
	}
	if returnURL != "" {
		params.ReturnURL = stripe.String(returnURL)
	}
	params.Context = ctx
	params.AddExtra("client_secret", clientSecret)

	w.log.Debug("confirming intent", slog.String("op", op), slog.String("intent_id", intentID), sl.Secret("client_secret", clientSecret))

	pi, err := w.intents.Confirm(intentID, params)
	if err != nil {
		var se *stripe.Error
		if !errors.As(err, &se) {
			return checkout.WidgetResult{}, toProcessorError(err)
		}
		res := checkout.WidgetResult{
			Status:       models.StatusRequiresPaymentMethod,
			ErrorMessage: toProcessorError(err).Message,
		}
		if se.PaymentIntent != nil && se.PaymentIntent.Status != "" {
			res.Status = models.IntentStatus(se.PaymentIntent.Status)
		}
		return res, nil
	}

	res := checkout.WidgetResult{Status: models.IntentStatus(pi.Status)}
	if pi.NextAction != nil && pi.NextAction.RedirectToURL != nil {
		res.RedirectURL = pi.NextAction.RedirectToURL.URL
	}
	if pi.LastPaymentError != nil {
		res.ErrorMessage = pi.LastPaymentError.Msg
	}
	return res, nil
}

// IntentIDFromSecret извлекает id намерения из client secret вида "pi_123_secret_abc".
func IntentIDFromSecret(clientSecret string) (string, error) {
	id, _, found := strings.Cut(clientSecret, "_secret_")
	if !found || id == "" {
		return "", errors.New("malformed client secret")
	}
	return id, nil
}
