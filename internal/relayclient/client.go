// Package relayclient HTTP-клиент relay: две операции контракта, create-intent и confirm-status.
package relayclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/magabrotheeeer/checkout-handshake/internal/checkout"
	"github.com/magabrotheeeer/checkout-handshake/internal/http/response"
	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

// Client реализует checkout.Relay поверх resty. Повторов нет: один вызов, один запрос.
type Client struct {
	http *resty.Client
	log  *slog.Logger
}

var _ checkout.Relay = (*Client)(nil)

// New создаёт клиент relay с базовым адресом baseURL.
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetRetryCount(0),
		log: log,
	}
}

// CreateIntent вызывает POST /create-intent.
func (c *Client) CreateIntent(ctx context.Context, money models.Money) (models.IntentHandle, error) {
	const op = "relayclient.CreateIntent"

	var out models.CreateIntentResponse
	if err := c.post(ctx, op, "/create-intent", models.CreateIntentRequest{
		Amount:   money.Amount,
		Currency: money.Currency,
	}, &out); err != nil {
		return models.IntentHandle{}, err
	}
	return models.IntentHandle{ID: out.PaymentIntentID, ClientSecret: out.ClientSecret}, nil
}

// FetchStatus вызывает POST /confirm-status.
func (c *Client) FetchStatus(ctx context.Context, intentID string) (models.StatusReport, error) {
	const op = "relayclient.FetchStatus"

	var out models.ConfirmStatusResponse
	if err := c.post(ctx, op, "/confirm-status", models.ConfirmStatusRequest{PaymentIntentID: intentID}, &out); err != nil {
		return models.StatusReport{}, err
	}
	return out.Report(intentID), nil
}

// Config вызывает GET /config и возвращает публичный ключ процессора.
func (c *Client) Config(ctx context.Context) (string, error) {
	const op = "relayclient.Config"

	var out models.ConfigResponse
	var fail response.ErrorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&fail).
		ForceContentType("application/json").
		Get("/config")
	if err != nil {
		return "", &checkout.NetworkError{Op: op, Err: err}
	}
	if resp.IsError() {
		return "", relayError(resp.StatusCode(), fail.Error)
	}
	return out.PublishableKey, nil
}

func (c *Client) post(ctx context.Context, op, path string, body, result any) error {
	var fail response.ErrorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		SetError(&fail).
		ForceContentType("application/json").
		Post(path)
	if err != nil {
		c.log.Debug("relay unreachable", slog.String("op", op), slog.String("error", err.Error()))
		return &checkout.NetworkError{Op: op, Err: err}
	}
	if resp.IsError() {
		return relayError(resp.StatusCode(), fail.Error)
	}
	if resp.StatusCode() != http.StatusOK {
		return &checkout.RelayError{StatusCode: resp.StatusCode(), Msg: fmt.Sprintf("unexpected relay status %d", resp.StatusCode())}
	}
	return nil
}

func relayError(status int, msg string) *checkout.RelayError {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &checkout.RelayError{StatusCode: status, Msg: msg}
}
