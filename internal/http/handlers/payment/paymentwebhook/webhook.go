// Package paymentwebhook принимает события процессора.
package paymentwebhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/checkout-handshake/internal/http/response"
	"github.com/magabrotheeeer/checkout-handshake/internal/lib/sl"
	"github.com/magabrotheeeer/checkout-handshake/internal/services/webhook"
)

// maxBodyBytes ограничение размера тела события.
const maxBodyBytes = 65536

// Service проверяет и записывает событие.
type Service interface {
	Handle(ctx context.Context, payload []byte, signature string) (bool, error)
}

// Handler обрабатывает POST /webhook.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// Received ответ на принятое событие.
type Received struct {
	Received  bool `json:"received" example:"true"`
	Duplicate bool `json:"duplicate,omitempty"`
}

// ServeHTTP godoc
// @Summary Webhook процессора
// @Description Принимает подписанное событие процессора, сохраняет его один раз и публикует в брокер
// @Tags Webhooks
// @Accept  json
// @Produce  json
// @Param Stripe-Signature header string true "Подпись события"
// @Success 200 {object} Received
// @Failure 400 {object} response.ErrorResponse "Неверная подпись или тело"
// @Failure 500 {object} response.ErrorResponse "Событие не сохранено, процессор повторит доставку"
// @Router /webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	duplicate, err := h.service.Handle(r.Context(), body, r.Header.Get(webhook.SignatureHeader))
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			log.Warn("rejected webhook", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid signature"))
			return
		}
		log.Error("failed to process webhook event", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, Received{Received: true, Duplicate: duplicate})
}
