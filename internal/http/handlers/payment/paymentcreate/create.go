// Package paymentcreate обрабатывает POST /create-intent.
package paymentcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/checkout-handshake/internal/http/response"
	"github.com/magabrotheeeer/checkout-handshake/internal/lib/sl"
	"github.com/magabrotheeeer/checkout-handshake/internal/models"
	"github.com/magabrotheeeer/checkout-handshake/internal/paymentprovider"
)

// Service создаёт платёжное намерение.
type Service interface {
	CreateIntent(ctx context.Context, money models.Money) (models.IntentHandle, error)
}

// Handler обрабатывает запросы на создание намерения.
type Handler struct {
	log      *slog.Logger // Логгер для записи информации и ошибок
	service  Service
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать платёжное намерение
// @Description Создаёт намерение у процессора и возвращает одноразовый client secret
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.CreateIntentRequest true "Сумма в центах и валюта"
// @Success 200 {object} models.CreateIntentResponse "Намерение создано"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или сумма меньше минимальной"
// @Failure 402 {object} response.ErrorResponse "Отказ по карте"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Failure 502 {object} response.ErrorResponse "Ошибка процессора"
// @Router /create-intent [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
	log := h.log.With(slog.String("op", op))

	var req models.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	handle, err := h.service.CreateIntent(r.Context(), models.NewMoney(req.Amount, req.Currency))
	if err != nil {
		status, msg := errorStatus(err)
		log.Error("failed to create payment intent", sl.Err(err), slog.Int("status", status))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("payment intent created", slog.String("intent_id", handle.ID))
	render.JSON(w, r, models.CreateIntentResponse{
		ClientSecret:    handle.ClientSecret,
		PaymentIntentID: handle.ID,
	})
}

func errorStatus(err error) (int, string) {
	if errors.Is(err, models.ErrAmountTooSmall) || errors.Is(err, models.ErrInvalidCurrency) {
		return http.StatusBadRequest, err.Error()
	}
	var pErr *paymentprovider.ProcessorError
	if errors.As(err, &pErr) {
		return pErr.StatusCode(), pErr.Message
	}
	return http.StatusInternalServerError, "internal error"
}
