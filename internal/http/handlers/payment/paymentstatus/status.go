// Package paymentstatus обрабатывает POST /confirm-status.
package paymentstatus

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

// Service отдаёт текущий статус намерения.
type Service interface {
	Status(ctx context.Context, intentID string) (models.ConfirmStatusResponse, error)
}

// Handler обрабатывает запросы статуса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
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
// @Summary Статус платёжного намерения
// @Description Возвращает статус намерения у процессора. Терминальные статусы отдаются из кэша
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.ConfirmStatusRequest true "Идентификатор намерения"
// @Success 200 {object} models.ConfirmStatusResponse "Текущий статус"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или неизвестное намерение"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Failure 502 {object} response.ErrorResponse "Ошибка процессора"
// @Router /confirm-status [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.status"
	log := h.log.With(slog.String("op", op))

	var req models.ConfirmStatusRequest
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

	status, err := h.service.Status(r.Context(), req.PaymentIntentID)
	if err != nil {
		log.Error("failed to get payment intent status", sl.Err(err), slog.String("intent_id", req.PaymentIntentID))
		var pErr *paymentprovider.ProcessorError
		if errors.As(err, &pErr) {
			render.Status(r, pErr.StatusCode())
			render.JSON(w, r, response.Error(pErr.Message))
			return
		}
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Debug("payment intent status", slog.String("intent_id", req.PaymentIntentID), slog.String("status", string(status.Status)))
	render.JSON(w, r, status)
}
