// Package paymentlist отдаёт историю событий процессора по намерению.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/checkout-handshake/internal/http/response"
	"github.com/magabrotheeeer/checkout-handshake/internal/lib/sl"
	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

// EventService читает журнал событий.
type EventService interface {
	EventsByIntent(ctx context.Context, intentID string) ([]models.WebhookEvent, error)
}

// Handler обрабатывает GET /payment-intents/{id}/events.
type Handler struct {
	log    *slog.Logger // Логгер для записи информации и ошибок
	events EventService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, events EventService) *Handler {
	return &Handler{
		log:    log,
		events: events,
	}
}

// ListResponse события намерения в порядке получения.
type ListResponse struct {
	Count  int                   `json:"count"`
	Events []models.WebhookEvent `json:"events"`
}

// ServeHTTP godoc
// @Summary События намерения
// @Description История webhook-событий процессора по намерению в порядке получения
// @Tags Webhooks
// @Produce  json
// @Param id path string true "Идентификатор намерения"
// @Success 200 {object} ListResponse
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /payment-intents/{id}/events [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
	intentID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("intent_id", intentID))

	events, err := h.events.EventsByIntent(r.Context(), intentID)
	if err != nil {
		log.Error("failed to list webhook events", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if events == nil {
		events = []models.WebhookEvent{}
	}

	log.Info("list webhook events", slog.Int("count", len(events)))
	render.JSON(w, r, ListResponse{Count: len(events), Events: events})
}
