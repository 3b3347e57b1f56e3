// Package paymentconfig отдаёт клиенту публичный ключ процессора.
package paymentconfig

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/checkout-handshake/internal/http/response"
	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

// Handler обрабатывает GET /config.
type Handler struct {
	log            *slog.Logger
	publishableKey string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, publishableKey string) *Handler {
	return &Handler{
		log:            log,
		publishableKey: publishableKey,
	}
}

// ServeHTTP godoc
// @Summary Публичная конфигурация
// @Description Публикуемый ключ процессора для виджета оплаты
// @Tags Payments
// @Produce  json
// @Success 200 {object} models.ConfigResponse
// @Failure 500 {object} response.ErrorResponse "Ключ не настроен"
// @Router /config [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.config"

	if h.publishableKey == "" {
		h.log.Error("publishable key is not configured", slog.String("op", op))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("publishable key is not configured"))
		return
	}
	render.JSON(w, r, models.ConfigResponse{PublishableKey: h.publishableKey})
}
