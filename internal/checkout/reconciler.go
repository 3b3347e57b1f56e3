package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

// StatusReconciler читает статус намерения у relay. Ничего не изменяет,
// поэтому повторные вызовы для завершённого намерения дают один и тот же ответ.
type StatusReconciler struct {
	source StatusSource
	log    *slog.Logger
}

// NewStatusReconciler создаёт StatusReconciler.
func NewStatusReconciler(source StatusSource, log *slog.Logger) *StatusReconciler {
	return &StatusReconciler{
		source: source,
		log:    log,
	}
}

// FetchStatus возвращает текущий статус намерения.
func (r *StatusReconciler) FetchStatus(ctx context.Context, intentID string) (models.StatusReport, error) {
	const op = "checkout.FetchStatus"

	if intentID == "" {
		return models.StatusReport{}, &StatusError{IntentID: intentID, Err: errors.New("empty payment intent id")}
	}

	report, err := r.source.FetchStatus(ctx, intentID)
	if err != nil {
		r.log.Debug("status query failed", slog.String("op", op), slog.String("intent_id", intentID), slog.String("error", err.Error()))
		return models.StatusReport{}, &StatusError{IntentID: intentID, Err: err}
	}
	if report.IntentID == "" {
		report.IntentID = intentID
	}
	return report, nil
}

// Poll повторяет FetchStatus с интервалом, пока статус не станет терминальным
// или не закончится ctx. Ошибка отдельного запроса прерывает опрос.
func (r *StatusReconciler) Poll(ctx context.Context, intentID string, interval time.Duration) (models.StatusReport, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := r.FetchStatus(ctx, intentID)
		if err != nil {
			return models.StatusReport{}, err
		}
		if report.Status.IsTerminal() {
			return report, nil
		}

		select {
		case <-ctx.Done():
			return report, ctx.Err()
		case <-ticker.C:
		}
	}
}
