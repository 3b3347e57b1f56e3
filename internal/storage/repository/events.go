package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

// RecordEvent записывает событие и вызывает publish ровно один раз на id события.
// Строка блокируется на время publish, поэтому параллельная доставка того же события
// ждёт и видит его уже опубликованным. Ошибка publish откатывает запись,
// и процессор доставит событие повторно.
func (s *Storage) RecordEvent(ctx context.Context, ev models.WebhookEvent, publish func(context.Context) error) (duplicate bool, err error) {
	const op = "storage.RecordEvent"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO webhook_events (event_id, event_type, payment_intent_id, status, payload, received_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
		ON CONFLICT (event_id) DO NOTHING`,
		ev.ID, ev.Type, ev.PaymentIntentID, string(ev.Status), []byte(ev.Payload), ev.ReceivedAt)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var publishedAt sql.NullTime
	err = tx.QueryRowContext(ctx,
		`SELECT published_at FROM webhook_events WHERE event_id = $1 FOR UPDATE`, ev.ID).Scan(&publishedAt)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if publishedAt.Valid {
		if err = tx.Commit(); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		return true, nil
	}

	if err = publish(ctx); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE webhook_events SET published_at = NOW() WHERE event_id = $1`, ev.ID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return false, nil
}

// EventsByIntent возвращает события намерения в порядке получения.
func (s *Storage) EventsByIntent(ctx context.Context, intentID string) ([]models.WebhookEvent, error) {
	const op = "storage.EventsByIntent"

	rows, err := s.DB.QueryContext(ctx, `
		SELECT event_id, event_type, COALESCE(payment_intent_id, ''), COALESCE(status, ''), payload, received_at
		FROM webhook_events
		WHERE payment_intent_id = $1
		ORDER BY received_at, event_id`, intentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.WebhookEvent
	for rows.Next() {
		var ev models.WebhookEvent
		var status string
		var payload []byte
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.PaymentIntentID, &status, &payload, &ev.ReceivedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ev.Status = models.IntentStatus(status)
		ev.Payload = payload
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
