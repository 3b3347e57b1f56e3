package models

import (
	"encoding/json"
	"time"
)

// WebhookEvent событие процессора, полученное через webhook.
// Повторная доставка того же события узнаётся по ID.
type WebhookEvent struct {
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	PaymentIntentID string          `json:"paymentIntentId,omitempty"`
	Status          IntentStatus    `json:"status,omitempty"`
	Payload         json.RawMessage `json:"payload"`
	ReceivedAt      time.Time       `json:"receivedAt"`
}
