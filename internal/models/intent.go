package models

import (
	"log/slog"

	"github.com/magabrotheeeer/checkout-handshake/internal/lib/sl"
)

// IntentStatus статус платёжного намерения в терминах процессора.
type IntentStatus string

const (
	StatusRequiresPaymentMethod IntentStatus = "requires_payment_method"
	StatusRequiresConfirmation  IntentStatus = "requires_confirmation"
	StatusRequiresAction        IntentStatus = "requires_action"
	StatusRequiresCapture       IntentStatus = "requires_capture"
	StatusProcessing            IntentStatus = "processing"
	StatusSucceeded             IntentStatus = "succeeded"
	StatusFailed                IntentStatus = "failed"
	StatusCanceled              IntentStatus = "canceled"
)

// IsTerminal сообщает, что намерение больше не изменится.
func (s IntentStatus) IsTerminal() bool {
	return s.IsSuccess() || s.IsFailure()
}

// IsSuccess true только для succeeded.
func (s IntentStatus) IsSuccess() bool {
	return s == StatusSucceeded
}

// IsFailure true для failed и canceled.
func (s IntentStatus) IsFailure() bool {
	return s == StatusFailed || s == StatusCanceled
}

// PaymentIntent намерение на стороне процессора так, как его видит relay.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
	Money        Money
	LastError    string // сообщение процессора о последней неудачной попытке
}

// Handle возвращает то, что разрешено отдать клиенту.
func (p PaymentIntent) Handle() IntentHandle {
	return IntentHandle{ID: p.ID, ClientSecret: p.ClientSecret}
}

// IntentHandle результат createIntent: id и одноразовый client secret.
// Секрет нельзя логировать и сохранять дольше текущей сессии.
type IntentHandle struct {
	ID           string
	ClientSecret string
}

// IsZero true, если дескриптор ещё не получен.
func (h IntentHandle) IsZero() bool {
	return h.ID == "" && h.ClientSecret == ""
}

// String не раскрывает секрет.
func (h IntentHandle) String() string {
	return h.ID
}

// LogValue реализует slog.LogValuer: в логах остаётся только id.
func (h IntentHandle) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", h.ID),
		sl.Secret("client_secret", h.ClientSecret),
	)
}

// StatusReport ответ на запрос статуса намерения.
type StatusReport struct {
	IntentID  string
	Status    IntentStatus
	Money     Money
	LastError string
}
