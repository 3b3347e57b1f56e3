package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrConfirmInProgress повторный confirm, пока первый ещё в состоянии confirming.
	ErrConfirmInProgress = errors.New("confirmation already in progress")
	// ErrSuperseded ответ пришёл для попытки, которую уже заменила более новая.
	ErrSuperseded = errors.New("attempt superseded")
)

// ValidationError локальное предусловие нарушено, сеть не трогали.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return e.Err }

// NetworkError relay недоступен на транспортном уровне.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// RelayError relay ответил ошибкой; Msg сообщение процессора без изменений.
type RelayError struct {
	StatusCode int
	Msg        string
}

func (e *RelayError) Error() string { return e.Msg }

// ConfirmError процессор отклонил подтверждение (например, карта отклонена).
// Msg передаётся в UI дословно.
type ConfirmError struct {
	Msg string
	Err error
}

func (e *ConfirmError) Error() string { return e.Msg }
func (e *ConfirmError) Unwrap() error { return e.Err }

// NotReadyError виджет не инициализирован или нет дескриптора намерения.
type NotReadyError struct {
	Reason string
}

func (e *NotReadyError) Error() string { return "checkout not ready: " + e.Reason }

// StatusError запрос статуса намерения не удался.
type StatusError struct {
	IntentID string
	Err      error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch status of %s: %v", e.IntentID, e.Err)
}
func (e *StatusError) Unwrap() error { return e.Err }
