package paymentprovider

import (
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v76"
)

// Kind класс ошибки процессора, по нему relay выбирает HTTP-статус ответа.
type Kind string

const (
	KindCard           Kind = "card"
	KindInvalidRequest Kind = "invalid_request"
	KindAPI            Kind = "api"
	KindUnavailable    Kind = "unavailable"
)

// ProcessorError ошибка процессора. Message передаётся клиенту без изменений.
type ProcessorError struct {
	Kind       Kind
	Message    string
	Code       string
	HTTPStatus int
	Err        error
}

func (e *ProcessorError) Error() string { return e.Message }
func (e *ProcessorError) Unwrap() error { return e.Err }

// StatusCode HTTP-статус, которым relay отвечает на эту ошибку.
func (e *ProcessorError) StatusCode() int {
	switch e.Kind {
	case KindCard:
		return http.StatusPaymentRequired
	case KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func toProcessorError(err error) *ProcessorError {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return &ProcessorError{Kind: KindUnavailable, Message: err.Error(), Err: err}
	}

	kind := KindAPI
	switch se.Type {
	case stripe.ErrorTypeCard:
		kind = KindCard
	case stripe.ErrorTypeInvalidRequest:
		kind = KindInvalidRequest
	}
	msg := se.Msg
	if msg == "" {
		msg = "payment processor error"
	}
	return &ProcessorError{
		Kind:       kind,
		Message:    msg,
		Code:       string(se.Code),
		HTTPStatus: se.HTTPStatusCode,
		Err:        err,
	}
}
