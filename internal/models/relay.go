package models

// CreateIntentRequest тело POST /create-intent.
type CreateIntentRequest struct {
	Amount   int64  `json:"amount" example:"9996"`
	Currency string `json:"currency" validate:"required,len=3,alpha" example:"usd"`
}

// CreateIntentResponse ответ POST /create-intent.
type CreateIntentResponse struct {
	ClientSecret    string `json:"clientSecret" example:"pi_3MtwBw_secret_YrKJUK"`
	PaymentIntentID string `json:"paymentIntentId" example:"pi_3MtwBw"`
}

// ConfirmStatusRequest тело POST /confirm-status.
type ConfirmStatusRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required" example:"pi_3MtwBw"`
}

// ConfirmStatusResponse ответ POST /confirm-status.
type ConfirmStatusResponse struct {
	Status           IntentStatus `json:"status" example:"succeeded"`
	Amount           int64        `json:"amount" example:"9996"`
	Currency         string       `json:"currency" example:"usd"`
	LastPaymentError string       `json:"lastPaymentError,omitempty"`
}

// ConfigResponse ответ GET /config: публичный ключ для виджета.
type ConfigResponse struct {
	PublishableKey string `json:"publishableKey" example:"pk_test_51H"`
}

// Report переводит ответ relay в StatusReport.
func (r ConfirmStatusResponse) Report(intentID string) StatusReport {
	return StatusReport{
		IntentID:  intentID,
		Status:    r.Status,
		Money:     Money{Amount: r.Amount, Currency: r.Currency},
		LastError: r.LastPaymentError,
	}
}

// NewConfirmStatusResponse строит ответ relay из намерения процессора.
func NewConfirmStatusResponse(pi PaymentIntent) ConfirmStatusResponse {
	return ConfirmStatusResponse{
		Status:           pi.Status,
		Amount:           pi.Money.Amount,
		Currency:         pi.Money.Currency,
		LastPaymentError: pi.LastError,
	}
}
