package paymentlist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) EventsByIntent(ctx context.Context, intentID string) ([]models.WebhookEvent, error) {
	args := m.Called(ctx, intentID)
	if res := args.Get(0); res != nil {
		return res.([]models.WebhookEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPaymentListHandler_ServeHTTP(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	received := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name           string
		setupMock      func(*MockEventService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "events found",
			setupMock: func(m *MockEventService) {
				m.On("EventsByIntent", mock.Anything, "pi_1").Return([]models.WebhookEvent{{
					ID: "evt_1", Type: "payment_intent.succeeded", PaymentIntentID: "pi_1",
					Status: models.StatusSucceeded, Payload: []byte(`{}`), ReceivedAt: received,
				}}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name: "no events",
			setupMock: func(m *MockEventService) {
				m.On("EventsByIntent", mock.Anything, "pi_1").Return(nil, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"count":0,"events":[]}`,
		},
		{
			name: "storage error",
			setupMock: func(m *MockEventService) {
				m.On("EventsByIntent", mock.Anything, "pi_1").Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"internal error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockEventService)
			tt.setupMock(service)

			r := chi.NewRouter()
			r.Get("/payment-intents/{id}/events", New(log, service).ServeHTTP)

			req := httptest.NewRequest(http.MethodGet, "/payment-intents/pi_1/events", nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}
