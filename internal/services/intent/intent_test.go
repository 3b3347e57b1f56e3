package intent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/checkout-handshake/internal/cache"
	"github.com/magabrotheeeer/checkout-handshake/internal/config"
	"github.com/magabrotheeeer/checkout-handshake/internal/metrics"
	"github.com/magabrotheeeer/checkout-handshake/internal/models"
	"github.com/magabrotheeeer/checkout-handshake/internal/paymentprovider"
)

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) CreateIntent(ctx context.Context, money models.Money, idempotencyKey string) (models.PaymentIntent, error) {
	args := m.Called(ctx, money, idempotencyKey)
	return args.Get(0).(models.PaymentIntent), args.Error(1)
}

func (m *MockProcessor) GetIntent(ctx context.Context, id string) (models.PaymentIntent, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.PaymentIntent), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func setupCache(t *testing.T) *cache.Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := cache.InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestService_CreateIntent(t *testing.T) {
	tests := []struct {
		name       string
		money      models.Money
		setupMocks func(*MockProcessor)
		wantHandle models.IntentHandle
		wantResult string
		checkErr   func(t *testing.T, err error)
	}{
		{
			name:  "success",
			money: models.Money{Amount: 9996, Currency: "usd"},
			setupMocks: func(p *MockProcessor) {
				p.On("CreateIntent", mock.Anything, models.Money{Amount: 9996, Currency: "usd"}, mock.AnythingOfType("string")).
					Return(models.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret_a", Status: models.StatusRequiresPaymentMethod}, nil).Once()
			},
			wantHandle: models.IntentHandle{ID: "pi_1", ClientSecret: "pi_1_secret_a"},
			wantResult: metrics.ResultOK,
		},
		{
			name:       "below minimum",
			money:      models.Money{Amount: 49, Currency: "usd"},
			setupMocks: func(*MockProcessor) {},
			wantResult: metrics.ResultValidation,
			checkErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, models.ErrAmountTooSmall)
				assert.Equal(t, "amount below minimum: amount must be at least $0.50", err.Error())
			},
		},
		{
			name:  "card error",
			money: models.Money{Amount: 100, Currency: "usd"},
			setupMocks: func(p *MockProcessor) {
				p.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything).
					Return(models.PaymentIntent{}, &paymentprovider.ProcessorError{Kind: paymentprovider.KindCard, Message: "Your card was declined."}).Once()
			},
			wantResult: metrics.ResultCard,
			checkErr: func(t *testing.T, err error) {
				var pErr *paymentprovider.ProcessorError
				require.ErrorAs(t, err, &pErr)
				assert.Equal(t, http.StatusPaymentRequired, pErr.StatusCode())
			},
		},
		{
			name:  "incomplete intent",
			money: models.Money{Amount: 100, Currency: "usd"},
			setupMocks: func(p *MockProcessor) {
				p.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything).
					Return(models.PaymentIntent{ID: "pi_1"}, nil).Once()
			},
			wantResult: metrics.ResultProcessor,
			checkErr: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := new(MockProcessor)
			tt.setupMocks(processor)
			m := metrics.New(prometheus.NewRegistry())
			svc := NewService(processor, nil, m, 0, time.Minute, newNoopLogger())

			handle, err := svc.CreateIntent(context.Background(), tt.money)

			if tt.checkErr != nil {
				tt.checkErr(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantHandle, handle)
			}
			assert.Equal(t, 1.0, testutil.ToFloat64(m.IntentsCreated.WithLabelValues(tt.wantResult)))
			processor.AssertExpectations(t)
		})
	}
}

func TestService_CreateIntentFreshIdempotencyKeys(t *testing.T) {
	processor := new(MockProcessor)
	var keys []string
	processor.On("CreateIntent", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { keys = append(keys, args.String(2)) }).
		Return(models.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret_a"}, nil).Twice()

	svc := NewService(processor, nil, metrics.New(prometheus.NewRegistry()), 0, time.Minute, newNoopLogger())
	for range 2 {
		_, err := svc.CreateIntent(context.Background(), models.Money{Amount: 100, Currency: "usd"})
		require.NoError(t, err)
	}

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestService_StatusCachesTerminal(t *testing.T) {
	processor := new(MockProcessor)
	processor.On("GetIntent", mock.Anything, "pi_1").
		Return(models.PaymentIntent{ID: "pi_1", Status: models.StatusSucceeded, Money: models.Money{Amount: 9996, Currency: "usd"}}, nil).Once()

	m := metrics.New(prometheus.NewRegistry())
	svc := NewService(processor, setupCache(t), m, 0, time.Minute, newNoopLogger())

	want := models.ConfirmStatusResponse{Status: models.StatusSucceeded, Amount: 9996, Currency: "usd"}
	for range 3 {
		got, err := svc.Status(context.Background(), "pi_1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	processor.AssertNumberOfCalls(t, "GetIntent", 1)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatusLookups.WithLabelValues(metrics.SourceCache)))
}

func TestService_StatusInProgressNotCached(t *testing.T) {
	processor := new(MockProcessor)
	processor.On("GetIntent", mock.Anything, "pi_1").
		Return(models.PaymentIntent{ID: "pi_1", Status: models.StatusProcessing}, nil).Once()
	processor.On("GetIntent", mock.Anything, "pi_1").
		Return(models.PaymentIntent{ID: "pi_1", Status: models.StatusSucceeded}, nil).Once()

	svc := NewService(processor, setupCache(t), metrics.New(prometheus.NewRegistry()), 0, time.Minute, newNoopLogger())

	got, err := svc.Status(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)

	got, err = svc.Status(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSucceeded, got.Status)
	processor.AssertExpectations(t)
}

func TestService_InvalidateStatus(t *testing.T) {
	processor := new(MockProcessor)
	processor.On("GetIntent", mock.Anything, "pi_1").
		Return(models.PaymentIntent{ID: "pi_1", Status: models.StatusCanceled}, nil).Twice()

	svc := NewService(processor, setupCache(t), metrics.New(prometheus.NewRegistry()), 0, time.Minute, newNoopLogger())

	_, err := svc.Status(context.Background(), "pi_1")
	require.NoError(t, err)
	require.NoError(t, svc.InvalidateStatus(context.Background(), "pi_1"))
	_, err = svc.Status(context.Background(), "pi_1")
	require.NoError(t, err)

	processor.AssertNumberOfCalls(t, "GetIntent", 2)
}

func TestService_StatusProcessorError(t *testing.T) {
	processor := new(MockProcessor)
	processor.On("GetIntent", mock.Anything, "pi_missing").
		Return(models.PaymentIntent{}, &paymentprovider.ProcessorError{Kind: paymentprovider.KindInvalidRequest, Message: "No such payment_intent: 'pi_missing'"}).Once()

	svc := NewService(processor, nil, metrics.New(prometheus.NewRegistry()), 0, time.Minute, newNoopLogger())

	_, err := svc.Status(context.Background(), "pi_missing")
	var pErr *paymentprovider.ProcessorError
	require.ErrorAs(t, err, &pErr)
	assert.True(t, errors.Is(err, pErr))
}
