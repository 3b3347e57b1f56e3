package checkout

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

type MockRelay struct {
	mock.Mock
}

func (m *MockRelay) CreateIntent(ctx context.Context, money models.Money) (models.IntentHandle, error) {
	args := m.Called(ctx, money)
	return args.Get(0).(models.IntentHandle), args.Error(1)
}

func (m *MockRelay) FetchStatus(ctx context.Context, intentID string) (models.StatusReport, error) {
	args := m.Called(ctx, intentID)
	return args.Get(0).(models.StatusReport), args.Error(1)
}

type MockWidget struct {
	mock.Mock
}

func (m *MockWidget) Confirm(ctx context.Context, clientSecret string, payment WidgetState, returnURL string) (WidgetResult, error) {
	args := m.Called(ctx, clientSecret, payment, returnURL)
	return args.Get(0).(WidgetResult), args.Error(1)
}

// blockingWidget держит Confirm, пока тест не закроет release.
type blockingWidget struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	result  WidgetResult
}

func newBlockingWidget(result WidgetResult) *blockingWidget {
	return &blockingWidget{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		result:  result,
	}
}

func (w *blockingWidget) Confirm(ctx context.Context, _ string, _ WidgetState, _ string) (WidgetResult, error) {
	w.calls.Add(1)
	w.entered <- struct{}{}
	select {
	case <-w.release:
		return w.result, nil
	case <-ctx.Done():
		return WidgetResult{}, ctx.Err()
	}
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var testHandle = models.IntentHandle{ID: "pi_1", ClientSecret: "pi_1_secret_a"}
