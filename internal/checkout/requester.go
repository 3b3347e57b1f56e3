// Package checkout реализует клиентскую часть платёжного рукопожатия:
// запрос намерения у relay, подтверждение через виджет процессора
// и сверку статуса после внешнего шага аутентификации.
package checkout

import (
	"context"
	"crypto/sha256"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

// IntentCreator часть relay, которая создаёт намерения.
type IntentCreator interface {
	CreateIntent(ctx context.Context, money models.Money) (models.IntentHandle, error)
}

// StatusSource часть relay, которая отдаёт статус намерения.
type StatusSource interface {
	FetchStatus(ctx context.Context, intentID string) (models.StatusReport, error)
}

// Relay обе операции контракта relay.
type Relay interface {
	IntentCreator
	StatusSource
}

// Config явная конфигурация ядра вместо глобального окружения.
type Config struct {
	MinAmount int64  // 0 означает models.MinAmount
	ReturnURL string // куда процессор вернёт пользователя после redirect-шага
}

func (c Config) minAmount() int64 {
	if c.MinAmount <= 0 {
		return models.MinAmount
	}
	return c.MinAmount
}

// IntentRequester запрашивает у relay новое намерение на каждую попытку.
type IntentRequester struct {
	relay IntentCreator
	cfg   Config
	log   *slog.Logger

	mu     sync.Mutex
	issued map[[sha256.Size]byte]struct{} // хэши выданных секретов, сами секреты не хранятся
}

// NewIntentRequester создаёт IntentRequester.
func NewIntentRequester(relay IntentCreator, cfg Config, log *slog.Logger) *IntentRequester {
	return &IntentRequester{
		relay: relay,
		cfg:   cfg,
		log:   log,
	}
}

// CreateIntent проверяет сумму локально и просит relay создать намерение.
// Вызов не идемпотентен: каждый успешный вызов даёт новое намерение и новый секрет.
func (r *IntentRequester) CreateIntent(ctx context.Context, amount int64, currency string) (models.IntentHandle, error) {
	const op = "checkout.CreateIntent"
	log := r.log.With(slog.String("op", op))

	money := models.NewMoney(amount, currency)
	if err := money.Validate(r.cfg.minAmount()); err != nil {
		log.Debug("rejected locally", slog.Int64("amount", amount), slog.String("currency", money.Currency))
		return models.IntentHandle{}, &ValidationError{Msg: err.Error(), Err: err}
	}

	handle, err := r.relay.CreateIntent(ctx, money)
	if err != nil {
		var netErr *NetworkError
		var relayErr *RelayError
		if !errors.As(err, &netErr) && !errors.As(err, &relayErr) {
			err = &NetworkError{Op: op, Err: err}
		}
		log.Debug("relay failed to create intent", slog.String("error", err.Error()))
		return models.IntentHandle{}, err
	}

	if handle.ID == "" || handle.ClientSecret == "" {
		return models.IntentHandle{}, &RelayError{StatusCode: http.StatusOK, Msg: "relay returned an incomplete payment intent"}
	}

	sum := sha256.Sum256([]byte(handle.ClientSecret))
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.issued[sum]; seen {
		return models.IntentHandle{}, &RelayError{StatusCode: http.StatusOK, Msg: "relay returned a client secret that was already issued"}
	}
	if r.issued == nil {
		r.issued = make(map[[sha256.Size]byte]struct{})
	}
	r.issued[sum] = struct{}{}

	log.Debug("intent created", slog.Any("handle", handle))
	return handle, nil
}

// Forget сбрасывает историю выданных секретов, когда сессия брошена.
func (r *IntentRequester) Forget() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued = nil
}
