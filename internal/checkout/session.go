package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

// AttemptStatus статус попытки оплаты, который видит UI.
type AttemptStatus string

const (
	AttemptIdle       AttemptStatus = "idle"
	AttemptLoading    AttemptStatus = "loading"
	AttemptReady      AttemptStatus = "ready"
	AttemptProcessing AttemptStatus = "processing"
	AttemptSucceeded  AttemptStatus = "succeeded"
	AttemptFailed     AttemptStatus = "failed"
)

// Attempt локальная запись одной попытки оплаты. Нигде не сохраняется.
type Attempt struct {
	ID        string // токен попытки; ответы для другого токена отбрасываются
	Status    AttemptStatus
	Handle    models.IntentHandle
	LastError string
}

// Session владеет записью Attempt и единственная её изменяет.
type Session struct {
	requester *IntentRequester
	orch      *Orchestrator
	log       *slog.Logger

	mu        sync.Mutex
	attempt   Attempt
	scope     context.Context // живёт, пока жива попытка; Close и новый Begin его отменяют
	cancel    context.CancelFunc
	listeners []func(Attempt)
}

// NewSession создаёт сессию оформления заказа.
func NewSession(requester *IntentRequester, orch *Orchestrator, log *slog.Logger) *Session {
	return &Session{
		requester: requester,
		orch:      orch,
		log:       log,
		attempt:   Attempt{Status: AttemptIdle},
	}
}

// Subscribe добавляет слушателя изменений попытки.
func (s *Session) Subscribe(fn func(Attempt)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot копия текущей попытки.
func (s *Session) Snapshot() Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}

// Begin начинает новую попытку: отменяет запрос предыдущей, выбрасывает её секрет
// и запрашивает новое намерение. Поздний ответ вытесненной попытки возвращает ErrSuperseded.
func (s *Session) Begin(ctx context.Context, amount int64, currency string) (Attempt, error) {
	const op = "checkout.Begin"
	token := uuid.NewString()
	scope, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.scope, s.cancel = scope, cancel
	s.attempt = Attempt{ID: token, Status: AttemptLoading}
	s.emitLocked()
	s.mu.Unlock()

	ctx, release := bind(ctx, scope)
	defer release()

	_, _ = s.orch.Dispatch(ctx, Reset{})

	handle, err := s.requester.CreateIntent(ctx, amount, currency)

	s.mu.Lock()
	if s.attempt.ID != token {
		s.mu.Unlock()
		s.log.Debug("discarding superseded intent response", slog.String("op", op), slog.String("attempt", token))
		return Attempt{}, ErrSuperseded
	}
	if err != nil {
		s.attempt.Status = AttemptFailed
		s.attempt.LastError = err.Error()
		snap := s.attempt
		s.emitLocked()
		s.mu.Unlock()
		return snap, err
	}
	s.attempt.Handle = handle
	s.attempt.Status = AttemptReady
	snap := s.attempt
	s.emitLocked()
	s.mu.Unlock()

	if _, err := s.orch.Dispatch(ctx, IntentReady{Handle: handle}); err != nil {
		return s.apply(token, Outcome{}, err)
	}
	return snap, nil
}

// Pay подтверждает текущее намерение данными виджета.
func (s *Session) Pay(ctx context.Context, payment WidgetState) (Attempt, error) {
	s.mu.Lock()
	if s.attempt.Status == AttemptProcessing {
		s.mu.Unlock()
		return s.Snapshot(), ErrConfirmInProgress
	}
	if s.attempt.Handle.IsZero() {
		s.mu.Unlock()
		return s.Snapshot(), &NotReadyError{Reason: "no payment intent; create one first"}
	}
	token := s.attempt.ID
	handle := s.attempt.Handle
	ctx, release := bind(ctx, s.scopeLocked())
	defer release()
	s.attempt.Status = AttemptProcessing
	s.emitLocked()
	s.mu.Unlock()

	out, err := s.orch.Confirm(ctx, handle, payment)
	return s.apply(token, out, err)
}

// Resume сверяет статус после возврата пользователя с внешнего шага.
func (s *Session) Resume(ctx context.Context) (Attempt, error) {
	s.mu.Lock()
	token := s.attempt.ID
	ctx, release := bind(ctx, s.scopeLocked())
	defer release()
	s.mu.Unlock()

	out, err := s.orch.Dispatch(ctx, Returned{})
	return s.apply(token, out, err)
}

// Close бросает попытку: отменяет запросы в полёте и забывает секрет.
func (s *Session) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.scope, s.cancel = nil, nil
	s.attempt = Attempt{Status: AttemptIdle}
	s.emitLocked()
	s.mu.Unlock()

	_, _ = s.orch.Dispatch(context.Background(), Reset{})
	s.requester.Forget()
}

func (s *Session) scopeLocked() context.Context {
	if s.scope == nil {
		return context.Background()
	}
	return s.scope
}

// bind возвращает ctx, который отменяется и вместе с вызывающим, и вместе с попыткой.
func bind(ctx, scope context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(scope, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Session) apply(token string, out Outcome, err error) (Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempt.ID != token || errors.Is(err, ErrSuperseded) {
		return Attempt{}, ErrSuperseded
	}
	if errors.Is(err, ErrConfirmInProgress) || errors.Is(err, ErrInvalidTransition) {
		if s.attempt.Status == AttemptProcessing && out.State == "" {
			s.attempt.Status = attemptStatusOf(s.orch.State())
			s.emitLocked()
		}
		return s.attempt, err
	}

	switch {
	case out.State == StateSucceeded:
		s.attempt.Status = AttemptSucceeded
		s.attempt.LastError = ""
	case out.State == StateAwaitingAction:
		s.attempt.Status = AttemptProcessing
	case err != nil:
		s.attempt.Status = AttemptFailed
		s.attempt.LastError = err.Error()
	}
	s.emitLocked()
	return s.attempt, err
}

// emitLocked вызывает слушателей под блокировкой сессии: они получают копию и не должны звать Session.
func (s *Session) emitLocked() {
	snap := s.attempt
	for _, fn := range s.listeners {
		fn(snap)
	}
}

func attemptStatusOf(state State) AttemptStatus {
	switch state {
	case StateAwaitingInput:
		return AttemptReady
	case StateConfirming, StateAwaitingAction:
		return AttemptProcessing
	case StateSucceeded:
		return AttemptSucceeded
	case StateFailed:
		return AttemptFailed
	default:
		return AttemptIdle
	}
}
