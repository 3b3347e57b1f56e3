package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/checkout-handshake/internal/models"
)

// ErrInvalidTransition событие не имеет смысла в текущем состоянии.
var ErrInvalidTransition = errors.New("invalid transition")

// State состояние оркестратора подтверждения.
type State string

const (
	StateIdle           State = "idle"
	StateAwaitingInput  State = "awaiting_input"
	StateConfirming     State = "confirming"
	StateSucceeded      State = "succeeded"
	StateFailed         State = "failed"
	StateAwaitingAction State = "awaiting_action"
)

// Outcome то, чем закончился шаг оркестратора.
type Outcome struct {
	State       State
	IntentID    string
	Status      models.IntentStatus
	RedirectURL string // заполнен, если процессор требует внешний шаг
	Message     string // сообщение процессора при отказе, без изменений
}

// Transition уведомление подписчикам о смене состояния.
type Transition struct {
	From    State
	To      State
	Outcome Outcome
}

// Event вход конечного автомата.
type Event interface {
	event()
}

// IntentReady relay выдал новое намерение.
type IntentReady struct{ Handle models.IntentHandle }

// Submit пользователь нажал "оплатить".
type Submit struct{ Payment WidgetState }

// Returned пользователь вернулся после внешнего шага аутентификации.
type Returned struct{}

// Reset попытка брошена.
type Reset struct{}

func (IntentReady) event() {}
func (Submit) event()      {}
func (Returned) event()    {}
func (Reset) event()       {}

// StatusFetcher источник статуса для выхода из awaiting_action.
type StatusFetcher interface {
	FetchStatus(ctx context.Context, intentID string) (models.StatusReport, error)
}

// Option настраивает Orchestrator.
type Option func(*Orchestrator)

// WithCompletion регистрирует callback успешной оплаты. Вызывается ровно один раз на намерение.
func WithCompletion(fn func(Outcome)) Option {
	return func(o *Orchestrator) {
		o.onComplete = fn
	}
}

// Orchestrator доводит намерение до терминального состояния.
// Состояние confirming служит защёлкой: второй confirm отклоняется, а не ставится в очередь.
type Orchestrator struct {
	widget     Widget
	status     StatusFetcher
	cfg        Config
	log        *slog.Logger
	onComplete func(Outcome)

	mu         sync.Mutex
	state      State
	handle     models.IntentHandle
	generation uint64
	completed  bool
	listeners  []func(Transition)
}

// NewOrchestrator создаёт оркестратор. widget == nil означает, что виджет процессора не инициализирован.
func NewOrchestrator(widget Widget, status StatusFetcher, cfg Config, log *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		widget: widget,
		status: status,
		cfg:    cfg,
		log:    log,
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe добавляет слушателя смены состояний. Слушатели вызываются вне блокировки.
func (o *Orchestrator) Subscribe(fn func(Transition)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, fn)
}

// State текущее состояние.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Dispatch единственная точка входа автомата.
func (o *Orchestrator) Dispatch(ctx context.Context, ev Event) (Outcome, error) {
	switch ev := ev.(type) {
	case IntentReady:
		return o.load(ev.Handle)
	case Submit:
		return o.submit(ctx, nil, ev.Payment)
	case Returned:
		return o.resume(ctx)
	case Reset:
		return o.reset(), nil
	default:
		return Outcome{}, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}
}

// Confirm подтверждает handle данными виджета: загружает намерение, если оно новое, и отправляет Submit.
func (o *Orchestrator) Confirm(ctx context.Context, handle models.IntentHandle, payment WidgetState) (Outcome, error) {
	return o.submit(ctx, &handle, payment)
}

func (o *Orchestrator) load(handle models.IntentHandle) (Outcome, error) {
	o.mu.Lock()
	if o.state == StateConfirming {
		o.mu.Unlock()
		return Outcome{}, ErrConfirmInProgress
	}
	if handle.ClientSecret == "" {
		o.mu.Unlock()
		return Outcome{}, &NotReadyError{Reason: "no payment intent; create one first"}
	}
	if handle == o.handle && o.state != StateIdle {
		out := o.outcomeLocked()
		o.mu.Unlock()
		return out, nil
	}
	tr := o.loadLocked(handle)
	fns := o.listenersLocked()
	o.mu.Unlock()

	o.notify(fns, tr)
	return tr.Outcome, nil
}

func (o *Orchestrator) loadLocked(handle models.IntentHandle) Transition {
	o.generation++
	o.handle = handle
	o.completed = false
	return o.moveLocked(StateAwaitingInput, models.StatusRequiresPaymentMethod, "", "")
}

func (o *Orchestrator) submit(ctx context.Context, handle *models.IntentHandle, payment WidgetState) (Outcome, error) {
	const op = "checkout.Confirm"

	o.mu.Lock()
	if o.state == StateConfirming {
		o.mu.Unlock()
		return Outcome{}, ErrConfirmInProgress
	}
	if o.widget == nil {
		o.mu.Unlock()
		return Outcome{}, &NotReadyError{Reason: "payment widget is not initialised"}
	}

	var trs []Transition
	if handle != nil && *handle != o.handle {
		if handle.ClientSecret == "" {
			o.mu.Unlock()
			return Outcome{}, &NotReadyError{Reason: "no payment intent; create one first"}
		}
		trs = append(trs, o.loadLocked(*handle))
	}
	if o.handle.ClientSecret == "" {
		o.mu.Unlock()
		return Outcome{}, &NotReadyError{Reason: "no payment intent; create one first"}
	}
	if o.state != StateAwaitingInput {
		state := o.state
		o.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: submit in state %s", ErrInvalidTransition, state)
	}

	gen := o.generation
	secret := o.handle.ClientSecret
	trs = append(trs, o.moveLocked(StateConfirming, models.StatusRequiresConfirmation, "", ""))
	fns := o.listenersLocked()
	o.mu.Unlock()

	o.notify(fns, trs...)

	o.log.Debug("confirming payment", slog.String("op", op), slog.Any("handle", o.currentHandle()))
	res, err := o.widget.Confirm(ctx, secret, payment, o.cfg.ReturnURL)
	return o.finishConfirm(ctx, gen, res, err)
}

func (o *Orchestrator) finishConfirm(ctx context.Context, gen uint64, res WidgetResult, callErr error) (Outcome, error) {
	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		return Outcome{}, ErrSuperseded
	}

	var (
		tr     Transition
		retErr error
	)
	switch {
	case ctx.Err() != nil:
		// исход неизвестен: процессор мог успеть подтвердить, разрешит только сверка
		tr = o.moveLocked(StateAwaitingAction, models.StatusProcessing, "", "")
		retErr = ctx.Err()
	case callErr != nil:
		tr = o.moveLocked(StateFailed, models.StatusRequiresPaymentMethod, "", callErr.Error())
		retErr = &ConfirmError{Msg: callErr.Error(), Err: callErr}
	case res.ErrorMessage != "":
		status := res.Status
		if status == "" {
			status = models.StatusRequiresPaymentMethod
		}
		tr = o.moveLocked(StateFailed, status, "", res.ErrorMessage)
		retErr = &ConfirmError{Msg: res.ErrorMessage}
	default:
		tr, retErr = o.applyStatusLocked(res.Status, res.RedirectURL, "")
	}

	fire := o.claimCompletionLocked(tr.To)
	fns := o.listenersLocked()
	o.mu.Unlock()

	o.notify(fns, tr)
	if fire {
		o.onComplete(tr.Outcome)
	}
	return tr.Outcome, retErr
}

func (o *Orchestrator) resume(ctx context.Context) (Outcome, error) {
	o.mu.Lock()
	if o.state != StateAwaitingAction {
		state := o.state
		o.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: return in state %s", ErrInvalidTransition, state)
	}
	if o.status == nil {
		o.mu.Unlock()
		return Outcome{}, &NotReadyError{Reason: "status reconciler is not configured"}
	}
	gen := o.generation
	id := o.handle.ID
	o.mu.Unlock()

	report, err := o.status.FetchStatus(ctx, id)

	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		return Outcome{}, ErrSuperseded
	}
	if err != nil {
		out := o.outcomeLocked()
		o.mu.Unlock()
		return out, err
	}

	tr, retErr := o.applyStatusLocked(report.Status, "", report.LastError)
	fire := o.claimCompletionLocked(tr.To)
	fns := o.listenersLocked()
	o.mu.Unlock()

	o.notify(fns, tr)
	if fire {
		o.onComplete(tr.Outcome)
	}
	return tr.Outcome, retErr
}

func (o *Orchestrator) reset() Outcome {
	o.mu.Lock()
	o.generation++
	o.handle = models.IntentHandle{}
	o.completed = false
	tr := o.moveLocked(StateIdle, "", "", "")
	fns := o.listenersLocked()
	o.mu.Unlock()

	o.notify(fns, tr)
	return tr.Outcome
}

// applyStatusLocked переводит автомат по статусу процессора.
func (o *Orchestrator) applyStatusLocked(status models.IntentStatus, redirectURL, lastError string) (Transition, error) {
	switch {
	case status.IsSuccess():
		return o.moveLocked(StateSucceeded, status, "", ""), nil
	case status.IsFailure():
		msg := lastError
		if msg == "" {
			msg = "payment " + string(status)
		}
		return o.moveLocked(StateFailed, status, "", msg), &ConfirmError{Msg: msg}
	case status == models.StatusRequiresAction,
		status == models.StatusProcessing,
		status == models.StatusRequiresCapture:
		return o.moveLocked(StateAwaitingAction, status, redirectURL, ""), nil
	case lastError != "":
		return o.moveLocked(StateFailed, status, "", lastError), &ConfirmError{Msg: lastError}
	default:
		msg := fmt.Sprintf("payment not completed: %s", status)
		return o.moveLocked(StateFailed, status, "", msg), &ConfirmError{Msg: msg}
	}
}

func (o *Orchestrator) moveLocked(to State, status models.IntentStatus, redirectURL, msg string) Transition {
	from := o.state
	o.state = to
	return Transition{
		From: from,
		To:   to,
		Outcome: Outcome{
			State:       to,
			IntentID:    o.handle.ID,
			Status:      status,
			RedirectURL: redirectURL,
			Message:     msg,
		},
	}
}

// claimCompletionLocked true ровно один раз на намерение.
func (o *Orchestrator) claimCompletionLocked(to State) bool {
	if to != StateSucceeded || o.completed || o.onComplete == nil {
		return false
	}
	o.completed = true
	return true
}

func (o *Orchestrator) outcomeLocked() Outcome {
	return Outcome{State: o.state, IntentID: o.handle.ID}
}

func (o *Orchestrator) currentHandle() models.IntentHandle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.handle
}

func (o *Orchestrator) listenersLocked() []func(Transition) {
	fns := make([]func(Transition), len(o.listeners))
	copy(fns, o.listeners)
	return fns
}

func (o *Orchestrator) notify(fns []func(Transition), trs ...Transition) {
	for _, tr := range trs {
		for _, fn := range fns {
			fn(tr)
		}
	}
}
