package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dkeye/knxip/internal/core"
	"github.com/dkeye/knxip/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout matches the gateway response window used by KNXnet/IP clients.
const DefaultTimeout = time.Second

var (
	ErrNilFactory      = errors.New("nil frame factory")
	ErrTransactionUsed = errors.New("transaction already started")
)

// SendError reports that the request never left: the transport refused it.
type SendError struct {
	ServiceType domain.ServiceType
	Err         error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send %s: %v", e.ServiceType, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

type Outcome int32

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeFailure
	OutcomeTimedOut
	// outcomeAbandoned seals a transaction that returned without a terminal
	// result (send error, cancelled wait) so late callbacks stay no-ops.
	outcomeAbandoned
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeTimedOut:
		return "timed_out"
	case outcomeAbandoned:
		return "abandoned"
	}
	return fmt.Sprintf("outcome(%d)", int32(o))
}

// Result is the terminal classification of a transaction. Frame is set for
// Success and Failure, Status for Failure.
type Result struct {
	Outcome Outcome
	Frame   domain.Frame
	Status  domain.StatusCode
}

// Hooks customise what happens when a response is classified. They run on the
// receive path before the waiter is released, so they must not block.
type Hooks struct {
	OnSuccess func(domain.Frame)
	OnError   func(domain.StatusCode, domain.Frame)
}

// Deps are the collaborators shared by every transaction on one transport.
type Deps struct {
	Router    core.Router
	Sender    core.Sender
	Scheduler core.Scheduler
}

type Option func(*Transaction)

func WithTimeout(d time.Duration) Option {
	return func(t *Transaction) {
		if d > 0 {
			t.timeout = d
		}
	}
}

func WithSuccessHook(fn func(domain.Frame)) Option {
	return func(t *Transaction) { t.hooks.OnSuccess = fn }
}

func WithErrorHook(fn func(domain.StatusCode, domain.Frame)) Option {
	return func(t *Transaction) { t.hooks.OnError = fn }
}

// Transaction sends one request and waits for the response of one service
// type, or for the timeout, whichever claims completion first.
//
// KNXnet/IP responses carry no transaction id, so two transactions waiting
// for the same service type on one transport would both see either response.
// Callers must serialise requests that expect the same response type.
type Transaction struct {
	expected domain.ServiceType
	factory  core.FrameFactory
	deps     Deps
	timeout  time.Duration
	hooks    Hooks

	started atomic.Bool
	state   atomic.Int32 // holds an Outcome; leaving OutcomePending is the terminal claim
	result  Result       // written by the claim winner before done is closed
	done    chan struct{}
	logger  zerolog.Logger
}

func NewTransaction(deps Deps, expected domain.ServiceType, factory core.FrameFactory, opts ...Option) *Transaction {
	t := &Transaction{
		expected: expected,
		factory:  factory,
		deps:     deps,
		timeout:  DefaultTimeout,
		done:     make(chan struct{}),
		logger: log.With().
			Str("module", "app.txn").
			Stringer("expected", expected).
			Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.hooks.OnSuccess == nil {
		t.hooks.OnSuccess = func(domain.Frame) {}
	}
	if t.hooks.OnError == nil {
		t.hooks.OnError = t.logError
	}
	return t
}

// Run registers the response route, sends the request, arms the timeout and
// waits. Protocol failures and timeouts come back as a Result; only transport
// and build errors, or ctx cancellation, come back as an error. The route is
// unregistered and the timer cancelled on every return path.
func (t *Transaction) Run(ctx context.Context) (Result, error) {
	if t.factory == nil {
		return Result{}, ErrNilFactory
	}
	if !t.started.CompareAndSwap(false, true) {
		return Result{}, ErrTransactionUsed
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	defer t.claim(outcomeAbandoned)

	routeID := t.deps.Router.Register([]domain.ServiceType{t.expected}, t.onResponse)
	defer t.deps.Router.Unregister(routeID)

	req, err := t.factory.BuildRequest()
	if err != nil {
		return Result{}, fmt.Errorf("build request for %s: %w", t.expected, err)
	}
	if err := t.deps.Sender.Send(req); err != nil {
		t.logger.Error().Err(err).Stringer("request", req.ServiceType()).Msg("send failed")
		return Result{}, &SendError{ServiceType: req.ServiceType(), Err: err}
	}
	t.logger.Debug().Stringer("request", req.ServiceType()).Dur("timeout", t.timeout).Msg("request sent")

	timer := t.deps.Scheduler.Schedule(t.timeout, t.onTimeout)
	defer timer.Cancel()

	select {
	case <-t.done:
		return t.result, nil
	case <-ctx.Done():
		if t.claim(outcomeAbandoned) {
			t.logger.Debug().Err(ctx.Err()).Msg("wait abandoned")
			return Result{}, ctx.Err()
		}
		// A response or the timeout won the claim; it is about to publish.
		<-t.done
		return t.result, nil
	}
}

func (t *Transaction) claim(o Outcome) bool {
	return t.state.CompareAndSwap(int32(OutcomePending), int32(o))
}

func (t *Transaction) onResponse(f domain.Frame) {
	if f.ServiceType() != t.expected {
		t.logger.Warn().Stringer("got", f.ServiceType()).Msg("frame routed to wrong transaction, ignoring")
		return
	}

	status, _ := f.Status()
	outcome := OutcomeSuccess
	if !status.OK() {
		outcome = OutcomeFailure
	}
	if !t.claim(outcome) {
		t.logger.Debug().Stringer("status", status).Msg("late response ignored")
		return
	}
	defer close(t.done)

	t.result = Result{Outcome: outcome, Frame: f, Status: status}
	if outcome == OutcomeSuccess {
		t.hooks.OnSuccess(f)
		return
	}
	t.hooks.OnError(status, f)
}

func (t *Transaction) onTimeout() {
	if !t.claim(OutcomeTimedOut) {
		return
	}
	t.result = Result{Outcome: OutcomeTimedOut}
	t.logger.Debug().Dur("timeout", t.timeout).Msg("no response")
	close(t.done)
}

func (t *Transaction) logError(status domain.StatusCode, f domain.Frame) {
	t.logger.Warn().
		Stringer("service_type", f.ServiceType()).
		Stringer("status", status).
		Msg("gateway returned error status")
}
